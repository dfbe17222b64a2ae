// Package wall implements the classic wall pipeline: viewspace clipping and
// projection of wall segments, the merge/sort pass that resolves occlusion
// between segments sharing screen columns, and the perspective correct
// column rasterizers for the solid, step and masked wall roles.
package wall

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/core"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
	"github.com/gekko3d/retro/sectorrt/rt/flat"
	"github.com/gekko3d/retro/sectorrt/rt/light"
)

const (
	// MaxSeg bounds the processed wall segments per frame.
	MaxSeg = 256
	// MaxSplitWalls bounds the segments synthesized during merge sort.
	MaxSplitWalls = 40
)

// Slope orientation of a segment: which ratio is stored so |slope| <= 1.
const (
	OrientDzDx = iota
	OrientDxDz
)

// Segment side classification during the merge pass.
const (
	sideFront = 0xffff
	sideBack  = 0
)

// Segment is the clipped, projected per-frame view of a wall.
type Segment struct {
	SrcWall *asset.Wall

	// Viewspace z at the clipped endpoints, >= one after the near clip.
	Z0 fixed.Fixed16
	Z1 fixed.Fixed16

	// Texel U at the left endpoint after clipping, and dU per unit of the
	// slope denominator.
	UCoord0 fixed.Fixed16
	UScale  fixed.Fixed16

	// Unclamped projected screen x, the reference frame for interpolation
	// across the wall.
	WallX0Raw int32
	WallX1Raw int32

	// Screen span clamped to the window.
	WallX0 int32
	WallX1 int32

	// Viewspace x at the left endpoint.
	X0View fixed.Fixed16

	Slope  fixed.Fixed16
	Orient int32
}

// Core runs the wall pipeline for one frame. It owns the processed segment
// arena and the transient column state shared by the draw routines.
type Core struct {
	rc *core.RenderContext
	fc *flat.Context
	lt *light.Lighting

	nextWall   int32
	segListSrc [MaxSeg]Segment

	// MaxWallCount caps the source segments a single merge pass consumes.
	MaxWallCount int32

	// Inner loop state for the active column.
	texHeightMask int32
	yPixelCount   int32
	vCoordStep    fixed.Fixed16
	vCoordFixed   fixed.Fixed16
	columnLight   []uint8
	texImage      []uint8
	columnOut     int32
}

func NewCore(rc *core.RenderContext, fc *flat.Context, lt *light.Lighting) *Core {
	return &Core{rc: rc, fc: fc, lt: lt, MaxWallCount: MaxSeg}
}

// BeginFrame resets the processed segment arena.
func (c *Core) BeginFrame() {
	c.nextWall = 0
}

// ProcessedCount returns how many segments Process has emitted this frame.
func (c *Core) ProcessedCount() int32 { return c.nextWall }

// Processed returns the processed segment at index i. The pointer stays
// valid for the rest of the frame.
func (c *Core) Processed(i int32) *Segment { return &c.segListSrc[i] }
