// Package retro is a software renderer for 2.5D sector worlds: a planar
// floor plan extruded between per sector floor and ceiling heights, drawn
// front to back through portals into a paletted framebuffer. All rendering
// math is integer fixed point so frames are bit identical across platforms.
package retro

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/core"
	"github.com/gekko3d/retro/sectorrt/rt/flat"
	"github.com/gekko3d/retro/sectorrt/rt/light"
	"github.com/gekko3d/retro/sectorrt/rt/wall"
)

// MaxAdjoinDepth bounds the portal recursion per frame.
const MaxAdjoinDepth = 40

// Wall draw roles, selected per wall from its portal relation.
type drawRole int32

const (
	roleSolid drawRole = iota
	roleMask
	roleBottom
	roleTop
	roleTopAndBottom
)

// Renderer drives the per frame sector flood fill: transform a sector's
// walls to viewspace, process and merge sort them, draw them, draw the
// sector's flats, then descend through each portal with a narrowed window.
type Renderer struct {
	log Logger

	Ctx    *core.RenderContext
	Flats  *flat.Context
	Lights *light.Lighting
	Walls  *wall.Core

	// Per recursion depth output arenas for merge sorted segments.
	segPool [MaxAdjoinDepth][]wall.Segment
}

func NewRenderer(width, height int32, log Logger) *Renderer {
	if log == nil {
		log = NewDefaultLogger("ClassicRenderer", false)
	}
	rc := core.NewRenderContext(width, height, log)
	fc := flat.NewContext(rc)
	lt := light.NewLighting(nil)
	r := &Renderer{
		log:    log,
		Ctx:    rc,
		Flats:  fc,
		Lights: lt,
		Walls:  wall.NewCore(rc, fc, lt),
	}
	for i := range r.segPool {
		r.segPool[i] = make([]wall.Segment, wall.MaxSeg)
	}
	return r
}

// SetColorMap installs the lighting colormap; nil renders fullbright.
func (r *Renderer) SetColorMap(cmap *asset.ColorMap) {
	r.Lights.ColorMap = cmap
}

// ChangeResolution resizes the framebuffer and every per column array.
func (r *Renderer) ChangeResolution(width, height int32) {
	r.Ctx.ChangeResolution(width, height)
}

// DrawFrame renders one frame from the camera located in startSector.
func (r *Renderer) DrawFrame(cam *core.Camera, startSector *asset.Sector) {
	r.Ctx.BeginFrame()
	r.Ctx.FixCamera(cam)
	r.Walls.BeginFrame()
	r.drawSector(startSector, 0)
}

func (r *Renderer) drawSector(sector *asset.Sector, depth int32) {
	rc := r.Ctx
	rc.TransformSector(sector)
	r.Lights.EnterSector(sector.AmbientLight)
	r.Flats.BeginSector()

	start := r.Walls.ProcessedCount()
	for i := range sector.Walls {
		r.Walls.Process(&sector.Walls[i])
	}
	count := r.Walls.ProcessedCount() - start

	out := r.segPool[depth]
	n := r.Walls.MergeSort(out, int32(len(out)), start, count)

	// Wall pass, in merge sort insertion order.
	for i := int32(0); i < n; i++ {
		seg := &out[i]
		switch classifyWall(seg.SrcWall) {
		case roleSolid:
			r.Walls.DrawSolid(seg)
		case roleMask:
			r.Walls.DrawMask(seg)
		case roleBottom:
			r.Walls.DrawBottom(seg)
		case roleTop:
			r.Walls.DrawTop(seg)
		case roleTopAndBottom:
			r.Walls.DrawTopAndBottom(seg)
		}
	}

	// Flats read the envelopes the wall pass left behind.
	r.Flats.DrawCeiling(sector, r.Lights)
	r.Flats.DrawFloor(sector, r.Lights)

	// Portal recursion. The portal draws recorded each opening in the
	// PortalTop/PortalBot envelopes; fold them into the window and descend.
	if depth+1 >= MaxAdjoinDepth {
		return
	}
	for i := int32(0); i < n; i++ {
		seg := &out[i]
		if seg.SrcWall.NextSector == nil || classifyWall(seg.SrcWall) == roleSolid {
			continue
		}
		r.descendPortal(seg, depth)
	}
}

// descendPortal narrows the rendering window to a portal segment's opening,
// draws the adjoined sector and restores the window.
func (r *Renderer) descendPortal(seg *wall.Segment, depth int32) {
	rc := r.Ctx
	x0 := seg.WallX0
	x1 := seg.WallX1
	span := x1 - x0 + 1

	savedTop := make([]int32, span)
	savedBot := make([]int32, span)
	open := false
	winMinY := rc.MaxScreenY + 1
	winMaxY := rc.MinScreenY - 1
	for x := x0; x <= x1; x++ {
		savedTop[x-x0] = rc.WindowTop[x]
		savedBot[x-x0] = rc.WindowBot[x]
		if rc.PortalTop[x] > rc.WindowTop[x] {
			rc.WindowTop[x] = rc.PortalTop[x]
		}
		if rc.PortalBot[x] < rc.WindowBot[x] {
			rc.WindowBot[x] = rc.PortalBot[x]
		}
		if rc.WindowTop[x] <= rc.WindowBot[x] {
			open = true
			winMinY = min(winMinY, rc.WindowTop[x])
			winMaxY = max(winMaxY, rc.WindowBot[x])
		}
	}

	if open {
		savedMinX, savedMaxX := rc.WindowMinX, rc.WindowMaxX
		savedMinY, savedMaxY := rc.WindowMinY, rc.WindowMaxY
		savedMinSegZ := rc.MinSegZ

		rc.WindowMinX = x0
		rc.WindowMaxX = x1
		rc.WindowMinY = winMinY
		rc.WindowMaxY = winMaxY
		rc.MinSegZ = min(seg.Z0, seg.Z1)

		r.drawSector(seg.SrcWall.NextSector, depth+1)

		rc.WindowMinX, rc.WindowMaxX = savedMinX, savedMaxX
		rc.WindowMinY, rc.WindowMaxY = savedMinY, savedMaxY
		rc.MinSegZ = savedMinSegZ
	}

	copy(rc.WindowTop[x0:x1+1], savedTop)
	copy(rc.WindowBot[x0:x1+1], savedBot)
}

// classifyWall picks the draw role from the portal relation: a step is
// needed wherever the neighbour is shorter, except across matching sky or
// pit boundaries where the opening runs to the screen edge instead.
func classifyWall(w *asset.Wall) drawRole {
	next := w.NextSector
	if next == nil {
		return roleSolid
	}
	sec := w.Sector

	bothSky := sec.Flags1&asset.SecFlags1Exterior != 0 && next.Flags1&asset.SecFlags1Exterior != 0
	bothPit := sec.Flags1&asset.SecFlags1Pit != 0 && next.Flags1&asset.SecFlags1Pit != 0

	hasTop := next.CeilingHeight < sec.CeilingHeight && !bothSky
	hasBot := next.FloorHeight > sec.FloorHeight && !bothPit

	switch {
	case hasTop && hasBot:
		return roleTopAndBottom
	case hasTop:
		return roleTop
	case hasBot:
		return roleBottom
	default:
		return roleMask
	}
}
