package asset

import (
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// Vec2 is a fixed point point on the floor plan, world or viewspace.
type Vec2 struct {
	X fixed.Fixed16
	Z fixed.Fixed16
}

// Wall flags, matching the original level format.
const (
	WF1AdjMidTex   = 1 << 0
	WF1IllumSign   = 1 << 1
	WF1FlipHoriz   = 1 << 2
	WF1ChangeLight = 1 << 3
)

// Sector flags, matching the original level format.
const (
	SecFlags1Exterior    = 1 << 0
	SecFlags1Door        = 1 << 1
	SecFlags1ExtAdj      = 1 << 3
	SecFlags1Pit         = 1 << 7
	SecFlags1ExtFloorAdj = 1 << 8
)

// Wall is one edge of a sector polygon. Walls are immutable for the duration
// of a frame apart from the Visible and DrawFlags scratch fields, which the
// renderer rewrites every frame.
type Wall struct {
	Sector     *Sector
	NextSector *Sector // portal target, nil for solid walls

	// Viewspace endpoints. These point into the owning sector's ViewVtx
	// scratch array and are rewritten when the sector is transformed.
	V0 *Vec2
	V1 *Vec2

	// Indices of the endpoints in the sector vertex arrays.
	I0 int32
	I1 int32

	MidTex  *TextureFrame
	TopTex  *TextureFrame
	BotTex  *TextureFrame
	SignTex *TextureFrame

	MidTexelHeight fixed.Fixed16
	TopTexelHeight fixed.Fixed16
	BotTexelHeight fixed.Fixed16

	MidUOffset fixed.Fixed16
	MidVOffset fixed.Fixed16
	TopUOffset fixed.Fixed16
	TopVOffset fixed.Fixed16
	BotUOffset fixed.Fixed16
	BotVOffset fixed.Fixed16

	// Total length of the wall in texels, fixed point.
	TexelLength fixed.Fixed16

	WallLight int32
	Flags1    uint32

	// Per-frame scratch.
	Visible   int32
	DrawFlags int32
}

// Sector is a closed region of the floor plan extruded between its floor and
// ceiling heights.
type Sector struct {
	ID            int32
	FloorHeight   fixed.Fixed16
	CeilingHeight fixed.Fixed16
	AmbientLight  int32
	Flags1        uint32

	FloorTex *TextureFrame
	CeilTex  *TextureFrame

	Walls []Wall

	// World space vertices and their per-frame viewspace copies.
	WorldVtx []Vec2
	ViewVtx  []Vec2
}

// Link wires wall endpoint pointers into the viewspace vertex array. Must be
// called once after the vertex and wall slices are in their final location.
func (s *Sector) Link() {
	for i := range s.Walls {
		w := &s.Walls[i]
		w.Sector = s
		w.V0 = &s.ViewVtx[w.I0]
		w.V1 = &s.ViewVtx[w.I1]
	}
}

// Level owns the sectors of one map.
type Level struct {
	Name    string
	Sectors []*Sector
}
