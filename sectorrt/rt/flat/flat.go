// Package flat rasterizes sector floors and ceilings. The wall core hands it
// sub-pixel accurate edge slivers via AddEdges; after a sector's walls are
// drawn, DrawFloor and DrawCeiling fill the regions those edges and the
// per-column envelopes expose.
package flat

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/core"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
	"github.com/gekko3d/retro/sectorrt/rt/light"
)

// MaxSegFlat bounds the per-sector edge list.
const MaxSegFlat = 384

// Edge is one wall's contribution to the floor and ceiling envelopes: the
// starting column, the span length and the two screen space edge lines in
// fixed point.
type Edge struct {
	Length int32
	X0     int32

	DyDxFloor fixed.Fixed16
	YFloor    fixed.Fixed16
	DyDxCeil  fixed.Fixed16
	YCeil     fixed.Fixed16
}

// Context accumulates edges for the sector currently being drawn.
type Context struct {
	rc    *core.RenderContext
	edges [MaxSegFlat]Edge
	count int32
}

func NewContext(rc *core.RenderContext) *Context {
	return &Context{rc: rc}
}

// BeginSector drops the accumulated edges of the previous sector.
func (fc *Context) BeginSector() {
	fc.count = 0
}

// AddEdges records the floor and ceiling edge lines for a wall span. Called
// by the wall rasterizers once per drawn segment.
func (fc *Context) AddEdges(length, x0 int32, dyDxFloor, yFloor, dyDxCeil, yCeil fixed.Fixed16) {
	if fc.count == MaxSegFlat {
		fc.rc.Log.Errorf("Flat_AddEdges : Maximum flat edges exceeded!")
		return
	}
	fc.edges[fc.count] = Edge{
		Length:    length,
		X0:        x0,
		DyDxFloor: dyDxFloor,
		YFloor:    yFloor,
		DyDxCeil:  dyDxCeil,
		YCeil:     yCeil,
	}
	fc.count++
}

// EdgeCount returns the number of edges accumulated for the current sector.
func (fc *Context) EdgeCount() int32 { return fc.count }

// Edges exposes the accumulated edges. Read only; used by tests and the
// sector driver.
func (fc *Context) Edges() []Edge { return fc.edges[:fc.count] }

// DrawFloor fills the floor sliver below each accumulated edge with the
// sector's floor texture, perspective correct per screen row.
func (fc *Context) DrawFloor(sector *asset.Sector, lt *light.Lighting) {
	rc := fc.rc
	// Eye relative height in screen orientation: positive below the eye.
	heightRel := rc.EyeHeight - sector.FloorHeight
	if heightRel <= 0 {
		// Floor at or above the eye is never visible.
		return
	}
	for e := int32(0); e < fc.count; e++ {
		edge := &fc.edges[e]
		y := edge.YFloor
		for i, x := int32(0), edge.X0; i < edge.Length; i, x, y = i+1, x+1, y+edge.DyDxFloor {
			if x < rc.WindowMinX || x > rc.WindowMaxX {
				continue
			}
			y0 := fixed.Round16(y) + 1
			y1 := rc.WindowBot[x]
			if y0 < rc.WindowTop[x] {
				y0 = rc.WindowTop[x]
			}
			fc.drawSpanColumn(lt, x, y0, y1, heightRel, sector.FloorTex)
		}
	}
}

// DrawCeiling is the mirror of DrawFloor for the region above each edge.
func (fc *Context) DrawCeiling(sector *asset.Sector, lt *light.Lighting) {
	rc := fc.rc
	heightRel := rc.EyeHeight - sector.CeilingHeight
	if heightRel >= 0 {
		// Ceiling at or below the eye is never visible.
		return
	}
	for e := int32(0); e < fc.count; e++ {
		edge := &fc.edges[e]
		y := edge.YCeil
		for i, x := int32(0), edge.X0; i < edge.Length; i, x, y = i+1, x+1, y+edge.DyDxCeil {
			if x < rc.WindowMinX || x > rc.WindowMaxX {
				continue
			}
			y1 := fixed.Round16(y) - 1
			y0 := rc.WindowTop[x]
			if y1 > rc.WindowBot[x] {
				y1 = rc.WindowBot[x]
			}
			fc.drawSpanColumn(lt, x, y0, y1, heightRel, sector.CeilTex)
		}
	}
}

// drawSpanColumn textures one column of a horizontal plane between rows y0
// and y1 inclusive. Depth comes from the row centre: z =
// heightRel*focalLenAspect / (y + 1/2 - halfHeight).
func (fc *Context) drawSpanColumn(lt *light.Lighting, x, y0, y1 int32, heightRel fixed.Fixed16, tex *asset.TextureFrame) {
	rc := fc.rc
	if y0 < 0 {
		y0 = 0
	}
	if y1 > rc.MaxScreenY {
		y1 = rc.MaxScreenY
	}
	if y0 > y1 || tex == nil {
		return
	}

	widthMask := int32(tex.Width) - 1
	heightMask := int32(tex.Height) - 1
	num := fixed.Mul16(heightRel, rc.FocalLenAspect)
	xFactor := rc.ColumnXOverY[x]

	offset := y0*rc.Width + x
	for y := y0; y <= y1; y, offset = y+1, offset+rc.Width {
		den := fixed.IntToFixed16(y) - rc.HalfHeight + fixed.Half16
		if den == 0 {
			den = 1
		}
		z := fixed.Div16(num, den)
		if z < 0 {
			continue
		}

		// Reconstruct the world plane position from the row depth and the
		// column ray, then rotate back to world axes for the texture fetch.
		xView := fixed.Mul16(z, xFactor)
		wx := fixed.Mul16(xView, rc.CosYaw) + fixed.Mul16(z, rc.SinYaw) + rc.CameraX
		wz := -fixed.Mul16(xView, rc.SinYaw) + fixed.Mul16(z, rc.CosYaw) + rc.CameraZ

		u := (fixed.Floor16(wx*8) & widthMask)
		v := (fixed.Floor16(wz*8) & heightMask)
		texel := tex.Image[u<<tex.LogSizeY+v]

		if row := lt.ComputeLighting(z, 0); row != nil {
			texel = row[texel]
		}
		rc.Display[offset] = texel
	}
}
