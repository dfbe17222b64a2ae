package wall

import (
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// solveForZNumerator computes the per-segment part of the perspective
// correct depth solve.
func solveForZNumerator(seg *Segment) fixed.Fixed16 {
	if seg.Orient == OrientDzDx {
		return seg.Z0 - fixed.Mul16(seg.Slope, seg.X0View)
	}
	// OrientDxDz
	return seg.X0View - fixed.Mul16(seg.Slope, seg.Z0)
}

// solveForZ inverts the projection at screen column x to recover the
// viewspace depth of the wall at that pixel, and the viewspace dx from the
// left endpoint when the caller needs it for the U coordinate.
func (c *Core) solveForZ(seg *Segment, x int32, numerator fixed.Fixed16) (z, dxView fixed.Fixed16) {
	if seg.Orient == OrientDzDx {
		// Solve for viewspace x along the column ray first.
		den := c.rc.ColumnYOverX[x] - seg.Slope
		if den == 0 {
			// The adjacent pixel's depth hides the error.
			den = 1
		}
		xView := fixed.Div16(numerator, den)
		dxView = xView - seg.X0View
		// dz = dxView * (dz/dx), then z0 + dz.
		z = seg.Z0 + fixed.Mul16(dxView, seg.Slope)
		return z, dxView
	}

	// OrientDxDz solves for z directly.
	den := c.rc.ColumnXOverY[x] - seg.Slope
	if den == 0 {
		den = 1
	}
	z = fixed.Div16(numerator, den)
	return z, 0
}

// wallU computes the perspective correct texel U at the current column from
// the depth solve outputs.
func wallU(seg *Segment, z, dxView, uOffset fixed.Fixed16) fixed.Fixed16 {
	if seg.Orient == OrientDzDx {
		return seg.UCoord0 + fixed.Mul16(dxView, seg.UScale) + uOffset
	}
	return seg.UCoord0 + fixed.Mul16(z-seg.Z0, seg.UScale) + uOffset
}

// drawColumnFullbright walks the active column bottom up writing raw
// texels. Stepping the framebuffer offset by -width keeps the vertical walk
// to a single subtract per pixel.
func (c *Core) drawColumnFullbright() {
	vCoordFixed := c.vCoordFixed
	tex := c.texImage
	width := c.rc.Width
	display := c.rc.Display

	v := fixed.Floor16(vCoordFixed) & c.texHeightMask
	end := c.yPixelCount - 1

	offset := c.columnOut + end*width
	for i := end; i >= 0; i-- {
		texel := tex[v]
		vCoordFixed += c.vCoordStep
		v = fixed.Floor16(vCoordFixed) & c.texHeightMask
		display[offset] = texel
		offset -= width
	}
}

// drawColumnLit is drawColumnFullbright with the colormap row applied to
// every texel.
func (c *Core) drawColumnLit() {
	vCoordFixed := c.vCoordFixed
	tex := c.texImage
	width := c.rc.Width
	display := c.rc.Display
	columnLight := c.columnLight

	v := fixed.Floor16(vCoordFixed) & c.texHeightMask
	end := c.yPixelCount - 1

	offset := c.columnOut + end*width
	for i := end; i >= 0; i-- {
		texel := columnLight[tex[v]]
		vCoordFixed += c.vCoordStep
		v = fixed.Floor16(vCoordFixed) & c.texHeightMask
		display[offset] = texel
		offset -= width
	}
}
