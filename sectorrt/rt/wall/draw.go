package wall

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// projectY projects a world height onto the screen at depth z. World Y is
// up, screen y grows down, so the eye relative height is negated by the
// subtraction order.
func (c *Core) projectY(height, z fixed.Fixed16) fixed.Fixed16 {
	rc := c.rc
	return fixed.Div16(fixed.Mul16(rc.EyeHeight-height, rc.FocalLenAspect), z) + rc.HalfHeight
}

// DrawSolid rasterizes a full height wall with its mid texture and writes
// the floor and ceiling envelopes for the whole span.
func (c *Core) DrawSolid(seg *Segment) {
	rc := c.rc
	srcWall := seg.SrcWall
	sector := srcWall.Sector
	texture := srcWall.MidTex

	z0 := seg.Z0
	z1 := seg.Z1

	y0C := c.projectY(sector.CeilingHeight, z0)
	y0F := c.projectY(sector.FloorHeight, z0)
	y1C := c.projectY(sector.CeilingHeight, z1)
	y1F := c.projectY(sector.FloorHeight, z1)

	y0CPixel := fixed.Round16(y0C)
	y1CPixel := fixed.Round16(y1C)

	x := seg.WallX0
	length := seg.WallX1 - seg.WallX0 + 1
	numerator := solveForZNumerator(seg)

	// The whole wall sits below the window: only depth and the ceiling
	// envelope need to be written.
	if y0CPixel > rc.WindowMaxY && y1CPixel > rc.WindowMaxY {
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, numerator)
			rc.ColumnTop[x] = rc.WindowMaxY
		}
		srcWall.Visible = 0
		return
	}

	if texture != nil {
		c.texHeightMask = int32(texture.Height) - 1
	} else {
		c.texHeightMask = 0
	}

	wallDeltaX := fixed.IntToFixed16(seg.WallX1Raw - seg.WallX0Raw)
	var dYdXtop, dYdXbot fixed.Fixed16
	if wallDeltaX != 0 {
		dYdXtop = fixed.Div16(y1C-y0C, wallDeltaX)
		dYdXbot = fixed.Div16(y1F-y0F, wallDeltaX)
	}

	// Re-anchor the edge lines if the left end was clamped to the window.
	clippedXDelta := fixed.IntToFixed16(seg.WallX0 - seg.WallX0Raw)
	if clippedXDelta != 0 {
		y0C += fixed.Mul16(dYdXtop, clippedXDelta)
		y0F += fixed.Mul16(dYdXbot, clippedXDelta)
	}
	c.fc.AddEdges(length, seg.WallX0, dYdXbot, y0F, dYdXtop, y0C)

	texWidth := int32(0)
	if texture != nil {
		texWidth = int32(texture.Width)
	}
	flipHorz := srcWall.Flags1&asset.WF1FlipHoriz != 0

	for i := int32(0); i < length; i, x = i+1, x+1 {
		top := fixed.Round16(y0C)
		bot := fixed.Round16(y0F)
		rc.ColumnBot[x] = bot + 1
		rc.ColumnTop[x] = top - 1

		if top < rc.WindowTop[x] {
			top = rc.WindowTop[x]
		}
		if bot > rc.WindowBot[x] {
			bot = rc.WindowBot[x]
		}
		c.yPixelCount = bot - top + 1

		z, dxView := c.solveForZ(seg, x, numerator)
		rc.Depth1D[x] = z

		uCoord := wallU(seg, z, dxView, srcWall.MidUOffset)

		if c.yPixelCount > 0 && texture != nil {
			// Texture wrapping assumes texWidth is a power of two.
			texelU := fixed.Floor16(uCoord) & (texWidth - 1)
			if flipHorz {
				texelU = texWidth - texelU - 1
			}

			// Vertical texture coordinate start and step. The step is texels
			// per pixel over the full wall height.
			wallHeightPixels := y0F - y0C + fixed.One16
			wallHeightTexels := srcWall.MidTexelHeight
			c.vCoordStep = fixed.Div16(wallHeightTexels, wallHeightPixels)

			// Sub-texel offset between the fixed point floor edge and the
			// bottom pixel centre.
			vPixelOffset := y0F - fixed.IntToFixed16(bot) + fixed.Half16
			v0 := fixed.Mul16(c.vCoordStep, vPixelOffset)
			c.vCoordFixed = v0 + srcWall.MidVOffset

			c.texImage = texture.Column(texelU)
			c.columnLight = c.lt.ComputeLighting(z, srcWall.WallLight)
			c.columnOut = top*rc.Width + x

			if c.columnLight != nil {
				c.drawColumnLit()
			} else {
				c.drawColumnFullbright()
			}
		}

		y0C += dYdXtop
		y0F += dYdXbot
	}
}

// DrawMask handles a full height portal with no visible step texture: it
// writes depth and the flat envelopes, records the portal opening and draws
// nothing.
func (c *Core) DrawMask(seg *Segment) {
	rc := c.rc
	srcWall := seg.SrcWall
	sector := srcWall.Sector
	nextSector := srcWall.NextSector

	z0 := seg.Z0
	z1 := seg.Z1
	flags1 := sector.Flags1
	nextFlags1 := nextSector.Flags1

	// Sky ceilings project to the top of the window regardless of geometry.
	var cProj0, cProj1 fixed.Fixed16
	if flags1&asset.SecFlags1Exterior != 0 && nextFlags1&asset.SecFlags1ExtAdj != 0 {
		cProj0 = fixed.IntToFixed16(rc.WindowMinY)
		cProj1 = cProj0
	} else {
		cProj0 = c.projectY(sector.CeilingHeight, z0)
		cProj1 = c.projectY(sector.CeilingHeight, z1)
	}

	c0pixel := fixed.Round16(cProj0)
	c1pixel := fixed.Round16(cProj1)
	if c0pixel > rc.WindowMaxY && c1pixel > rc.WindowMaxY {
		// The whole opening is below the window.
		x := seg.WallX0
		length := seg.WallX1 - seg.WallX0 + 1
		c.fc.AddEdges(length, x, 0, fixed.IntToFixed16(rc.WindowMaxY+1), 0, fixed.IntToFixed16(rc.WindowMaxY+1))
		numerator := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, numerator)
			rc.PortalTop[x] = rc.WindowMaxY + 1
			rc.PortalBot[x] = rc.WindowMaxY
		}

		srcWall.Visible = 0
		srcWall.DrawFlags = -1
		return
	}

	// Pit floors project to the bottom of the window.
	var fProj0, fProj1 fixed.Fixed16
	if flags1&asset.SecFlags1Pit != 0 && nextFlags1&asset.SecFlags1ExtFloorAdj != 0 {
		fProj0 = fixed.IntToFixed16(rc.WindowMaxY)
		fProj1 = fProj0
	} else {
		fProj0 = c.projectY(sector.FloorHeight, z0)
		fProj1 = c.projectY(sector.FloorHeight, z1)
	}

	f0pixel := fixed.Round16(fProj0)
	f1pixel := fixed.Round16(fProj1)
	if f0pixel < rc.WindowMinY && f1pixel < rc.WindowMinY {
		// The whole opening is above the window.
		x := seg.WallX0
		length := seg.WallX1 - seg.WallX0 + 1
		c.fc.AddEdges(length, x, 0, fixed.IntToFixed16(rc.WindowMinY-1), 0, fixed.IntToFixed16(rc.WindowMinY-1))

		numerator := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, numerator)
			rc.ColumnBot[x] = rc.WindowMinY
			rc.PortalTop[x] = rc.WindowMinY
			rc.PortalBot[x] = rc.WindowMinY - 1
		}
		srcWall.Visible = 0
		srcWall.DrawFlags = -1
		return
	}

	xStartOffset := fixed.IntToFixed16(seg.WallX0 - seg.WallX0Raw)
	length := seg.WallX1 - seg.WallX0 + 1

	numerator := solveForZNumerator(seg)
	lengthRaw := fixed.IntToFixed16(seg.WallX1Raw - seg.WallX0Raw)
	var dydxCeil, dydxFloor fixed.Fixed16
	if lengthRaw != 0 {
		dydxCeil = fixed.Div16(cProj1-cProj0, lengthRaw)
		dydxFloor = fixed.Div16(fProj1-fProj0, lengthRaw)
	}
	y0 := cProj0
	y1 := fProj0
	x := seg.WallX0
	if xStartOffset != 0 {
		y0 = fixed.Mul16(dydxCeil, xStartOffset) + cProj0
		y1 = fixed.Mul16(dydxFloor, xStartOffset) + fProj0
	}

	c.fc.AddEdges(length, x, dydxFloor, y1, dydxCeil, y0)
	for i := int32(0); i < length; i, x = i+1, x+1 {
		y0Pixel := fixed.Round16(y0)
		y1Pixel := fixed.Round16(y1)
		rc.ColumnTop[x] = y0Pixel - 1
		rc.ColumnBot[x] = y1Pixel + 1
		rc.PortalTop[x] = y0Pixel
		rc.PortalBot[x] = y1Pixel

		rc.Depth1D[x], _ = c.solveForZ(seg, x, numerator)
		y0 += dydxCeil
		y1 += dydxFloor
	}

	srcWall.DrawFlags = -1
}
