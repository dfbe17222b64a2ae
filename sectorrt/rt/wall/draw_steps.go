package wall

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// DrawBottom rasterizes the lower step of a portal whose neighbour floor is
// above this sector's floor. The textured sliver runs from the neighbour
// floor edge down to this sector's floor edge; everything above it is the
// portal opening.
func (c *Core) DrawBottom(seg *Segment) {
	rc := c.rc
	srcWall := seg.SrcWall
	sector := srcWall.Sector
	nextSector := srcWall.NextSector
	tex := srcWall.BotTex
	if tex == nil {
		c.DrawMask(seg)
		return
	}

	z0 := seg.Z0
	z1 := seg.Z1

	var cProj0, cProj1 fixed.Fixed16
	if sector.Flags1&asset.SecFlags1Exterior != 0 && nextSector.Flags1&asset.SecFlags1ExtAdj != 0 {
		cProj1 = fixed.IntToFixed16(rc.WindowMinY)
		cProj0 = cProj1
	} else {
		cProj0 = c.projectY(sector.CeilingHeight, z0)
		cProj1 = c.projectY(sector.CeilingHeight, z1)
	}

	cy0 := fixed.Round16(cProj0)
	cy1 := fixed.Round16(cProj1)
	if cy0 > rc.WindowMaxY && cy1 >= rc.WindowMaxY {
		// The wall is below the window.
		srcWall.Visible = 0
		x := seg.WallX0
		length := seg.WallX1 - x + 1

		c.fc.AddEdges(length, x, 0, fixed.IntToFixed16(rc.WindowMaxY+1), 0, fixed.IntToFixed16(rc.WindowMaxY+1))

		num := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, num)
			rc.ColumnTop[x] = rc.WindowMaxY
			rc.PortalTop[x] = rc.WindowMaxY + 1
			rc.PortalBot[x] = rc.WindowMaxY
		}
		return
	}

	fProj0 := c.projectY(sector.FloorHeight, z0)
	fProj1 := c.projectY(sector.FloorHeight, z1)
	fy0 := fixed.Round16(fProj0)
	fy1 := fixed.Round16(fProj1)
	if fy0 < rc.WindowMinY && fy1 < rc.WindowMinY {
		// The wall is above the window.
		srcWall.Visible = 0
		x := seg.WallX0
		length := seg.WallX1 - x + 1

		c.fc.AddEdges(length, x, 0, fixed.IntToFixed16(rc.WindowMinY-1), 0, fixed.IntToFixed16(rc.WindowMinY-1))

		num := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, num)
			rc.ColumnBot[x] = rc.WindowMinY
			rc.PortalTop[x] = rc.WindowMinY
			rc.PortalBot[x] = rc.WindowMinY - 1
		}
		return
	}

	fNextProj0 := c.projectY(nextSector.FloorHeight, z0)
	fNextProj1 := c.projectY(nextSector.FloorHeight, z1)
	xOffset := seg.WallX0 - seg.WallX0Raw
	length := seg.WallX1 - seg.WallX0 + 1
	lengthRawFixed := fixed.IntToFixed16(seg.WallX1Raw - seg.WallX0Raw)
	xOffsetFixed := fixed.IntToFixed16(xOffset)

	var floorNextDyDx, floorDyDx, ceilDyDx fixed.Fixed16
	if lengthRawFixed != 0 {
		floorNextDyDx = fixed.Div16(fNextProj1-fNextProj0, lengthRawFixed)
		floorDyDx = fixed.Div16(fProj1-fProj0, lengthRawFixed)
		ceilDyDx = fixed.Div16(cProj1-cProj0, lengthRawFixed)
	}
	if xOffsetFixed != 0 {
		fNextProj0 += fixed.Mul16(floorNextDyDx, xOffsetFixed)
		fProj0 += fixed.Mul16(floorDyDx, xOffsetFixed)
		cProj0 += fixed.Mul16(ceilDyDx, xOffsetFixed)
	}

	yTop := fNextProj0
	yC := cProj0
	yBot := fProj0
	x := seg.WallX0
	c.fc.AddEdges(length, seg.WallX0, floorDyDx, fProj0, ceilDyDx, cProj0)

	yTop0 := fixed.Round16(fNextProj0)
	yTop1 := fixed.Round16(fNextProj1)
	if yTop0 > rc.WindowMaxY && yTop1 > rc.WindowMaxY {
		// The step is entirely below the window; the visible span is all
		// portal opening.
		num := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			yCPixel := min(fixed.Round16(yC), rc.WindowBot[x])
			rc.ColumnTop[x] = yCPixel - 1
			rc.ColumnBot[x] = rc.WindowMaxY + 1
			rc.PortalTop[x] = yCPixel
			rc.PortalBot[x] = rc.WindowMaxY
			rc.Depth1D[x], _ = c.solveForZ(seg, x, num)
			yC += ceilDyDx
		}
		return
	}

	num := solveForZNumerator(seg)
	c.texHeightMask = int32(tex.Height) - 1
	flipHorz := srcWall.Flags1&asset.WF1FlipHoriz != 0

	for i := int32(0); i < length; i, x = i+1, x+1 {
		yTopPixel := fixed.Round16(yTop)
		yCPixel := fixed.Round16(yC)
		yBotPixel := fixed.Round16(yBot)

		rc.ColumnTop[x] = yCPixel - 1
		rc.ColumnBot[x] = yBotPixel + 1
		rc.PortalTop[x] = yCPixel
		rc.PortalBot[x] = yTopPixel - 1

		if yTopPixel < rc.WindowTop[x] {
			yTopPixel = rc.WindowTop[x]
		}
		if yBotPixel > rc.WindowBot[x] {
			yBotPixel = rc.WindowBot[x]
		}
		c.yPixelCount = yBotPixel - yTopPixel + 1

		z, dxView := c.solveForZ(seg, x, num)
		u := wallU(seg, z, dxView, srcWall.BotUOffset)
		rc.Depth1D[x] = z

		if c.yPixelCount > 0 {
			widthMask := int32(tex.Width) - 1
			texelU := fixed.Floor16(u) & widthMask
			if flipHorz {
				texelU = widthMask - texelU
			}

			c.vCoordStep = fixed.Div16(srcWall.BotTexelHeight, yBot-yTop+fixed.One16)
			v0 := fixed.Mul16(yBot-fixed.IntToFixed16(yBotPixel)+fixed.Half16, c.vCoordStep)
			c.vCoordFixed = v0 + srcWall.BotVOffset
			c.texImage = tex.Column(texelU)
			c.columnOut = yTopPixel*rc.Width + x
			c.columnLight = c.lt.ComputeLighting(z, srcWall.WallLight)
			if c.columnLight != nil {
				c.drawColumnLit()
			} else {
				c.drawColumnFullbright()
			}
		}
		yTop += floorNextDyDx
		yBot += floorDyDx
		yC += ceilDyDx
	}
}

// DrawTop rasterizes the upper step of a portal whose neighbour ceiling is
// below this sector's ceiling: the mirror of DrawBottom. The sliver runs
// from this sector's ceiling edge down to the neighbour ceiling edge.
func (c *Core) DrawTop(seg *Segment) {
	rc := c.rc
	srcWall := seg.SrcWall
	sector := srcWall.Sector
	nextSector := srcWall.NextSector
	tex := srcWall.TopTex
	if tex == nil {
		c.DrawMask(seg)
		return
	}

	z0 := seg.Z0
	z1 := seg.Z1

	cProj0 := c.projectY(sector.CeilingHeight, z0)
	cProj1 := c.projectY(sector.CeilingHeight, z1)

	cy0 := fixed.Round16(cProj0)
	cy1 := fixed.Round16(cProj1)
	if cy0 > rc.WindowMaxY && cy1 >= rc.WindowMaxY {
		srcWall.Visible = 0
		x := seg.WallX0
		length := seg.WallX1 - x + 1

		c.fc.AddEdges(length, x, 0, fixed.IntToFixed16(rc.WindowMaxY+1), 0, fixed.IntToFixed16(rc.WindowMaxY+1))

		num := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, num)
			rc.ColumnTop[x] = rc.WindowMaxY
			rc.PortalTop[x] = rc.WindowMaxY + 1
			rc.PortalBot[x] = rc.WindowMaxY
		}
		return
	}

	var fProj0, fProj1 fixed.Fixed16
	if sector.Flags1&asset.SecFlags1Pit != 0 && nextSector.Flags1&asset.SecFlags1ExtFloorAdj != 0 {
		fProj0 = fixed.IntToFixed16(rc.WindowMaxY)
		fProj1 = fProj0
	} else {
		fProj0 = c.projectY(sector.FloorHeight, z0)
		fProj1 = c.projectY(sector.FloorHeight, z1)
	}

	fy0 := fixed.Round16(fProj0)
	fy1 := fixed.Round16(fProj1)
	if fy0 < rc.WindowMinY && fy1 < rc.WindowMinY {
		srcWall.Visible = 0
		x := seg.WallX0
		length := seg.WallX1 - x + 1

		c.fc.AddEdges(length, x, 0, fixed.IntToFixed16(rc.WindowMinY-1), 0, fixed.IntToFixed16(rc.WindowMinY-1))

		num := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			rc.Depth1D[x], _ = c.solveForZ(seg, x, num)
			rc.ColumnBot[x] = rc.WindowMinY
			rc.PortalTop[x] = rc.WindowMinY
			rc.PortalBot[x] = rc.WindowMinY - 1
		}
		return
	}

	cNextProj0 := c.projectY(nextSector.CeilingHeight, z0)
	cNextProj1 := c.projectY(nextSector.CeilingHeight, z1)
	xOffset := seg.WallX0 - seg.WallX0Raw
	length := seg.WallX1 - seg.WallX0 + 1
	lengthRawFixed := fixed.IntToFixed16(seg.WallX1Raw - seg.WallX0Raw)
	xOffsetFixed := fixed.IntToFixed16(xOffset)

	var ceilNextDyDx, floorDyDx, ceilDyDx fixed.Fixed16
	if lengthRawFixed != 0 {
		ceilNextDyDx = fixed.Div16(cNextProj1-cNextProj0, lengthRawFixed)
		floorDyDx = fixed.Div16(fProj1-fProj0, lengthRawFixed)
		ceilDyDx = fixed.Div16(cProj1-cProj0, lengthRawFixed)
	}
	if xOffsetFixed != 0 {
		cNextProj0 += fixed.Mul16(ceilNextDyDx, xOffsetFixed)
		fProj0 += fixed.Mul16(floorDyDx, xOffsetFixed)
		cProj0 += fixed.Mul16(ceilDyDx, xOffsetFixed)
	}

	yBot := cNextProj0
	yC := cProj0
	yF := fProj0
	x := seg.WallX0
	c.fc.AddEdges(length, seg.WallX0, floorDyDx, fProj0, ceilDyDx, cProj0)

	yBot0 := fixed.Round16(cNextProj0)
	yBot1 := fixed.Round16(cNextProj1)
	if yBot0 < rc.WindowMinY && yBot1 < rc.WindowMinY {
		// The step is entirely above the window; the visible span is all
		// portal opening.
		num := solveForZNumerator(seg)
		for i := int32(0); i < length; i, x = i+1, x+1 {
			yFPixel := max(fixed.Round16(yF), rc.WindowTop[x])
			rc.ColumnBot[x] = yFPixel + 1
			rc.ColumnTop[x] = rc.WindowMinY - 1
			rc.PortalTop[x] = rc.WindowMinY
			rc.PortalBot[x] = yFPixel
			rc.Depth1D[x], _ = c.solveForZ(seg, x, num)
			yF += floorDyDx
		}
		return
	}

	num := solveForZNumerator(seg)
	c.texHeightMask = int32(tex.Height) - 1
	flipHorz := srcWall.Flags1&asset.WF1FlipHoriz != 0

	for i := int32(0); i < length; i, x = i+1, x+1 {
		yBotPixel := fixed.Round16(yBot)
		yCPixel := fixed.Round16(yC)
		yFPixel := fixed.Round16(yF)

		rc.ColumnTop[x] = yCPixel - 1
		rc.ColumnBot[x] = yFPixel + 1
		rc.PortalTop[x] = yBotPixel + 1
		rc.PortalBot[x] = yFPixel

		yTopPixel := yCPixel
		if yTopPixel < rc.WindowTop[x] {
			yTopPixel = rc.WindowTop[x]
		}
		if yBotPixel > rc.WindowBot[x] {
			yBotPixel = rc.WindowBot[x]
		}
		c.yPixelCount = yBotPixel - yTopPixel + 1

		z, dxView := c.solveForZ(seg, x, num)
		u := wallU(seg, z, dxView, srcWall.TopUOffset)
		rc.Depth1D[x] = z

		if c.yPixelCount > 0 {
			widthMask := int32(tex.Width) - 1
			texelU := fixed.Floor16(u) & widthMask
			if flipHorz {
				texelU = widthMask - texelU
			}

			c.vCoordStep = fixed.Div16(srcWall.TopTexelHeight, yBot-yC+fixed.One16)
			v0 := fixed.Mul16(yBot-fixed.IntToFixed16(yBotPixel)+fixed.Half16, c.vCoordStep)
			c.vCoordFixed = v0 + srcWall.TopVOffset
			c.texImage = tex.Column(texelU)
			c.columnOut = yTopPixel*rc.Width + x
			c.columnLight = c.lt.ComputeLighting(z, srcWall.WallLight)
			if c.columnLight != nil {
				c.drawColumnLit()
			} else {
				c.drawColumnFullbright()
			}
		}
		yBot += ceilNextDyDx
		yF += floorDyDx
		yC += ceilDyDx
	}
}

// DrawTopAndBottom draws both steps of a portal whose neighbour is shorter
// on both ends, and masks the opening in between.
func (c *Core) DrawTopAndBottom(seg *Segment) {
	rc := c.rc
	srcWall := seg.SrcWall
	sector := srcWall.Sector
	nextSector := srcWall.NextSector

	z0 := seg.Z0
	z1 := seg.Z1

	cProj0 := c.projectY(sector.CeilingHeight, z0)
	cProj1 := c.projectY(sector.CeilingHeight, z1)
	fProj0 := c.projectY(sector.FloorHeight, z0)
	fProj1 := c.projectY(sector.FloorHeight, z1)

	cy0 := fixed.Round16(cProj0)
	cy1 := fixed.Round16(cProj1)
	fy0 := fixed.Round16(fProj0)
	fy1 := fixed.Round16(fProj1)
	if (cy0 > rc.WindowMaxY && cy1 > rc.WindowMaxY) || (fy0 < rc.WindowMinY && fy1 < rc.WindowMinY) {
		// Entirely outside the window on one side; fall back to the mask
		// path which handles both early-outs.
		c.DrawMask(seg)
		return
	}

	cNextProj0 := c.projectY(nextSector.CeilingHeight, z0)
	cNextProj1 := c.projectY(nextSector.CeilingHeight, z1)
	fNextProj0 := c.projectY(nextSector.FloorHeight, z0)
	fNextProj1 := c.projectY(nextSector.FloorHeight, z1)

	xOffsetFixed := fixed.IntToFixed16(seg.WallX0 - seg.WallX0Raw)
	length := seg.WallX1 - seg.WallX0 + 1
	lengthRawFixed := fixed.IntToFixed16(seg.WallX1Raw - seg.WallX0Raw)

	var ceilDyDx, floorDyDx, ceilNextDyDx, floorNextDyDx fixed.Fixed16
	if lengthRawFixed != 0 {
		ceilDyDx = fixed.Div16(cProj1-cProj0, lengthRawFixed)
		floorDyDx = fixed.Div16(fProj1-fProj0, lengthRawFixed)
		ceilNextDyDx = fixed.Div16(cNextProj1-cNextProj0, lengthRawFixed)
		floorNextDyDx = fixed.Div16(fNextProj1-fNextProj0, lengthRawFixed)
	}
	if xOffsetFixed != 0 {
		cProj0 += fixed.Mul16(ceilDyDx, xOffsetFixed)
		fProj0 += fixed.Mul16(floorDyDx, xOffsetFixed)
		cNextProj0 += fixed.Mul16(ceilNextDyDx, xOffsetFixed)
		fNextProj0 += fixed.Mul16(floorNextDyDx, xOffsetFixed)
	}

	c.fc.AddEdges(length, seg.WallX0, floorDyDx, fProj0, ceilDyDx, cProj0)

	num := solveForZNumerator(seg)
	topTex := srcWall.TopTex
	botTex := srcWall.BotTex
	flipHorz := srcWall.Flags1&asset.WF1FlipHoriz != 0

	yC := cProj0
	yF := fProj0
	yNextC := cNextProj0
	yNextF := fNextProj0
	x := seg.WallX0

	for i := int32(0); i < length; i, x = i+1, x+1 {
		yCPixel := fixed.Round16(yC)
		yFPixel := fixed.Round16(yF)
		yNextCPixel := fixed.Round16(yNextC)
		yNextFPixel := fixed.Round16(yNextF)

		rc.ColumnTop[x] = yCPixel - 1
		rc.ColumnBot[x] = yFPixel + 1
		rc.PortalTop[x] = yNextCPixel + 1
		rc.PortalBot[x] = yNextFPixel - 1

		z, dxView := c.solveForZ(seg, x, num)
		rc.Depth1D[x] = z

		// Upper step: this ceiling down to the neighbour ceiling.
		if topTex != nil {
			top := yCPixel
			bot := yNextCPixel
			if top < rc.WindowTop[x] {
				top = rc.WindowTop[x]
			}
			if bot > rc.WindowBot[x] {
				bot = rc.WindowBot[x]
			}
			c.yPixelCount = bot - top + 1
			if c.yPixelCount > 0 {
				u := wallU(seg, z, dxView, srcWall.TopUOffset)
				widthMask := int32(topTex.Width) - 1
				texelU := fixed.Floor16(u) & widthMask
				if flipHorz {
					texelU = widthMask - texelU
				}
				c.texHeightMask = int32(topTex.Height) - 1
				c.vCoordStep = fixed.Div16(srcWall.TopTexelHeight, yNextC-yC+fixed.One16)
				v0 := fixed.Mul16(yNextC-fixed.IntToFixed16(bot)+fixed.Half16, c.vCoordStep)
				c.vCoordFixed = v0 + srcWall.TopVOffset
				c.texImage = topTex.Column(texelU)
				c.columnOut = top*rc.Width + x
				c.columnLight = c.lt.ComputeLighting(z, srcWall.WallLight)
				if c.columnLight != nil {
					c.drawColumnLit()
				} else {
					c.drawColumnFullbright()
				}
			}
		}

		// Lower step: the neighbour floor down to this floor.
		if botTex != nil {
			top := yNextFPixel
			bot := yFPixel
			if top < rc.WindowTop[x] {
				top = rc.WindowTop[x]
			}
			if bot > rc.WindowBot[x] {
				bot = rc.WindowBot[x]
			}
			c.yPixelCount = bot - top + 1
			if c.yPixelCount > 0 {
				u := wallU(seg, z, dxView, srcWall.BotUOffset)
				widthMask := int32(botTex.Width) - 1
				texelU := fixed.Floor16(u) & widthMask
				if flipHorz {
					texelU = widthMask - texelU
				}
				c.texHeightMask = int32(botTex.Height) - 1
				c.vCoordStep = fixed.Div16(srcWall.BotTexelHeight, yF-yNextF+fixed.One16)
				v0 := fixed.Mul16(yF-fixed.IntToFixed16(bot)+fixed.Half16, c.vCoordStep)
				c.vCoordFixed = v0 + srcWall.BotVOffset
				c.texImage = botTex.Column(texelU)
				c.columnOut = top*rc.Width + x
				c.columnLight = c.lt.ComputeLighting(z, srcWall.WallLight)
				if c.columnLight != nil {
					c.drawColumnLit()
				} else {
					c.drawColumnFullbright()
				}
			}
		}

		yC += ceilDyDx
		yF += floorDyDx
		yNextC += ceilNextDyDx
		yNextF += floorNextDyDx
	}

	srcWall.DrawFlags = -1
}
