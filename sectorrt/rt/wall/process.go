package wall

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// Process clips a viewspace wall against the frustum and the near plane,
// projects it and, if anything survives, appends a Segment to the processed
// list and marks the wall visible.
func (c *Core) Process(wall *asset.Wall) {
	rc := c.rc
	p0 := wall.V0
	p1 := wall.V1

	// Viewspace wall coordinates.
	x0 := p0.X
	x1 := p1.X
	z0 := p0.Z
	z1 := p1.Z

	// x values of the frustum lines that pass through (x0,z0) and (x1,z1).
	left0 := -z0
	left1 := -z1
	right0 := z0
	right1 := z1

	// Cull the wall if it is completely behind the camera.
	if z0 < 0 && z1 < 0 {
		wall.Visible = 0
		return
	}
	// Cull the wall if it is completely outside the view.
	if (x0 < left0 && x1 < left1) || (x0 > right0 && x1 > right1) {
		wall.Visible = 0
		return
	}

	dx := x1 - x0
	dz := z1 - z0
	// Cull the wall if it is back facing: z0*dx - x0*dz.
	side := fixed.Mul16(z0, dx) - fixed.Mul16(x0, dz)
	if side < 0 {
		wall.Visible = 0
		return
	}

	var curU fixed.Fixed16
	clipLeft := int32(0)
	clipRight := int32(0)
	clipX0Near := int32(0)
	clipX1Near := int32(0)

	texelLen := wall.TexelLength
	texelLenRem := texelLen

	// Clip the wall segment by the left and right frustum lines.

	// The wall segment extends past the left clip line.
	if x0 < left0 {
		// Intersect the segment (x0,z0),(x1,z1) with the frustum line that
		// passes through (-z0,z0) and (-z1,z1).
		xz := fixed.Mul16(x0, z1) - fixed.Mul16(z0, x1)
		dyx := -dz - dx
		if dyx != 0 {
			xz = fixed.Div16(xz, dyx)
		}

		// Parametric intersection of the segment and the frustum line,
		// solved in whichever of dz/dx is larger for stability.
		var s fixed.Fixed16
		if dz != 0 && fixed.Abs(dz) > fixed.Abs(dx) {
			s = fixed.Div16(xz-z0, dz)
		} else if dx != 0 {
			s = fixed.Div16(-xz-x0, dx)
		}

		// Update the left endpoint of the segment.
		x0 = -xz
		z0 = xz

		if s != 0 {
			// Length of the clipped portion of the remaining texel length.
			clipLen := fixed.Mul16(texelLenRem, s)
			// Advance the U texel offset and shorten the remainder.
			curU += clipLen
			texelLenRem = texelLen - curU
		}

		clipLeft = -1
		dx = x1 - x0
		dz = z1 - z0
	}
	// The wall segment extends past the right clip line.
	if x1 > right1 {
		// Solve x0 + s*dx = z0 + s*dz for the intersection point
		// xz = (x0*z1 - z0*x1) / (dz - dx).
		xz := fixed.Mul16(x0, z1) - fixed.Mul16(z0, x1)
		dyx := dz - dx
		if dyx != 0 {
			xz = fixed.Div16(xz, dyx)
		}

		// Parametric intersection measured from the right endpoint.
		var s fixed.Fixed16
		if dz != 0 && fixed.Abs(dz) > fixed.Abs(dx) {
			s = fixed.Div16(xz-z1, dz)
		} else if dx != 0 {
			s = fixed.Div16(xz-x1, dx)
		}

		// Update the right endpoint of the segment.
		x1 = xz
		z1 = xz
		if s != 0 {
			// Rescale the texel frame; U at the left endpoint is unchanged.
			adjLen := texelLen + fixed.Mul16(texelLenRem, s)
			adjLenMinU := adjLen - curU

			texelLen = adjLen
			texelLenRem = adjLenMinU
		}

		clipRight = -1
		dx = x1 - x0
		dz = z1 - z0
	}

	// Clip the wall segment by the near plane.
	if (z0 < 0 || z1 < 0) && segmentCrossesLine(0, 0, 0, -c.rc.HalfHeight, x0, x0, x1, z1) != 0 {
		wall.Visible = 0
		return
	}
	if z0 < fixed.One16 && z1 < fixed.One16 {
		// Both endpoints in front of the near plane: collapse the segment
		// onto it.
		if clipLeft != 0 {
			clipX0Near = -1
			x0 = -fixed.One16
		} else {
			x0 = fixed.Div16(x0, z0)
		}
		if clipRight != 0 {
			x1 = fixed.One16
			clipX1Near = -1
		} else {
			x1 = fixed.Div16(x1, z1)
		}
		dx = x1 - x0
		dz = 0
		z0 = fixed.One16
		z1 = fixed.One16
	} else if z0 < fixed.One16 {
		if clipLeft != 0 {
			if dz != 0 {
				left := fixed.Div16(z0, dz)
				x0 += fixed.Mul16(dx, left)

				dx = x1 - x0
				texelLenRem = texelLen - curU
			}
			z0 = fixed.One16
			clipX0Near = -1
			dz = z1 - fixed.One16
		} else if c.rc.FixNearPlaneBug {
			if dz != 0 {
				s := fixed.Div16(fixed.One16-z0, dz)
				x0 += fixed.Mul16(dx, s)
				curU += fixed.Mul16(texelLenRem, s)
				texelLenRem = texelLen - curU
			}
			z0 = fixed.One16
			dx = x1 - x0
			dz = z1 - fixed.One16
		} else {
			// Faithful to the DOS renderer: x0 is projected instead of
			// repositioned and dz is left stale. Hit very rarely in
			// practice.
			x0 = fixed.Div16(x0, z0)
			z0 = fixed.One16
			dz = z1 - fixed.One16
			dx -= x0
		}
	} else if z1 < fixed.One16 {
		if clipRight != 0 {
			if dz != 0 {
				s := fixed.Div16(fixed.One16-x1, dz)
				x1 += fixed.Mul16(dx, s)
				texelLen += fixed.Mul16(texelLenRem, s)
				texelLenRem = texelLen - curU
				dx = x1 - x0
			}
			z1 = fixed.One16
			dz = fixed.One16 - z0
			clipX1Near = -1
		} else if c.rc.FixNearPlaneBug {
			if dz != 0 {
				s := fixed.Div16(fixed.One16-z1, dz)
				x1 += fixed.Mul16(dx, s)
				texelLen += fixed.Mul16(texelLenRem, s)
				texelLenRem = texelLen - curU
			}
			z1 = fixed.One16
			dx = x1 - x0
			dz = z1 - z0
		} else {
			// Faithful to the DOS renderer, see above.
			x1 = fixed.Div16(x1, z1)
			z1 = fixed.One16
			dx = x1 - x0
			dz = z1 - z0
		}
	}

	// Project.
	x0proj := fixed.Div16(fixed.Mul16(x0, rc.FocalLength), z0) + rc.HalfWidth
	x1proj := fixed.Div16(fixed.Mul16(x1, rc.FocalLength), z1) + rc.HalfWidth
	x0pixel := fixed.Round16(x0proj)
	x1pixel := fixed.Round16(x1proj) - 1

	// Extend near plane clipped walls to the screen edge so abutting
	// near clipped walls cannot leak background through a T junction.
	if clipX0Near != 0 && x0pixel > rc.MinScreenX {
		x0 = -fixed.One16
		dx = x1 + fixed.One16
		x0pixel = rc.MinScreenX
	}
	if clipX1Near != 0 && x1pixel < rc.MaxScreenX {
		dx = fixed.One16 - x0
		x1pixel = rc.MaxScreenX
	}

	// The wall is back facing if x0 > x1 after projection.
	if x0pixel > x1pixel {
		wall.Visible = 0
		return
	}
	// The wall is completely outside of the screen.
	if x0pixel > rc.MaxScreenX || x1pixel < rc.MinScreenX {
		wall.Visible = 0
		return
	}
	// A zero length segment cannot produce a slope; treat as back facing.
	if dx == 0 && dz == 0 {
		wall.Visible = 0
		return
	}
	if c.nextWall == MaxSeg {
		rc.Log.Errorf("Wall_Process : Maximum processed walls exceeded!")
		wall.Visible = 0
		return
	}

	seg := &c.segListSrc[c.nextWall]
	c.nextWall++

	seg.WallX0Raw = x0pixel
	seg.WallX1Raw = x1pixel

	if x0pixel < rc.MinScreenX {
		x0pixel = rc.MinScreenX
	}
	if x1pixel > rc.MaxScreenX {
		x1pixel = rc.MaxScreenX
	}

	seg.SrcWall = wall
	seg.Z0 = z0
	seg.Z1 = z1
	seg.UCoord0 = curU
	seg.WallX0 = x0pixel
	seg.WallX1 = x1pixel
	seg.X0View = x0

	var slope, den fixed.Fixed16
	var orient int32
	if fixed.Abs(dx) > fixed.Abs(dz) {
		slope = fixed.Div16(dz, dx)
		den = dx
		orient = OrientDzDx
	} else {
		slope = fixed.Div16(dx, dz)
		den = dz
		orient = OrientDxDz
	}

	seg.Slope = slope
	seg.UScale = fixed.Div16(texelLenRem, den)
	seg.Orient = orient

	wall.Visible = 1
}
