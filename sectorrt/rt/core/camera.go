package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// Camera is the float side view configuration. It only exists outside the
// frame loop; FixCamera converts it into the fixed point parameters the
// rasterizer consumes, and nothing downstream touches a float again.
type Camera struct {
	Position mgl32.Vec3 // world units, Y is up
	Yaw      float32    // radians, 0 looks down +Z
	FOV      float32    // horizontal field of view, degrees
	Aspect   float32    // vertical projection scale relative to horizontal
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 1.8, 0},
		FOV:      90,
		Aspect:   1,
	}
}

// Forward returns the view direction on the floor plan.
func (c *Camera) Forward() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Sin(float64(c.Yaw))),
		0,
		float32(math.Cos(float64(c.Yaw))),
	}
}

// FixCamera loads the camera into the render context for the coming frame:
// rotation and translation as fixed point, plus the projection constants
// derived from FOV and aspect.
func (rc *RenderContext) FixCamera(cam *Camera) {
	rc.CameraX = fixed.FloatToFixed16(cam.Position.X())
	rc.CameraZ = fixed.FloatToFixed16(cam.Position.Z())
	rc.EyeHeight = fixed.FloatToFixed16(cam.Position.Y())

	sin, cos := math.Sincos(float64(cam.Yaw))
	rc.SinYaw = fixed.FloatToFixed16(float32(sin))
	rc.CosYaw = fixed.FloatToFixed16(float32(cos))

	halfFov := float64(mgl32.DegToRad(cam.FOV)) * 0.5
	focal := float32(rc.Width/2) / float32(math.Tan(halfFov))
	rc.FocalLength = fixed.FloatToFixed16(focal)
	rc.FocalLenAspect = fixed.FloatToFixed16(focal * cam.Aspect)

	rc.buildColumnTables()
}

// TransformSector rotates and translates a sector's vertices into viewspace.
// The camera sits at the origin with +z forward and +x right.
func (rc *RenderContext) TransformSector(sector *asset.Sector) {
	for i := range sector.WorldVtx {
		wx := sector.WorldVtx[i].X - rc.CameraX
		wz := sector.WorldVtx[i].Z - rc.CameraZ
		sector.ViewVtx[i].X = fixed.Mul16(wx, rc.CosYaw) - fixed.Mul16(wz, rc.SinYaw)
		sector.ViewVtx[i].Z = fixed.Mul16(wx, rc.SinYaw) + fixed.Mul16(wz, rc.CosYaw)
	}
}
