package wall

import (
	"fmt"

	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/core"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
	"github.com/gekko3d/retro/sectorrt/rt/flat"
	"github.com/gekko3d/retro/sectorrt/rt/light"
)

// Shared fixture helpers for the wall pipeline tests.

type captureLog struct {
	core.NopLogger
	errors []string
}

func (l *captureLog) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func testSetup() (*core.RenderContext, *flat.Context, *light.Lighting, *Core, *captureLog) {
	log := &captureLog{}
	rc := core.NewRenderContext(320, 200, log)
	rc.SetProjection(rc.HalfWidth, rc.HalfWidth)
	rc.EyeHeight = fixed.IntToFixed16(2)
	rc.BeginFrame()
	fc := flat.NewContext(rc)
	lt := light.NewLighting(nil)
	c := NewCore(rc, fc, lt)
	c.BeginFrame()
	return rc, fc, lt, c, log
}

// testSector builds a sector whose floor is at 0 and ceiling at 4 with the
// ambient pinned to fullbright.
func testSector() *asset.Sector {
	// Capacities sized so appends never move the backing arrays out from
	// under previously returned wall pointers.
	return &asset.Sector{
		FloorHeight:   0,
		CeilingHeight: fixed.IntToFixed16(4),
		AmbientLight:  31,
		Walls:         make([]asset.Wall, 0, 8),
		ViewVtx:       make([]asset.Vec2, 0, 16),
	}
}

// viewWall appends a wall with the given viewspace endpoints to the sector.
func viewWall(sector *asset.Sector, v0, v1 asset.Vec2) *asset.Wall {
	i := int32(len(sector.ViewVtx))
	sector.ViewVtx = append(sector.ViewVtx, v0, v1)
	sector.Walls = append(sector.Walls, asset.Wall{
		Sector:      sector,
		I0:          i,
		I1:          i + 1,
		TexelLength: fixed.IntToFixed16(128),
	})
	// Appends may have moved both slices; rewire every endpoint pointer.
	for j := range sector.Walls {
		w := &sector.Walls[j]
		w.V0 = &sector.ViewVtx[w.I0]
		w.V1 = &sector.ViewVtx[w.I1]
	}
	return &sector.Walls[len(sector.Walls)-1]
}

func v2(x, z int32) asset.Vec2 {
	return asset.Vec2{X: fixed.IntToFixed16(x), Z: fixed.IntToFixed16(z)}
}

// gradientTexture builds a 64x64 column major texture whose texel value is
// its row index.
func gradientTexture() *asset.TextureFrame {
	img := make([]uint8, 64*64)
	for u := 0; u < 64; u++ {
		for v := 0; v < 64; v++ {
			img[u*64+v] = uint8(v)
		}
	}
	return &asset.TextureFrame{Width: 64, Height: 64, LogSizeY: 6, Image: img}
}
