package retro

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/core"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

func checkerTexture() *asset.TextureFrame {
	img := make([]uint8, 64*64)
	for u := 0; u < 64; u++ {
		for v := 0; v < 64; v++ {
			c := uint8(5)
			if ((u/8)+(v/8))%2 == 1 {
				c = 9
			}
			img[u*64+v] = c
		}
	}
	return &asset.TextureFrame{Width: 64, Height: 64, LogSizeY: 6, Image: img}
}

// buildSquareSector builds a clockwise square room so every wall faces
// inward. Walls run north, east, south, west.
func buildSquareSector(id int32, x0, z0, x1, z1, floor, ceil int32, tex *asset.TextureFrame) *asset.Sector {
	sec := &asset.Sector{
		ID:            id,
		FloorHeight:   fixed.IntToFixed16(floor),
		CeilingHeight: fixed.IntToFixed16(ceil),
		AmbientLight:  31,
		FloorTex:      tex,
		CeilTex:       tex,
		WorldVtx: []asset.Vec2{
			{X: fixed.IntToFixed16(x0), Z: fixed.IntToFixed16(z1)},
			{X: fixed.IntToFixed16(x1), Z: fixed.IntToFixed16(z1)},
			{X: fixed.IntToFixed16(x1), Z: fixed.IntToFixed16(z0)},
			{X: fixed.IntToFixed16(x0), Z: fixed.IntToFixed16(z0)},
		},
	}
	sec.ViewVtx = make([]asset.Vec2, len(sec.WorldVtx))
	texelHeight := fixed.IntToFixed16((ceil - floor) * 8)
	for i := 0; i < 4; i++ {
		sec.Walls = append(sec.Walls, asset.Wall{
			I0:             int32(i),
			I1:             int32((i + 1) % 4),
			MidTex:         tex,
			TopTex:         tex,
			BotTex:         tex,
			MidTexelHeight: texelHeight,
			TopTexelHeight: texelHeight,
			BotTexelHeight: texelHeight,
			TexelLength:    fixed.IntToFixed16((x1 - x0) * 8),
		})
	}
	sec.Link()
	return sec
}

// buildPortalLevel joins a 16x16 room to a shorter room to its north
// through the shared north wall.
func buildPortalLevel(tex *asset.TextureFrame) (*asset.Sector, *asset.Sector) {
	front := buildSquareSector(0, -8, -8, 8, 8, 0, 4, tex)
	back := buildSquareSector(1, -8, 8, 8, 24, 1, 3, tex)
	// Wall 0 of the front room is its north wall; wall 2 of the back room
	// is its south wall.
	front.Walls[0].NextSector = back
	back.Walls[2].NextSector = front
	return front, back
}

func TestDrawFrameTwoSectors(t *testing.T) {
	tex := checkerTexture()
	front, _ := buildPortalLevel(tex)

	r := NewRenderer(320, 200, NewNopLogger())
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 2, 0}

	r.DrawFrame(cam, front)
	rc := r.Ctx

	// The portal steps of the shared wall: upper step above the back
	// room's ceiling edge, lower step below its floor edge.
	x := int32(160)
	assert.NotZero(t, rc.Display[70*rc.Width+x], "upper step not drawn")
	assert.NotZero(t, rc.Display[130*rc.Width+x], "lower step not drawn")

	// Through the portal, the back room's far wall fills the opening.
	assert.NotZero(t, rc.Display[100*rc.Width+x], "far wall not drawn through the portal")
	assert.Equal(t, fixed.IntToFixed16(24), rc.Depth1D[x], "depth through the portal")

	// The depth seen through the portal lies beyond the front room's north
	// wall at z=8.
	require.Greater(t, rc.Depth1D[x], fixed.IntToFixed16(8))

	// Every window column carries a valid depth.
	for xx := int32(0); xx < rc.Width; xx++ {
		require.GreaterOrEqual(t, rc.Depth1D[xx], fixed.One16, "column %d", xx)
	}
}

func TestDrawFrameSolidRoomFillsScreen(t *testing.T) {
	tex := checkerTexture()
	sec := buildSquareSector(0, -8, -8, 8, 8, 0, 4, tex)

	r := NewRenderer(320, 200, NewNopLogger())
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 2, 0}
	r.DrawFrame(cam, sec)

	rc := r.Ctx
	empty := 0
	for i := range rc.Display {
		if rc.Display[i] == 0 {
			empty++
		}
	}
	// Walls plus floor plus ceiling cover the whole frame inside a closed
	// room.
	assert.Zero(t, empty, "unfilled pixels in a closed room")
}

func TestDrawFrameLit(t *testing.T) {
	tex := checkerTexture()
	sec := buildSquareSector(0, -8, -8, 8, 8, 0, 4, tex)
	sec.AmbientLight = 24

	server := asset.NewAssetServer()
	cmapId := server.CreateAttenuatingColorMap()

	r := NewRenderer(320, 200, NewNopLogger())
	r.SetColorMap(server.ColorMap(cmapId))
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 2, 0}
	r.DrawFrame(cam, sec)

	// Lit rendering remaps texels, so values outside the raw texture
	// palette entries appear.
	rc := r.Ctx
	seen := map[uint8]bool{}
	for i := range rc.Display {
		seen[rc.Display[i]] = true
	}
	remapped := false
	for v := range seen {
		if v != 5 && v != 9 {
			remapped = true
		}
	}
	assert.True(t, remapped, "lighting did not remap any texel")
}

func TestExportImage(t *testing.T) {
	tex := checkerTexture()
	sec := buildSquareSector(0, -8, -8, 8, 8, 0, 4, tex)

	r := NewRenderer(320, 200, NewNopLogger())
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 2, 0}
	r.DrawFrame(cam, sec)

	server := asset.NewAssetServer()
	pal := server.Palette(server.CreateGrayRampPalette())

	img := r.ExportImage(pal, 1)
	require.Equal(t, 320, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())

	scaled := r.ExportImage(pal, 3)
	require.Equal(t, 960, scaled.Bounds().Dx())
	require.Equal(t, 600, scaled.Bounds().Dy())

	// A checker texel index 5 resolves to gray level 5.
	c := img.RGBAAt(160, 100)
	assert.Contains(t, []uint8{5, 9}, c.R)
}

func TestChangeResolutionRebuilds(t *testing.T) {
	r := NewRenderer(320, 200, NewNopLogger())
	r.ChangeResolution(640, 400)

	tex := checkerTexture()
	sec := buildSquareSector(0, -8, -8, 8, 8, 0, 4, tex)
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 2, 0}
	r.DrawFrame(cam, sec)

	rc := r.Ctx
	require.Equal(t, int32(640), rc.Width)
	assert.NotZero(t, rc.Display[200*rc.Width+320], "wall not drawn after resolution change")
}
