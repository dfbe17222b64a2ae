package retro

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gekko3d/retro/sectorrt/rt/asset"
)

// ExportImage resolves the paletted framebuffer through a palette into an
// RGBA image, optionally integer upscaled with nearest neighbour sampling so
// the low resolution output stays crisp.
func (r *Renderer) ExportImage(pal *asset.Palette256, scale int) *image.RGBA {
	rc := r.Ctx
	img := image.NewRGBA(image.Rect(0, 0, int(rc.Width), int(rc.Height)))
	for y := int32(0); y < rc.Height; y++ {
		for x := int32(0); x < rc.Width; x++ {
			p := pal[rc.Display[y*rc.Width+x]]
			img.SetRGBA(int(x), int(y), color.RGBA{R: p[0], G: p[1], B: p[2], A: 255})
		}
	}
	if scale <= 1 {
		return img
	}

	scaled := image.NewRGBA(image.Rect(0, 0, int(rc.Width)*scale, int(rc.Height)*scale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return scaled
}
