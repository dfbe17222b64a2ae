package core

import (
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// RenderContext is the per-frame shared state of the software renderer: the
// camera parameters in fixed point, the per-column clip and depth arrays, the
// column ray tables and the paletted framebuffer. The original kept all of
// this in file scope statics; here it travels through the pipeline as one
// struct so frames are self contained and test fixtures stay cheap.
type RenderContext struct {
	Width  int32
	Height int32

	MinScreenX int32
	MaxScreenX int32
	MinScreenY int32
	MaxScreenY int32

	HalfWidth  fixed.Fixed16 // fixed point width/2
	HalfHeight fixed.Fixed16
	HalfWidthI int32

	FocalLength    fixed.Fixed16
	FocalLenAspect fixed.Fixed16

	// Camera transform for the current frame.
	CameraX   fixed.Fixed16
	CameraZ   fixed.Fixed16
	EyeHeight fixed.Fixed16
	SinYaw    fixed.Fixed16
	CosYaw    fixed.Fixed16

	// Current rendering window. The flood driver narrows these when
	// descending through portals.
	WindowMinX int32
	WindowMaxX int32
	WindowMinY int32
	WindowMaxY int32
	MinSegZ    fixed.Fixed16

	// Per-column state, all sized Width.
	Depth1D   []fixed.Fixed16
	ColumnTop []int32
	ColumnBot []int32
	WindowTop []int32
	WindowBot []int32

	// Portal opening envelope written by the portal wall draws; the flood
	// driver folds it into the window before descending into the adjoined
	// sector.
	PortalTop []int32
	PortalBot []int32

	// Viewspace ratio along the ray through each column.
	ColumnYOverX []fixed.Fixed16
	ColumnXOverY []fixed.Fixed16

	// Paletted framebuffer, Width*Height bytes, row major.
	Display []uint8

	// Opt-in fix for the near plane clip fallthrough inherited from the
	// DOS renderer. Off by default for output parity.
	FixNearPlaneBug bool

	Log Logger
}

func NewRenderContext(width, height int32, log Logger) *RenderContext {
	if log == nil {
		log = NopLogger{}
	}
	rc := &RenderContext{Log: log}
	rc.ChangeResolution(width, height)
	return rc
}

// ChangeResolution resizes every per-column array and the framebuffer. The
// column ray tables are rebuilt on the next FixCamera since they depend on
// the focal length.
func (rc *RenderContext) ChangeResolution(width, height int32) {
	rc.Width = width
	rc.Height = height
	rc.MinScreenX = 0
	rc.MaxScreenX = width - 1
	rc.MinScreenY = 0
	rc.MaxScreenY = height - 1

	rc.HalfWidthI = width / 2
	rc.HalfWidth = fixed.IntToFixed16(width / 2)
	rc.HalfHeight = fixed.IntToFixed16(height / 2)

	rc.Depth1D = make([]fixed.Fixed16, width)
	rc.ColumnTop = make([]int32, width)
	rc.ColumnBot = make([]int32, width)
	rc.WindowTop = make([]int32, width)
	rc.WindowBot = make([]int32, width)
	rc.PortalTop = make([]int32, width)
	rc.PortalBot = make([]int32, width)
	rc.ColumnYOverX = make([]fixed.Fixed16, width)
	rc.ColumnXOverY = make([]fixed.Fixed16, width)
	rc.Display = make([]uint8, width*height)
}

// SetProjection installs explicit fixed point projection constants and
// rebuilds the column ray tables. FixCamera derives these from the float
// camera; callers with exact requirements set them directly.
func (rc *RenderContext) SetProjection(focalLength, focalLenAspect fixed.Fixed16) {
	rc.FocalLength = focalLength
	rc.FocalLenAspect = focalLenAspect
	rc.buildColumnTables()
}

// buildColumnTables fills the per-column viewspace ray ratios. For column x
// the ray satisfies xView/zView = (x - halfWidth)/focalLength; both that
// ratio and its inverse are tabulated because the wall solver picks whichever
// keeps the slope magnitude below one.
func (rc *RenderContext) buildColumnTables() {
	for x := int32(0); x < rc.Width; x++ {
		dx := fixed.IntToFixed16(x - rc.HalfWidthI)
		if x == rc.HalfWidthI {
			// Ray straight ahead; the z over x ratio is unbounded, park a
			// large stable value the way the original does.
			rc.ColumnYOverX[x] = rc.FocalLength
		} else {
			rc.ColumnYOverX[x] = fixed.Div16(rc.FocalLength, dx)
		}
		rc.ColumnXOverY[x] = fixed.Div16(dx, rc.FocalLength)
	}
}

// BeginFrame resets the window to the whole screen and clears the per-column
// envelopes and depth.
func (rc *RenderContext) BeginFrame() {
	rc.WindowMinX = rc.MinScreenX
	rc.WindowMaxX = rc.MaxScreenX
	rc.WindowMinY = rc.MinScreenY
	rc.WindowMaxY = rc.MaxScreenY
	rc.MinSegZ = 0
	for x := int32(0); x < rc.Width; x++ {
		rc.Depth1D[x] = 0
		rc.ColumnTop[x] = rc.MinScreenY - 1
		rc.ColumnBot[x] = rc.MaxScreenY + 1
		rc.WindowTop[x] = rc.MinScreenY
		rc.WindowBot[x] = rc.MaxScreenY
	}
}

// Clear fills the framebuffer with a palette index.
func (rc *RenderContext) Clear(color uint8) {
	for i := range rc.Display {
		rc.Display[i] = color
	}
}
