// Package light selects colormap rows from depth and per-surface light
// offsets. The rasterizer never sees the table layout; it gets either a 256
// entry remap row or nil for fullbright.
package light

import (
	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

const MaxLightLevel = asset.ColorMapLightLevels - 1

// Lighting holds the active colormap and the ambient state for the sector
// being drawn. The flood driver updates SectorAmbient when it enters a
// sector.
type Lighting struct {
	ColorMap *asset.ColorMap

	WorldAmbient      int32
	SectorAmbient     int32
	ScaledAmbient     int32
	CameraLightSource bool

	// Headlamp style falloff indexed by z >> 14, i.e. depth in quarter world
	// units at 16.16, capped at 127.
	LightSourceRamp [128]uint8
}

func NewLighting(cmap *asset.ColorMap) *Lighting {
	l := &Lighting{
		ColorMap:     cmap,
		WorldAmbient: MaxLightLevel,
	}
	for i := range l.LightSourceRamp {
		// Default ramp fades the camera light to zero over roughly 16 world
		// units.
		v := 31 - i/2
		if v < 0 {
			v = 0
		}
		l.LightSourceRamp[i] = uint8(v)
	}
	return l
}

// EnterSector loads the per-sector ambient values.
func (l *Lighting) EnterSector(ambient int32) {
	l.SectorAmbient = ambient
	l.ScaledAmbient = ambient * 7 / 8
}

// ComputeLighting picks the colormap row for a surface at depth z with the
// given light offset, or nil when the surface is fullbright. Identical
// inputs always produce the identical row.
func (l *Lighting) ComputeLighting(z fixed.Fixed16, lightOffset int32) []uint8 {
	if l.ColorMap == nil || l.SectorAmbient >= MaxLightLevel {
		return nil
	}
	if z < 0 {
		z = 0
	}

	light := int32(0)
	if l.WorldAmbient < MaxLightLevel || l.CameraLightSource {
		depthScaled := int32(z >> 14)
		if depthScaled > 127 {
			depthScaled = 127
		}
		lightSource := int32(l.LightSourceRamp[depthScaled]) - l.WorldAmbient
		if lightSource > 0 {
			light += lightSource
		}
	}
	if light < l.SectorAmbient {
		light = l.SectorAmbient
	}

	// Depth attenuation: light falls off by z/16 + z/32 levels.
	depthAtten := int32(z>>(fixed.FracBits+4)) + int32(z>>(fixed.FracBits+5))
	light = light - depthAtten
	if light < l.ScaledAmbient {
		light = l.ScaledAmbient
	}
	light += lightOffset
	if light > MaxLightLevel {
		light = MaxLightLevel
	} else if light < 0 {
		light = 0
	}
	return l.ColorMap.Row(light)
}
