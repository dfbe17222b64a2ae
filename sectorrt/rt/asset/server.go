package asset

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"
)

type AssetId string

// AssetServer owns the immutable render assets for the lifetime of the
// process. The renderer only ever reads from it.
type AssetServer struct {
	textures  map[AssetId]*TextureFrame
	colorMaps map[AssetId]*ColorMap
	palettes  map[AssetId]*Palette256
	levels    map[AssetId]*Level
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures:  make(map[AssetId]*TextureFrame),
		colorMaps: make(map[AssetId]*ColorMap),
		palettes:  make(map[AssetId]*Palette256),
		levels:    make(map[AssetId]*Level),
	}
}

// LoadTexture registers a paletted image as a texture. Width and height must
// be powers of two so the rasterizer can wrap coordinates with a mask.
func (server *AssetServer) LoadTexture(width, height int, image []uint8) (AssetId, error) {
	if width <= 0 || height <= 0 || bits.OnesCount(uint(width)) != 1 || bits.OnesCount(uint(height)) != 1 {
		return "", fmt.Errorf("texture dimensions %dx%d are not powers of two", width, height)
	}
	if len(image) != width*height {
		return "", fmt.Errorf("texture image has %d bytes, want %d", len(image), width*height)
	}

	id := makeAssetId()
	server.textures[id] = &TextureFrame{
		Width:    uint16(width),
		Height:   uint16(height),
		LogSizeY: uint8(bits.TrailingZeros(uint(height))),
		Image:    image,
	}
	return id, nil
}

func (server *AssetServer) LoadColorMap(data [ColorMapLightLevels * 256]uint8) AssetId {
	id := makeAssetId()
	server.colorMaps[id] = &ColorMap{Data: data}
	return id
}

func (server *AssetServer) LoadPalette(pal Palette256) AssetId {
	id := makeAssetId()
	server.palettes[id] = &pal
	return id
}

func (server *AssetServer) LoadLevel(level *Level) AssetId {
	id := makeAssetId()
	for _, sector := range level.Sectors {
		sector.Link()
	}
	server.levels[id] = level
	return id
}

func (server *AssetServer) Texture(id AssetId) *TextureFrame { return server.textures[id] }
func (server *AssetServer) ColorMap(id AssetId) *ColorMap    { return server.colorMaps[id] }
func (server *AssetServer) Palette(id AssetId) *Palette256   { return server.palettes[id] }
func (server *AssetServer) Level(id AssetId) *Level          { return server.levels[id] }

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
