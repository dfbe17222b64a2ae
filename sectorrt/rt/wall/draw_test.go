package wall

import (
	"testing"

	"github.com/gekko3d/retro/sectorrt/rt/asset"
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

func TestDrawSolidHeadOnRoom(t *testing.T) {
	rc, fc, _, c, _ := testSetup()
	sec := testSector()
	w := viewWall(sec, v2(-8, 8), v2(8, 8))
	w.MidTex = gradientTexture()
	w.MidTexelHeight = fixed.IntToFixed16(32)

	c.Process(w)
	segs := runMergeSort(c)
	if len(segs) != 1 {
		t.Fatalf("%d segments", len(segs))
	}
	c.DrawSolid(&segs[0])

	// Head on, the depth is constant across the whole span.
	for x := int32(0); x < rc.Width; x++ {
		if rc.Depth1D[x] != fixed.IntToFixed16(8) {
			t.Fatalf("depth1d[%d] = %#x, want 8", x, rc.Depth1D[x])
		}
		if rc.ColumnTop[x] > rc.ColumnBot[x] {
			t.Fatalf("column %d envelope inverted: %d..%d", x, rc.ColumnTop[x], rc.ColumnBot[x])
		}
	}

	// With zero perspective skew every column is identical.
	ref := make([]uint8, rc.Height)
	for y := int32(0); y < rc.Height; y++ {
		ref[y] = rc.Display[y*rc.Width+7]
	}
	for _, x := range []int32{0, 100, 213, 319} {
		for y := int32(0); y < rc.Height; y++ {
			if rc.Display[y*rc.Width+x] != ref[y] {
				t.Fatalf("column %d row %d differs from reference column", x, y)
			}
		}
	}

	// The wall sliver edges were handed to the flat rasterizer.
	if fc.EdgeCount() != 1 {
		t.Fatalf("%d flat edges", fc.EdgeCount())
	}
	edge := fc.Edges()[0]
	if edge.Length != 320 || edge.X0 != 0 {
		t.Errorf("edge span %d from %d", edge.Length, edge.X0)
	}
	if edge.DyDxFloor != 0 || edge.DyDxCeil != 0 {
		t.Errorf("head on wall has sloped edges: %#x %#x", edge.DyDxFloor, edge.DyDxCeil)
	}

	// Wall pixels carry the texture; rows above the ceiling edge and below
	// the floor edge are untouched.
	top := fixed.Round16(edge.YCeil)
	bot := fixed.Round16(edge.YFloor)
	if top <= 0 || bot >= rc.Height-1 || top >= bot {
		t.Fatalf("edges %d..%d", top, bot)
	}
	if rc.Display[(top-2)*rc.Width+100] != 0 || rc.Display[(bot+2)*rc.Width+100] != 0 {
		t.Error("pixels outside the wall were written")
	}
}

func TestDrawSolidVerticalGradient(t *testing.T) {
	rc, _, _, c, _ := testSetup()
	sec := testSector()
	w := viewWall(sec, v2(-8, 8), v2(8, 8))
	w.MidTex = gradientTexture()
	w.MidTexelHeight = fixed.IntToFixed16(32)

	c.Process(w)
	segs := runMergeSort(c)
	c.DrawSolid(&segs[0])

	// The column walks bottom up with v increasing, so the gradient texel
	// value must not increase downward (modulo wrapping).
	x := int32(160)
	top := rc.ColumnTop[x] + 1
	bot := rc.ColumnBot[x] - 1
	for y := top + 1; y <= bot; y++ {
		prev := rc.Display[(y-1)*rc.Width+x]
		cur := rc.Display[y*rc.Width+x]
		if cur > prev && cur-prev < 32 {
			t.Fatalf("texture v increasing downward at row %d: %d -> %d", y, prev, cur)
		}
	}
}

// portalPair builds two sectors adjoined through the first wall of the
// front sector and returns that portal wall.
func portalPair(nextFloor, nextCeil int32) (*asset.Sector, *asset.Wall) {
	sec := testSector()
	next := &asset.Sector{
		ID:            1,
		FloorHeight:   fixed.IntToFixed16(nextFloor),
		CeilingHeight: fixed.IntToFixed16(nextCeil),
		AmbientLight:  31,
	}
	w := viewWall(sec, v2(-8, 8), v2(8, 8))
	w.NextSector = next
	return sec, w
}

func TestDrawBottomStepUp(t *testing.T) {
	rc, fc, _, c, _ := testSetup()
	// Neighbour floor two units above this sector's floor.
	_, w := portalPair(2, 4)
	w.BotTex = gradientTexture()
	w.BotTexelHeight = fixed.IntToFixed16(16)

	c.Process(w)
	segs := runMergeSort(c)
	if len(segs) != 1 {
		t.Fatalf("%d segments", len(segs))
	}
	c.DrawBottom(&segs[0])

	// Eye at 2, focal 160: this floor edge projects to row 140, the
	// neighbour floor edge to row 100.
	x := int32(160)
	if rc.ColumnBot[x] != 141 {
		t.Errorf("columnBot = %d, want 141", rc.ColumnBot[x])
	}
	if rc.PortalBot[x] != 99 {
		t.Errorf("portalBot = %d, want 99", rc.PortalBot[x])
	}

	// Only the step sliver is textured: above the neighbour floor edge and
	// below this sector's floor edge nothing is written.
	if rc.Display[90*rc.Width+x] != 0 {
		t.Error("pixel above the step was written")
	}
	if rc.Display[150*rc.Width+x] != 0 {
		t.Error("pixel below the floor edge was written")
	}
	wrote := false
	for y := int32(101); y < 140; y++ {
		if rc.Display[y*rc.Width+x] != 0 {
			wrote = true
			break
		}
	}
	if !wrote {
		t.Error("step sliver left empty")
	}

	if fc.EdgeCount() != 1 {
		t.Errorf("%d flat edges", fc.EdgeCount())
	}
	for xx := segs[0].WallX0; xx <= segs[0].WallX1; xx++ {
		if rc.Depth1D[xx] != fixed.IntToFixed16(8) {
			t.Fatalf("depth1d[%d] = %#x", xx, rc.Depth1D[xx])
		}
	}
}

func TestDrawTopStepDown(t *testing.T) {
	rc, _, _, c, _ := testSetup()
	// Neighbour ceiling one unit below this sector's ceiling.
	_, w := portalPair(0, 3)
	w.TopTex = gradientTexture()
	w.TopTexelHeight = fixed.IntToFixed16(8)

	c.Process(w)
	segs := runMergeSort(c)
	c.DrawTop(&segs[0])

	// Ceiling edge at row 60, neighbour ceiling edge at row 80.
	x := int32(160)
	if rc.ColumnTop[x] != 59 {
		t.Errorf("columnTop = %d, want 59", rc.ColumnTop[x])
	}
	if rc.PortalTop[x] != 81 {
		t.Errorf("portalTop = %d, want 81", rc.PortalTop[x])
	}
	if rc.Display[55*rc.Width+x] != 0 {
		t.Error("pixel above the ceiling edge was written")
	}
	wrote := false
	for y := int32(61); y < 80; y++ {
		if rc.Display[y*rc.Width+x] != 0 {
			wrote = true
			break
		}
	}
	if !wrote {
		t.Error("upper step left empty")
	}
}

func TestDrawTopAndBottom(t *testing.T) {
	rc, _, _, c, _ := testSetup()
	_, w := portalPair(1, 3)
	w.TopTex = gradientTexture()
	w.BotTex = gradientTexture()
	w.TopTexelHeight = fixed.IntToFixed16(8)
	w.BotTexelHeight = fixed.IntToFixed16(8)

	c.Process(w)
	segs := runMergeSort(c)
	c.DrawTopAndBottom(&segs[0])

	x := int32(160)
	// Opening between the neighbour ceiling edge (row 80) and the
	// neighbour floor edge (row 120).
	if rc.PortalTop[x] != 81 || rc.PortalBot[x] != 119 {
		t.Errorf("portal %d..%d, want 81..119", rc.PortalTop[x], rc.PortalBot[x])
	}
	if w.DrawFlags != -1 {
		t.Error("portal opening not masked")
	}

	// Both steps textured, the opening untouched.
	topWrote := false
	for y := int32(61); y < 80; y++ {
		if rc.Display[y*rc.Width+x] != 0 {
			topWrote = true
		}
	}
	botWrote := false
	for y := int32(121); y < 140; y++ {
		if rc.Display[y*rc.Width+x] != 0 {
			botWrote = true
		}
	}
	if !topWrote || !botWrote {
		t.Errorf("steps written top=%v bot=%v", topWrote, botWrote)
	}
	for y := int32(85); y <= 115; y++ {
		if rc.Display[y*rc.Width+x] != 0 {
			t.Fatalf("portal interior written at row %d", y)
		}
	}
}

func TestDrawMaskSkyCeiling(t *testing.T) {
	rc, fc, _, c, _ := testSetup()
	sec, w := portalPair(0, 4)
	sec.Flags1 = asset.SecFlags1Exterior
	w.NextSector.Flags1 = asset.SecFlags1ExtAdj

	c.Process(w)
	segs := runMergeSort(c)
	c.DrawMask(&segs[0])

	// The sky ceiling projects to the window top regardless of geometry.
	if fc.EdgeCount() != 1 {
		t.Fatalf("%d flat edges", fc.EdgeCount())
	}
	edge := fc.Edges()[0]
	if edge.YCeil != fixed.IntToFixed16(rc.WindowMinY) {
		t.Errorf("ceiling edge %#x, want window top", edge.YCeil)
	}
	if edge.DyDxCeil != 0 {
		t.Errorf("sky ceiling edge has slope %#x", edge.DyDxCeil)
	}
	x := int32(160)
	if rc.PortalTop[x] != rc.WindowMinY {
		t.Errorf("portalTop = %d, want %d", rc.PortalTop[x], rc.WindowMinY)
	}
	if w.DrawFlags != -1 {
		t.Error("mask wall did not set drawFlags")
	}
	// Mask draws no pixels.
	for i := range rc.Display {
		if rc.Display[i] != 0 {
			t.Fatal("mask wall wrote to the framebuffer")
		}
	}
}

func TestDrawSolidBelowWindowEarlyOut(t *testing.T) {
	rc, _, _, c, _ := testSetup()
	sec := testSector()
	// Drop the whole sector far below the eye so the ceiling projects
	// below the window.
	sec.FloorHeight = fixed.IntToFixed16(-40)
	sec.CeilingHeight = fixed.IntToFixed16(-36)
	w := viewWall(sec, v2(-8, 8), v2(8, 8))
	w.MidTex = gradientTexture()
	w.MidTexelHeight = fixed.IntToFixed16(32)

	c.Process(w)
	segs := runMergeSort(c)
	c.DrawSolid(&segs[0])

	// Early out still writes depth and the ceiling envelope.
	for x := segs[0].WallX0; x <= segs[0].WallX1; x++ {
		if rc.Depth1D[x] != fixed.IntToFixed16(8) {
			t.Fatalf("depth1d[%d] = %#x", x, rc.Depth1D[x])
		}
		if rc.ColumnTop[x] != rc.WindowMaxY {
			t.Fatalf("columnTop[%d] = %d", x, rc.ColumnTop[x])
		}
	}
	if w.Visible != 0 {
		t.Error("early out wall still marked visible")
	}
	for i := range rc.Display {
		if rc.Display[i] != 0 {
			t.Fatal("early out wrote pixels")
		}
	}
}
