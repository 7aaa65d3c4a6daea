package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"grainfall/internal/world"
)

var testPalette = []color.RGBA{
	{0, 0, 0, 0},
	{255, 204, 128, 255},
	{64, 128, 255, 255},
}

func TestRenderDirtyRepaintsOnlyTakenChunks(t *testing.T) {
	w := world.New(40, 40, 22)
	p := NewImagePainter(40, 40, testPalette)
	p.RenderDirty(w) // consume the initial all-dirty pass

	w.Set(17, 3, 1, 22)
	w.Set(39, 39, 2, 22)

	// A write behind the tracker's back must not repaint.
	w.Cells()[w.Index(5, 5)] = 2

	got := p.RenderDirty(w)
	want := []world.ChunkCoord{{X: 1, Y: 0}, {X: 2, Y: 2}}
	if !slices.Equal(got, want) {
		t.Fatalf("painted chunks = %v, want %v", got, want)
	}

	if c := p.Image().RGBAAt(17, 3); c != testPalette[1] {
		t.Fatalf("pixel (17,3) = %v, want %v", c, testPalette[1])
	}
	if c := p.Image().RGBAAt(39, 39); c != testPalette[2] {
		t.Fatalf("edge pixel (39,39) = %v, want %v", c, testPalette[2])
	}
	if c := p.Image().RGBAAt(5, 5); c != testPalette[0] {
		t.Fatalf("unmarked pixel (5,5) = %v, want untouched void %v", c, testPalette[0])
	}

	if p.RenderDirty(w) != nil {
		t.Fatal("second render with no new marks must paint nothing")
	}
}

func TestStaleIndexPaintsAsVoid(t *testing.T) {
	w := world.New(16, 16, 22)
	p := NewImagePainter(16, 16, testPalette)
	p.RenderDirty(w)

	w.Cells()[w.Index(4, 4)] = 200 // beyond the palette
	w.Tracker().MarkCell(4, 4)

	p.RenderDirty(w)
	if c := p.Image().RGBAAt(4, 4); c != testPalette[0] {
		t.Fatalf("stale index pixel = %v, want void %v", c, testPalette[0])
	}
}

func TestRenderFullLeavesTrackerIntact(t *testing.T) {
	w := world.New(32, 32, 22)
	w.Set(3, 3, 1, 22)
	pending := w.Tracker().Pending()
	if pending == 0 {
		t.Fatal("expected pending chunks before the full render")
	}

	p := NewImagePainter(32, 32, testPalette)
	p.RenderFull(w)

	if got := w.Tracker().Pending(); got != pending {
		t.Fatalf("Pending after RenderFull = %d, want %d", got, pending)
	}
	if c := p.Image().RGBAAt(3, 3); c != testPalette[1] {
		t.Fatalf("pixel (3,3) = %v, want %v", c, testPalette[1])
	}
}

func TestRenderDirtySkipsMismatchedWorld(t *testing.T) {
	w := world.New(32, 32, 22)
	p := NewImagePainter(16, 16, testPalette)
	if got := p.RenderDirty(w); got != nil {
		t.Fatalf("mismatched world painted chunks %v, want none", got)
	}
	if w.Tracker().Pending() == 0 {
		t.Fatal("mismatched render must not consume the tracker")
	}
}

func TestExportAndWritePNG(t *testing.T) {
	w := world.New(24, 24, 22)
	w.Set(10, 12, 2, 22)

	img := Export(w, testPalette)
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 24 {
		t.Fatalf("export bounds = %v, want 24x24", img.Bounds())
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
	r, g, b, a := decoded.At(10, 12).RGBA()
	want := testPalette[2]
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B || uint8(a>>8) != want.A {
		t.Fatalf("decoded pixel (10,12) = %d,%d,%d,%d, want %v", r>>8, g>>8, b>>8, a>>8, want)
	}
}
