package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"grainfall/internal/world"
)

// ImagePainter renders a world into a CPU-side RGBA image, one pixel per
// cell. Headless tools and tests use it directly; the GUI painter shares
// the same region fill. RenderDirty repaints only the chunks the tracker
// reports, so its cost scales with how much of the world changed.
type ImagePainter struct {
	w, h    int
	img     *image.RGBA
	palette []color.RGBA
}

// NewImagePainter allocates a painter for a w×h cell grid. The palette is
// indexed by material index and is not copied; registries are read-only
// once built.
func NewImagePainter(w, h int, palette []color.RGBA) *ImagePainter {
	return &ImagePainter{
		w: w, h: h,
		img:     image.NewRGBA(image.Rect(0, 0, w, h)),
		palette: palette,
	}
}

// Image returns the backing image. It is valid until the next Render call
// and shared, not copied.
func (p *ImagePainter) Image() *image.RGBA { return p.img }

// RenderDirty repaints exactly the chunks taken from the world's tracker
// and returns them. A world of a different size than the painter is
// ignored; callers rebuild painters when the world is reallocated.
func (p *ImagePainter) RenderDirty(w *world.World) []world.ChunkCoord {
	size := w.Size()
	if size.W != p.w || size.H != p.h {
		return nil
	}
	chunks := w.Tracker().Take()
	for _, c := range chunks {
		x0, y0, x1, y1 := w.Tracker().CellRect(c)
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		off := p.img.PixOffset(x0, y0)
		fillRegionRGBA(p.img.Pix[off:], p.img.Stride, w.Cells(), size.W, x0, y0, x1, y1, p.palette)
	}
	return chunks
}

// RenderFull repaints every cell without consuming the tracker, so a
// snapshot render cannot starve a dirty-tracking painter of its marks.
func (p *ImagePainter) RenderFull(w *world.World) {
	size := w.Size()
	if size.W != p.w || size.H != p.h {
		return
	}
	fillRegionRGBA(p.img.Pix, p.img.Stride, w.Cells(), size.W, 0, 0, size.W, size.H, p.palette)
}

// Export paints the whole world into a fresh image. Convenience for
// one-shot PNG snapshots.
func Export(w *world.World, palette []color.RGBA) *image.RGBA {
	size := w.Size()
	p := NewImagePainter(size.W, size.H, palette)
	p.RenderFull(w)
	return p.img
}

// WritePNG encodes img into a file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
