//go:build ebiten

package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"grainfall/internal/world"
)

// ChunkPainter keeps the world in a GPU-resident image and uploads only
// the pixel rectangles of chunks the tracker reports dirty, then draws the
// image scaled to the destination. Cells are flat unit blocks; the default
// nearest filter keeps them unsmoothed at any scale.
type ChunkPainter struct {
	w, h    int
	img     *ebiten.Image
	palette []color.RGBA
	buf     []byte
}

// NewChunkPainter allocates a painter for a w×h cell grid.
func NewChunkPainter(w, h int, palette []color.RGBA) *ChunkPainter {
	return &ChunkPainter{
		w: w, h: h,
		img:     ebiten.NewImage(w, h),
		palette: palette,
		buf:     make([]byte, 4*world.ChunkSize*world.ChunkSize),
	}
}

// RenderDirty uploads the taken dirty chunks, draws the world image onto
// dst at the given integer scale and returns the chunks it repainted.
func (p *ChunkPainter) RenderDirty(dst *ebiten.Image, w *world.World, scale int) []world.ChunkCoord {
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
		rw, rh := x1-x0, y1-y0
		buf := p.buf[:4*rw*rh]
		fillRegionRGBA(buf, 4*rw, w.Cells(), size.W, x0, y0, x1, y1, p.palette)
		p.img.SubImage(image.Rect(x0, y0, x1, y1)).(*ebiten.Image).ReplacePixels(buf)
	}

	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
	return chunks
}

// Size returns the dimensions of the underlying image in cells.
func (p *ChunkPainter) Size() (int, int) { return p.w, p.h }
