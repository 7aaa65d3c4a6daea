//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"grainfall/internal/core"
	"grainfall/internal/world"
)

type temperatureFieldProvider interface {
	TemperatureField() []float32
}

// Overlay draws optional debugging visuals on top of the base view: a
// temperature heatmap and an outline flash of the chunks repainted this
// frame.
type Overlay struct {
	sim   Sim
	scale int

	showHeat   bool
	showChunks bool

	heatImg *ebiten.Image
	heatBuf []byte

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlay layers from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showChunks = !o.showChunks
	}
}

// Draw renders the enabled layers onto the screen. painted lists the
// chunks the renderer repainted this frame.
func (o *Overlay) Draw(screen *ebiten.Image, painted []world.ChunkCoord) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showHeat {
		if provider, ok := o.sim.(temperatureFieldProvider); ok {
			o.drawHeat(screen, provider.TemperatureField(), size, scale)
		}
	}
	if o.showChunks {
		o.drawChunks(screen, painted, size, scale)
	}
}

// drawHeat normalizes the field between its live min and max, so the map
// stays readable whether the scene spans lava or a single warm puddle.
func (o *Overlay) drawHeat(screen *ebiten.Image, field []float32, size core.Size, scale int) {
	total := size.W * size.H
	if len(field) != total || total == 0 {
		return
	}
	if o.heatImg == nil || o.heatImg.Bounds().Dx() != size.W || o.heatImg.Bounds().Dy() != size.H {
		o.heatImg = ebiten.NewImage(size.W, size.H)
		o.heatBuf = make([]byte, 4*total)
	} else if len(o.heatBuf) != 4*total {
		o.heatBuf = make([]byte, 4*total)
	}

	minVal := field[0]
	maxVal := field[0]
	for _, v := range field {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rangeVal := float64(maxVal - minVal)
	if rangeVal == 0 {
		rangeVal = 1
	}

	for i := 0; i < total; i++ {
		base := i * 4
		normalized := clamp01(float64(field[i]-minVal) / rangeVal)
		col := heatColor(normalized)
		o.heatBuf[base+0] = col.R
		o.heatBuf[base+1] = col.G
		o.heatBuf[base+2] = col.B
		o.heatBuf[base+3] = col.A
	}

	o.heatImg.ReplacePixels(o.heatBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.heatImg, op)
}

func (o *Overlay) drawChunks(screen *ebiten.Image, painted []world.ChunkCoord, size core.Size, scale int) {
	if o.pixel == nil {
		return
	}
	col := color.RGBA{R: 255, G: 220, B: 80, A: 150}
	span := world.ChunkSize * scale
	maxX := size.W * scale
	maxY := size.H * scale
	for _, c := range painted {
		x0 := c.X * span
		y0 := c.Y * span
		x1 := x0 + span
		y1 := y0 + span
		if x1 > maxX {
			x1 = maxX
		}
		if y1 > maxY {
			y1 = maxY
		}
		o.outline(screen, image.Rect(x0, y0, x1, y1), col)
	}
}

func (o *Overlay) outline(screen *ebiten.Image, rect image.Rectangle, col color.RGBA) {
	o.fill(screen, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), col)
	o.fill(screen, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), col)
	o.fill(screen, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), col)
	o.fill(screen, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), col)
}

func (o *Overlay) fill(screen *ebiten.Image, rect image.Rectangle, col color.RGBA) {
	if rect.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

// heatColor maps a normalized temperature onto a cold-to-hot ramp.
func heatColor(t float64) color.RGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 30, G: 50, B: 140, A: 70}},
		{0.3, color.RGBA{R: 40, G: 140, B: 200, A: 90}},
		{0.6, color.RGBA{R: 230, G: 150, B: 40, A: 130}},
		{0.85, color.RGBA{R: 250, G: 70, B: 30, A: 160}},
		{1.0, color.RGBA{R: 255, G: 240, B: 220, A: 190}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			span := curr.t - prev.t
			var local float64
			if span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, clamp01(local))
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
