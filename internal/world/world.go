package world

import (
	"grainfall/internal/core"
	"grainfall/internal/material"
)

// World holds the simulation state as flat row-major layers: one material
// index, one temperature and one age counter per cell. Ages feed lifespan
// decay and are carried along when cells move.
type World struct {
	size    core.Size
	ambient float32

	cells []material.Index
	temps []float32
	ages  []uint8

	tracker *Tracker
}

// New allocates an empty world at the ambient temperature. Every chunk
// starts dirty so the first frame paints everything.
func New(w, h int, ambient float32) *World {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	wd := &World{
		size:    core.Size{W: w, H: h},
		ambient: ambient,
		cells:   make([]material.Index, w*h),
		temps:   make([]float32, w*h),
		ages:    make([]uint8, w*h),
		tracker: NewTracker(w, h),
	}
	for i := range wd.temps {
		wd.temps[i] = ambient
	}
	wd.tracker.MarkAll()
	return wd
}

// Size returns the grid dimensions in cells.
func (w *World) Size() core.Size { return w.size }

// Ambient returns the temperature empty cells are treated as holding.
func (w *World) Ambient() float32 { return w.ambient }

// InBounds reports whether (x, y) addresses a cell.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.size.W && y >= 0 && y < w.size.H
}

// Index returns the linear slice index for coordinates (x, y).
func (w *World) Index(x, y int) int { return y*w.size.W + x }

// Cells exposes the material layer for the tick loop.
func (w *World) Cells() []material.Index { return w.cells }

// Temps exposes the temperature layer for the tick loop.
func (w *World) Temps() []float32 { return w.temps }

// Ages exposes the age layer for the tick loop.
func (w *World) Ages() []uint8 { return w.ages }

// Tracker returns the dirty-chunk tracker.
func (w *World) Tracker() *Tracker { return w.tracker }

// MaterialAt returns the material at (x, y), or false out of bounds.
func (w *World) MaterialAt(x, y int) (material.Index, bool) {
	if !w.InBounds(x, y) {
		return material.Void, false
	}
	return w.cells[w.Index(x, y)], true
}

// TemperatureAt returns the temperature at (x, y), or false out of bounds.
func (w *World) TemperatureAt(x, y int) (float32, bool) {
	if !w.InBounds(x, y) {
		return 0, false
	}
	return w.temps[w.Index(x, y)], true
}

// AgeAt returns the age byte at (x, y), or false out of bounds.
func (w *World) AgeAt(x, y int) (uint8, bool) {
	if !w.InBounds(x, y) {
		return 0, false
	}
	return w.ages[w.Index(x, y)], true
}

// Set places a material with the given temperature, resetting the cell's
// age. Out-of-bounds coordinates are ignored. The chunk is marked dirty
// only when the material actually changes.
func (w *World) Set(x, y int, m material.Index, temp float32) bool {
	if !w.InBounds(x, y) {
		return false
	}
	i := w.Index(x, y)
	if w.cells[i] != m {
		w.cells[i] = m
		w.tracker.MarkCell(x, y)
	}
	w.temps[i] = temp
	w.ages[i] = 0
	return true
}

// SetTemperature adjusts a cell's temperature without touching material or
// age. Temperature alone does not change the display color, so the chunk
// is not marked.
func (w *World) SetTemperature(x, y int, t float32) bool {
	if !w.InBounds(x, y) {
		return false
	}
	w.temps[w.Index(x, y)] = t
	return true
}

// Swap exchanges two cells, carrying material, temperature and age
// together. Both chunks are marked when the materials differ. Either end
// out of bounds makes the whole swap a no-op.
func (w *World) Swap(ax, ay, bx, by int) bool {
	if !w.InBounds(ax, ay) || !w.InBounds(bx, by) {
		return false
	}
	a, b := w.Index(ax, ay), w.Index(bx, by)
	w.temps[a], w.temps[b] = w.temps[b], w.temps[a]
	w.ages[a], w.ages[b] = w.ages[b], w.ages[a]
	if w.cells[a] == w.cells[b] {
		return true
	}
	w.cells[a], w.cells[b] = w.cells[b], w.cells[a]
	w.tracker.MarkCell(ax, ay)
	w.tracker.MarkCell(bx, by)
	return true
}

// Convert replaces the material at (x, y) in place, resetting temperature
// to the given value and age to zero. Out of bounds is a no-op.
func (w *World) Convert(x, y int, m material.Index, temp float32) bool {
	if !w.InBounds(x, y) {
		return false
	}
	i := w.Index(x, y)
	changed := w.cells[i] != m
	w.cells[i] = m
	w.temps[i] = temp
	w.ages[i] = 0
	if changed {
		w.tracker.MarkCell(x, y)
	}
	return true
}
