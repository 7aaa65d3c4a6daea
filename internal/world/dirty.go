package world

// ChunkSize is the edge length of a dirty-tracking chunk in cells.
const ChunkSize = 16

// ChunkCoord addresses one chunk in chunk units.
type ChunkCoord struct {
	X, Y int
}

// Tracker records which chunks contain cells that changed since the last
// Take. Rendering cost then scales with how much of the world changed
// rather than with its size.
type Tracker struct {
	w, h   int // grid size in cells
	cw, ch int // grid size in chunks
	dirty  []bool
	count  int
}

// NewTracker covers a w×h cell grid. Partial chunks at the right and
// bottom edges are tracked like full ones.
func NewTracker(w, h int) *Tracker {
	cw := (w + ChunkSize - 1) / ChunkSize
	ch := (h + ChunkSize - 1) / ChunkSize
	return &Tracker{
		w: w, h: h,
		cw: cw, ch: ch,
		dirty: make([]bool, cw*ch),
	}
}

// MarkCell marks the chunk containing cell (x, y). Out-of-bounds
// coordinates are ignored.
func (t *Tracker) MarkCell(x, y int) {
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		return
	}
	i := (y/ChunkSize)*t.cw + x/ChunkSize
	if !t.dirty[i] {
		t.dirty[i] = true
		t.count++
	}
}

// MarkAll marks every chunk.
func (t *Tracker) MarkAll() {
	for i := range t.dirty {
		t.dirty[i] = true
	}
	t.count = len(t.dirty)
}

// Pending returns how many chunks are currently marked.
func (t *Tracker) Pending() int { return t.count }

// Take returns the marked chunks in row-major order and clears the set.
func (t *Tracker) Take() []ChunkCoord {
	if t.count == 0 {
		return nil
	}
	out := make([]ChunkCoord, 0, t.count)
	for cy := 0; cy < t.ch; cy++ {
		for cx := 0; cx < t.cw; cx++ {
			i := cy*t.cw + cx
			if t.dirty[i] {
				out = append(out, ChunkCoord{X: cx, Y: cy})
				t.dirty[i] = false
			}
		}
	}
	t.count = 0
	return out
}

// CellRect returns the half-open cell rectangle a chunk covers, clipped to
// the grid. Chunks outside the grid yield an empty rectangle.
func (t *Tracker) CellRect(c ChunkCoord) (x0, y0, x1, y1 int) {
	x0 = c.X * ChunkSize
	y0 = c.Y * ChunkSize
	x1 = x0 + ChunkSize
	y1 = y0 + ChunkSize
	if x0 < 0 || y0 < 0 || x0 >= t.w || y0 >= t.h {
		return 0, 0, 0, 0
	}
	if x1 > t.w {
		x1 = t.w
	}
	if y1 > t.h {
		y1 = t.h
	}
	return x0, y0, x1, y1
}
