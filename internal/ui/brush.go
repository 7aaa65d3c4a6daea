package ui

import (
	"image/color"
	"strings"

	"grainfall/internal/material"
)

// Brush radius limits in cells.
const (
	MinBrushRadius = 1
	MaxBrushRadius = 48
)

// Brush is the active painting tool: which palette entry the cursor
// deposits, how wide the deposit disk is, and whether the edge feathers.
type Brush struct {
	Entry  int
	Radius int
	Soft   bool
}

// NewBrush returns the default tool: the first palette entry, a small
// soft disk.
func NewBrush() Brush {
	return Brush{Entry: 0, Radius: 4, Soft: true}
}

// Grow widens the brush by one cell, up to MaxBrushRadius.
func (b *Brush) Grow() {
	if b.Radius < MaxBrushRadius {
		b.Radius++
	}
}

// Shrink narrows the brush by one cell, down to MinBrushRadius.
func (b *Brush) Shrink() {
	if b.Radius > MinBrushRadius {
		b.Radius--
	}
}

// Select points the brush at palette entry i if it exists.
func (b *Brush) Select(i, paletteLen int) {
	if i >= 0 && i < paletteLen {
		b.Entry = i
	}
}

// MaterialEntry is one selectable material in the palette strip, together
// with the tinted variants registered from it.
type MaterialEntry struct {
	ID       string
	Name     string
	Index    material.Index
	Color    color.RGBA
	Variants []material.Index
}

// PickIndex returns the entry's base index or one of its tinted variants,
// chosen by n (a rand.IntN-shaped source). Painting a textured material
// lands strokes with varied color instead of a flat fill.
func (e MaterialEntry) PickIndex(n func(int) int) material.Index {
	if len(e.Variants) == 0 || n == nil {
		return e.Index
	}
	k := n(len(e.Variants) + 1)
	if k == 0 {
		return e.Index
	}
	return e.Variants[k-1]
}

// PaintableMaterials lists base materials in registry order. Void is not
// offered as a brush (erasing is its own gesture) and derived variants
// fold into their base entry rather than appearing on the strip.
func PaintableMaterials(reg *material.Registry) []MaterialEntry {
	palette := reg.Palette()
	byID := make(map[string]int)
	var out []MaterialEntry
	for i := 1; i < reg.Count(); i++ {
		idx := material.Index(i)
		d, err := reg.Get(idx)
		if err != nil {
			continue
		}
		if base, _, isVariant := strings.Cut(d.ID, "/"); isVariant {
			if at, ok := byID[base]; ok {
				out[at].Variants = append(out[at].Variants, idx)
			}
			continue
		}
		byID[d.ID] = len(out)
		out = append(out, MaterialEntry{
			ID:    d.ID,
			Name:  d.Name,
			Index: idx,
			Color: palette[i],
		})
	}
	return out
}
