package sim

import (
	"log"
	"math"

	"grainfall/internal/material"
)

// Paint applies a material to a disk of cells centered at (x, y). With a
// soft brush each cell's inclusion probability falls off with distance
// from the center, clamped to [0.05, 1]; a hard brush fills the whole
// disk. Cells outside the grid are skipped, so a brush overlapping an
// edge is safe. Painting the void material erases.
func (e *Engine) Paint(x, y int, m material.Index, radius int, soft bool) {
	if int(m) >= len(e.beh) {
		log.Printf("sim: paint with unknown material %d ignored", m)
		return
	}
	temp := float32(e.cfg.Params.AmbientTemperature)
	if m != material.Void {
		temp = e.beh[m].Temp
	}
	if radius < 0 {
		radius = 0
	}
	r := float64(radius)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			if d > r {
				continue
			}
			if soft && r > 0 {
				p := 1 - d/r
				if p < 0.05 {
					p = 0.05
				}
				if !e.rng.Chance(p) {
					continue
				}
			}
			e.world.Set(x+dx, y+dy, m, temp)
		}
	}
}

// PaintID is Paint addressed by material identifier. An unknown id is a
// logged no-op, never a fallback to index 0, which would erase cells.
func (e *Engine) PaintID(x, y int, id string, radius int, soft bool) bool {
	idx, ok := e.reg.IndexOf(id)
	if !ok {
		log.Printf("sim: paint with unknown material %q ignored", id)
		return false
	}
	e.Paint(x, y, idx, radius, soft)
	return true
}
