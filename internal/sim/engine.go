package sim

import (
	"grainfall/internal/core"
	"grainfall/internal/material"
	"grainfall/internal/world"
	pkgcore "grainfall/pkg/core"
)

// diffusionWeight is the per-tick pull of a cell's temperature toward the
// mean of its orthogonal neighbors. Determinism tests depend on the exact
// value, so it is fixed rather than tunable.
const diffusionWeight float32 = 0.1

// boilBump is added to a cell's temperature when it boils into its vapor.
const boilBump float32 = 10

// orthoDirs lists the four orthogonal neighbor offsets in the fixed order
// reactions probe them: north, east, south, west.
var orthoDirs = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Engine advances a world one tick at a time. Each Step makes two full
// passes over the grid with a single buffer and immediate swaps:
//
// Pass 1 walks bottom row to top, left to right, moving granular, liquid
// and gas cells, then diffusing temperature and applying threshold
// transitions at each cell's post-move position. Scanning upward means a
// cell that fell lands in rows already visited and is not reprocessed,
// while two movers aiming at one destination resolve by iteration order:
// the second finds it occupied and falls through to its fallback.
//
// Pass 2 walks top to bottom applying neighbor reactions and lifespan
// aging, writing in place so a conversion is visible to cells visited
// after it.
type Engine struct {
	cfg Config
	reg *material.Registry
	beh []material.Behavior

	world *world.World
	rng   *pkgcore.RNG
	tick  uint64

	fire     material.Index
	hasFire  bool
	water    material.Index
	hasWater bool
}

// New builds an engine over a fresh world sized from the config. The
// registry must outlive the engine and is read-only from here on.
func New(cfg Config, reg *material.Registry) *Engine {
	e := &Engine{
		cfg: cfg,
		reg: reg,
		beh: reg.Behaviors(),
	}
	e.fire, e.hasFire = reg.Fire()
	e.water, e.hasWater = reg.Water()
	e.world = world.New(cfg.Width, cfg.Height, float32(cfg.Params.AmbientTemperature))
	e.rng = pkgcore.NewRNG(cfg.Seed)
	return e
}

// Name returns the simulation identifier.
func (e *Engine) Name() string { return "grainfall" }

// Size returns the grid dimensions.
func (e *Engine) Size() core.Size { return e.world.Size() }

// World exposes the grid the engine mutates.
func (e *Engine) World() *world.World { return e.world }

// TemperatureField exposes the temperature layer for overlays.
func (e *Engine) TemperatureField() []float32 { return e.world.Temps() }

// Registry returns the material registry the engine dispatches on.
func (e *Engine) Registry() *material.Registry { return e.reg }

// Config returns the current configuration.
func (e *Engine) Config() Config { return e.cfg }

// Tick returns the number of completed steps since the last reset.
func (e *Engine) Tick() uint64 { return e.tick }

// Reset discards the world and random stream. A zero seed falls back to
// the configured seed, so Reset(0) reproduces the initial run.
func (e *Engine) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = e.cfg.Seed
	}
	e.rng = pkgcore.NewRNG(effective)
	e.world = world.New(e.cfg.Width, e.cfg.Height, float32(e.cfg.Params.AmbientTemperature))
	e.tick = 0
}

// Snapshot copies the current world state.
func (e *Engine) Snapshot() world.Snapshot { return e.world.Snapshot() }

// Restore replaces the world state from a snapshot of matching shape.
func (e *Engine) Restore(s world.Snapshot) error { return e.world.Restore(s) }

// RestoreAt is Restore plus the tick counter, for resuming saved games.
func (e *Engine) RestoreAt(s world.Snapshot, tick uint64) error {
	if err := e.world.Restore(s); err != nil {
		return err
	}
	e.tick = tick
	return nil
}

// Step advances the world by one tick.
func (e *Engine) Step() {
	s := e.world.Size()
	cells := e.world.Cells()

	for y := s.H - 1; y >= 0; y-- {
		for x := 0; x < s.W; x++ {
			m := cells[y*s.W+x]
			if m == material.Void || int(m) >= len(e.beh) {
				continue
			}
			b := &e.beh[m]
			if b.Caps.Has(material.CapStatic) {
				continue
			}
			nx, ny := x, y
			if b.Movable() {
				nx, ny = e.move(x, y, b)
			}
			if e.cfg.Params.Temperature {
				e.diffuse(nx, ny)
				e.transition(nx, ny)
			}
		}
	}

	if e.cfg.Params.Reactions {
		for y := 0; y < s.H; y++ {
			for x := 0; x < s.W; x++ {
				e.react(x, y)
			}
		}
	}
	e.tick++
}

// move applies the material's movement rule and returns the cell's
// position afterwards. Granular cells fall, then try one random
// diagonal. Liquids fall, then flow one random direction sideways.
// Gases rise straight up.
func (e *Engine) move(x, y int, b *material.Behavior) (int, int) {
	switch {
	case b.Caps.Has(material.CapLiquid):
		if e.sinkable(b, x, y+1) {
			e.world.Swap(x, y, x, y+1)
			return x, y + 1
		}
		d := e.rng.Dir()
		if e.sinkable(b, x+d, y) {
			e.world.Swap(x, y, x+d, y)
			return x + d, y
		}
	case b.Caps.Has(material.CapGas):
		if e.buoyant(b, x, y-1) {
			e.world.Swap(x, y, x, y-1)
			return x, y - 1
		}
	default:
		if e.sinkable(b, x, y+1) {
			e.world.Swap(x, y, x, y+1)
			return x, y + 1
		}
		d := e.rng.Dir()
		if e.sinkable(b, x+d, y+1) {
			e.world.Swap(x, y, x+d, y+1)
			return x + d, y + 1
		}
	}
	return x, y
}

// sinkable reports whether a falling or laterally flowing mover may enter
// (x, y): the cell must be empty or hold a strictly lighter movable
// material, which gets displaced by the swap. Requiring strictly lower
// density keeps equal neighbors (a water column, a sand pile) from
// swapping in place forever.
func (e *Engine) sinkable(b *material.Behavior, x, y int) bool {
	m, ok := e.world.MaterialAt(x, y)
	if !ok {
		return false
	}
	if m == material.Void {
		return true
	}
	if int(m) >= len(e.beh) {
		return false
	}
	d := &e.beh[m]
	return d.Movable() && d.Density < b.Density
}

// buoyant is the upward counterpart: a riser may enter empty space or
// displace a strictly denser movable material above it.
func (e *Engine) buoyant(b *material.Behavior, x, y int) bool {
	m, ok := e.world.MaterialAt(x, y)
	if !ok {
		return false
	}
	if m == material.Void {
		return true
	}
	if int(m) >= len(e.beh) {
		return false
	}
	d := &e.beh[m]
	return d.Movable() && d.Density > b.Density
}

// diffuse pulls the cell's temperature toward the mean of its in-bounds
// orthogonal neighbors. Neighbors past the grid edge are simply absent,
// they do not count as ambient.
func (e *Engine) diffuse(x, y int) {
	s := e.world.Size()
	temps := e.world.Temps()
	var sum float32
	n := 0
	for _, d := range orthoDirs {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= s.W || ny < 0 || ny >= s.H {
			continue
		}
		sum += temps[ny*s.W+nx]
		n++
	}
	if n == 0 {
		return
	}
	i := y*s.W + x
	temps[i] += diffusionWeight * (sum/float32(n) - temps[i])
}

// transition applies at most one threshold conversion to the cell, in
// fixed priority: boil, then solidify, then ignite. Boiling keeps the
// cell's heat plus a fixed bump; the other two reset to the target's
// default temperature.
func (e *Engine) transition(x, y int) {
	s := e.world.Size()
	i := y*s.W + x
	m := e.world.Cells()[i]
	if m == material.Void || int(m) >= len(e.beh) {
		return
	}
	b := &e.beh[m]
	t := e.world.Temps()[i]
	switch {
	case b.HasBoil && t >= b.BoilsAt:
		e.world.Convert(x, y, b.BoilsInto, t+boilBump)
	case b.HasSolidify && t <= b.SolidifiesAt:
		e.convert(x, y, b.SolidifiesInto)
	case b.HasIgnite && e.hasFire && t >= b.IgnitesAt:
		e.convert(x, y, e.fire)
	}
}

// convert replaces the material at (x, y), resetting temperature to the
// target's default, or to ambient when the target is void.
func (e *Engine) convert(x, y int, to material.Index) {
	temp := float32(e.cfg.Params.AmbientTemperature)
	if to != material.Void {
		temp = e.beh[to].Temp
	}
	e.world.Convert(x, y, to, temp)
}

// react applies neighbor-triggered reactions for one cell: a corroder
// rolls against each corrodible neighbor, a flammable cell rolls against
// each adjacent fire, a grower against each adjacent water. Every roll
// draws one fresh sample. At most one self-conversion happens per cell
// per tick; aging only advances when the cell survived unchanged.
func (e *Engine) react(x, y int) {
	s := e.world.Size()
	cells := e.world.Cells()
	i := y*s.W + x
	m := cells[i]
	if m == material.Void || int(m) >= len(e.beh) {
		return
	}
	b := &e.beh[m]

	if b.Corrodes > 0 {
		for _, d := range orthoDirs {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= s.W || ny < 0 || ny >= s.H {
				continue
			}
			nm := cells[ny*s.W+nx]
			if nm == material.Void || int(nm) >= len(e.beh) {
				continue
			}
			nb := &e.beh[nm]
			if nb.Corrodible && e.rng.Chance(float64(b.Corrodes)) {
				e.convert(nx, ny, nb.CorrodesInto)
			}
		}
	}

	if b.CatchesFire > 0 && e.hasFire {
		for _, d := range orthoDirs {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= s.W || ny < 0 || ny >= s.H {
				continue
			}
			if cells[ny*s.W+nx] == e.fire && e.rng.Chance(float64(b.CatchesFire)) {
				e.convert(x, y, e.fire)
				return
			}
		}
	}

	if b.GrowsNearWater > 0 && e.hasWater {
		for _, d := range orthoDirs {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= s.W || ny < 0 || ny >= s.H {
				continue
			}
			if cells[ny*s.W+nx] == e.water && e.rng.Chance(float64(b.GrowsNearWater)) {
				e.convert(x, y, b.GrowsInto)
				return
			}
		}
	}

	if b.Lifespan > 0 {
		ages := e.world.Ages()
		ages[i]++
		if ages[i] >= b.Lifespan {
			e.convert(x, y, b.DecaysInto)
		}
	}
}
