//go:build ebiten

package app

import (
	"fmt"
	"log"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"grainfall/internal/core"
	"grainfall/internal/material"
	"grainfall/internal/render"
	"grainfall/internal/savestore"
	"grainfall/internal/sim"
	"grainfall/internal/ui"
	"grainfall/internal/world"
)

// quickSlot is the save slot bound to the F5/F9 keys.
const quickSlot = "quick"

// Game adapts the sandbox engine to the ebiten.Game interface.
type Game struct {
	eng     *sim.Engine
	painter *render.ChunkPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	store   *savestore.Store
	timer   *core.FixedStep

	entries []ui.MaterialEntry
	brush   ui.Brush
	painted []world.ChunkCoord

	scale    int
	hudWidth int
	shotsDir string
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided engine. store may be nil, which
// disables the save keys.
func New(eng *sim.Engine, store *savestore.Store, cfg *Config) *Game {
	size := eng.Size()
	g := &Game{
		eng:      eng,
		painter:  render.NewChunkPainter(size.W, size.H, eng.Registry().Palette()),
		store:    store,
		timer:    core.NewFixedStep(cfg.TPS),
		entries:  ui.PaintableMaterials(eng.Registry()),
		brush:    ui.NewBrush(),
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		shotsDir: cfg.ShotsDir,
		seed:     cfg.Seed,
	}
	g.hud = ui.NewHUD(eng, cfg.HUDWidth, g.entries, &g.brush)
	g.overlay = ui.NewOverlay(eng, cfg.Scale)
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.eng.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.handleBrushKeys()
	g.handleSaveKeys()

	if g.overlay != nil {
		g.overlay.Update()
	}
	if g.hud != nil {
		g.hud.Update(g.eng.Size().W * g.scale)
	}

	g.handleMouse()

	if g.paused {
		g.timer.Steps() // drain so unpausing does not burst
		if g.tickOnce {
			g.eng.Step()
			g.tickOnce = false
		}
		return nil
	}
	for i := g.timer.Steps(); i > 0; i-- {
		g.eng.Step()
	}
	return nil
}

func (g *Game) handleBrushKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.brush.Shrink()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.brush.Grow()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.brush.Soft = !g.brush.Soft
	}
	if _, wy := ebiten.Wheel(); wy > 0 {
		g.brush.Grow()
	} else if wy < 0 {
		g.brush.Shrink()
	}

	digits := []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
		ebiten.KeyDigit9, ebiten.KeyDigit0,
	}
	for i, key := range digits {
		if inpututil.IsKeyJustPressed(key) {
			g.brush.Select(i, len(g.entries))
		}
	}
}

func (g *Game) handleSaveKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.exportFrame()
	}
	if g.store == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := g.store.Save(quickSlot, g.eng.Snapshot(), g.eng.Tick()); err != nil {
			log.Printf("app: quicksave: %v", err)
		} else {
			log.Printf("app: saved %q at tick %d", quickSlot, g.eng.Tick())
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		snap, tick, err := g.store.Load(quickSlot)
		if err != nil {
			log.Printf("app: quickload: %v", err)
			return
		}
		if err := g.eng.RestoreAt(snap, tick); err != nil {
			log.Printf("app: quickload: %v", err)
			return
		}
		log.Printf("app: loaded %q at tick %d", quickSlot, tick)
	}
}

func (g *Game) exportFrame() {
	img := render.Export(g.eng.World(), g.eng.Registry().Palette())
	name := fmt.Sprintf("grainfall-%s-t%d.png", time.Now().Format("20060102-150405"), g.eng.Tick())
	path := filepath.Join(g.shotsDir, name)
	if err := render.WritePNG(path, img); err != nil {
		log.Printf("app: export frame: %v", err)
		return
	}
	log.Printf("app: wrote %s", path)
}

func (g *Game) handleMouse() {
	if len(g.entries) == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	size := g.eng.Size()
	if mx < 0 || my < 0 || mx >= size.W*g.scale || my >= size.H*g.scale {
		return
	}
	cx, cy := mx/g.scale, my/g.scale

	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		entry := g.entries[g.brush.Entry]
		g.eng.Paint(cx, cy, entry.PickIndex(rand.IntN), g.brush.Radius, g.brush.Soft)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		g.eng.Paint(cx, cy, material.Void, g.brush.Radius, false)
	}
}

// Draw renders the current simulation state, the overlays, and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painted = g.painter.RenderDirty(screen, g.eng.World(), g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen, g.painted)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.eng.Size().W*g.scale, g.scale)
	}
}

// Layout returns the logical screen size: the scaled world plus the panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.eng.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
