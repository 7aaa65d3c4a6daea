// Command soak runs the sandbox headless through a set of named scenarios
// and reports throughput and a final-state digest per scenario. With
// -verify each scenario runs twice from scratch and the digests must
// agree, which catches any nondeterminism in the tick engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"grainfall/internal/material"
	"grainfall/internal/render"
	"grainfall/internal/savestore"
	"grainfall/internal/sim"
)

type scenario struct {
	name  string
	setup func(eng *sim.Engine)
}

type result struct {
	name     string
	steps    int
	elapsed  time.Duration
	occupied int
	digest   string
	verified bool
	mismatch bool
}

func main() {
	steps := flag.Int("steps", 600, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	width := flag.Int("width", 192, "world width in cells")
	height := flag.Int("height", 144, "world height in cells")
	seed := flag.Int64("seed", 1337, "simulation seed")
	packPath := flag.String("pack", "", "materials YAML pack (empty = built-in set)")
	names := flag.String("scenario", "all", "comma-separated scenario names, or all")
	verify := flag.Bool("verify", false, "run each scenario twice and compare digests")
	pngDir := flag.String("png", "", "directory for final-frame PNGs (empty = skip)")
	outDir := flag.String("out", "", "save-slot directory for final snapshots (empty = skip)")
	flag.Parse()

	pack := material.DefaultPack()
	if *packPath != "" {
		loaded, err := material.LoadPack(*packPath)
		if err != nil {
			log.Fatalf("load pack %s: %v", *packPath, err)
		}
		pack = loaded
	}
	reg, errs := material.Build(pack, *seed)
	if len(errs) > 0 {
		log.Printf("materials: %d definitions skipped", len(errs))
	}

	cfg := sim.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.Seed = *seed

	selected, err := selectScenarios(*names)
	if err != nil {
		log.Fatal(err)
	}

	var store *savestore.Store
	if *outDir != "" {
		store, err = savestore.Open(*outDir, reg.Digest())
		if err != nil {
			log.Fatalf("open save store: %v", err)
		}
		defer store.Close()
	}
	if *pngDir != "" {
		if err := os.MkdirAll(*pngDir, 0o755); err != nil {
			log.Fatalf("create png dir: %v", err)
		}
	}

	fmt.Printf("Soaking %d scenarios on %dx%d for %d steps (%d workers, seed %d)\n",
		len(selected), cfg.Width, cfg.Height, *steps, *workers, *seed)

	jobs := make(chan scenario)
	results := make(chan result)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(reg, cfg, sc, *steps, *verify, *pngDir, store)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range selected {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []result
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].name < all[j].name })

	failed := false
	cells := cfg.Width * cfg.Height
	for _, res := range all {
		rate := float64(res.steps) / res.elapsed.Seconds()
		note := ""
		if res.verified {
			note = "  deterministic"
		}
		if res.mismatch {
			note = "  DIGEST MISMATCH"
			failed = true
		}
		fmt.Printf("%-10s %6d steps in %8s  %7.1f steps/s  %6.1fM cells/s  %6d occupied  %.12s%s\n",
			res.name, res.steps, res.elapsed.Round(time.Millisecond), rate,
			rate*float64(cells)/1e6, res.occupied, res.digest, note)
	}
	fmt.Printf("Total %s\n", time.Since(start).Round(time.Millisecond))

	if failed {
		os.Exit(1)
	}
}

func selectScenarios(names string) ([]scenario, error) {
	if names == "all" || names == "" {
		return scenarios, nil
	}
	byName := make(map[string]scenario, len(scenarios))
	for _, sc := range scenarios {
		byName[sc.name] = sc
	}
	var out []scenario
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		sc, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (have %s)", name, scenarioNames())
		}
		out = append(out, sc)
	}
	return out, nil
}

func scenarioNames() string {
	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.name
	}
	return strings.Join(names, ", ")
}

func runScenario(reg *material.Registry, cfg sim.Config, sc scenario, steps int, verify bool, pngDir string, store *savestore.Store) result {
	run := func() (*sim.Engine, string, time.Duration) {
		eng := sim.New(cfg, reg)
		sc.setup(eng)
		start := time.Now()
		for i := 0; i < steps; i++ {
			eng.Step()
		}
		return eng, eng.Snapshot().Digest(), time.Since(start)
	}

	eng, digest, elapsed := run()
	res := result{name: sc.name, steps: steps, elapsed: elapsed, digest: digest}

	snap := eng.Snapshot()
	for _, m := range snap.Materials {
		if m != material.Void {
			res.occupied++
		}
	}

	if verify {
		_, second, _ := run()
		res.verified = true
		res.mismatch = second != digest
	}

	if pngDir != "" {
		img := render.Export(eng.World(), reg.Palette())
		path := filepath.Join(pngDir, sc.name+".png")
		if err := render.WritePNG(path, img); err != nil {
			log.Printf("soak: write %s: %v", path, err)
		}
	}
	if store != nil {
		if err := store.Save(sc.name, snap, eng.Tick()); err != nil {
			log.Printf("soak: save %s: %v", sc.name, err)
		}
	}
	return res
}

// Scenario setups only use materials from the built-in pack; with a
// custom pack, setups silently skip the identifiers it lacks.
var scenarios = []scenario{
	{name: "rainfall", setup: setupRainfall},
	{name: "hourglass", setup: setupHourglass},
	{name: "cauldron", setup: setupCauldron},
	{name: "wildfire", setup: setupWildfire},
	{name: "acid-bath", setup: setupAcidBath},
	{name: "garden", setup: setupGarden},
}

// rect fills [x0,x1)x[y0,y1) with a material, cell by cell.
func rect(eng *sim.Engine, id string, x0, y0, x1, y1 int) {
	idx, ok := eng.Registry().IndexOf(id)
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			eng.Paint(x, y, idx, 0, false)
		}
	}
}

func floor(eng *sim.Engine) {
	s := eng.Size()
	rect(eng, "wall", 0, s.H-2, s.W, s.H)
}

// setupRainfall drops sand plumes and a water plume from near the top.
func setupRainfall(eng *sim.Engine) {
	s := eng.Size()
	floor(eng)
	if sand, ok := eng.Registry().IndexOf("sand"); ok {
		eng.Paint(s.W/5, s.H/8, sand, 7, true)
		eng.Paint(s.W/2, s.H/6, sand, 9, true)
		eng.Paint(4*s.W/5, s.H/8, sand, 7, true)
	}
	if water, ok := eng.Registry().Water(); ok {
		eng.Paint(s.W/3, s.H/4, water, 8, true)
	}
}

// setupHourglass funnels a sand block through a one-cell gap.
func setupHourglass(eng *sim.Engine) {
	s := eng.Size()
	floor(eng)
	mid := s.W / 2
	neck := s.H / 2
	wall, ok := eng.Registry().IndexOf("wall")
	if !ok {
		return
	}
	for i := 0; mid-3-i > 0; i++ {
		y := neck - i
		if y < 0 {
			break
		}
		eng.Paint(mid-3-i, y, wall, 0, false)
		eng.Paint(mid+3+i, y, wall, 0, false)
	}
	rect(eng, "sand", s.W/4, s.H/8, 3*s.W/4, s.H/3)
}

// setupCauldron pours water onto a lava pool inside a walled basin.
func setupCauldron(eng *sim.Engine) {
	s := eng.Size()
	floor(eng)
	rect(eng, "wall", s.W/5-2, s.H/2, s.W/5, s.H-2)
	rect(eng, "wall", 4*s.W/5, s.H/2, 4*s.W/5+2, s.H-2)
	rect(eng, "lava", s.W/5, 7*s.H/8, 4*s.W/5, s.H-2)
	rect(eng, "water", s.W/3, s.H/4, 2*s.W/3, s.H/3)
}

// setupWildfire lights one corner of an oil-soaked plant bed.
func setupWildfire(eng *sim.Engine) {
	s := eng.Size()
	floor(eng)
	rect(eng, "plant", s.W/8, s.H-8, 7*s.W/8, s.H-2)
	if oil, ok := eng.Registry().IndexOf("oil"); ok {
		eng.Paint(s.W/3, s.H-12, oil, 6, true)
		eng.Paint(2*s.W/3, s.H-12, oil, 6, true)
	}
	rect(eng, "fire", s.W/8, s.H-10, s.W/8+3, s.H-8)
}

// setupAcidBath drips acid onto a metal slab.
func setupAcidBath(eng *sim.Engine) {
	s := eng.Size()
	floor(eng)
	rect(eng, "metal", s.W/4, 2*s.H/3, 3*s.W/4, 2*s.H/3+4)
	if acid, ok := eng.Registry().IndexOf("acid"); ok {
		eng.Paint(s.W/3, s.H/3, acid, 5, true)
		eng.Paint(s.W/2, s.H/4, acid, 5, true)
		eng.Paint(2*s.W/3, s.H/3, acid, 5, true)
	}
}

// setupGarden sprinkles seeds over a pond.
func setupGarden(eng *sim.Engine) {
	s := eng.Size()
	floor(eng)
	rect(eng, "water", s.W/4, s.H-10, 3*s.W/4, s.H-2)
	if seed, ok := eng.Registry().IndexOf("seed"); ok {
		eng.Paint(s.W/3, s.H/2, seed, 4, true)
		eng.Paint(s.W/2, s.H/2-6, seed, 4, true)
		eng.Paint(2*s.W/3, s.H/2, seed, 4, true)
	}
}
