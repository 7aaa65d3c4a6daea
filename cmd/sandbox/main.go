//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"grainfall/internal/app"
	"grainfall/internal/material"
	"grainfall/internal/savestore"
	"grainfall/internal/sim"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	pack := material.DefaultPack()
	if cfg.Pack != "" {
		loaded, err := material.LoadPack(cfg.Pack)
		if err != nil {
			log.Fatalf("load pack %s: %v", cfg.Pack, err)
		}
		pack = loaded
	}
	reg, errs := material.Build(pack, cfg.Seed)
	if len(errs) > 0 {
		log.Printf("materials: %d definitions skipped", len(errs))
	}

	simCfg := sim.DefaultConfig()
	simCfg.Width = cfg.Width
	simCfg.Height = cfg.Height
	simCfg.Seed = cfg.Seed
	eng := sim.New(simCfg, reg)

	var store *savestore.Store
	if cfg.SaveDir != "" {
		s, err := savestore.Open(cfg.SaveDir, reg.Digest())
		if err != nil {
			log.Fatalf("open save store: %v", err)
		}
		defer s.Close()
		store = s
	}

	game := app.New(eng, store, cfg)
	size := eng.Size()

	ebiten.SetWindowTitle("grainfall")
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
