package app

import (
	"flag"
	"testing"
)

func TestConfigBindOverridesDefaults(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)

	args := []string{
		"-pack", "m.yaml",
		"-width", "64",
		"-height", "48",
		"-scale", "2",
		"-tps", "30",
		"-seed", "99",
		"-saves", "",
		"-hud", "0",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Pack != "m.yaml" || cfg.Width != 64 || cfg.Height != 48 {
		t.Fatalf("cfg = %+v, flags not applied", cfg)
	}
	if cfg.Scale != 2 || cfg.TPS != 30 || cfg.Seed != 99 {
		t.Fatalf("cfg = %+v, flags not applied", cfg)
	}
	if cfg.SaveDir != "" || cfg.HUDWidth != 0 {
		t.Fatalf("cfg = %+v, empty overrides not applied", cfg)
	}
}

func TestConfigDefaultsAreUsable(t *testing.T) {
	cfg := NewConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Fatalf("default dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Scale <= 0 || cfg.TPS <= 0 {
		t.Fatalf("default scale %d tps %d", cfg.Scale, cfg.TPS)
	}
}
