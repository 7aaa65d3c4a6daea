package app

import "flag"

// Config represents the command-line parameters for the application.
type Config struct {
	Pack     string
	Width    int
	Height   int
	Scale    int
	TPS      int
	Seed     int64
	SaveDir  string
	ShotsDir string
	HUDWidth int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    256,
		Height:   192,
		Scale:    3,
		TPS:      60,
		Seed:     1337,
		SaveDir:  "saves",
		ShotsDir: ".",
		HUDWidth: 220,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Pack, "pack", c.Pack, "materials YAML pack (empty = built-in set)")
	fs.IntVar(&c.Width, "width", c.Width, "world width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "world height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.SaveDir, "saves", c.SaveDir, "directory for save slots (empty disables saving)")
	fs.StringVar(&c.ShotsDir, "shots", c.ShotsDir, "directory for exported PNG frames")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "control panel width in pixels (0 hides it)")
}
