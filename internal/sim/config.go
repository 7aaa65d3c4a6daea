package sim

// Params holds the tunable knobs of the tick engine. Movement rules are
// fixed per material; only the ambient baseline and the optional stages
// can be adjusted.
type Params struct {
	AmbientTemperature float64

	// Temperature toggles the diffusion and threshold-transition stage.
	Temperature bool
	// Reactions toggles the neighbor-reaction and lifespan pass.
	Reactions bool
}

// Config controls the sandbox dimensions and determinism seed.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 192,
		Seed:   1337,
		Params: Params{
			AmbientTemperature: 22,
			Temperature:        true,
			Reactions:          true,
		},
	}
}
