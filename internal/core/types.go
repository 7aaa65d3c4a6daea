package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Stepper is the minimal contract the frame loop and headless runners need
// from a simulation: advance one tick.
type Stepper interface {
	Step()
}
