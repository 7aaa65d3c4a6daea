// Package ui draws the control panel and debug overlays of the sandbox
// window. Everything that touches ebiten is behind the ebiten build tag;
// headless builds get no-op stand-ins with the same signatures.
package ui

import "grainfall/internal/core"

// Sim is the simulation surface the panel draws against. Optional
// capabilities (adjustable parameters, temperature field) are discovered
// through type assertions.
type Sim interface {
	Name() string
	Size() core.Size
	Parameters() core.ParameterSnapshot
}
