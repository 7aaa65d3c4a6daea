package sim

import (
	"strconv"

	"grainfall/internal/core"
)

func (e *Engine) Parameters() core.ParameterSnapshot {
	p := e.cfg.Params
	return core.ParameterSnapshot{
		Params: []core.Parameter{
			intParam("w", "Width", e.cfg.Width),
			intParam("h", "Height", e.cfg.Height),
			int64Param("seed", "Seed", e.cfg.Seed),
			floatParam("ambient_temperature", "Ambient temperature", p.AmbientTemperature),
			boolParam("temperature", "Temperature stage", p.Temperature),
			boolParam("reactions", "Reaction stage", p.Reactions),
		},
	}
}

// ParameterControls lists the HUD-adjustable knobs. Dimensions and seed
// are shown but only take effect through Reset.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{
			Key:   "ambient_temperature",
			Label: "Ambient temperature",
			Type:  core.ParamTypeFloat,
			Step:  1,
			Min:   -273, HasMin: true,
			Max: 2000, HasMax: true,
		},
		{Key: "temperature", Label: "Temperature stage", Type: core.ParamTypeBool},
		{Key: "reactions", Label: "Reaction stage", Type: core.ParamTypeBool},
		{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1},
	}
}

// SetFloatParameter updates a float knob, clamping to its control bounds.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "ambient_temperature":
		if value < -273 {
			value = -273
		}
		if value > 2000 {
			value = 2000
		}
		e.cfg.Params.AmbientTemperature = value
		return true
	}
	return false
}

// SetBoolParameter toggles an optional simulation stage.
func (e *Engine) SetBoolParameter(key string, value bool) bool {
	switch key {
	case "temperature":
		e.cfg.Params.Temperature = value
		return true
	case "reactions":
		e.cfg.Params.Reactions = value
		return true
	}
	return false
}

// SetIntParameter updates an integer knob. The seed applies on the next
// Reset(0).
func (e *Engine) SetIntParameter(key string, value int) bool {
	switch key {
	case "seed":
		e.cfg.Seed = int64(value)
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
