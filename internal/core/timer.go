package core

import "time"

// MaxStepsPerFrame bounds how many simulation ticks a single frame may run.
// Excess accumulated time is carried over to the next frame, not dropped,
// so a slow frame defers work instead of losing it.
const MaxStepsPerFrame = 4

// FixedStep converts elapsed wall-clock time into a whole number of
// fixed-size simulation steps per frame.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxSteps    int
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{maxSteps: MaxStepsPerFrame}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Steps reports how many ticks the simulation should advance this frame,
// between 0 and MaxStepsPerFrame.
func (f *FixedStep) Steps() int {
	return f.StepsAt(time.Now())
}

// StepsAt is Steps with an explicit clock reading, for tests.
func (f *FixedStep) StepsAt(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := 0
	for f.accumulator >= f.step && n < f.maxSteps {
		f.accumulator -= f.step
		n++
	}
	return n
}
