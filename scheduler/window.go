package scheduler

import (
	"time"

	"github.com/theoremus-urban-solutions/seascape/interpolate"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// Frame is the fleet state at one step of a window.
type Frame struct {
	Window   int64   // sequence number of the fetch that opened the window, from 1
	Step     int     // 0-based step within the window
	Steps    int     // steps per window
	T        float64 // interpolation progress in [0, 1]
	Snapshot vessel.Snapshot
}

// Last reports whether f is the final frame of its window.
func (f Frame) Last() bool { return f.Step == f.Steps-1 }

// fetched is a snapshot waiting to be applied.
type fetched struct {
	seq  int64
	snap vessel.Snapshot
}

// Window holds the two most recent snapshots. The zero value is an empty
// window.
type Window struct {
	Seq  int64
	Prev vessel.Snapshot
	Curr vessel.Snapshot
}

// Shift moves curr to prev and installs snap as curr.
func (w *Window) Shift(seq int64, snap vessel.Snapshot) {
	w.Seq = seq
	w.Prev, w.Curr = w.Curr, snap
}

// Frame interpolates the window at step i of steps.
func (w *Window) Frame(i, steps int) Frame {
	t := StepT(i, steps)
	return Frame{
		Window:   w.Seq,
		Step:     i,
		Steps:    steps,
		T:        t,
		Snapshot: interpolate.Snapshots(w.Prev, w.Curr, t),
	}
}

// StepT is the interpolation progress of step i: i/(steps-1), or 0 when there
// is a single step.
func StepT(i, steps int) float64 {
	if steps <= 1 {
		return 0
	}
	return float64(i) / float64(steps-1)
}

// StepDelay is the pause before each frame so that a window spans exactly one
// interval.
func StepDelay(interval time.Duration, steps int) time.Duration {
	if steps < 1 {
		steps = 1
	}
	return interval / time.Duration(steps)
}
