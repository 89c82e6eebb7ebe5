// Package scheduler paces live fleet snapshots into interpolated frames.
//
// A subscription runs two goroutines. The fetcher polls the live source once
// per interval (and optionally once at start) and offers each snapshot to a
// single pending slot; a snapshot that has not been picked up yet is replaced
// by the newer one. The stepper owns the two-snapshot window: it takes the
// pending snapshot, shifts it in, and emits a fixed number of frames spread
// evenly over one interval, interpolating between the previous and current
// snapshot. A window is always stepped to completion before the next pending
// snapshot is applied.
//
// Bootstrap performs the one-off track replay that precedes live polling:
// it fetches a history window, reconciles it and hands every track to the
// Renderer.
package scheduler
