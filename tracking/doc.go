// Package tracking reconciles historical track windows into per-vessel tracks.
//
// A history payload arrives bucketed by sample time: every bucket lists the
// observations of the whole fleet at that instant, and a separate list carries
// the static metadata of each vessel. The Reconciler:
//   - coerces numeric-looking wire fields to numbers
//   - flattens the buckets and groups observations by MMSI
//   - orders each track by timestamp, collapsing duplicate timestamps
//   - joins every track with its metadata, dropping vessels that have none
//
// Dropped vessels are reported as ReconciliationError values; they never stop
// the pipeline.
package tracking
