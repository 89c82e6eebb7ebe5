// Package vessel defines the plain data records shared by the reconciliation,
// interpolation and scheduling stages.
//
// An Observation is one vessel's state at one instant. A Snapshot maps MMSI to
// exactly one Observation and describes the whole fleet at one instant. A Track is
// the ordered position history of one vessel.
//
// Wire payloads carry numbers as strings more often than not; Coerce and the
// Decode helpers turn them into typed records, mapping anything that is not a
// number to a nil field instead of failing.
package vessel
