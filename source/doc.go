// Package source fetches fleet data for the scheduler.
//
// Two live sources are provided: JSON, which reads the seascape HTTP API
// (history windows and live fleet snapshots), and GTFSRT, which reads a
// GTFS-Realtime VehiclePositions feed. Both accept http(s) URLs or local file
// paths, so recorded responses can be replayed offline.
//
// Every fetch failure is returned as a *TransportError.
package source
