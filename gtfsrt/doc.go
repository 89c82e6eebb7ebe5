// Package gtfsrt decodes GTFS-Realtime VehiclePositions feeds into fleet
// observations.
//
// Feeds are plain protobuf FeedMessages. Each vehicle entity becomes one
// observation keyed by the numeric vehicle id, so feeds published by AIS
// bridges (which use the MMSI as vehicle id) can drive the live scheduler
// without a JSON endpoint.
package gtfsrt
