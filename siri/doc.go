// Package siri defines the SIRI (Service Interface for Real-time Information)
// VehicleMonitoring types used to publish the latest fleet frame.
//
// SIRI is a European standard (CEN/TS 15531). Only the VehicleMonitoring (VM)
// module is modelled; vessels map onto MonitoredVehicleJourney with
// VehicleMode "water" and the MMSI as VehicleRef.
//
// All types include JSON struct tags; XML is written by the formatter package.
package siri
