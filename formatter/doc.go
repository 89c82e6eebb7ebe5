// Package formatter builds and serializes SIRI VehicleMonitoring responses
// from fleet snapshots.
//
// This package is organized into:
// - wrapper.go: snapshot to VM mapping, ServiceDelivery wrapping and filtering
// - json.go: JSON serialization
// - xml.go: XML serialization with proper escaping
//
// XML is written by hand for precise control over element order.
package formatter
