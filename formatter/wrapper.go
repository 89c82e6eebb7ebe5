package formatter

import (
	"math"
	"strings"

	"github.com/theoremus-urban-solutions/seascape/siri"
	"github.com/theoremus-urban-solutions/seascape/utils"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// BuildServiceDelivery creates a standardized ServiceDelivery wrapper
// with ResponseTimestamp and ProducerRef (codespace)
func BuildServiceDelivery(timestamp int64, codespace string) siri.ServiceDelivery {
	if codespace == "" {
		codespace = "UNKNOWN"
	}

	return siri.ServiceDelivery{
		ResponseTimestamp: utils.Iso8601FromUnixSeconds(timestamp),
		ProducerRef:       codespace,
	}
}

// BuildVehicleMonitoring maps a fleet snapshot to a VM delivery. Vessels are
// listed by MMSI; vessels without a position are left out. ValidUntil is one
// interval after timestamp.
func BuildVehicleMonitoring(snap vessel.Snapshot, timestamp int64, intervalMS int, codespace string) siri.VehicleMonitoring {
	vm := siri.VehicleMonitoring{
		ResponseTimestamp: utils.Iso8601FromUnixSeconds(timestamp),
		ValidUntil:        utils.ValidUntilFrom(timestamp, intervalMS),
		VehicleActivity:   []siri.VehicleActivityEntry{},
	}
	for _, o := range snap.Observations() {
		if _, ok := o.Position(); !ok {
			continue
		}
		vm.VehicleActivity = append(vm.VehicleActivity, siri.VehicleActivityEntry{
			RecordedAtTime:          utils.Iso8601FromUnixSeconds(o.Timestamp),
			ValidUntilTime:          vm.ValidUntil,
			MonitoredVehicleJourney: buildMVJ(o, codespace),
		})
	}
	return vm
}

func buildMVJ(o vessel.Observation, codespace string) siri.MonitoredVehicleJourney {
	heading := o.Heading()
	mvj := siri.MonitoredVehicleJourney{
		VehicleMode:       siri.VehicleModeWater,
		PublishedLineName: strings.TrimSpace(o.Name),
		OperatorRef:       o.Flag,
		DestinationName:   strings.TrimSpace(o.Destination),
		Monitored:         true,
		DataSource:        codespace,
		VehicleLocation:   &siri.VehicleLocation{Latitude: o.Lat, Longitude: o.Lon},
		Bearing:           &heading,
		VehicleRef:        o.ID(),
		VehicleModel:      o.ModelClass(),
	}
	if o.SOG != nil {
		v := int(math.Round(*o.SOG))
		mvj.Velocity = &v
		if v == 0 {
			mvj.VehicleStatus = "stopped"
		} else {
			mvj.VehicleStatus = "inProgress"
		}
	}
	return mvj
}

// WrapVehicleMonitoringResponse wraps a VM delivery in a complete SIRI response
func WrapVehicleMonitoringResponse(vm siri.VehicleMonitoring, codespace string) *siri.SiriResponse {
	timestamp, ok := utils.UnixFromIso8601(vm.ResponseTimestamp)
	if !ok {
		timestamp = 0
	}

	sd := BuildServiceDelivery(timestamp, codespace)
	sd.VehicleMonitoringDelivery = []siri.VehicleMonitoring{vm}

	return &siri.SiriResponse{
		Siri: siri.SiriServiceDelivery{
			ServiceDelivery: sd,
		},
	}
}

// FilterVehicleMonitoring keeps the activities matching vehicleRef (exact
// MMSI) and name (case-insensitive substring of the vessel name). Empty
// filters match everything.
func FilterVehicleMonitoring(vm siri.VehicleMonitoring, vehicleRef, name string) siri.VehicleMonitoring {
	vehicleRef = strings.TrimSpace(vehicleRef)
	name = strings.ToLower(strings.TrimSpace(name))

	filtered := siri.VehicleMonitoring{
		ResponseTimestamp: vm.ResponseTimestamp,
		ValidUntil:        vm.ValidUntil,
		VehicleActivity:   []siri.VehicleActivityEntry{},
	}
	for _, va := range vm.VehicleActivity {
		mvj := va.MonitoredVehicleJourney
		if vehicleRef != "" && mvj.VehicleRef != vehicleRef {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(mvj.PublishedLineName), name) {
			continue
		}
		filtered.VehicleActivity = append(filtered.VehicleActivity, va)
	}
	return filtered
}
