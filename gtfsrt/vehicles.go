package gtfsrt

import (
	"fmt"
	"strconv"
	"strings"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// KnotsPerMeterSecond converts GTFS-RT speeds (m/s) to knots.
const KnotsPerMeterSecond = 1.943844

// Feed is a decoded VehiclePositions message.
type Feed struct {
	Timestamp    int64 // header timestamp, epoch seconds
	Observations []vessel.Observation
	Skipped      int // vehicle entities without a numeric id
}

// Decode parses raw protobuf bytes of a VehiclePositions feed.
func Decode(data []byte) (*Feed, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("unmarshal feed message: %w", err)
	}
	return FromMessage(&fm), nil
}

// FromMessage converts an already decoded FeedMessage. Entities without a
// vehicle position are ignored; vehicles without a timestamp inherit the
// header timestamp.
func FromMessage(fm *gtfsrtpb.FeedMessage) *Feed {
	f := &Feed{}
	if fm.GetHeader() != nil {
		f.Timestamp = int64(fm.GetHeader().GetTimestamp())
	}

	for _, e := range fm.GetEntity() {
		vp := e.GetVehicle()
		if vp == nil {
			continue
		}
		mmsi, ok := vehicleID(e.GetId(), vp)
		if !ok {
			f.Skipped++
			continue
		}

		obs := vessel.Observation{MMSI: mmsi, Timestamp: int64(vp.GetTimestamp())}
		if obs.Timestamp == 0 {
			obs.Timestamp = f.Timestamp
		}
		if p := vp.GetPosition(); p != nil {
			obs.Lat = vessel.Float(float64(p.GetLatitude()))
			obs.Lon = vessel.Float(float64(p.GetLongitude()))
			if p.Bearing != nil {
				obs.Head = vessel.Float(float64(p.GetBearing()))
				obs.COG = obs.Head
			}
			if p.Speed != nil {
				obs.SOG = vessel.Float(float64(p.GetSpeed()) * KnotsPerMeterSecond)
			}
		}
		if d := vp.GetVehicle(); d != nil {
			obs.Name = d.GetLabel()
			obs.Callsign = d.GetLicensePlate()
		}
		f.Observations = append(f.Observations, obs)
	}
	return f
}

// Snapshot indexes the feed observations by MMSI.
func (f *Feed) Snapshot() vessel.Snapshot {
	return vessel.NewSnapshot(f.Observations)
}

// vehicleID prefers the vehicle descriptor id and falls back to the entity id.
func vehicleID(entityID string, vp *gtfsrtpb.VehiclePosition) (int64, bool) {
	for _, s := range []string{vp.GetVehicle().GetId(), entityID} {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}
