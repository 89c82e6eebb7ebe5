package gtfsrt

import (
	"math"
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

func vehicleEntity(entityID, vehicleID string, lat, lon float32, ts uint64) *gtfsrtpb.FeedEntity {
	vp := &gtfsrtpb.VehiclePosition{
		Position: &gtfsrtpb.Position{
			Latitude:  proto.Float32(lat),
			Longitude: proto.Float32(lon),
		},
	}
	if vehicleID != "" {
		vp.Vehicle = &gtfsrtpb.VehicleDescriptor{Id: proto.String(vehicleID), Label: proto.String("V" + vehicleID)}
	}
	if ts > 0 {
		vp.Timestamp = proto.Uint64(ts)
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(entityID), Vehicle: vp}
}

func testFeed(t *testing.T) []byte {
	t.Helper()
	moving := vehicleEntity("e1", "710000001", -1.5, -56.25, 1700000100)
	moving.Vehicle.Position.Bearing = proto.Float32(90)
	moving.Vehicle.Position.Speed = proto.Float32(5)

	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1700000200),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			moving,
			vehicleEntity("710000002", "", 1, 2, 0),
			vehicleEntity("bus-12", "bus-12", 3, 4, 0),
			{Id: proto.String("no-vehicle")},
		},
	}
	data, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return data
}

func TestDecode(t *testing.T) {
	feed, err := Decode(testFeed(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if feed.Timestamp != 1700000200 {
		t.Errorf("Timestamp = %d, want 1700000200", feed.Timestamp)
	}
	if len(feed.Observations) != 2 {
		t.Fatalf("got %d observations, want 2", len(feed.Observations))
	}
	if feed.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", feed.Skipped)
	}

	a := feed.Observations[0]
	if a.MMSI != 710000001 || a.Timestamp != 1700000100 {
		t.Errorf("first vehicle = %d@%d, want 710000001@1700000100", a.MMSI, a.Timestamp)
	}
	if a.Head == nil || *a.Head != 90 || a.COG == nil || *a.COG != 90 {
		t.Errorf("bearing not mapped to head and cog: %+v", a)
	}
	if a.SOG == nil || math.Abs(*a.SOG-5*KnotsPerMeterSecond) > 1e-6 {
		t.Errorf("SOG = %v, want %v knots", a.SOG, 5*KnotsPerMeterSecond)
	}
	if a.Name != "V710000001" {
		t.Errorf("Name = %q, want V710000001", a.Name)
	}

	b := feed.Observations[1]
	if b.MMSI != 710000002 {
		t.Errorf("entity id fallback: MMSI = %d, want 710000002", b.MMSI)
	}
	if b.Timestamp != 1700000200 {
		t.Errorf("header timestamp fallback: got %d", b.Timestamp)
	}
	if b.SOG != nil || b.Head != nil {
		t.Errorf("unknown speed and bearing should stay nil: %+v", b)
	}

	snap := feed.Snapshot()
	if len(snap) != 2 {
		t.Errorf("Snapshot() has %d vessels, want 2", len(snap))
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("expected error for garbage input")
	}
}
