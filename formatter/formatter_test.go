package formatter

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/seascape/vessel"
)

func f(v float64) *float64 { return &v }

func testSnapshot() vessel.Snapshot {
	return vessel.NewSnapshot([]vessel.Observation{
		{
			MMSI: 710000001, Timestamp: 1696320000,
			Lat: f(-1.4), Lon: f(-56.3), SOG: f(7.6), COG: f(12), Head: f(511),
			Static: vessel.Static{Name: "ATLANTIS & SONS ", Type: 60, Flag: "BR", Destination: "SANTAREM"},
		},
		{
			MMSI: 710000002, Timestamp: 1696320000,
			Lat: f(-1.5), Lon: f(-56.4), SOG: f(0.2),
			Static: vessel.Static{Name: "BOREAS", Type: 52},
		},
		{MMSI: 710000003, Timestamp: 1696320000, Static: vessel.Static{Name: "NO FIX"}},
	})
}

// TestVehicleMonitoring_FromSnapshot verifies vessels map onto SIRI VM
// activities and that vessels without a position are left out
func TestVehicleMonitoring_FromSnapshot(t *testing.T) {
	vm := BuildVehicleMonitoring(testSnapshot(), 1696320000, 120000, "SEASCAPE")

	if vm.ValidUntil != "2023-10-03T08:02:00Z" {
		t.Errorf("ValidUntil = %s", vm.ValidUntil)
	}
	if len(vm.VehicleActivity) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(vm.VehicleActivity))
	}

	a := vm.VehicleActivity[0].MonitoredVehicleJourney
	if a.VehicleRef != "710000001" || a.VehicleMode != "water" {
		t.Errorf("unexpected journey ref/mode: %s/%s", a.VehicleRef, a.VehicleMode)
	}
	if a.PublishedLineName != "ATLANTIS & SONS" {
		t.Errorf("PublishedLineName = %q", a.PublishedLineName)
	}
	if a.Bearing == nil || *a.Bearing != 12 {
		t.Errorf("Bearing should fall back to COG, got %v", a.Bearing)
	}
	if a.Velocity == nil || *a.Velocity != 8 || a.VehicleStatus != "inProgress" {
		t.Errorf("Velocity/Status = %v/%s", a.Velocity, a.VehicleStatus)
	}
	if a.VehicleModel != "passenger" {
		t.Errorf("VehicleModel = %s", a.VehicleModel)
	}

	b := vm.VehicleActivity[1].MonitoredVehicleJourney
	if b.VehicleStatus != "stopped" {
		t.Errorf("slow vessel status = %s, want stopped", b.VehicleStatus)
	}
}

// TestFormatter_VM_ToXML verifies VehicleMonitoring responses are correctly
// formatted as well-formed XML with the SIRI namespace and escaped text
func TestFormatter_VM_ToXML(t *testing.T) {
	vm := BuildVehicleMonitoring(testSnapshot(), 1696320000, 120000, "SEASCAPE")
	res := WrapVehicleMonitoringResponse(vm, "SEASCAPE")

	xmlBytes := NewResponseBuilder().BuildXML(res)
	xmlStr := string(xmlBytes)

	for _, want := range []string{
		"<Siri xmlns=\"http://www.siri.org.uk/siri\">",
		"<ResponseTimestamp>2023-10-03T08:00:00Z</ResponseTimestamp>",
		"<ProducerRef>SEASCAPE</ProducerRef>",
		"<PublishedLineName>ATLANTIS &amp; SONS</PublishedLineName>",
		"<VehicleLocation><Longitude>-56.300000</Longitude><Latitude>-1.400000</Latitude></VehicleLocation>",
		"<Bearing>12.00</Bearing>",
		"<VehicleRef>710000002</VehicleRef>",
		"<VehicleRef>710000001</VehicleRef><VehicleModel>passenger</VehicleModel>",
		"<VehicleModel>fixed/tug-0</VehicleModel>",
	} {
		if !strings.Contains(xmlStr, want) {
			t.Errorf("XML should contain %s", want)
		}
	}
	if strings.Contains(xmlStr, "NO FIX") {
		t.Error("vessel without position should not be serialized")
	}

	var doc struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(xmlBytes, &doc); err != nil {
		t.Fatalf("XML is not well-formed: %v", err)
	}
	if doc.XMLName.Local != "Siri" {
		t.Errorf("root element = %s", doc.XMLName.Local)
	}
}

// TestFormatter_VM_ToJSON verifies JSON output keeps the SIRI envelope
func TestFormatter_VM_ToJSON(t *testing.T) {
	vm := BuildVehicleMonitoring(testSnapshot(), 1696320000, 120000, "")
	data, err := NewResponseBuilder().BuildJSON(WrapVehicleMonitoringResponse(vm, ""))
	if err != nil {
		t.Fatalf("BuildJSON() error = %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	sd := out["Siri"].(map[string]any)["ServiceDelivery"].(map[string]any)
	if sd["ProducerRef"] != "UNKNOWN" {
		t.Errorf("ProducerRef = %v, want UNKNOWN", sd["ProducerRef"])
	}
	deliveries := sd["VehicleMonitoringDelivery"].([]any)
	if len(deliveries) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(deliveries))
	}
}

func TestFilterVehicleMonitoring(t *testing.T) {
	vm := BuildVehicleMonitoring(testSnapshot(), 1696320000, 120000, "SEASCAPE")

	tests := []struct {
		name       string
		vehicleRef string
		vessel     string
		want       int
	}{
		{name: "no filter", want: 2},
		{name: "by mmsi", vehicleRef: "710000002", want: 1},
		{name: "by name", vessel: "atlantis", want: 1},
		{name: "no match", vehicleRef: "1", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterVehicleMonitoring(vm, tt.vehicleRef, tt.vessel)
			if len(got.VehicleActivity) != tt.want {
				t.Errorf("got %d activities, want %d", len(got.VehicleActivity), tt.want)
			}
		})
	}
}
