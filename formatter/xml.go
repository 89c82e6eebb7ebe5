package formatter

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/seascape/siri"
)

// BuildXML serializes a SIRI response to XML
func (rb *responseBuilder) BuildXML(res *siri.SiriResponse) []byte {
	var b strings.Builder
	b.WriteString("<Siri xmlns=\"http://www.siri.org.uk/siri\">")
	// ServiceDelivery
	sd := res.Siri.ServiceDelivery
	b.WriteString("<ServiceDelivery>")
	if sd.ResponseTimestamp != "" {
		b.WriteString("<ResponseTimestamp>")
		b.WriteString(xmlEscape(sd.ResponseTimestamp))
		b.WriteString("</ResponseTimestamp>")
	}
	if sd.ProducerRef != "" {
		b.WriteString("<ProducerRef>")
		b.WriteString(xmlEscape(sd.ProducerRef))
		b.WriteString("</ProducerRef>")
	}
	// VehicleMonitoringDelivery (support multiple deliveries)
	for _, vm := range sd.VehicleMonitoringDelivery {
		writeVehicleMonitoringXML(&b, vm)
	}
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

func writeVehicleMonitoringXML(b *strings.Builder, vm siri.VehicleMonitoring) {
	b.WriteString("<VehicleMonitoringDelivery>")
	if vm.ResponseTimestamp != "" {
		b.WriteString("<ResponseTimestamp>")
		b.WriteString(xmlEscape(vm.ResponseTimestamp))
		b.WriteString("</ResponseTimestamp>")
	}
	if vm.ValidUntil != "" {
		b.WriteString("<ValidUntil>")
		b.WriteString(xmlEscape(vm.ValidUntil))
		b.WriteString("</ValidUntil>")
	}
	for _, va := range vm.VehicleActivity {
		b.WriteString("<VehicleActivity>")
		if va.RecordedAtTime != "" {
			b.WriteString("<RecordedAtTime>")
			b.WriteString(xmlEscape(va.RecordedAtTime))
			b.WriteString("</RecordedAtTime>")
		}
		if va.ValidUntilTime != "" {
			b.WriteString("<ValidUntilTime>")
			b.WriteString(xmlEscape(va.ValidUntilTime))
			b.WriteString("</ValidUntilTime>")
		}
		writeMVJXML(b, va.MonitoredVehicleJourney)
		b.WriteString("</VehicleActivity>")
	}
	b.WriteString("</VehicleMonitoringDelivery>")
}

func writeMVJXML(b *strings.Builder, mvj siri.MonitoredVehicleJourney) {
	b.WriteString("<MonitoredVehicleJourney>")
	writeElement(b, "VehicleMode", mvj.VehicleMode)
	writeElement(b, "PublishedLineName", mvj.PublishedLineName)
	writeElement(b, "OperatorRef", mvj.OperatorRef)
	writeElement(b, "DestinationName", mvj.DestinationName)
	b.WriteString("<Monitored>")
	b.WriteString(strconv.FormatBool(mvj.Monitored))
	b.WriteString("</Monitored>")
	// DataSource (SIRI-VM: required)
	writeElement(b, "DataSource", mvj.DataSource)
	if loc := mvj.VehicleLocation; loc != nil {
		if loc.Latitude != nil || loc.Longitude != nil {
			b.WriteString("<VehicleLocation>")
			if loc.Longitude != nil {
				b.WriteString("<Longitude>")
				b.WriteString(strconv.FormatFloat(*loc.Longitude, 'f', 6, 64))
				b.WriteString("</Longitude>")
			}
			if loc.Latitude != nil {
				b.WriteString("<Latitude>")
				b.WriteString(strconv.FormatFloat(*loc.Latitude, 'f', 6, 64))
				b.WriteString("</Latitude>")
			}
			b.WriteString("</VehicleLocation>")
		}
	}
	if mvj.Bearing != nil {
		b.WriteString("<Bearing>")
		b.WriteString(strconv.FormatFloat(*mvj.Bearing, 'f', 2, 64))
		b.WriteString("</Bearing>")
	}
	if mvj.Velocity != nil {
		b.WriteString("<Velocity>")
		b.WriteString(strconv.Itoa(*mvj.Velocity))
		b.WriteString("</Velocity>")
	}
	writeElement(b, "VehicleStatus", mvj.VehicleStatus)
	writeElement(b, "VehicleRef", mvj.VehicleRef)
	writeElement(b, "VehicleModel", mvj.VehicleModel)
	b.WriteString("</MonitoredVehicleJourney>")
}

// writeElement writes <name>value</name>, skipping empty values.
func writeElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscape(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
