package seascape

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"
)

// QueryError is a client error in a SIRI request.
type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// vmQuery holds the supported VehicleMonitoring filters.
type vmQuery struct {
	vehicleRef string
	name       string
}

func normalizeDetailLevel(s string) (string, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "normal" {
		return "normal", nil
	}
	return "", &QueryError{Msg: "Unsupported VehicleMonitoringDetailLevel: " + s}
}

// parseVehicleMonitoringQuery reads the request parameters. Parameter names
// are case-insensitive.
func parseVehicleMonitoringQuery(values url.Values) (vmQuery, error) {
	m := map[string]string{}
	for k, v := range values {
		if len(v) > 0 {
			m[strings.ToLower(k)] = strings.TrimSpace(v[0])
		}
	}
	q := vmQuery{vehicleRef: m["vehicleref"], name: m["name"]}
	if q.vehicleRef != "" {
		if mmsi, err := strconv.ParseInt(q.vehicleRef, 10, 64); err != nil || mmsi <= 0 {
			return vmQuery{}, &QueryError{Msg: "VehicleRef must be a vessel MMSI."}
		}
	}
	if _, err := normalizeDetailLevel(m["vehiclemonitoringdetaillevel"]); err != nil {
		return vmQuery{}, err
	}
	return q, nil
}

func buildErrorPayload(format, msg string) []byte {
	if format == "xml" {
		var b bytes.Buffer
		b.WriteString(`<Siri xmlns="http://www.siri.org.uk/siri"><ServiceDelivery><ErrorCondition><Description>`)
		_ = xml.EscapeText(&b, []byte(msg))
		b.WriteString(`</Description></ErrorCondition></ServiceDelivery></Siri>`)
		return b.Bytes()
	}

	type siriErr struct {
		Siri struct {
			ServiceDelivery struct {
				ErrorCondition struct {
					Description string `json:"Description"`
				} `json:"ErrorCondition"`
			} `json:"ServiceDelivery"`
		} `json:"Siri"`
	}
	var e siriErr
	e.Siri.ServiceDelivery.ErrorCondition.Description = msg
	b, _ := json.Marshal(e)
	return b
}
