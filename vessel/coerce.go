package vessel

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Coerce walks a decoded JSON value and replaces every string that parses as a
// number with its float64 value. Maps and slices are rewritten in place and
// returned; all other values pass through unchanged.
func Coerce(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = Coerce(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = Coerce(e)
		}
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return x
		}
		f, err := cast.ToFloat64E(s)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return x
		}
		return f
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		return v
	}
}

// DecodeObservations parses a flat JSON array of observations, coercing numeric
// strings on the way.
func DecodeObservations(data []byte) ([]Observation, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	Coerce(raw)
	out := make([]Observation, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		o, ok := ObservationFromMap(m)
		if !ok {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// ObservationFromMap builds an Observation from a coerced JSON object. It
// reports false when the object carries no usable MMSI.
func ObservationFromMap(m map[string]any) (Observation, bool) {
	mmsi, ok := intField(m, "mmsi")
	if !ok || mmsi <= 0 {
		return Observation{}, false
	}
	ts, _ := timestampField(m)
	return Observation{
		MMSI:      mmsi,
		Timestamp: ts,
		Lat:       floatField(m, "lat"),
		Lon:       floatField(m, "lon"),
		COG:       floatField(m, "cog"),
		SOG:       floatField(m, "sog"),
		ROT:       floatField(m, "rot"),
		Head:      floatField(m, "head"),
		Static:    StaticFromMap(m),
	}, true
}

// StaticFromMap extracts the descriptive fields of a coerced JSON object.
func StaticFromMap(m map[string]any) Static {
	s := Static{
		Name:         stringField(m, "vessel_name"),
		Callsign:     stringField(m, "callsign"),
		Flag:         stringField(m, "flag"),
		TypeDesc:     stringField(m, "vesseltype_desc"),
		Destination:  stringField(m, "dest"),
		ETA:          stringField(m, "eta"),
		PortCode:     stringField(m, "port_code"),
		Draught:      floatField(m, "draught"),
		DimBow:       floatOr(m, "dimBow"),
		DimPort:      floatOr(m, "dimPort"),
		DimStern:     floatOr(m, "dimStern"),
		DimStarboard: floatOr(m, "dimStarboard"),
	}
	if v, ok := intField(m, "imo"); ok {
		s.IMO = &v
	}
	if v, ok := intField(m, "vessel_type"); ok {
		s.Type = int(v)
	}
	if v, ok := intField(m, "vesseltype_icon"); ok {
		s.TypeIcon = int(v)
	}
	if v, ok := intField(m, "port"); ok {
		s.Port = int(v)
	}
	if v, ok := intField(m, "nav"); ok {
		s.Nav = int(v)
	}
	return s
}

// timestampField reads the observation time, accepting both the "tstamp" and
// "timestamp" spellings.
func timestampField(m map[string]any) (int64, bool) {
	for _, k := range []string{"tstamp", "timestamp"} {
		if f := floatField(m, k); f != nil {
			return int64(math.Round(*f)), true
		}
	}
	return 0, false
}

func floatField(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch x := v.(type) {
	case bool:
		return nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return Float(f)
}

func floatOr(m map[string]any, key string) float64 {
	if f := floatField(m, key); f != nil {
		return *f
	}
	return 0
}

func intField(m map[string]any, key string) (int64, bool) {
	f := floatField(m, key)
	if f == nil {
		return 0, false
	}
	return int64(math.Round(*f)), true
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if f, isFloat := v.(float64); isFloat && f == math.Trunc(f) {
		// numeric-looking names and callsigns were coerced; print them back
		// without a fractional part
		return cast.ToString(int64(f))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
