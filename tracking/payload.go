package tracking

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"

	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// Bucket is the fleet as sampled at one instant of a history window.
type Bucket struct {
	Timestamp int64
	Fleet     []vessel.Observation
}

// Metadata is the static description of one vessel in a history payload.
type Metadata struct {
	MMSI int64
	vessel.Static
}

// Payload is a decoded history window.
type Payload struct {
	Buckets []Bucket
	Vessels []Metadata
}

// Query bounds a history request.
type Query struct {
	Start int64 // epoch seconds
	End   int64 // epoch seconds
	DT    int64 // sampling step in seconds
}

// Lookback returns the query covering the lookback period ending at now,
// sampled every dt. Sub-second parts are truncated and dt is at least 1s.
func Lookback(now time.Time, lookback, dt time.Duration) Query {
	step := int64(dt / time.Second)
	if step < 1 {
		step = 1
	}
	return Query{
		Start: now.Add(-lookback).Unix(),
		End:   now.Unix(),
		DT:    step,
	}
}

// DecodePayload parses a history response body. Bucket fleets may be named
// "seascape" or "fleet" and bucket times "tstamp" or "timestamp".
func DecodePayload(data []byte) (*Payload, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode history payload: %w", err)
	}
	vessel.Coerce(raw)

	p := &Payload{}
	for _, b := range asList(raw["tracking"]) {
		bm, ok := b.(map[string]any)
		if !ok {
			continue
		}
		bucket := Bucket{Timestamp: bucketTime(bm)}
		fleet := bm["seascape"]
		if fleet == nil {
			fleet = bm["fleet"]
		}
		for _, o := range asList(fleet) {
			om, ok := o.(map[string]any)
			if !ok {
				continue
			}
			obs, ok := vessel.ObservationFromMap(om)
			if !ok {
				continue
			}
			if obs.Timestamp == 0 {
				obs.Timestamp = bucket.Timestamp
			}
			bucket.Fleet = append(bucket.Fleet, obs)
		}
		p.Buckets = append(p.Buckets, bucket)
	}
	for _, v := range asList(raw["vessels"]) {
		vm, ok := v.(map[string]any)
		if !ok {
			continue
		}
		mmsi, err := cast.ToInt64E(vm["mmsi"])
		if err != nil || mmsi <= 0 {
			continue
		}
		p.Vessels = append(p.Vessels, Metadata{MMSI: mmsi, Static: vessel.StaticFromMap(vm)})
	}
	return p, nil
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func bucketTime(m map[string]any) int64 {
	for _, k := range []string{"tstamp", "timestamp"} {
		if f, err := cast.ToFloat64E(m[k]); err == nil && m[k] != nil {
			return int64(math.Round(f))
		}
	}
	return 0
}
