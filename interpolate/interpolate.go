package interpolate

import (
	"math"

	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// Snapshots returns the fleet state at progress t between prev and curr.
//
// An empty prev or t >= 1 yields curr, t <= 0 yields prev; both are returned
// as-is, not copied. Otherwise the result holds the union of both fleets:
// vessels only in curr appear as they are in curr, vessels only in prev keep
// their last known state, and vessels in both are blended field by field.
func Snapshots(prev, curr vessel.Snapshot, t float64) vessel.Snapshot {
	t = Clamp(t)
	if len(prev) == 0 || t >= 1 {
		return curr
	}
	if t <= 0 {
		return prev
	}

	out := make(vessel.Snapshot, len(prev)+len(curr))
	for id, p := range prev {
		c, ok := curr[id]
		if !ok {
			out[id] = p
			continue
		}
		out[id] = Observations(p, c, t)
	}
	for id, c := range curr {
		if _, ok := prev[id]; !ok {
			out[id] = c
		}
	}
	return out
}

// Observations blends two observations of the same vessel at progress t.
// Static fields come from curr.
func Observations(prev, curr vessel.Observation, t float64) vessel.Observation {
	out := curr
	out.Timestamp = blendTimestamp(prev.Timestamp, curr.Timestamp, t)
	out.Lat = Lerp(prev.Lat, curr.Lat, t)
	out.Lon = Lerp(prev.Lon, curr.Lon, t)
	out.SOG = Lerp(prev.SOG, curr.SOG, t)
	out.ROT = Lerp(prev.ROT, curr.ROT, t)
	out.COG = LerpAngle(prev.COG, curr.COG, t)
	out.Head = LerpAngle(prev.Head, curr.Head, t)
	return out
}

// Lerp blends two nullable values linearly.
func Lerp(start, end *float64, t float64) *float64 {
	return lerp(start, end, t, false)
}

// LerpAngle blends two nullable compass angles in degrees along the shorter
// arc. The blended result lies in [0, 360).
func LerpAngle(start, end *float64, t float64) *float64 {
	return lerp(start, end, t, true)
}

func lerp(start, end *float64, t float64, angle bool) *float64 {
	start, end = known(start), known(end)
	switch {
	case start == nil && end == nil:
		return nil
	case start == nil || t >= 1:
		return end
	case end == nil || t <= 0:
		return start
	}

	s, e := *start, *end
	if angle {
		if e-s > 180 {
			s += 360
		} else if e-s < -180 {
			e += 360
		}
	}
	v := (1-t)*s + t*e
	if angle {
		v = Wrap(v)
	}
	return vessel.Float(v)
}

// Wrap reduces an angle in degrees into [0, 360).
func Wrap(deg float64) float64 {
	v := math.Mod(deg, 360)
	if v < 0 {
		v += 360
	}
	if v >= 360 {
		v = 0
	}
	return v
}

// Clamp limits t to [0, 1]. NaN is treated as 0.
func Clamp(t float64) float64 {
	switch {
	case math.IsNaN(t) || t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

func blendTimestamp(prev, curr int64, t float64) int64 {
	return int64(math.Round((1-t)*float64(prev) + t*float64(curr)))
}

// known drops NaN and infinite values.
func known(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
