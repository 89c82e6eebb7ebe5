package vessel

import (
	"math"
	"sort"
	"strconv"
)

// Static holds descriptive fields that do not vary between observations of the
// same vessel.
type Static struct {
	Name         string   `json:"vessel_name" msgpack:"vessel_name"`
	Callsign     string   `json:"callsign,omitempty" msgpack:"callsign,omitempty"`
	IMO          *int64   `json:"imo,omitempty" msgpack:"imo,omitempty"`
	Flag         string   `json:"flag,omitempty" msgpack:"flag,omitempty"`
	Type         int      `json:"vessel_type" msgpack:"vessel_type"`
	TypeDesc     string   `json:"vesseltype_desc,omitempty" msgpack:"vesseltype_desc,omitempty"`
	TypeIcon     int      `json:"vesseltype_icon,omitempty" msgpack:"vesseltype_icon,omitempty"`
	Destination  string   `json:"dest,omitempty" msgpack:"dest,omitempty"`
	ETA          string   `json:"eta,omitempty" msgpack:"eta,omitempty"`
	Draught      *float64 `json:"draught,omitempty" msgpack:"draught,omitempty"`
	PortCode     string   `json:"port_code,omitempty" msgpack:"port_code,omitempty"`
	Port         int      `json:"port,omitempty" msgpack:"port,omitempty"`
	Nav          int      `json:"nav,omitempty" msgpack:"nav,omitempty"`
	DimBow       float64  `json:"dimBow" msgpack:"dimBow"`
	DimPort      float64  `json:"dimPort" msgpack:"dimPort"`
	DimStern     float64  `json:"dimStern" msgpack:"dimStern"`
	DimStarboard float64  `json:"dimStarboard" msgpack:"dimStarboard"`
}

// Length returns the overall length from the AIS reference point dimensions.
func (s Static) Length() float64 { return s.DimBow + s.DimStern }

// Observation is one vessel's state at one instant. Nil kinematic fields are
// unknown.
type Observation struct {
	MMSI      int64    `json:"mmsi" msgpack:"mmsi"`
	Timestamp int64    `json:"tstamp" msgpack:"tstamp"`
	Lat       *float64 `json:"lat" msgpack:"lat"`
	Lon       *float64 `json:"lon" msgpack:"lon"`
	COG       *float64 `json:"cog" msgpack:"cog"`
	SOG       *float64 `json:"sog" msgpack:"sog"`
	ROT       *float64 `json:"rot" msgpack:"rot"`
	Head      *float64 `json:"head" msgpack:"head"`
	Static
}

// ID is the entity identifier used by render adapters.
func (o Observation) ID() string { return strconv.FormatInt(o.MMSI, 10) }

// Heading returns the heading used for orientation: head, then cog, then 0.
// AIS reports an unavailable heading as 511 and some feeds send it as 0, both
// of which fall through to cog.
func (o Observation) Heading() float64 {
	if o.Head != nil && *o.Head != 0 && *o.Head < 360 {
		return *o.Head
	}
	if o.COG != nil && *o.COG != 0 {
		return *o.COG
	}
	return 0
}

// Position returns the observation's position and whether both coordinates are
// known.
func (o Observation) Position() (Position, bool) {
	if o.Lat == nil || o.Lon == nil {
		return Position{}, false
	}
	return Position{Lat: *o.Lat, Lon: *o.Lon}, true
}

// Position is a WGS84 point in degrees.
type Position struct {
	Lat float64 `json:"lat" msgpack:"lat"`
	Lon float64 `json:"lon" msgpack:"lon"`
}

// Track is one vessel's position history ordered by timestamp.
type Track []Observation

// Sorted reports whether the track timestamps are strictly increasing.
func (t Track) Sorted() bool {
	for i := 1; i < len(t); i++ {
		if t[i].Timestamp <= t[i-1].Timestamp {
			return false
		}
	}
	return true
}

// Vessel is a reconciled entity: static metadata plus its full track.
type Vessel struct {
	MMSI int64 `json:"mmsi"`
	Static
	Track Track `json:"track"`
}

// ID is the entity identifier used by render adapters.
func (v Vessel) ID() string { return strconv.FormatInt(v.MMSI, 10) }

// Snapshot is the full fleet state at one instant, keyed by MMSI. Snapshots are
// not modified after they are produced.
type Snapshot map[int64]Observation

// NewSnapshot indexes observations by MMSI. A later observation for the same
// MMSI replaces an earlier one.
func NewSnapshot(obs []Observation) Snapshot {
	s := make(Snapshot, len(obs))
	for _, o := range obs {
		s[o.MMSI] = o
	}
	return s
}

// MMSIs returns the snapshot keys in ascending order.
func (s Snapshot) MMSIs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Observations returns the snapshot contents ordered by MMSI.
func (s Snapshot) Observations() []Observation {
	out := make([]Observation, 0, len(s))
	for _, id := range s.MMSIs() {
		out = append(out, s[id])
	}
	return out
}

// Latest returns the greatest observation timestamp in the snapshot.
func (s Snapshot) Latest() int64 {
	var ts int64
	for _, o := range s {
		if o.Timestamp > ts {
			ts = o.Timestamp
		}
	}
	return ts
}

// Float returns a pointer to v, or nil when v is NaN or infinite.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
