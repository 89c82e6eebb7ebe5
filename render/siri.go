package render

import (
	"strconv"
	"sync"

	"github.com/theoremus-urban-solutions/seascape/formatter"
	"github.com/theoremus-urban-solutions/seascape/scheduler"
	"github.com/theoremus-urban-solutions/seascape/siri"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// SIRIStore keeps the latest frame for SIRI VehicleMonitoring responses.
// Frames replace the whole fleet. Samples only fill in vessels no frame has
// carried yet.
type SIRIStore struct {
	codespace  string
	intervalMS int

	mu        sync.RWMutex
	statics   map[int64]vessel.Static
	framed    map[int64]struct{}
	latest    vessel.Snapshot
	updatedAt int64
	window    int64
	version   uint64
}

// NewSIRIStore returns an empty store. intervalMS sets ValidUntil.
func NewSIRIStore(codespace string, intervalMS int) *SIRIStore {
	return &SIRIStore{
		codespace:  codespace,
		intervalMS: intervalMS,
		statics:    map[int64]vessel.Static{},
		framed:     map[int64]struct{}{},
		latest:     vessel.Snapshot{},
	}
}

func (s *SIRIStore) Upsert(id string, st vessel.Static) {
	mmsi, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statics[mmsi] = st
	s.version++
	if o, ok := s.latest[mmsi]; ok {
		o.Static = st
		s.latest[mmsi] = o
	}
}

// AppendSample records a vessel that no frame has carried yet, so history
// and first sightings show up before stepping starts. Vessels already seen
// in a frame are positioned by frames only.
func (s *SIRIStore) AppendSample(id string, ts int64, pos vessel.Position, heading float64) {
	mmsi, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.framed[mmsi]; ok {
		return
	}
	o, ok := s.latest[mmsi]
	if ok && o.Timestamp > ts {
		return
	}
	if !ok {
		o = vessel.Observation{MMSI: mmsi, Static: s.statics[mmsi]}
	}
	o.Timestamp = ts
	o.Lat, o.Lon = vessel.Float(pos.Lat), vessel.Float(pos.Lon)
	o.Head = vessel.Float(heading)
	s.latest[mmsi] = o
	s.version++
	if ts > s.updatedAt {
		s.updatedAt = ts
	}
}

// ExtendClockStop is a no-op: VM responses carry no timeline.
func (s *SIRIStore) ExtendClockStop(int64) {}

func (s *SIRIStore) Frame(f scheduler.Frame) {
	latest := make(vessel.Snapshot, len(f.Snapshot))
	for id, o := range f.Snapshot {
		latest[id] = o
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range latest {
		s.framed[id] = struct{}{}
	}
	s.latest = latest
	s.window = f.Window
	s.version++
	if ts := f.Snapshot.Latest(); ts > 0 {
		s.updatedAt = ts
	}
}

// Version changes whenever the stored state does.
func (s *SIRIStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Window is the window sequence of the last frame stored, 0 before any frame.
func (s *SIRIStore) Window() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// VehicleMonitoring renders the stored fleet, filtered by vehicleRef and
// vessel name when they are set.
func (s *SIRIStore) VehicleMonitoring(vehicleRef, name string) siri.VehicleMonitoring {
	s.mu.RLock()
	vm := formatter.BuildVehicleMonitoring(s.latest, s.updatedAt, s.intervalMS, s.codespace)
	s.mu.RUnlock()

	return formatter.FilterVehicleMonitoring(vm, vehicleRef, name)
}

// Response wraps VehicleMonitoring in a SIRI envelope.
func (s *SIRIStore) Response(vehicleRef, name string) *siri.SiriResponse {
	return formatter.WrapVehicleMonitoringResponse(s.VehicleMonitoring(vehicleRef, name), s.codespace)
}
