package scheduler

import (
	"sync"

	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// Renderer receives vessel entities and their samples. Implementations must
// be safe for concurrent use: ExtendClockStop is called from the fetcher
// goroutine while samples are appended from the stepper.
type Renderer interface {
	// Upsert creates or updates the entity id with static fields.
	Upsert(id string, s vessel.Static)
	// AppendSample adds a timed position sample to entity id.
	AppendSample(id string, ts int64, pos vessel.Position, heading float64)
	// ExtendClockStop moves the end of the renderer's timeline to ts.
	ExtendClockStop(ts int64)
}

type nopRenderer struct{}

func (nopRenderer) Upsert(string, vessel.Static)                         {}
func (nopRenderer) AppendSample(string, int64, vessel.Position, float64) {}
func (nopRenderer) ExtendClockStop(int64)                                {}

// registry remembers which vessels the renderer already knows so unknown ones
// are upserted before their first sample.
type registry struct {
	mu    sync.Mutex
	known map[int64]struct{}
	r     Renderer
}

func newRegistry(r Renderer) *registry {
	if r == nil {
		r = nopRenderer{}
	}
	return &registry{known: map[int64]struct{}{}, r: r}
}

func (g *registry) upsert(mmsi int64, s vessel.Static) {
	g.mu.Lock()
	g.known[mmsi] = struct{}{}
	g.mu.Unlock()
	g.r.Upsert(vessel.Observation{MMSI: mmsi}.ID(), s)
}

// sample appends o, upserting its vessel first if it is new. Observations
// without a position are skipped.
func (g *registry) sample(o vessel.Observation) {
	pos, ok := o.Position()
	if !ok {
		return
	}
	g.mu.Lock()
	_, seen := g.known[o.MMSI]
	g.known[o.MMSI] = struct{}{}
	g.mu.Unlock()

	if !seen {
		g.r.Upsert(o.ID(), o.Static)
	}
	g.r.AppendSample(o.ID(), o.Timestamp, pos, o.Heading())
}

func (g *registry) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.known)
}
