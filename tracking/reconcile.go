package tracking

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/seascape/metrics"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// ReconciliationError reports a tracked vessel without static metadata.
type ReconciliationError struct {
	MMSI    int64
	Samples int
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("vessel %d: %d track samples without static metadata", e.MMSI, e.Samples)
}

// Result is the output of a reconciliation pass.
type Result struct {
	Vessels []vessel.Vessel
	Dropped []*ReconciliationError
}

// Reconciler turns history payloads into per-vessel tracks.
type Reconciler struct {
	log *zap.Logger
}

// NewReconciler returns a Reconciler logging dropped vessels to log. A nil
// logger is replaced by a no-op one.
func NewReconciler(log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{log: log}
}

// Reconcile groups the payload observations into one track per vessel and
// joins them with their metadata. Vessels are returned ordered by MMSI.
func (r *Reconciler) Reconcile(p *Payload) Result {
	if p == nil {
		return Result{}
	}

	tracks := map[int64]vessel.Track{}
	for _, b := range p.Buckets {
		for _, o := range b.Fleet {
			tracks[o.MMSI] = append(tracks[o.MMSI], o)
		}
	}

	meta := make(map[int64]vessel.Static, len(p.Vessels))
	for _, m := range p.Vessels {
		meta[m.MMSI] = m.Static
	}

	ids := make([]int64, 0, len(tracks))
	for id := range tracks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var res Result
	for _, id := range ids {
		track := tracks[id]
		static, ok := meta[id]
		if !ok {
			rerr := &ReconciliationError{MMSI: id, Samples: len(track)}
			r.log.Warn("dropping tracked vessel", zap.Int64("mmsi", id), zap.Error(rerr))
			metrics.VesselsDropped.Inc()
			res.Dropped = append(res.Dropped, rerr)
			continue
		}
		if !track.Sorted() {
			r.log.Debug("reordering track", zap.Int64("mmsi", id), zap.Int("samples", len(track)))
			track = OrderTrack(track)
		}
		res.Vessels = append(res.Vessels, vessel.Vessel{MMSI: id, Static: static, Track: track})
	}
	return res
}

// OrderTrack sorts a track by timestamp and collapses samples sharing a
// timestamp, keeping the one that arrived last.
func OrderTrack(t vessel.Track) vessel.Track {
	out := make(vessel.Track, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Timestamp == out[i].Timestamp {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}
