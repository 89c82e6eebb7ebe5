package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/seascape/internal/timeutil"
	"github.com/theoremus-urban-solutions/seascape/metrics"
	"github.com/theoremus-urban-solutions/seascape/tracking"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// LiveSource fetches the current fleet state.
type LiveSource interface {
	FetchSnapshot(ctx context.Context) (vessel.Snapshot, error)
}

// TrackSource fetches a history window.
type TrackSource interface {
	FetchTracks(ctx context.Context, q tracking.Query) (*tracking.Payload, error)
}

// Options configures a Scheduler.
type Options struct {
	Interval     time.Duration // time between live fetches, and the span of one window
	Steps        int           // frames per window
	FetchOnStart bool          // fetch immediately instead of waiting one interval
	Renderer     Renderer
	Clock        timeutil.Clock
	Logger       *zap.Logger
}

// Stats is a point-in-time view of scheduler activity.
type Stats struct {
	Fetches   int64 `json:"fetches"`
	Windows   int64 `json:"windows"`
	Coalesced int64 `json:"coalesced"`
	Frames    int64 `json:"frames"`
	LastFetch int64 `json:"last_fetch"` // epoch seconds of the last successful live fetch
	Vessels   int   `json:"vessels"`
}

// Scheduler turns a live source into paced frame streams.
type Scheduler struct {
	src   LiveSource
	opts  Options
	log   *zap.Logger
	clock timeutil.Clock
	reg   *registry

	fetches   atomic.Int64
	windows   atomic.Int64
	coalesced atomic.Int64
	frames    atomic.Int64
	lastFetch atomic.Int64
}

// New validates opts and returns a Scheduler polling src.
func New(src LiveSource, opts Options) (*Scheduler, error) {
	if src == nil {
		return nil, errors.New("scheduler: nil live source")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %s", opts.Interval)
	}
	if opts.Steps < 1 {
		return nil, fmt.Errorf("scheduler: steps must be at least 1, got %d", opts.Steps)
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Scheduler{
		src:   src,
		opts:  opts,
		log:   opts.Logger,
		clock: opts.Clock,
		reg:   newRegistry(opts.Renderer),
	}, nil
}

// Stats returns the counters accumulated over all subscriptions.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Fetches:   s.fetches.Load(),
		Windows:   s.windows.Load(),
		Coalesced: s.coalesced.Load(),
		Frames:    s.frames.Load(),
		LastFetch: s.lastFetch.Load(),
		Vessels:   s.reg.size(),
	}
}

// Bootstrap replays the history window q: every reconciled track is handed to
// the renderer, vessel first, then its samples in order. Vessels lacking
// metadata are reported in the result and skipped.
func (s *Scheduler) Bootstrap(ctx context.Context, src TrackSource, q tracking.Query) (tracking.Result, error) {
	start := s.clock.Now()
	p, err := src.FetchTracks(ctx, q)
	metrics.FetchLatency.WithLabelValues("history").Observe(s.clock.Now().Sub(start).Seconds())
	if err != nil {
		metrics.Fetches.WithLabelValues("history", "error").Inc()
		return tracking.Result{}, fmt.Errorf("fetch tracks: %w", err)
	}
	metrics.Fetches.WithLabelValues("history", "ok").Inc()

	res := tracking.NewReconciler(s.log).Reconcile(p)
	samples := 0
	for _, v := range res.Vessels {
		s.reg.upsert(v.MMSI, v.Static)
		for _, o := range v.Track {
			o.Static = v.Static
			s.reg.sample(o)
			samples++
		}
	}
	s.reg.r.ExtendClockStop(q.End)

	s.log.Info("track replay loaded",
		zap.Int("vessels", len(res.Vessels)),
		zap.Int("dropped", len(res.Dropped)),
		zap.Int("samples", samples),
		zap.Int64("from", q.Start),
		zap.Int64("to", q.End),
	)
	return res, nil
}

// Subscribe starts polling and stepping. The subscription ends when ctx is
// done, when Cancel is called, or on the first fetch error.
func (s *Scheduler) Subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)
	pending := make(chan fetched, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.fetchLoop(gctx, pending) })
	g.Go(func() error { return s.stepLoop(gctx, pending, sub.frames) })

	log := s.log.With(zap.String("subscription", sub.ID.String()))
	log.Debug("subscription started",
		zap.Duration("interval", s.opts.Interval),
		zap.Int("steps", s.opts.Steps),
	)
	go func() {
		err := g.Wait()
		cancel()
		if err != nil {
			log.Error("subscription failed", zap.Error(err))
		} else {
			log.Debug("subscription stopped")
		}
		sub.finish(err)
	}()
	return sub
}

func (s *Scheduler) fetchLoop(ctx context.Context, pending chan fetched) error {
	ticker := s.clock.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	var seq int64
	fetch := func() error {
		seq++
		return s.fetch(ctx, seq, pending)
	}

	if s.opts.FetchOnStart {
		if err := fetch(); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			if err := fetch(); err != nil {
				return err
			}
		}
	}
}

// fetch performs one live fetch and offers the result to pending, replacing
// any snapshot still waiting there. Results arriving after cancellation are
// discarded.
func (s *Scheduler) fetch(ctx context.Context, seq int64, pending chan fetched) error {
	start := s.clock.Now()
	snap, err := s.src.FetchSnapshot(ctx)
	metrics.FetchLatency.WithLabelValues("live").Observe(s.clock.Now().Sub(start).Seconds())

	if ctx.Err() != nil {
		metrics.Fetches.WithLabelValues("live", "discarded").Inc()
		return nil
	}
	if err != nil {
		metrics.Fetches.WithLabelValues("live", "error").Inc()
		return fmt.Errorf("live fetch %d: %w", seq, err)
	}
	metrics.Fetches.WithLabelValues("live", "ok").Inc()
	s.fetches.Add(1)

	now := s.clock.Now().Unix()
	s.lastFetch.Store(now)
	s.reg.r.ExtendClockStop(now)

	f := fetched{seq: seq, snap: snap}
	select {
	case pending <- f:
		return nil
	default:
	}
	select {
	case old := <-pending:
		s.coalesced.Add(1)
		metrics.WindowsCoalesced.Inc()
		s.log.Debug("pending snapshot replaced", zap.Int64("dropped", old.seq), zap.Int64("window", seq))
	default:
	}
	pending <- f
	return nil
}

func (s *Scheduler) stepLoop(ctx context.Context, pending <-chan fetched, frames chan<- Frame) error {
	var w Window
	delay := StepDelay(s.opts.Interval, s.opts.Steps)

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-pending:
			w.Shift(f.seq, f.snap)
			s.windows.Add(1)
			metrics.WindowsApplied.Inc()
			metrics.FleetSize.Set(float64(len(f.snap)))
			for _, o := range f.snap.Observations() {
				s.reg.sample(o)
			}
		}

		for i := 0; i < s.opts.Steps; i++ {
			if !s.sleep(ctx, delay) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			select {
			case frames <- w.Frame(i, s.opts.Steps):
				if ctx.Err() != nil {
					return nil
				}
				s.frames.Add(1)
				metrics.FramesEmitted.Inc()
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// sleep waits for d and reports false if ctx ended first.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	t := s.clock.NewTimer(d)
	select {
	case <-t.C():
		return true
	case <-ctx.Done():
		t.Stop()
		return false
	}
}
