package seascape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/seascape/config"
	"github.com/theoremus-urban-solutions/seascape/internal/timeutil"
	"github.com/theoremus-urban-solutions/seascape/render"
	"github.com/theoremus-urban-solutions/seascape/scheduler"
	"github.com/theoremus-urban-solutions/seascape/source"
	"github.com/theoremus-urban-solutions/seascape/tracking"
)

// ErrNoTrackSource is returned by Bootstrap when the fleet's source has no
// history endpoint.
var ErrNoTrackSource = errors.New("source does not serve tracks")

// PipelineOptions carries collaborators that are not part of the config file.
type PipelineOptions struct {
	Clock    timeutil.Clock
	Logger   *zap.Logger
	Adapters []render.Adapter // extra adapters, e.g. a Stream on stdout
}

// Pipeline wires one fleet's source through the scheduler into the
// configured render adapters.
type Pipeline struct {
	Fleet     string
	Live      scheduler.LiveSource
	Scheduler *scheduler.Scheduler
	Hub       *render.Hub
	SIRI      *render.SIRIStore
	Redis     *render.Redis

	adapters    render.Multi
	tracks      scheduler.TrackSource
	replay      config.ReplayConfig
	clock       timeutil.Clock
	redisClient redis.UniversalClient
	log         *zap.Logger
}

// NewSource builds the live and track sources for src. Track is nil for
// sources without a history endpoint.
func NewSource(fleet string, src config.SourceConfig, log *zap.Logger) (scheduler.LiveSource, scheduler.TrackSource, error) {
	client := source.NewClient(src.Timeout())
	switch src.Kind {
	case config.SourceJSON, "":
		if src.BaseURL == "" {
			return nil, nil, fmt.Errorf("source %q: baseURL is required", fleet)
		}
		if fleet == "" {
			return nil, nil, errors.New("json source: fleet name is required")
		}
		s := source.NewJSON(client, src.BaseURL, fleet)
		return s, s, nil
	case config.SourceGTFSRT:
		if src.VehiclePositionsURL == "" {
			return nil, nil, fmt.Errorf("source %q: vehiclePositionsURL is required", fleet)
		}
		return source.NewGTFSRT(client, src.VehiclePositionsURL, log), nil, nil
	default:
		return nil, nil, fmt.Errorf("source %q: unknown kind %q", fleet, src.Kind)
	}
}

// NewPipeline builds the pipeline for fleet from cfg.
func NewPipeline(cfg config.AppConfig, fleet string, opts PipelineOptions) (*Pipeline, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	name, srcCfg := cfg.SelectFleet(fleet)
	log := opts.Logger.With(zap.String("fleet", name))

	live, tracks, err := NewSource(name, srcCfg, log)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Fleet:  name,
		Live:   live,
		tracks: tracks,
		replay: cfg.Replay,
		clock:  opts.Clock,
		log:    log,
	}
	if cfg.Render.WebSocket {
		var retention time.Duration
		if cfg.Replay.Enabled {
			retention = cfg.Replay.Lookback()
		}
		p.Hub = render.NewHub(log.Named("hub"), retention)
		p.adapters = append(p.adapters, p.Hub)
	}
	if cfg.Render.SIRI {
		p.SIRI = render.NewSIRIStore(cfg.Render.Codespace, cfg.Pacing.IntervalMS)
		p.adapters = append(p.adapters, p.SIRI)
	}
	if rc := cfg.Render.Redis; rc.Enabled {
		p.redisClient = redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		p.Redis = render.NewRedis(p.redisClient, rc.Prefix+":"+name, log.Named("redis"))
		p.adapters = append(p.adapters, p.Redis)
	}
	p.adapters = append(p.adapters, opts.Adapters...)

	p.Scheduler, err = scheduler.New(live, scheduler.Options{
		Interval:     cfg.Pacing.Interval(),
		Steps:        cfg.Pacing.Steps,
		FetchOnStart: cfg.Pacing.FetchOnStart,
		Renderer:     p.adapters,
		Clock:        opts.Clock,
		Logger:       log.Named("scheduler"),
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// Bootstrap replays the configured lookback window into the adapters.
func (p *Pipeline) Bootstrap(ctx context.Context) (tracking.Result, error) {
	if p.tracks == nil {
		return tracking.Result{}, ErrNoTrackSource
	}
	q := tracking.Lookback(p.clock.Now(), p.replay.Lookback(), p.replay.DT())
	return p.Scheduler.Bootstrap(ctx, p.tracks, q)
}

// Run replays history when enabled, then streams live frames into the
// adapters until ctx is done or a fetch fails.
func (p *Pipeline) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if p.Hub != nil {
		g.Go(func() error {
			p.Hub.Run(ctx)
			return nil
		})
	}
	g.Go(func() error { return p.stream(ctx) })
	return g.Wait()
}

func (p *Pipeline) stream(ctx context.Context) error {
	if p.replay.Enabled && p.tracks != nil {
		if _, err := p.Bootstrap(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.log.Warn("track replay failed, continuing with live data", zap.Error(err))
		}
	}

	sub := p.Scheduler.Subscribe(ctx)
	for f := range sub.Frames() {
		p.adapters.Frame(f)
	}
	if err := sub.Err(); err != nil {
		return fmt.Errorf("live stream %s: %w", p.Fleet, err)
	}
	return nil
}

// Close releases the Redis connection, if any.
func (p *Pipeline) Close() error {
	if p.redisClient != nil {
		return p.redisClient.Close()
	}
	return nil
}
