package render

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/seascape/metrics"
	"github.com/theoremus-urban-solutions/seascape/scheduler"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

const redisTimeout = 2 * time.Second

// Redis mirrors adapter calls into Redis:
//
//	{prefix}:vessels    hash id -> upsert event (JSON)
//	{prefix}:positions  hash id -> last sample event (JSON)
//	{prefix}:clockstop  string, epoch seconds
//	{prefix}:events     pub/sub channel carrying every event (JSON)
//
// Write failures are logged and counted; they never block the pipeline for
// longer than the per-call timeout.
type Redis struct {
	client redis.UniversalClient
	prefix string
	log    *zap.Logger
}

// NewRedis returns a Redis adapter writing under prefix.
func NewRedis(client redis.UniversalClient, prefix string, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	if prefix == "" {
		prefix = "seascape"
	}
	return &Redis{client: client, prefix: prefix, log: log}
}

// VesselsKey is the hash holding entity metadata.
func (r *Redis) VesselsKey() string { return r.prefix + ":vessels" }

// PositionsKey is the hash holding the last sample per entity.
func (r *Redis) PositionsKey() string { return r.prefix + ":positions" }

// ClockStopKey holds the timeline end.
func (r *Redis) ClockStopKey() string { return r.prefix + ":clockstop" }

// Channel is the pub/sub channel carrying every event.
func (r *Redis) Channel() string { return r.prefix + ":events" }

func (r *Redis) Upsert(id string, s vessel.Static) {
	ev := UpsertEvent(id, s)
	r.exec(ev, func(ctx context.Context, p redis.Pipeliner, data []byte) {
		p.HSet(ctx, r.VesselsKey(), id, data)
	})
}

func (r *Redis) AppendSample(id string, ts int64, pos vessel.Position, heading float64) {
	ev := SampleEvent(id, ts, pos, heading)
	r.exec(ev, func(ctx context.Context, p redis.Pipeliner, data []byte) {
		p.HSet(ctx, r.PositionsKey(), id, data)
	})
}

func (r *Redis) ExtendClockStop(ts int64) {
	r.exec(ClockStopEvent(ts), func(ctx context.Context, p redis.Pipeliner, _ []byte) {
		p.Set(ctx, r.ClockStopKey(), strconv.FormatInt(ts, 10), 0)
	})
}

// Frame publishes the frame without storing it.
func (r *Redis) Frame(f scheduler.Frame) {
	r.exec(FrameEvent(f), nil)
}

// exec encodes ev, runs store (if any) and publishes ev in one pipeline.
func (r *Redis) exec(ev Event, store func(ctx context.Context, p redis.Pipeliner, data []byte)) {
	data, err := FormatJSON.Marshal(ev)
	if err != nil {
		r.failed(ev, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	_, err = r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		if store != nil {
			store(ctx, p, data)
		}
		p.Publish(ctx, r.Channel(), data)
		return nil
	})
	if err != nil {
		r.failed(ev, err)
	}
}

func (r *Redis) failed(ev Event, err error) {
	metrics.RenderErrors.WithLabelValues("redis").Inc()
	r.log.Warn("redis render write failed", zap.String("type", ev.Type), zap.String("id", ev.ID), zap.Error(err))
}
