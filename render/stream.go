package render

import (
	"io"
	"sync"

	"github.com/theoremus-urban-solutions/seascape/metrics"
	"github.com/theoremus-urban-solutions/seascape/scheduler"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// Stream writes every event as one JSON line. Writes are serialized; the first
// write error is kept and later events are dropped.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	frames bool
	err    error
}

// NewStream returns a Stream writing to w. Frame events are written only when
// frames is set.
func NewStream(w io.Writer, frames bool) *Stream {
	return &Stream{w: w, frames: frames}
}

func (s *Stream) Upsert(id string, st vessel.Static) { s.write(UpsertEvent(id, st)) }

func (s *Stream) AppendSample(id string, ts int64, pos vessel.Position, heading float64) {
	s.write(SampleEvent(id, ts, pos, heading))
}

func (s *Stream) ExtendClockStop(ts int64) { s.write(ClockStopEvent(ts)) }

func (s *Stream) Frame(f scheduler.Frame) {
	if s.frames {
		s.write(FrameEvent(f))
	}
}

// Err returns the first write error.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) write(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	data, err := FormatJSON.Marshal(ev)
	if err == nil {
		_, err = s.w.Write(append(data, '\n'))
	}
	if err != nil {
		s.err = err
		metrics.RenderErrors.WithLabelValues("stream").Inc()
	}
}
