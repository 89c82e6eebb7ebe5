package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Subscription is one running frame stream.
type Subscription struct {
	ID uuid.UUID

	frames chan Frame
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		ID:     uuid.New(),
		frames: make(chan Frame),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Frames delivers frames in window order and increasing t. It is closed when
// the subscription ends.
func (s *Subscription) Frames() <-chan Frame { return s.frames }

// Done is closed once the subscription has stopped and Frames is closed.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err returns the error that ended the subscription. It is nil while the
// subscription runs and after a plain cancellation.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel stops the subscription and waits until it has finished. No frame is
// delivered once Cancel returns. Calling it from the goroutine that reads
// Frames is safe.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

func (s *Subscription) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.frames)
	close(s.done)
}
