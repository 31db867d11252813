package sensor

import (
	"context"
	"sync"
)

// stream is the start/stop plumbing shared by the sources. The producer
// runs in its own goroutine and owns the output channel.
type stream struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func (s *stream) start(ctx context.Context, produce func(ctx context.Context, out chan<- Sample)) (<-chan Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Sample, 16)
	done := make(chan struct{})
	s.cancel, s.done, s.started = cancel, done, true

	go func() {
		defer close(done)
		defer close(out)
		produce(ctx, out)
	}()
	return out, nil
}

// stop cancels the producer and waits for it to exit. It is safe to call
// more than once and on a stream that was never started.
func (s *stream) stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done, s.started = nil, nil, false
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func send(ctx context.Context, out chan<- Sample, smp Sample) bool {
	select {
	case out <- smp:
		return true
	case <-ctx.Done():
		return false
	}
}
