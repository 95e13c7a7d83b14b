package encoder

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Policy decides what Push does when the frame queue is full.
type Policy int

const (
	// DropOldest evicts the oldest queued frame to make room. The video
	// skips a frame instead of stalling the simulation.
	DropOldest Policy = iota
	// Block waits for the writer to drain. Every frame is encoded, at the
	// cost of simulation throughput.
	Block
)

// Stats is a snapshot of the sink's frame accounting. At any quiescent
// point produced == forwarded + dropped + queued.
type Stats struct {
	Produced  int64
	Forwarded int64
	Dropped   int64
}

// Sink feeds frames to a single writer goroutine through a bounded queue.
// Push is called by one producer; Close must be called exactly once after
// the last Push.
type Sink struct {
	w      io.Writer
	pool   *FramePool
	policy Policy

	queue chan []byte
	done  chan struct{}

	produced  atomic.Int64
	forwarded atomic.Int64
	dropped   atomic.Int64

	mu       sync.Mutex
	writeErr error
	closed   bool
}

func NewSink(w io.Writer, capacity int, policy Policy, pool *FramePool) *Sink {
	if capacity < 1 {
		capacity = 1
	}
	s := &Sink{
		w:      w,
		pool:   pool,
		policy: policy,
		queue:  make(chan []byte, capacity),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// run is the single writer. After a write error it keeps draining so the
// producer never blocks on a dead pipe; drained frames count as dropped.
func (s *Sink) run() {
	defer close(s.done)
	for frame := range s.queue {
		if s.failed() {
			s.dropped.Add(1)
			s.recycle(frame)
			continue
		}
		if _, err := s.w.Write(frame); err != nil {
			s.setErr(fmt.Errorf("%w: %v", ErrWriteFailed, err))
			s.dropped.Add(1)
		} else {
			s.forwarded.Add(1)
		}
		s.recycle(frame)
	}
}

// Push enqueues one frame. The sink owns the buffer afterwards; with a pool
// attached it is returned there once written or dropped.
func (s *Sink) Push(frame []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	err := s.writeErr
	s.mu.Unlock()

	s.produced.Add(1)
	if err != nil {
		s.dropped.Add(1)
		s.recycle(frame)
		return err
	}

	if s.policy == Block {
		s.queue <- frame
		return nil
	}

	select {
	case s.queue <- frame:
		return nil
	default:
	}

	// Full: evict the oldest, then retry once. The writer may have drained
	// concurrently, in which case nothing is evicted and the send succeeds.
	select {
	case old := <-s.queue:
		s.dropped.Add(1)
		s.recycle(old)
	default:
	}
	select {
	case s.queue <- frame:
	default:
		s.dropped.Add(1)
		s.recycle(frame)
	}
	return nil
}

// Close flushes the queue, stops the writer and reports any write error.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.closed = true
	s.mu.Unlock()

	close(s.queue)
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

func (s *Sink) Stats() Stats {
	return Stats{
		Produced:  s.produced.Load(),
		Forwarded: s.forwarded.Load(),
		Dropped:   s.dropped.Load(),
	}
}

// Err reports a writer failure observed so far, nil otherwise.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

func (s *Sink) failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr != nil
}

func (s *Sink) setErr(err error) {
	s.mu.Lock()
	if s.writeErr == nil {
		s.writeErr = err
	}
	s.mu.Unlock()
}

func (s *Sink) recycle(frame []byte) {
	if s.pool != nil {
		s.pool.Put(frame)
	}
}
