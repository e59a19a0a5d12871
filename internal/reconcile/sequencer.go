package reconcile

import (
	"context"
	"sync"
)

// Sequencer orders overlapping requests so that a late response never
// overwrites a newer one. Starting a request cancels the one in flight.
type Sequencer struct {
	mu       sync.Mutex
	next     uint64
	accepted uint64
	cancel   context.CancelFunc
}

// Begin starts request number n and cancels the previous in-flight request.
// The returned context is canceled by the next Begin or by Stop.
func (s *Sequencer) Begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.next++
	return ctx, s.next
}

// Accept reports whether the response of request seq may be applied. Only a
// sequence newer than every accepted one is accepted.
func (s *Sequencer) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.accepted || seq > s.next {
		return false
	}
	s.accepted = seq
	return true
}

// Latest returns the last issued sequence number.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Stop cancels the in-flight request, if any.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
