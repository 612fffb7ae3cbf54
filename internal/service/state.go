package service

import "sync"

// itemKey identifies one unit of review work. A client-wide review uses
// accountID 0, which never collides with a real account id.
type itemKey struct {
	clientID  int64
	accountID int64
}

// processingState is the set of items currently in flight. It is the only
// shared mutable state between a running batch and interactive single runs;
// an item present in the set is never processed a second time concurrently.
type processingState struct {
	mu       sync.Mutex
	inFlight map[itemKey]struct{}
}

func newProcessingState() *processingState {
	return &processingState{inFlight: make(map[itemKey]struct{})}
}

// mark claims the key. It returns false when the item is already in flight.
func (s *processingState) mark(k itemKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[k]; ok {
		return false
	}
	s.inFlight[k] = struct{}{}
	return true
}

func (s *processingState) unmark(k itemKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, k)
}

func (s *processingState) isProcessing(k itemKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[k]
	return ok
}

// reset drops every claim. Called once a batch finishes so a leaked mark can
// never wedge future runs.
func (s *processingState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = make(map[itemKey]struct{})
}

func (s *processingState) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}
