package events

import (
	"context"
	"sync"

	feedv1 "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1"
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
)

// Store is an in-memory holder of injected market events. Collaborators push
// events in; the orchestrator queries the ones active at the current tick.
// Expired events are pruned on read.
type Store struct {
	mu     sync.Mutex
	events []marketv1.MarketEvent
}

// NewStore creates an empty event store.
func NewStore() *Store {
	return &Store{}
}

// Inject adds an event. Events whose start tick is in the past activate
// immediately.
func (s *Store) Inject(event marketv1.MarketEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// ActiveEvents returns the events in effect at the given tick and drops the
// ones that have fully decayed.
func (s *Store) ActiveEvents(_ context.Context, tick int64) []marketv1.MarketEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []marketv1.MarketEvent
	kept := s.events[:0]
	for _, event := range s.events {
		if tick >= event.StartTick+event.Duration {
			continue
		}
		kept = append(kept, event)
		if event.ActiveAt(tick) {
			active = append(active, event)
		}
	}
	s.events = kept

	return active
}

var _ feedv1.EventSource = (*Store)(nil)
