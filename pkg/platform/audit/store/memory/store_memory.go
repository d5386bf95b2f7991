// Package memory provides an in-memory audit store for tests and
// single-node deployments without Kafka.
package memory

import (
	"context"
	"sync"

	audit "ajanda/pkg/platform/audit"
)

// InMemoryStore keeps events in insertion order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append records an event.
func (s *InMemoryStore) Append(ctx context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns events for a policy in insertion order. An empty policyID
// returns everything.
func (s *InMemoryStore) List(ctx context.Context, policyID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, 0, len(s.events))
	for _, e := range s.events {
		if policyID == "" || e.PolicyID == policyID {
			out = append(out, e)
		}
	}
	return out, nil
}
