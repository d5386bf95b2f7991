package policy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
	"ajanda/pkg/platform/sentinel"
)

// InMemory implements Store with a mutex-guarded map. Used by unit tests and
// demo deployments without a database.
type InMemory struct {
	mu       sync.RWMutex
	policies map[id.PolicyID]*models.Policy
	clock    func() time.Time
}

// InMemoryOption configures an InMemory store.
type InMemoryOption func(*InMemory)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemory creates an empty in-memory policy store.
func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		policies: make(map[id.PolicyID]*models.Policy),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Query(ctx context.Context, f Filter) ([]models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make(map[models.PolicyStatus]struct{}, len(f.StatusIn))
	for _, st := range f.StatusIn {
		statuses[st] = struct{}{}
	}

	out := make([]models.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		if len(statuses) > 0 {
			if _, ok := statuses[p.Status]; !ok {
				continue
			}
		}
		if !f.EndDateFrom.IsZero() && p.EndDate.Before(f.EndDateFrom) {
			continue
		}
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *InMemory) GetByID(ctx context.Context, policyID id.PolicyID) (*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) Insert(ctx context.Context, p models.Policy) (id.PolicyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(p)
}

// insertLocked assigns identity and timestamps. Callers hold s.mu.
func (s *InMemory) insertLocked(p models.Policy) (id.PolicyID, error) {
	if p.ID.IsNil() {
		p.ID = id.PolicyID(uuid.New())
	}
	if _, exists := s.policies[p.ID]; exists {
		return id.PolicyID{}, sentinel.ErrConflict
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock()
	}
	cp := p
	s.policies[p.ID] = &cp
	return p.ID, nil
}

func (s *InMemory) Update(ctx context.Context, policyID id.PolicyID, update models.PolicyUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(policyID, update)
}

func (s *InMemory) updateLocked(policyID id.PolicyID, update models.PolicyUpdate) error {
	p, ok := s.policies[policyID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.IsAcknowledged != nil {
		p.IsAcknowledged = *update.IsAcknowledged
	}
	return nil
}

// Renew applies the predecessor mark and successor insert under one lock
// acquisition, the in-memory equivalent of a transaction.
func (s *InMemory) Renew(ctx context.Context, policyID id.PolicyID, mark models.PolicyUpdate, successor models.Policy) (id.PolicyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.updateLocked(policyID, mark); err != nil {
		return id.PolicyID{}, err
	}
	return s.insertLocked(successor)
}
