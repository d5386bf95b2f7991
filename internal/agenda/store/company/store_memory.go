package company

import (
	"context"
	"sort"
	"sync"

	"ajanda/internal/agenda/models"
)

// InMemory implements Store over a fixed slice; Seed replaces the contents.
type InMemory struct {
	mu        sync.RWMutex
	companies []models.Company
}

// NewInMemory creates an in-memory company store.
func NewInMemory(companies ...models.Company) *InMemory {
	s := &InMemory{}
	s.Seed(companies)
	return s
}

// Seed replaces the company list.
func (s *InMemory) Seed(companies []models.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = make([]models.Company, len(companies))
	copy(s.companies, companies)
	sort.Slice(s.companies, func(i, j int) bool { return s.companies[i].Name < s.companies[j].Name })
}

func (s *InMemory) List(ctx context.Context) ([]models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Company, len(s.companies))
	copy(out, s.companies)
	return out, nil
}
