package customer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ajanda/internal/agenda/models"
)

// InMemory implements Store over a seeded slice.
type InMemory struct {
	mu        sync.RWMutex
	customers []models.CustomerRef
}

// NewInMemory creates an in-memory customer lookup.
func NewInMemory(customers ...models.CustomerRef) *InMemory {
	s := &InMemory{}
	s.Seed(customers)
	return s
}

// Seed replaces the customer list.
func (s *InMemory) Seed(customers []models.CustomerRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make([]models.CustomerRef, len(customers))
	copy(s.customers, customers)
	sort.Slice(s.customers, func(i, j int) bool { return s.customers[i].FullName < s.customers[j].FullName })
}

func (s *InMemory) SearchByName(ctx context.Context, query string, limit int) ([]models.CustomerRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	out := make([]models.CustomerRef, 0, limit)
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.FullName), needle) {
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
