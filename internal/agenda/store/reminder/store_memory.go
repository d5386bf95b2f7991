package reminder

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

// InMemory implements Store with a mutex-guarded map.
type InMemory struct {
	mu        sync.RWMutex
	reminders map[id.ReminderID]*models.Reminder
	clock     func() time.Time
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

// NewInMemory creates an empty in-memory reminder store.
func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		reminders: make(map[id.ReminderID]*models.Reminder),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Query(ctx context.Context, f Filter) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.IsCompleted && !f.OpenOrDueAfter.IsZero() && r.DueDate.Before(f.OpenOrDueAfter) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *InMemory) GetByID(ctx context.Context, reminderID id.ReminderID) (*models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reminders[reminderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) Insert(ctx context.Context, r models.Reminder) (id.ReminderID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID.IsNil() {
		r.ID = id.ReminderID(uuid.New())
	}
	if _, exists := s.reminders[r.ID]; exists {
		return id.ReminderID{}, sentinel.ErrConflict
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clock()
	}
	cp := r
	s.reminders[r.ID] = &cp
	return r.ID, nil
}

func (s *InMemory) Update(ctx context.Context, reminderID id.ReminderID, update models.ReminderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[reminderID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	if update.Description != nil {
		r.Description = *update.Description
	}
	if update.DueDate != nil {
		r.DueDate = *update.DueDate
	}
	if update.IsCompleted != nil {
		r.IsCompleted = *update.IsCompleted
	}
	if update.Priority != nil {
		r.Priority = *update.Priority
	}
	return nil
}

func (s *InMemory) Delete(ctx context.Context, reminderID id.ReminderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[reminderID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.reminders, reminderID)
	return nil
}
