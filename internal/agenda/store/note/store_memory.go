package note

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
	mu    sync.RWMutex
	notes map[id.NoteID]*models.Note
	clock func() time.Time
}

// NewInMemory creates an empty in-memory note store.
func NewInMemory() *InMemory {
	return &InMemory{
		notes: make(map[id.NoteID]*models.Note),
		clock: time.Now,
	}
}

func (s *InMemory) List(ctx context.Context, limit int) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) Insert(ctx context.Context, n models.Note) (id.NoteID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID.IsNil() {
		n.ID = id.NoteID(uuid.New())
	}
	if _, exists := s.notes[n.ID]; exists {
		return id.NoteID{}, sentinel.ErrConflict
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock()
	}
	cp := n
	s.notes[n.ID] = &cp
	return n.ID, nil
}

func (s *InMemory) UpdateContent(ctx context.Context, noteID id.NoteID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok {
		return sentinel.ErrNotFound
	}
	n.Content = content
	return nil
}

func (s *InMemory) SetPinned(ctx context.Context, noteID id.NoteID, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok {
		return sentinel.ErrNotFound
	}
	n.IsPinned = pinned
	return nil
}

func (s *InMemory) Delete(ctx context.Context, noteID id.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[noteID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}
