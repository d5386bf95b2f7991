// Package note provides the dashboard note store.
package note

import (
	"context"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
)

// ListLimit caps the dashboard note sidebar.
const ListLimit = 50

// Store is the note store contract. List orders pinned-first, then newest.
type Store interface {
	List(ctx context.Context, limit int) ([]models.Note, error)
	Insert(ctx context.Context, n models.Note) (id.NoteID, error)
	UpdateContent(ctx context.Context, noteID id.NoteID, content string) error
	SetPinned(ctx context.Context, noteID id.NoteID, pinned bool) error
	Delete(ctx context.Context, noteID id.NoteID) error
}
