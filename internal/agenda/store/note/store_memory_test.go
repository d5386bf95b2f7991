package note

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
	"ajanda/pkg/platform/sentinel"
)

func seedNote(t *testing.T, s *InMemory, content string, pinned bool, createdAt time.Time) id.NoteID {
	t.Helper()
	noteID, err := s.Insert(context.Background(), models.Note{
		Content:   content,
		IsPinned:  pinned,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return noteID
}

func TestListOrdersPinnedFirstThenNewest(t *testing.T) {
	s := NewInMemory()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)

	oldPinned := seedNote(t, s, "pinned old", true, base.Add(-48*time.Hour))
	newest := seedNote(t, s, "unpinned new", false, base)
	older := seedNote(t, s, "unpinned old", false, base.Add(-24*time.Hour))

	got, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, oldPinned, got[0].ID, "pinned wins regardless of age")
	assert.Equal(t, newest, got[1].ID)
	assert.Equal(t, older, got[2].ID)
}

func TestListHonorsLimit(t *testing.T) {
	s := NewInMemory()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		seedNote(t, s, "n", false, base.Add(time.Duration(i)*time.Minute))
	}
	got, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNoteWrites(t *testing.T) {
	s := NewInMemory()
	noteID := seedNote(t, s, "taslak", false, time.Now())

	require.NoError(t, s.UpdateContent(context.Background(), noteID, "güncel"))
	require.NoError(t, s.SetPinned(context.Background(), noteID, true))

	got, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "güncel", got[0].Content)
	assert.True(t, got[0].IsPinned)

	require.NoError(t, s.Delete(context.Background(), noteID))
	assert.ErrorIs(t, s.Delete(context.Background(), noteID), sentinel.ErrNotFound)
}

func TestWritesToUnknownNote(t *testing.T) {
	s := NewInMemory()
	unknown := id.NoteID(uuid.New())
	assert.ErrorIs(t, s.UpdateContent(context.Background(), unknown, "x"), sentinel.ErrNotFound)
	assert.ErrorIs(t, s.SetPinned(context.Background(), unknown, true), sentinel.ErrNotFound)
}
