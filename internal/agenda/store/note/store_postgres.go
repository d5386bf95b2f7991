package note

import (
	"context"
	"database/sql"
	"fmt"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
	"ajanda/pkg/platform/sentinel"
)

// Postgres implements Store over database/sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed note store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) List(ctx context.Context, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = ListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.content, n.is_pinned,
		       COALESCE(n.customer_id::text, ''), COALESCE(c.full_name, ''), n.created_at
		FROM notes n
		LEFT JOIN customers c ON c.id = n.customer_id
		ORDER BY n.is_pinned DESC, n.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var (
			n      models.Note
			rawID  string
			custID string
		)
		if err := rows.Scan(&rawID, &n.Content, &n.IsPinned, &custID, &n.CustomerName, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		parsedID, err := id.ParseNoteID(rawID)
		if err != nil {
			return nil, fmt.Errorf("note row id: %w", err)
		}
		n.ID = parsedID
		if custID != "" {
			if cid, err := id.ParseCustomerID(custID); err == nil {
				n.CustomerID = cid
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return out, nil
}

func (s *Postgres) Insert(ctx context.Context, n models.Note) (id.NoteID, error) {
	var customerID any
	if !n.CustomerID.IsNil() {
		customerID = n.CustomerID.String()
	}

	var rawID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notes (content, is_pinned, customer_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		n.Content, n.IsPinned, customerID,
	).Scan(&rawID)
	if err != nil {
		return id.NoteID{}, fmt.Errorf("insert note: %w", err)
	}
	return id.ParseNoteID(rawID)
}

func (s *Postgres) UpdateContent(ctx context.Context, noteID id.NoteID, content string) error {
	return s.exec(ctx, "UPDATE notes SET content = $1 WHERE id = $2", content, noteID.String())
}

func (s *Postgres) SetPinned(ctx context.Context, noteID id.NoteID, pinned bool) error {
	return s.exec(ctx, "UPDATE notes SET is_pinned = $1 WHERE id = $2", pinned, noteID.String())
}

func (s *Postgres) Delete(ctx context.Context, noteID id.NoteID) error {
	return s.exec(ctx, "DELETE FROM notes WHERE id = $1", noteID.String())
}

func (s *Postgres) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("note write: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("note write rows: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
