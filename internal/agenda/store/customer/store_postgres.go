package customer

import (
	"context"
	"database/sql"
	"fmt"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
)

// Postgres implements Store over database/sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed customer lookup.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) SearchByName(ctx context.Context, query string, limit int) ([]models.CustomerRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name
		FROM customers
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name ASC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()

	var out []models.CustomerRef
	for rows.Next() {
		var (
			c     models.CustomerRef
			rawID string
		)
		if err := rows.Scan(&rawID, &c.FullName); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		parsedID, err := id.ParseCustomerID(rawID)
		if err != nil {
			return nil, fmt.Errorf("customer row id: %w", err)
		}
		c.ID = parsedID
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return out, nil
}
