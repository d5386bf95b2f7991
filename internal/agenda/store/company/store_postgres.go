package company

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

// NewPostgres constructs a PostgreSQL-backed company store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) List(ctx context.Context) ([]models.Company, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM settings_companies ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var out []models.Company
	for rows.Next() {
		var (
			c     models.Company
			rawID string
		)
		if err := rows.Scan(&rawID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		parsedID, err := id.ParseCompanyID(rawID)
		if err != nil {
			return nil, fmt.Errorf("company row id: %w", err)
		}
		c.ID = parsedID
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}
