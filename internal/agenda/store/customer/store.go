// Package customer provides the name-search lookup behind note mention
// autocomplete. Full customer CRUD lives in another subsystem.
package customer

import (
	"context"

	"ajanda/internal/agenda/models"
)

// SearchLimit caps autocomplete results.
const SearchLimit = 5

// MinQueryLen is the shortest prefix worth searching.
const MinQueryLen = 2

// Store is the customer lookup contract.
type Store interface {
	SearchByName(ctx context.Context, query string, limit int) ([]models.CustomerRef, error)
}
