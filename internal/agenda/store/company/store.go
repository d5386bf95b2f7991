// Package company provides the insurance-company lookup the renewal form
// feeds from, with an optional Redis read cache in front.
package company

import (
	"context"

	"ajanda/internal/agenda/models"
)

// Store lists companies name-ascending.
type Store interface {
	List(ctx context.Context) ([]models.Company, error)
}
