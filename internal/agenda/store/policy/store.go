// Package policy provides the policy store: the agenda's read source for
// expiring policies and the write target of the renewal workflow.
package policy

import (
	"context"
	"time"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
)

// QueryWindowBack bounds how far back the agenda query reaches for
// unacknowledged expirations.
const QueryWindowBack = 15 * 24 * time.Hour

// QueryLimit caps one fetch cycle's policy rows.
const QueryLimit = 300

// Filter narrows a Query.
type Filter struct {
	StatusIn    []models.PolicyStatus
	EndDateFrom time.Time
	Limit       int
}

// AgendaFilter is the standard filter for one timeline fetch: eligible
// statuses, end dates from two weeks back, row cap.
func AgendaFilter(now time.Time) Filter {
	return Filter{
		StatusIn:    models.AgendaEligibleStatuses,
		EndDateFrom: now.Add(-QueryWindowBack),
		Limit:       QueryLimit,
	}
}

// Store is the policy store contract.
//
// Renew is the transactional disposition path: it marks the predecessor and
// inserts the successor atomically, so a crash can never leave a policy
// marked Renewed/Lost without its derived record.
type Store interface {
	Query(ctx context.Context, f Filter) ([]models.Policy, error)
	GetByID(ctx context.Context, policyID id.PolicyID) (*models.Policy, error)
	Insert(ctx context.Context, p models.Policy) (id.PolicyID, error)
	Update(ctx context.Context, policyID id.PolicyID, update models.PolicyUpdate) error
	Renew(ctx context.Context, policyID id.PolicyID, mark models.PolicyUpdate, successor models.Policy) (id.PolicyID, error)
}
