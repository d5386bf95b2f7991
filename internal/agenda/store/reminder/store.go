// Package reminder provides the reminder store backing the manual side of
// the agenda.
package reminder

import (
	"context"
	"time"

	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
)

// Filter narrows a Query. The agenda fetch admits every open reminder plus
// recently completed ones, so a just-ticked item can still render crossed
// out instead of vanishing mid-session.
type Filter struct {
	OpenOrDueAfter time.Time
}

// Store is the reminder store contract.
type Store interface {
	Query(ctx context.Context, f Filter) ([]models.Reminder, error)
	GetByID(ctx context.Context, reminderID id.ReminderID) (*models.Reminder, error)
	Insert(ctx context.Context, r models.Reminder) (id.ReminderID, error)
	Update(ctx context.Context, reminderID id.ReminderID, update models.ReminderUpdate) error
	Delete(ctx context.Context, reminderID id.ReminderID) error
}
