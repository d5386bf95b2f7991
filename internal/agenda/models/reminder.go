package models

import (
	"time"

	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
)

// ReminderPriority orders reminders in the sidebar; the timeline ignores it.
type ReminderPriority string

const (
	PriorityHigh   ReminderPriority = "high"
	PriorityMedium ReminderPriority = "medium"
	PriorityLow    ReminderPriority = "low"
)

// Reminder is a manual due-dated task, optionally linked to a customer.
type Reminder struct {
	ID           id.ReminderID
	Title        string
	Description  string
	DueDate      time.Time
	IsCompleted  bool
	Priority     ReminderPriority
	CustomerID   id.CustomerID
	CustomerName string
	CreatedAt    time.Time
}

// NewReminder validates and constructs a reminder.
func NewReminder(reminderID id.ReminderID, title string, dueDate time.Time, customerID id.CustomerID, now time.Time) (*Reminder, error) {
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reminder title is required")
	}
	if dueDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reminder due date is required")
	}
	return &Reminder{
		ID:         reminderID,
		Title:      title,
		DueDate:    dueDate,
		Priority:   PriorityMedium,
		CustomerID: customerID,
		CreatedAt:  now,
	}, nil
}

// ReminderUpdate is a sparse field update.
type ReminderUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	IsCompleted *bool
	Priority    *ReminderPriority
}
