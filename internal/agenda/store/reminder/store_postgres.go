package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
	"ajanda/pkg/platform/sentinel"
)

// Postgres implements Store over database/sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed reminder store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const reminderColumns = `
	r.id, r.title, COALESCE(r.description, ''), r.due_date, r.is_completed,
	r.priority, COALESCE(r.customer_id::text, ''), COALESCE(c.full_name, ''), r.created_at`

const reminderJoins = `
	FROM reminders r
	LEFT JOIN customers c ON c.id = r.customer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (models.Reminder, error) {
	var (
		r        models.Reminder
		rawID    string
		custID   string
		priority string
	)
	err := row.Scan(
		&rawID, &r.Title, &r.Description, &r.DueDate, &r.IsCompleted,
		&priority, &custID, &r.CustomerName, &r.CreatedAt,
	)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("scan reminder: %w", err)
	}
	r.Priority = models.ReminderPriority(priority)

	// The DATE column decodes as midnight UTC; rebase onto the local day.
	r.DueDate = dates.AsLocalDay(r.DueDate)

	parsedID, err := id.ParseReminderID(rawID)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("reminder row id: %w", err)
	}
	r.ID = parsedID
	if custID != "" {
		if cid, err := id.ParseCustomerID(custID); err == nil {
			r.CustomerID = cid
		}
	}
	return r, nil
}

func (s *Postgres) Query(ctx context.Context, f Filter) ([]models.Reminder, error) {
	query := "SELECT" + reminderColumns + reminderJoins
	var args []any
	if !f.OpenOrDueAfter.IsZero() {
		args = append(args, f.OpenOrDueAfter.Format(dates.DateLayout))
		query += " WHERE r.is_completed = false OR r.due_date >= $1"
	}
	query += " ORDER BY r.due_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return out, nil
}

func (s *Postgres) GetByID(ctx context.Context, reminderID id.ReminderID) (*models.Reminder, error) {
	query := "SELECT" + reminderColumns + reminderJoins + " WHERE r.id = $1"
	r, err := scanReminder(s.db.QueryRowContext(ctx, query, reminderID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Postgres) Insert(ctx context.Context, r models.Reminder) (id.ReminderID, error) {
	var customerID any
	if !r.CustomerID.IsNil() {
		customerID = r.CustomerID.String()
	}
	priority := r.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	var rawID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reminders (title, description, due_date, is_completed, priority, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		r.Title, r.Description, r.DueDate.Format(dates.DateLayout), r.IsCompleted, string(priority), customerID,
	).Scan(&rawID)
	if err != nil {
		return id.ReminderID{}, fmt.Errorf("insert reminder: %w", err)
	}
	return id.ParseReminderID(rawID)
}

func (s *Postgres) Update(ctx context.Context, reminderID id.ReminderID, update models.ReminderUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.DueDate != nil {
		args = append(args, update.DueDate.Format(dates.DateLayout))
		sets = append(sets, fmt.Sprintf("due_date = $%d", len(args)))
	}
	if update.IsCompleted != nil {
		args = append(args, *update.IsCompleted)
		sets = append(sets, fmt.Sprintf("is_completed = $%d", len(args)))
	}
	if update.Priority != nil {
		args = append(args, string(*update.Priority))
		sets = append(sets, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, reminderID.String())

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE reminders SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reminder rows: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, reminderID id.ReminderID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = $1", reminderID.String())
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reminder rows: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
