package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/store/customer"
	"ajanda/internal/agenda/timeline"
	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
	audit "ajanda/pkg/platform/audit"
	"ajanda/pkg/platform/sentinel"
	"ajanda/pkg/requestcontext"
)

// ToggleReminder flips a reminder's completed flag. Completing an overdue
// reminder removes it from the snapshot optimistically; either way a refetch
// follows so the planned bucket shows the new state.
func (t *Timeline) ToggleReminder(ctx context.Context, reminderID id.ReminderID, completed bool) error {
	ctx, span := t.tracer.Start(ctx, "agenda.ToggleReminder")
	defer span.End()

	key := "reminder/" + reminderID.String()
	if completed {
		t.mu.Lock()
		t.snapshot.Timeline.Overdue = timeline.RemoveByKey(t.snapshot.Timeline.Overdue, key)
		t.patches[key] = PatchPending
		t.mu.Unlock()
	}

	update := models.ReminderUpdate{IsCompleted: &completed}
	if err := t.reminders.Update(ctx, reminderID, update); err != nil {
		t.failPatch(key)
		t.refetchAfterWrite(ctx)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "reminder not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "reminder update failed")
	}
	t.confirmPatch(key)

	action := audit.EventReminderCompleted
	if !completed {
		action = audit.EventReminderReopened
	}
	t.emitAudit(ctx, audit.Event{
		Action:     string(action),
		ReminderID: reminderID.String(),
	})

	t.refetchAfterWrite(ctx)
	return nil
}

// AddReminder validates and persists a new reminder, then refetches so the
// timeline picks it up.
func (t *Timeline) AddReminder(ctx context.Context, title string, dueDate time.Time, customerID id.CustomerID) (id.ReminderID, error) {
	ctx, span := t.tracer.Start(ctx, "agenda.AddReminder")
	defer span.End()

	r, err := models.NewReminder(id.ReminderID(uuid.New()), title, dueDate, customerID, requestcontext.Now(ctx))
	if err != nil {
		return id.ReminderID{}, err
	}
	reminderID, err := t.reminders.Insert(ctx, *r)
	if err != nil {
		return id.ReminderID{}, dErrors.Wrap(err, dErrors.CodeInternal, "reminder insert failed")
	}
	t.refetchAfterWrite(ctx)
	return reminderID, nil
}

// DeleteReminder removes a reminder and refetches.
func (t *Timeline) DeleteReminder(ctx context.Context, reminderID id.ReminderID) error {
	ctx, span := t.tracer.Start(ctx, "agenda.DeleteReminder")
	defer span.End()

	if err := t.reminders.Delete(ctx, reminderID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "reminder not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "reminder delete failed")
	}
	t.refetchAfterWrite(ctx)
	return nil
}

// AddNote validates and persists a dashboard note.
func (t *Timeline) AddNote(ctx context.Context, content string, customerID id.CustomerID) (id.NoteID, error) {
	n, err := models.NewNote(id.NoteID(uuid.New()), content, customerID, requestcontext.Now(ctx))
	if err != nil {
		return id.NoteID{}, err
	}
	noteID, err := t.notes.Insert(ctx, *n)
	if err != nil {
		return id.NoteID{}, dErrors.Wrap(err, dErrors.CodeInternal, "note insert failed")
	}
	t.refetchAfterWrite(ctx)
	return noteID, nil
}

// UpdateNote replaces a note's content.
func (t *Timeline) UpdateNote(ctx context.Context, noteID id.NoteID, content string) error {
	if content == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "note content is required")
	}
	if err := t.notes.UpdateContent(ctx, noteID, content); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "note not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "note update failed")
	}
	t.refetchAfterWrite(ctx)
	return nil
}

// PinNote sets a note's pinned flag.
func (t *Timeline) PinNote(ctx context.Context, noteID id.NoteID, pinned bool) error {
	if err := t.notes.SetPinned(ctx, noteID, pinned); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "note not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "note pin failed")
	}
	t.refetchAfterWrite(ctx)
	return nil
}

// DeleteNote removes a note.
func (t *Timeline) DeleteNote(ctx context.Context, noteID id.NoteID) error {
	if err := t.notes.Delete(ctx, noteID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "note not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "note delete failed")
	}
	t.refetchAfterWrite(ctx)
	return nil
}

// SearchCustomers backs the mention autocomplete. Mention sigils are
// stripped; queries shorter than the minimum return empty without a store
// round trip.
func (t *Timeline) SearchCustomers(ctx context.Context, query string) ([]models.CustomerRef, error) {
	query = strings.TrimSpace(strings.TrimPrefix(query, "@"))
	if len([]rune(query)) < customer.MinQueryLen {
		return []models.CustomerRef{}, nil
	}
	refs, err := t.customers.SearchByName(ctx, query, customer.SearchLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "customer search failed")
	}
	if refs == nil {
		refs = []models.CustomerRef{}
	}
	return refs, nil
}
