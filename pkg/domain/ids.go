// Package domain holds the typed identifiers shared across modules.
//
// Each entity gets its own UUID-backed type so the compiler rejects a
// ReminderID where a PolicyID is expected. This matters here because the
// agenda mixes records from several source tables whose raw ids may collide;
// callers must never treat ids from different tables as interchangeable.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "ajanda/pkg/domain-errors"
)

type (
	// PolicyID identifies a policy row.
	PolicyID uuid.UUID
	// ReminderID identifies a reminder row.
	ReminderID uuid.UUID
	// NoteID identifies a dashboard note.
	NoteID uuid.UUID
	// CustomerID identifies a customer.
	CustomerID uuid.UUID
	// CompanyID identifies an insurance company.
	CompanyID uuid.UUID
)

func (id PolicyID) String() string   { return uuid.UUID(id).String() }
func (id ReminderID) String() string { return uuid.UUID(id).String() }
func (id NoteID) String() string     { return uuid.UUID(id).String() }
func (id CustomerID) String() string { return uuid.UUID(id).String() }
func (id CompanyID) String() string  { return uuid.UUID(id).String() }

func (id PolicyID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ReminderID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id NoteID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CustomerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared invariant: ids must be valid, non-empty,
// non-nil UUIDs. Enforced at trust boundaries (HTTP, store rows).
func parseUUID(kind, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s is required", kind))
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s is not a valid UUID", kind))
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must not be the nil UUID", kind))
	}
	return parsed, nil
}

// ParsePolicyID parses and validates a policy id.
func ParsePolicyID(raw string) (PolicyID, error) {
	parsed, err := parseUUID("policy id", raw)
	if err != nil {
		return PolicyID{}, err
	}
	return PolicyID(parsed), nil
}

// ParseReminderID parses and validates a reminder id.
func ParseReminderID(raw string) (ReminderID, error) {
	parsed, err := parseUUID("reminder id", raw)
	if err != nil {
		return ReminderID{}, err
	}
	return ReminderID(parsed), nil
}

// ParseNoteID parses and validates a note id.
func ParseNoteID(raw string) (NoteID, error) {
	parsed, err := parseUUID("note id", raw)
	if err != nil {
		return NoteID{}, err
	}
	return NoteID(parsed), nil
}

// ParseCustomerID parses and validates a customer id.
func ParseCustomerID(raw string) (CustomerID, error) {
	parsed, err := parseUUID("customer id", raw)
	if err != nil {
		return CustomerID{}, err
	}
	return CustomerID(parsed), nil
}

// ParseCompanyID parses and validates a company id.
func ParseCompanyID(raw string) (CompanyID, error) {
	parsed, err := parseUUID("company id", raw)
	if err != nil {
		return CompanyID{}, err
	}
	return CompanyID(parsed), nil
}
