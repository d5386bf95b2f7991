package models

import (
	"time"

	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
)

// Note is a freeform dashboard note, optionally mentioning a customer.
// Pinned notes list before unpinned ones regardless of age.
type Note struct {
	ID           id.NoteID
	Content      string
	IsPinned     bool
	CustomerID   id.CustomerID
	CustomerName string
	CreatedAt    time.Time
}

// NewNote validates and constructs a note.
func NewNote(noteID id.NoteID, content string, customerID id.CustomerID, now time.Time) (*Note, error) {
	if content == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "note content is required")
	}
	return &Note{
		ID:         noteID,
		Content:    content,
		CustomerID: customerID,
		CreatedAt:  now,
	}, nil
}

// Company is an insurance company the agency works with; renewal forms pick
// one from this list.
type Company struct {
	ID   id.CompanyID
	Name string
}

// CustomerRef is the minimal customer projection the mention autocomplete
// returns.
type CustomerRef struct {
	ID       id.CustomerID
	FullName string
}
