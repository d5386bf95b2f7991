package handler

import (
	"fmt"
	"time"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/service"
	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
)

// dispositionRequest is the renewal form payload.
//
// Dates arrive as calendar days ("2006-01-02") in the agency's local zone,
// matching how the policy rows store terms.
type dispositionRequest struct {
	Action      string   `json:"action"`
	CompanyID   string   `json:"company_id,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Premium     *float64 `json:"premium,omitempty"`
	Commission  *float64 `json:"commission,omitempty"`
	PolicyNo    string   `json:"policy_no,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
}

func (r dispositionRequest) Validate() error {
	switch service.Disposition(r.Action) {
	case service.DispositionRenewedUs, service.DispositionRenewedOther, service.DispositionCancelled:
		return nil
	case "":
		return dErrors.New(dErrors.CodeInvalidInput, "action is required")
	}
	return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown action %q", r.Action))
}

// toInput converts the wire payload into the service form, parsing ids and
// dates. Shape errors surface as invalid_input before any store access.
func (r dispositionRequest) toInput() (service.DispositionInput, error) {
	in := service.DispositionInput{
		Action:      service.Disposition(r.Action),
		CompanyName: r.CompanyName,
		Price:       r.Price,
	}
	in.Overrides.Premium = r.Premium
	in.Overrides.Commission = r.Commission
	in.Overrides.PolicyNo = r.PolicyNo

	if r.CompanyID != "" {
		companyID, err := id.ParseCompanyID(r.CompanyID)
		if err != nil {
			return service.DispositionInput{}, err
		}
		in.Overrides.CompanyID = companyID
	}
	var err error
	if in.Overrides.StartDate, err = parseOptionalDate("start_date", r.StartDate); err != nil {
		return service.DispositionInput{}, err
	}
	if in.Overrides.EndDate, err = parseOptionalDate("end_date", r.EndDate); err != nil {
		return service.DispositionInput{}, err
	}
	return in, nil
}

func parseOptionalDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := dates.ParseLocalDate(raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("%s must be a %s date", field, dates.DateLayout))
	}
	return parsed, nil
}

type reminderCreateRequest struct {
	Title      string `json:"title"`
	DueDate    string `json:"due_date"`
	CustomerID string `json:"customer_id,omitempty"`
}

func (r reminderCreateRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}
	if r.DueDate == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "due_date is required")
	}
	return nil
}

type reminderToggleRequest struct {
	Completed bool `json:"completed"`
}

type noteCreateRequest struct {
	Content    string `json:"content"`
	CustomerID string `json:"customer_id,omitempty"`
}

func (r noteCreateRequest) Validate() error {
	if r.Content == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "content is required")
	}
	return nil
}

type noteUpdateRequest struct {
	Content string `json:"content"`
}

func (r noteUpdateRequest) Validate() error {
	if r.Content == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "content is required")
	}
	return nil
}

type notePinRequest struct {
	Pinned bool `json:"pinned"`
}
