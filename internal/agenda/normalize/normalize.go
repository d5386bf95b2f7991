// Package normalize maps raw policy and reminder records into the unified
// agenda item shape.
//
// Normalization is a pure projection: deterministic for identical inputs,
// no store access, no clock reads. Eligibility filtering (status, date
// range, row limit) belongs to the store query, not here.
package normalize

import (
	"fmt"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/models"
)

const (
	// policyHour anchors policy expiries at local noon.
	policyHour = 12
	// reminderHour anchors reminders at 09:00 local.
	reminderHour = 9

	unknownCustomer = "Bilinmeyen Müşteri"
	fallbackProduct = "Sigorta"
)

// FromPolicy projects a policy row into a policy_expiry agenda item.
// Overdue reclassification happens later in partitioning.
func FromPolicy(p models.Policy) models.AgendaItem {
	display := p.ProductName
	if display == "" {
		display = p.Type
	}
	if display == "" {
		display = fallbackProduct
	}

	description := display
	plate := p.Plate()
	if plate != "" {
		description = fmt.Sprintf("%s (%s)", display, plate)
	}

	title := p.CustomerName
	if title == "" {
		title = unknownCustomer
	}

	item := models.AgendaItem{
		ID:          p.ID.String(),
		Type:        models.TypePolicyExpiry,
		Title:       title,
		Description: description,
		Date:        dates.AtHour(p.EndDate, policyHour),
		Status:      models.StatusItemPending,
		Meta: models.ItemMeta{
			Amount:       p.Premium,
			Phone:        p.CustomerPhone,
			Company:      p.CompanyName,
			PolicyNo:     p.PolicyNo,
			PolicyStatus: string(p.Status),
			Plate:        plate,
			Acknowledged: p.IsAcknowledged,
		},
	}
	if !p.CustomerID.IsNil() {
		item.RelatedID = p.CustomerID.String()
	}
	return item
}

// FromReminder projects a reminder row into a reminder agenda item. The
// description falls back to naming the linked customer when the reminder
// itself has none.
func FromReminder(r models.Reminder) models.AgendaItem {
	description := r.Description
	if description == "" && r.CustomerName != "" {
		description = fmt.Sprintf("Müşteri: %s", r.CustomerName)
	}

	status := models.StatusItemPending
	if r.IsCompleted {
		status = models.StatusItemCompleted
	}

	item := models.AgendaItem{
		ID:          r.ID.String(),
		Type:        models.TypeReminder,
		Title:       r.Title,
		Description: description,
		Date:        dates.AtHour(r.DueDate, reminderHour),
		Status:      status,
		Meta: models.ItemMeta{
			IsCompleted: r.IsCompleted,
		},
	}
	if !r.CustomerID.IsNil() {
		item.RelatedID = r.CustomerID.String()
	}
	return item
}

// Items normalizes both record kinds into one slice, policies first.
func Items(policies []models.Policy, reminders []models.Reminder) []models.AgendaItem {
	out := make([]models.AgendaItem, 0, len(policies)+len(reminders))
	for _, p := range policies {
		out = append(out, FromPolicy(p))
	}
	for _, r := range reminders {
		out = append(out, FromReminder(r))
	}
	return out
}
