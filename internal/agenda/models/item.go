package models

import "time"

// ItemType discriminates the source of an agenda item.
//
// TypeMissedRenewal is derived, not stored: a policy_expiry item is
// reclassified the moment partitioning judges it overdue and unacknowledged.
type ItemType string

const (
	TypePolicyExpiry  ItemType = "policy_expiry"
	TypeMissedRenewal ItemType = "missed_renewal"
	TypeReminder      ItemType = "reminder"
	TypeNote          ItemType = "note"
)

// ItemStatus is the display status of an agenda item. StatusUrgent is set
// exactly when the item lands in the overdue bucket.
type ItemStatus string

const (
	StatusItemPending   ItemStatus = "pending"
	StatusItemCompleted ItemStatus = "completed"
	StatusItemUrgent    ItemStatus = "urgent"
)

// ItemMeta is the sparse detail bag; which fields are set depends on the
// item type.
type ItemMeta struct {
	Amount       float64 `json:"amount,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	Company      string  `json:"company,omitempty"`
	PolicyNo     string  `json:"policy_no,omitempty"`
	PolicyStatus string  `json:"policy_status,omitempty"`
	Plate        string  `json:"plate,omitempty"`
	IsCompleted  bool    `json:"is_completed,omitempty"`
	Acknowledged bool    `json:"acknowledged,omitempty"`
}

// AgendaItem is the unified due-dated record the timeline displays.
//
// ID is unique only within its source table. A policy and a reminder may
// carry the same raw id, so lookups keyed by id must namespace with Key().
type AgendaItem struct {
	ID          string     `json:"id"`
	Type        ItemType   `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Status      ItemStatus `json:"status"`
	RelatedID   string     `json:"related_id,omitempty"`
	Meta        ItemMeta   `json:"meta"`
}

// Key returns the type-namespaced identifier.
func (i AgendaItem) Key() string {
	return string(i.Type) + "/" + i.ID
}

// IsPolicy reports whether the item originates from the policy table,
// regardless of the derived missed_renewal retyping.
func (i AgendaItem) IsPolicy() bool {
	return i.Type == TypePolicyExpiry || i.Type == TypeMissedRenewal
}
