// Package audit records business events for the renewal workflow.
//
// Dispositions are the one place this system mutates money-bearing records,
// so every terminal action leaves an event: what happened, to which policy,
// correlated with the request that caused it. Events flow through a
// Publisher into a Store; production wires the Kafka store, tests and
// single-node deployments use the in-memory store.
package audit

import (
	"context"
	"time"
)

// AuditEvent names a recordable action.
type AuditEvent string

const (
	EventPolicyRenewedUs    AuditEvent = "policy.renewed_us"
	EventPolicyRenewedOther AuditEvent = "policy.renewed_other"
	EventPolicyCancelled    AuditEvent = "policy.cancelled"
	EventPolicyAcknowledged AuditEvent = "policy.acknowledged"
	EventReminderCompleted  AuditEvent = "reminder.completed"
	EventReminderReopened   AuditEvent = "reminder.reopened"
)

// Event is a single audit record.
type Event struct {
	Action     string    `json:"action"`
	PolicyID   string    `json:"policy_id,omitempty"`
	ReminderID string    `json:"reminder_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	Browser    string    `json:"browser,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that support reading events back
// (the in-memory store; Kafka consumers read from the topic instead).
type Lister interface {
	List(ctx context.Context, policyID string) ([]Event, error)
}
