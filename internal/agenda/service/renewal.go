package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/timeline"
	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
	audit "ajanda/pkg/platform/audit"
	"ajanda/pkg/platform/sentinel"
)

// Disposition is the operator's terminal decision for an expiring policy.
type Disposition string

const (
	DispositionRenewedUs    Disposition = "renewed_us"
	DispositionRenewedOther Disposition = "renewed_other"
	DispositionCancelled    Disposition = "cancelled"
)

// DispositionInput carries the renewal form.
type DispositionInput struct {
	Action Disposition

	// CompanyName is the competitor's name for renewed_other; CompanyID is
	// the issuing company for renewed_us.
	CompanyName string
	Price       *float64

	Overrides models.RenewalOverrides
}

// validate enforces the form-level preconditions before any store access.
func (in DispositionInput) validate() error {
	switch in.Action {
	case DispositionRenewedUs:
		if in.Overrides.CompanyID.IsNil() {
			return dErrors.New(dErrors.CodeInvalidInput, "a company must be selected before submitting a renewal")
		}
	case DispositionRenewedOther:
		if in.Overrides.CompanyID.IsNil() && in.CompanyName == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "the winning company must be named before recording a lost renewal")
		}
	case DispositionCancelled:
	default:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown disposition %q", in.Action))
	}
	return nil
}

// Dispose applies a terminal renewal action to the policy.
//
// renewed_us and renewed_other write through: predecessor mark and derived
// successor commit atomically, then the whole timeline refetches. cancelled
// is optimistic: the item leaves the snapshot immediately, the write follows,
// and a write failure triggers a corrective refetch instead of an error.
func (t *Timeline) Dispose(ctx context.Context, policyID id.PolicyID, in DispositionInput) error {
	ctx, span := t.tracer.Start(ctx, "agenda.Dispose")
	defer span.End()
	span.SetAttributes(
		attribute.String("policy.id", policyID.String()),
		attribute.String("disposition", string(in.Action)),
	)

	if err := in.validate(); err != nil {
		return err
	}

	p, err := t.policies.GetByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("policy %s not found", policyID))
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "policy lookup failed")
	}
	if err := p.CanDispose(); err != nil {
		return err
	}

	switch in.Action {
	case DispositionRenewedUs:
		return t.disposeRenewedUs(ctx, p, in)
	case DispositionRenewedOther:
		return t.disposeRenewedOther(ctx, p, in)
	default:
		return t.disposeCancelled(ctx, p)
	}
}

func (t *Timeline) disposeRenewedUs(ctx context.Context, p *models.Policy, in DispositionInput) error {
	overrides := in.Overrides
	if overrides.Premium == nil {
		overrides.Premium = in.Price
	}
	successor := p.DeriveRenewal(overrides)
	successorID, err := t.policies.Renew(ctx, p.ID, models.MarkRenewed(), successor)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "renewal conflicts with an existing policy")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "renewal write failed")
	}

	t.logger.InfoContext(ctx, "policy renewed",
		"policy_id", p.ID,
		"successor_id", successorID,
		"policy_no", p.PolicyNo,
	)
	if t.metrics != nil {
		t.metrics.IncrementDisposition(string(DispositionRenewedUs))
	}
	t.emitAudit(ctx, audit.Event{
		Action:     string(audit.EventPolicyRenewedUs),
		PolicyID:   p.ID.String(),
		CustomerID: p.CustomerID.String(),
		Detail:     fmt.Sprintf("successor %s", successorID),
	})

	t.refetchAfterWrite(ctx)
	return nil
}

func (t *Timeline) disposeRenewedOther(ctx context.Context, p *models.Policy, in DispositionInput) error {
	overrides := in.Overrides
	overrides.Premium = in.Price
	prospect := p.DeriveCompetitorProspect(in.CompanyName, overrides)
	prospectID, err := t.policies.Renew(ctx, p.ID, models.MarkLost(), prospect)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "prospect conflicts with an existing policy")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "lost renewal write failed")
	}

	t.logger.InfoContext(ctx, "policy lost to competitor",
		"policy_id", p.ID,
		"prospect_id", prospectID,
		"competitor", in.CompanyName,
	)
	if t.metrics != nil {
		t.metrics.IncrementDisposition(string(DispositionRenewedOther))
	}
	t.emitAudit(ctx, audit.Event{
		Action:     string(audit.EventPolicyRenewedOther),
		PolicyID:   p.ID.String(),
		CustomerID: p.CustomerID.String(),
		Detail:     fmt.Sprintf("competitor %q, prospect %s", in.CompanyName, prospectID),
	})

	t.refetchAfterWrite(ctx)
	return nil
}

// disposeCancelled removes the policy's item from both buckets before the
// write lands. The caller always sees success; a failed write is reconciled
// by a corrective refetch, never reported.
func (t *Timeline) disposeCancelled(ctx context.Context, p *models.Policy) error {
	key := t.removePolicyOptimistic(p.ID)

	if err := t.policies.Update(ctx, p.ID, models.MarkCancelled()); err != nil {
		t.failPatch(key)
		t.logger.ErrorContext(ctx, "cancel write failed, refetching",
			"policy_id", p.ID,
			"error", err,
		)
		t.refetchAfterWrite(ctx)
		return nil
	}
	t.confirmPatch(key)

	t.logger.InfoContext(ctx, "policy cancelled", "policy_id", p.ID, "policy_no", p.PolicyNo)
	if t.metrics != nil {
		t.metrics.IncrementDisposition(string(DispositionCancelled))
	}
	t.emitAudit(ctx, audit.Event{
		Action:     string(audit.EventPolicyCancelled),
		PolicyID:   p.ID.String(),
		CustomerID: p.CustomerID.String(),
	})
	return nil
}

// Acknowledge dismisses an overdue policy without a disposition: the item
// leaves the overdue bucket immediately and the acknowledged flag is
// persisted. Planned items are untouched.
func (t *Timeline) Acknowledge(ctx context.Context, policyID id.PolicyID) error {
	ctx, span := t.tracer.Start(ctx, "agenda.Acknowledge")
	defer span.End()
	span.SetAttributes(attribute.String("policy.id", policyID.String()))

	key := "policy/" + policyID.String()
	t.mu.Lock()
	t.snapshot.Timeline.Overdue = timeline.RemovePolicy(t.snapshot.Timeline.Overdue, policyID.String())
	t.patches[key] = PatchPending
	t.mu.Unlock()

	if err := t.policies.Update(ctx, policyID, models.MarkAcknowledged()); err != nil {
		t.failPatch(key)
		t.logger.ErrorContext(ctx, "acknowledge write failed, refetching",
			"policy_id", policyID,
			"error", err,
		)
		t.refetchAfterWrite(ctx)
		return nil
	}
	t.confirmPatch(key)

	t.emitAudit(ctx, audit.Event{
		Action:   string(audit.EventPolicyAcknowledged),
		PolicyID: policyID.String(),
	})
	return nil
}

// removePolicyOptimistic drops the policy's item from both buckets and
// records the pending patch. Returns the patch key.
func (t *Timeline) removePolicyOptimistic(policyID id.PolicyID) string {
	key := "policy/" + policyID.String()
	t.mu.Lock()
	t.snapshot.Timeline.Overdue = timeline.RemovePolicy(t.snapshot.Timeline.Overdue, policyID.String())
	t.snapshot.Timeline.Planned = timeline.RemovePolicy(t.snapshot.Timeline.Planned, policyID.String())
	t.patches[key] = PatchPending
	t.mu.Unlock()
	return key
}

func (t *Timeline) confirmPatch(key string) {
	t.mu.Lock()
	if _, ok := t.patches[key]; ok {
		delete(t.patches, key)
	}
	t.mu.Unlock()
}

func (t *Timeline) failPatch(key string) {
	t.mu.Lock()
	t.patches[key] = PatchFailed
	t.mu.Unlock()
}

// PendingPatches reports optimistic changes not yet reconciled with a fresh
// snapshot. Confirmed patches are removed on the spot, so only pending and
// failed ones ever appear.
func (t *Timeline) PendingPatches() map[string]PatchState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]PatchState, len(t.patches))
	for k, v := range t.patches {
		out[k] = v
	}
	return out
}

// refetchAfterWrite reloads the timeline after a successful or failed write.
// The write already succeeded or was reconciled, so refresh errors only log.
func (t *Timeline) refetchAfterWrite(ctx context.Context) {
	if err := t.Refresh(ctx); err != nil {
		t.logger.ErrorContext(ctx, "post-write refresh failed", "error", err)
	}
}
