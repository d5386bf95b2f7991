package models

import (
	"fmt"
	"time"

	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
)

// PolicyStatus is the lifecycle state of a policy row.
//
// Transitions driven by the renewal workflow:
//   - Active|Potential → Renewed   (renewed with us; successor row inserted)
//   - Active|Potential → Lost      (renewed elsewhere; prospect row inserted)
//   - Active|Potential → Cancelled (no successor)
//
// Expired is set by a reporting job outside this subsystem and never by the
// renewal workflow.
type PolicyStatus string

const (
	StatusActive    PolicyStatus = "Active"
	StatusPotential PolicyStatus = "Potential"
	StatusExpired   PolicyStatus = "Expired"
	StatusRenewed   PolicyStatus = "Renewed"
	StatusLost      PolicyStatus = "Lost"
	StatusCancelled PolicyStatus = "Cancelled"

	// StatusPotentialLegacy is the pre-migration spelling still present in
	// older rows. Queries must match it; new rows never receive it.
	StatusPotentialLegacy PolicyStatus = "Potansiyel"
)

// AgendaEligibleStatuses are the statuses the timeline query admits.
var AgendaEligibleStatuses = []PolicyStatus{StatusActive, StatusPotential, StatusPotentialLegacy}

// Vehicle product names whose description field carries a license plate.
const (
	ProductTraffic       = "Trafik Sigortası"
	ProductComprehensive = "Kasko"
)

// Policy is a denormalized policy row as the agenda consumes it: the joined
// customer, company and product display fields ride along with the record.
type Policy struct {
	ID             id.PolicyID
	PolicyNo       string
	Status         PolicyStatus
	Type           string
	ProductName    string
	StartDate      time.Time
	EndDate        time.Time
	Premium        float64
	Commission     float64
	Description    string
	IsAcknowledged bool
	CustomerID     id.CustomerID
	CustomerName   string
	CustomerPhone  string
	CompanyID      id.CompanyID
	CompanyName    string
	CreatedAt      time.Time
}

// IsVehicle reports whether the policy covers a vehicle, in which case the
// description field holds the plate.
func (p *Policy) IsVehicle() bool {
	return p.Type == ProductTraffic || p.Type == ProductComprehensive
}

// Plate returns the license plate for vehicle policies, empty otherwise.
// Absence of a plate on a vehicle policy is not an error.
func (p *Policy) Plate() string {
	if p.IsVehicle() {
		return p.Description
	}
	return ""
}

// eligible reports whether the policy is still open for a disposition.
func (p *Policy) eligible() bool {
	switch p.Status {
	case StatusActive, StatusPotential, StatusPotentialLegacy:
		return true
	}
	return false
}

// CanDispose checks that a terminal renewal action may be applied. A policy
// already renewed, lost or cancelled rejects further dispositions, which is
// what prevents double-submission of derived records.
func (p *Policy) CanDispose() error {
	if !p.eligible() {
		return dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("policy %s is already settled (status %s)", p.PolicyNo, p.Status))
	}
	return nil
}

// RenewalOverrides carries the operator's form input for a renewal.
// Nil/zero fields fall back to the predecessor's values.
type RenewalOverrides struct {
	CompanyID  id.CompanyID
	Premium    *float64
	Commission *float64
	PolicyNo   string
	StartDate  time.Time
	EndDate    time.Time
}

// DeriveRenewal builds the successor row for an internal renewal: a copy of
// the predecessor minus identity and timestamps, status Active, the new term
// starting where the old one ended unless the operator chose otherwise.
// The caller persists predecessor mark + successor insert atomically.
func (p *Policy) DeriveRenewal(in RenewalOverrides) Policy {
	successor := *p
	successor.ID = id.PolicyID{}
	successor.CreatedAt = time.Time{}
	successor.Status = StatusActive
	successor.IsAcknowledged = false

	successor.StartDate = in.StartDate
	if successor.StartDate.IsZero() {
		successor.StartDate = p.EndDate
	}
	successor.EndDate = in.EndDate
	if successor.EndDate.IsZero() {
		successor.EndDate = successor.StartDate
	}
	if in.Premium != nil {
		successor.Premium = *in.Premium
	}
	if in.Commission != nil {
		successor.Commission = *in.Commission
	}
	if in.PolicyNo != "" {
		successor.PolicyNo = in.PolicyNo
	}
	if !in.CompanyID.IsNil() {
		successor.CompanyID = in.CompanyID
		successor.CompanyName = ""
	}
	return successor
}

// DeriveCompetitorProspect builds the follow-up prospect row when the
// customer renewed elsewhere: a Potential policy due one year after the lost
// term, annotated with the competitor and their quoted price so next year's
// agent knows what to beat.
func (p *Policy) DeriveCompetitorProspect(competitor string, in RenewalOverrides) Policy {
	if competitor == "" {
		competitor = "Bilinmiyor"
	}
	prospect := *p
	prospect.ID = id.PolicyID{}
	prospect.CreatedAt = time.Time{}
	prospect.Status = StatusPotential
	prospect.IsAcknowledged = false
	prospect.EndDate = p.EndDate.AddDate(1, 0, 0)

	price := p.Premium
	if in.Premium != nil {
		price = *in.Premium
		prospect.Premium = *in.Premium
	}
	prospect.Description = fmt.Sprintf("%s (Rakip: %s, Fiyat: %g)", p.Description, competitor, price)
	if !in.CompanyID.IsNil() {
		prospect.CompanyID = in.CompanyID
		prospect.CompanyName = ""
	}
	return prospect
}

// PolicyUpdate is a sparse field update applied by Update/Renew.
type PolicyUpdate struct {
	Status         *PolicyStatus
	IsAcknowledged *bool
}

// MarkRenewed is the predecessor-side update for renewed_us.
func MarkRenewed() PolicyUpdate {
	s, ack := StatusRenewed, true
	return PolicyUpdate{Status: &s, IsAcknowledged: &ack}
}

// MarkLost is the predecessor-side update for renewed_other.
func MarkLost() PolicyUpdate {
	s, ack := StatusLost, true
	return PolicyUpdate{Status: &s, IsAcknowledged: &ack}
}

// MarkCancelled is the update for a cancelled disposition. Acknowledgment is
// left untouched: Cancelled rows fall out of the agenda query entirely.
func MarkCancelled() PolicyUpdate {
	s := StatusCancelled
	return PolicyUpdate{Status: &s}
}

// MarkAcknowledged is the acknowledge-only update.
func MarkAcknowledged() PolicyUpdate {
	ack := true
	return PolicyUpdate{IsAcknowledged: &ack}
}
