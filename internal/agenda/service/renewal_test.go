package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/store/company"
	"ajanda/internal/agenda/store/customer"
	"ajanda/internal/agenda/store/note"
	"ajanda/internal/agenda/store/policy"
	"ajanda/internal/agenda/store/reminder"
	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
	audit "ajanda/pkg/platform/audit"
	auditmemory "ajanda/pkg/platform/audit/store/memory"
	"ajanda/pkg/requestcontext"
)

// brokenWritePolicyStore fails Update while reads keep working, for the
// optimistic-path reconciliation tests.
type brokenWritePolicyStore struct {
	policy.Store
}

func (b *brokenWritePolicyStore) Update(ctx context.Context, _ id.PolicyID, _ models.PolicyUpdate) error {
	return errors.New("write refused")
}

type RenewalSuite struct {
	suite.Suite
	policies   *policy.InMemory
	auditStore *auditmemory.InMemoryStore
	svc        *Timeline
	now        time.Time
	ctx        context.Context
	companyID  id.CompanyID
}

func TestRenewalSuite(t *testing.T) {
	suite.Run(t, new(RenewalSuite))
}

func (s *RenewalSuite) SetupTest() {
	s.now = time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)
	s.policies = policy.NewInMemory(policy.WithClock(func() time.Time { return s.now }))
	s.auditStore = auditmemory.NewInMemoryStore()
	s.companyID = id.CompanyID(uuid.New())
	s.svc = NewTimeline(s.policies,
		reminder.NewInMemory(), note.NewInMemory(), company.NewInMemory(), customer.NewInMemory(),
		WithAuditor(audit.NewPublisher(s.auditStore)),
	)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *RenewalSuite) seedExpiring() id.PolicyID {
	policyID, err := s.policies.Insert(s.ctx, models.Policy{
		PolicyNo:     "TRF-2024-007",
		Status:       models.StatusActive,
		Type:         models.ProductTraffic,
		StartDate:    s.now.AddDate(-1, 0, 0),
		EndDate:      s.now.AddDate(0, 0, -2),
		Premium:      5000,
		Commission:   750,
		Description:  "34 ABC 123",
		CustomerID:   id.CustomerID(uuid.New()),
		CustomerName: "Mehmet Kaya",
		CompanyID:    s.companyID,
	})
	s.Require().NoError(err)
	return policyID
}

func (s *RenewalSuite) events() []audit.Event {
	events, err := s.auditStore.List(s.ctx, "")
	s.Require().NoError(err)
	return events
}

func (s *RenewalSuite) TestRenewedUsCopiesForward() {
	policyID := s.seedExpiring()
	s.Require().NoError(s.svc.Refresh(s.ctx))
	s.Require().Len(s.svc.Snapshot().Timeline.Overdue, 1)

	newEnd := s.now.AddDate(1, 0, -2)
	err := s.svc.Dispose(s.ctx, policyID, DispositionInput{
		Action: DispositionRenewedUs,
		Overrides: models.RenewalOverrides{
			CompanyID: s.companyID,
			EndDate:   newEnd,
		},
	})
	s.Require().NoError(err)

	predecessor, err := s.policies.GetByID(s.ctx, policyID)
	s.Require().NoError(err)
	s.Equal(models.StatusRenewed, predecessor.Status)
	s.True(predecessor.IsAcknowledged)

	all, err := s.policies.Query(s.ctx, policy.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	var successor models.Policy
	for _, p := range all {
		if p.ID != policyID {
			successor = p
		}
	}
	s.Equal(models.StatusActive, successor.Status)
	s.Equal(predecessor.EndDate, successor.StartDate, "new term starts where the old ended")
	s.Equal(newEnd, successor.EndDate)
	s.Equal(predecessor.Premium, successor.Premium)
	s.Equal(predecessor.PolicyNo, successor.PolicyNo)

	s.Empty(s.svc.Snapshot().Timeline.Overdue, "refetch cleared the settled policy")

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventPolicyRenewedUs), events[0].Action)
	s.Equal(policyID.String(), events[0].PolicyID)
}

func (s *RenewalSuite) TestRenewedUsRequiresCompany() {
	policyID := s.seedExpiring()
	err := s.svc.Dispose(s.ctx, policyID, DispositionInput{Action: DispositionRenewedUs})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	got, err := s.policies.GetByID(s.ctx, policyID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status, "validation failure leaves the policy untouched")
}

func (s *RenewalSuite) TestRenewedOtherDerivesProspect() {
	policyID := s.seedExpiring()
	price := 4200.0

	err := s.svc.Dispose(s.ctx, policyID, DispositionInput{
		Action:      DispositionRenewedOther,
		CompanyName: "Rakip Sigorta",
		Price:       &price,
	})
	s.Require().NoError(err)

	predecessor, err := s.policies.GetByID(s.ctx, policyID)
	s.Require().NoError(err)
	s.Equal(models.StatusLost, predecessor.Status)
	s.True(predecessor.IsAcknowledged)

	all, err := s.policies.Query(s.ctx, policy.Filter{StatusIn: []models.PolicyStatus{models.StatusPotential}})
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	prospect := all[0]
	s.Equal(predecessor.EndDate.AddDate(1, 0, 0), prospect.EndDate)
	s.Equal(fmt.Sprintf("34 ABC 123 (Rakip: Rakip Sigorta, Fiyat: %g)", price), prospect.Description)
	s.Equal(price, prospect.Premium)

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventPolicyRenewedOther), events[0].Action)
}

func (s *RenewalSuite) TestRenewedOtherRequiresCompetitor() {
	policyID := s.seedExpiring()
	err := s.svc.Dispose(s.ctx, policyID, DispositionInput{Action: DispositionRenewedOther})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *RenewalSuite) TestCancelledIsOptimistic() {
	policyID := s.seedExpiring()
	s.Require().NoError(s.svc.Refresh(s.ctx))
	s.Require().Len(s.svc.Snapshot().Timeline.Overdue, 1)

	s.Require().NoError(s.svc.Dispose(s.ctx, policyID, DispositionInput{Action: DispositionCancelled}))

	s.Empty(s.svc.Snapshot().Timeline.Overdue)
	got, err := s.policies.GetByID(s.ctx, policyID)
	s.Require().NoError(err)
	s.Equal(models.StatusCancelled, got.Status)
	s.False(got.IsAcknowledged, "cancellation does not acknowledge")

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventPolicyCancelled), events[0].Action)
}

func (s *RenewalSuite) TestCancelledWriteFailureReconcilesSilently() {
	policyID := s.seedExpiring()
	broken := NewTimeline(&brokenWritePolicyStore{Store: s.policies},
		reminder.NewInMemory(), note.NewInMemory(), company.NewInMemory(), customer.NewInMemory())
	s.Require().NoError(broken.Refresh(s.ctx))
	s.Require().Len(broken.Snapshot().Timeline.Overdue, 1)

	err := broken.Dispose(s.ctx, policyID, DispositionInput{Action: DispositionCancelled})
	s.Require().NoError(err, "optimistic path reports success even when the write fails")

	s.Require().Len(broken.Snapshot().Timeline.Overdue, 1, "corrective refetch restored the item")
	got, err := s.policies.GetByID(s.ctx, policyID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status)
}

func (s *RenewalSuite) TestDisposeSettledPolicyConflicts() {
	policyID := s.seedExpiring()
	s.Require().NoError(s.svc.Dispose(s.ctx, policyID, DispositionInput{Action: DispositionCancelled}))

	err := s.svc.Dispose(s.ctx, policyID, DispositionInput{
		Action:    DispositionRenewedUs,
		Overrides: models.RenewalOverrides{CompanyID: s.companyID},
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *RenewalSuite) TestDisposeUnknownPolicy() {
	err := s.svc.Dispose(s.ctx, id.PolicyID(uuid.New()), DispositionInput{Action: DispositionCancelled})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RenewalSuite) TestDisposeUnknownAction() {
	policyID := s.seedExpiring()
	err := s.svc.Dispose(s.ctx, policyID, DispositionInput{Action: "archived"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *RenewalSuite) TestAcknowledgeRemovesOverdueOnly() {
	policyID := s.seedExpiring()
	s.Require().NoError(s.svc.Refresh(s.ctx))
	s.Require().Len(s.svc.Snapshot().Timeline.Overdue, 1)

	s.Require().NoError(s.svc.Acknowledge(s.ctx, policyID))

	s.Empty(s.svc.Snapshot().Timeline.Overdue)
	got, err := s.policies.GetByID(s.ctx, policyID)
	s.Require().NoError(err)
	s.True(got.IsAcknowledged)
	s.Equal(models.StatusActive, got.Status, "acknowledgment is not a disposition")

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventPolicyAcknowledged), events[0].Action)
}

func (s *RenewalSuite) TestAuditFallsBackToRawUserAgent() {
	policyID := s.seedExpiring()
	s.Require().NoError(s.svc.Refresh(s.ctx))

	ctx := requestcontext.WithClientMetadata(s.ctx, "10.0.0.9", "curl/8.4.0", "")
	s.Require().NoError(s.svc.Acknowledge(ctx, policyID))

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal("curl/8.4.0", events[0].Browser, "raw agent stands in when parsing yields nothing")
	s.Equal("10.0.0.9", events[0].ClientIP)
}

func (s *RenewalSuite) TestAcknowledgeWriteFailureReconciles() {
	policyID := s.seedExpiring()
	broken := NewTimeline(&brokenWritePolicyStore{Store: s.policies},
		reminder.NewInMemory(), note.NewInMemory(), company.NewInMemory(), customer.NewInMemory())
	s.Require().NoError(broken.Refresh(s.ctx))

	s.Require().NoError(broken.Acknowledge(s.ctx, policyID))
	s.Require().Len(broken.Snapshot().Timeline.Overdue, 1, "corrective refetch restored the item")
}
