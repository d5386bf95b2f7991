package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/service"
	"ajanda/internal/agenda/store/company"
	"ajanda/internal/agenda/store/customer"
	"ajanda/internal/agenda/store/note"
	"ajanda/internal/agenda/store/policy"
	"ajanda/internal/agenda/store/reminder"
	id "ajanda/pkg/domain"
	"ajanda/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	policies  *policy.InMemory
	reminders *reminder.InMemory
	svc       *service.Timeline
	router    *chi.Mux
	now       time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.now = time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)
	s.policies = policy.NewInMemory(policy.WithClock(func() time.Time { return s.now }))
	s.reminders = reminder.NewInMemory(reminder.WithClock(func() time.Time { return s.now }))
	s.svc = service.NewTimeline(s.policies, s.reminders,
		note.NewInMemory(),
		company.NewInMemory(models.Company{ID: id.CompanyID(uuid.New()), Name: "Anadolu"}),
		customer.NewInMemory(),
	)
	s.router = chi.NewRouter()
	New(s.svc, nil).Routes(s.router)
}

func (s *HandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, testutil.AtTime(req, s.now))
	return rec
}

func (s *HandlerSuite) seedPolicy(endDate time.Time) id.PolicyID {
	policyID, err := s.policies.Insert(context.Background(), models.Policy{
		PolicyNo: uuid.NewString()[:8],
		Status:   models.StatusActive,
		EndDate:  endDate,
	})
	s.Require().NoError(err)
	return policyID
}

func (s *HandlerSuite) refresh() {
	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/agenda/refresh"))
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestGetAgenda() {
	s.seedPolicy(s.now.AddDate(0, 0, -3))
	s.seedPolicy(s.now.AddDate(0, 0, 2))
	s.seedPolicy(s.now.AddDate(0, 0, 20))
	s.refresh()

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/agenda?filter=bu_hafta"))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp agendaResponse
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Len(resp.Overdue, 1, "overdue ignores the window filter")
	s.Len(resp.Planned, 1, "only the in-week item passes the filter")
	s.Equal(1, resp.Counts.Week)
	s.Equal(2, resp.Counts.Month)
	s.Len(resp.Companies, 1)
}

func (s *HandlerSuite) TestGetAgendaRejectsUnknownFilter() {
	rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/agenda?filter=gelecek_yil"))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestDisposition() {
	policyID := s.seedPolicy(s.now.AddDate(0, 0, -2))
	s.refresh()

	body := map[string]any{
		"action":     "renewed_us",
		"company_id": uuid.NewString(),
		"end_date":   "2026-06-08",
	}
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/policies/"+policyID.String()+"/disposition", body))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	got, err := s.policies.GetByID(context.Background(), policyID)
	s.Require().NoError(err)
	s.Equal(models.StatusRenewed, got.Status)
}

func (s *HandlerSuite) TestDispositionRenewedUsAppliesPrice() {
	policyID, err := s.policies.Insert(context.Background(), models.Policy{
		PolicyNo: "TRF-2024-011",
		Status:   models.StatusActive,
		EndDate:  s.now.AddDate(0, 0, -2),
		Premium:  1000,
	})
	s.Require().NoError(err)
	s.refresh()

	body := map[string]any{
		"action":     "renewed_us",
		"company_id": uuid.NewString(),
		"price":      1200,
		"end_date":   "2026-06-08",
	}
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/policies/"+policyID.String()+"/disposition", body))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	active, err := s.policies.Query(context.Background(), policy.Filter{StatusIn: []models.PolicyStatus{models.StatusActive}})
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(1200.0, active[0].Premium, "the quoted price becomes the successor premium")
}

func (s *HandlerSuite) TestDispositionValidation() {
	policyID := s.seedPolicy(s.now.AddDate(0, 0, -2))

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing action", map[string]any{}, http.StatusBadRequest},
		{"unknown action", map[string]any{"action": "archived"}, http.StatusBadRequest},
		{"renewal without company", map[string]any{"action": "renewed_us"}, http.StatusBadRequest},
		{"bad date format", map[string]any{"action": "renewed_us", "company_id": uuid.NewString(), "end_date": "08/06/2026"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/policies/"+policyID.String()+"/disposition", tt.body))
			s.Equal(tt.want, rec.Code)
		})
	}
}

func (s *HandlerSuite) TestDispositionConflict() {
	policyID := s.seedPolicy(s.now.AddDate(0, 0, -2))
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/policies/"+policyID.String()+"/disposition", map[string]any{"action": "cancelled"}))
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/policies/"+policyID.String()+"/disposition", map[string]any{"action": "cancelled"}))
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestDispositionBadPolicyID() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/policies/not-a-uuid/disposition", map[string]any{"action": "cancelled"}))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestDispositionUnknownPolicy() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/policies/"+uuid.NewString()+"/disposition", map[string]any{"action": "cancelled"}))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestAcknowledge() {
	policyID := s.seedPolicy(s.now.AddDate(0, 0, -2))
	s.refresh()

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/policies/"+policyID.String()+"/acknowledge"))
	s.Require().Equal(http.StatusOK, rec.Code)

	got, err := s.policies.GetByID(context.Background(), policyID)
	s.Require().NoError(err)
	s.True(got.IsAcknowledged)
}

func (s *HandlerSuite) TestReminderLifecycle() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/reminders",
		map[string]any{"title": "teklif hazırla", "due_date": "2025-06-12"}))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created createdResponse
	testutil.DecodeJSON(s.T(), rec, &created)

	rec = s.serve(testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/reminders/"+created.ID+"/toggle", map[string]any{"completed": true}))
	s.Require().Equal(http.StatusOK, rec.Code)

	reminderID, err := id.ParseReminderID(created.ID)
	s.Require().NoError(err)
	got, err := s.reminders.GetByID(context.Background(), reminderID)
	s.Require().NoError(err)
	s.True(got.IsCompleted)

	rec = s.serve(testutil.NewRequest(s.T(), http.MethodDelete, "/reminders/"+created.ID))
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestReminderValidation() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/reminders",
		map[string]any{"due_date": "2025-06-12"}))
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.serve(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/reminders", "{not json"))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestNoteLifecycle() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/notes",
		map[string]any{"content": "arşivi tara"}))
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created createdResponse
	testutil.DecodeJSON(s.T(), rec, &created)

	rec = s.serve(testutil.NewJSONRequest(s.T(), http.MethodPut, "/notes/"+created.ID,
		map[string]any{"content": "arşiv tarandı"}))
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/notes/"+created.ID+"/pin",
		map[string]any{"pinned": true}))
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/agenda"))
	var resp agendaResponse
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Require().Len(resp.Notes, 1)
	s.Equal("arşiv tarandı", resp.Notes[0].Content)
	s.True(resp.Notes[0].IsPinned)

	rec = s.serve(testutil.NewRequest(s.T(), http.MethodDelete, "/notes/"+created.ID))
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestSearchCustomersShortQuery() {
	rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/customers/search?q=a"))
	s.Require().Equal(http.StatusOK, rec.Code)

	var out []customerView
	testutil.DecodeJSON(s.T(), rec, &out)
	s.Empty(out)
}
