package handler

import (
	"time"

	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/service"
	"ajanda/internal/agenda/timeline"
)

// agendaResponse is the full dashboard payload: overdue backlog, the planned
// items for the requested window, the badges for all three windows, and the
// sidebar data from the same snapshot.
type agendaResponse struct {
	Overdue   []models.AgendaItem `json:"overdue"`
	Planned   []models.AgendaItem `json:"planned"`
	Counts    timeline.Counts     `json:"counts"`
	Window    timeline.Window     `json:"window"`
	Notes     []noteView          `json:"notes"`
	Companies []companyView       `json:"companies"`
	Loading   bool                `json:"loading"`
	FetchedAt time.Time           `json:"fetched_at"`
}

type noteView struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	IsPinned     bool      `json:"is_pinned"`
	CustomerID   string    `json:"customer_id,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type companyView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type customerView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func newAgendaResponse(snap service.Snapshot, window timeline.Window, planned []models.AgendaItem, counts timeline.Counts, loading bool) agendaResponse {
	resp := agendaResponse{
		Overdue:   snap.Timeline.Overdue,
		Planned:   planned,
		Counts:    counts,
		Window:    window,
		Notes:     make([]noteView, 0, len(snap.Notes)),
		Companies: make([]companyView, 0, len(snap.Companies)),
		Loading:   loading,
		FetchedAt: snap.FetchedAt,
	}
	if resp.Overdue == nil {
		resp.Overdue = []models.AgendaItem{}
	}
	for _, n := range snap.Notes {
		v := noteView{
			ID:           n.ID.String(),
			Content:      n.Content,
			IsPinned:     n.IsPinned,
			CustomerName: n.CustomerName,
			CreatedAt:    n.CreatedAt,
		}
		if !n.CustomerID.IsNil() {
			v.CustomerID = n.CustomerID.String()
		}
		resp.Notes = append(resp.Notes, v)
	}
	for _, c := range snap.Companies {
		resp.Companies = append(resp.Companies, companyView{ID: c.ID.String(), Name: c.Name})
	}
	return resp
}

func newCustomerViews(refs []models.CustomerRef) []customerView {
	out := make([]customerView, 0, len(refs))
	for _, ref := range refs {
		out = append(out, customerView{ID: ref.ID.String(), FullName: ref.FullName})
	}
	return out
}
