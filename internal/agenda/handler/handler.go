// Package handler exposes the agenda over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/service"
	"ajanda/internal/agenda/timeline"
	id "ajanda/pkg/domain"
	dErrors "ajanda/pkg/domain-errors"
	"ajanda/pkg/platform/httputil"
	"ajanda/pkg/requestcontext"
)

// Handler routes agenda HTTP traffic to the timeline service.
type Handler struct {
	svc    *service.Timeline
	logger *slog.Logger
}

// New constructs the agenda handler.
func New(svc *service.Timeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the agenda surface on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/agenda", h.getAgenda)
	r.Post("/agenda/refresh", h.refreshAgenda)

	r.Route("/policies/{policyID}", func(r chi.Router) {
		r.Post("/disposition", h.disposePolicy)
		r.Post("/acknowledge", h.acknowledgePolicy)
	})

	r.Post("/reminders", h.createReminder)
	r.Patch("/reminders/{reminderID}/toggle", h.toggleReminder)
	r.Delete("/reminders/{reminderID}", h.deleteReminder)

	r.Post("/notes", h.createNote)
	r.Put("/notes/{noteID}", h.updateNote)
	r.Post("/notes/{noteID}/pin", h.pinNote)
	r.Delete("/notes/{noteID}", h.deleteNote)

	r.Get("/customers/search", h.searchCustomers)
	r.Get("/companies", h.listCompanies)
}

// getAgenda serves the current snapshot. The filter query parameter selects
// the planned window; overdue is always the full backlog.
func (h *Handler) getAgenda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := requestcontext.Now(ctx)

	window, ok := timeline.ParseWindow(r.URL.Query().Get("filter"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "filter must be one of bugun, bu_hafta, bu_ay"))
		return
	}

	snap := h.svc.Snapshot()
	planned := timeline.Filter(snap.Timeline.Planned, window, now)
	counts := timeline.CountWindows(snap.Timeline.Planned, now)
	httputil.WriteJSON(w, http.StatusOK, newAgendaResponse(snap, window, planned, counts, h.svc.Loading()))
}

func (h *Handler) refreshAgenda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.Refresh(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "refreshed"})
}

func (h *Handler) disposePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	policyID, err := id.ParsePolicyID(chi.URLParam(r, "policyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[dispositionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	in, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.svc.Dispose(ctx, policyID, in); err != nil {
		h.logger.WarnContext(ctx, "disposition rejected",
			"request_id", requestID,
			"policy_id", policyID,
			"action", req.Action,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: req.Action})
}

func (h *Handler) acknowledgePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	policyID, err := id.ParsePolicyID(chi.URLParam(r, "policyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.Acknowledge(ctx, policyID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "acknowledged"})
}

func (h *Handler) createReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[reminderCreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	dueDate, err := dates.ParseLocalDate(req.DueDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "due_date must be a "+dates.DateLayout+" date"))
		return
	}
	var customerID id.CustomerID
	if req.CustomerID != "" {
		if customerID, err = id.ParseCustomerID(req.CustomerID); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	reminderID, err := h.svc.AddReminder(ctx, req.Title, dueDate, customerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, createdResponse{ID: reminderID.String()})
}

func (h *Handler) toggleReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	reminderID, err := id.ParseReminderID(chi.URLParam(r, "reminderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[reminderToggleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.svc.ToggleReminder(ctx, reminderID, req.Completed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *Handler) deleteReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reminderID, err := id.ParseReminderID(chi.URLParam(r, "reminderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteReminder(ctx, reminderID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[noteCreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	var (
		customerID id.CustomerID
		err        error
	)
	if req.CustomerID != "" {
		if customerID, err = id.ParseCustomerID(req.CustomerID); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	noteID, err := h.svc.AddNote(ctx, req.Content, customerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, createdResponse{ID: noteID.String()})
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	noteID, err := id.ParseNoteID(chi.URLParam(r, "noteID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[noteUpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.svc.UpdateNote(ctx, noteID, req.Content); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *Handler) pinNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	noteID, err := id.ParseNoteID(chi.URLParam(r, "noteID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[notePinRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.svc.PinNote(ctx, noteID, req.Pinned); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	noteID, err := id.ParseNoteID(chi.URLParam(r, "noteID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteNote(ctx, noteID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) searchCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refs, err := h.svc.SearchCustomers(ctx, r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newCustomerViews(refs))
}

// listCompanies serves the renewal form's company picker straight from the
// snapshot; the read-through cache behind the store keeps it fresh.
func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	out := make([]companyView, 0, len(snap.Companies))
	for _, c := range snap.Companies {
		out = append(out, companyView{ID: c.ID.String(), Name: c.Name})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
