// Package service owns the live agenda state: the partitioned timeline
// snapshot, its refresh cycle, and the renewal workflow that mutates the
// underlying stores.
package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	agendametrics "ajanda/internal/agenda/metrics"
	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/normalize"
	"ajanda/internal/agenda/store/company"
	"ajanda/internal/agenda/store/customer"
	"ajanda/internal/agenda/store/note"
	"ajanda/internal/agenda/store/policy"
	"ajanda/internal/agenda/store/reminder"
	"ajanda/internal/agenda/timeline"
	dErrors "ajanda/pkg/domain-errors"
	audit "ajanda/pkg/platform/audit"
	"ajanda/pkg/requestcontext"
)

// Snapshot is one consistent view of the agenda: the partitioned timeline
// plus the sidebar data fetched in the same cycle. Snapshots are value
// objects; every refresh builds a fresh one rather than mutating in place.
type Snapshot struct {
	Timeline   timeline.Timeline `json:"timeline"`
	Notes      []models.Note     `json:"notes"`
	Companies  []models.Company  `json:"companies"`
	Generation uint64            `json:"generation"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// Timeline aggregates the stores into the agenda and drives the renewal
// state machine against them. All snapshot access is mutex-guarded; refresh
// cycles are serialized by generation, not by lock, so a slow fetch never
// blocks readers.
type Timeline struct {
	policies  policy.Store
	reminders reminder.Store
	notes     note.Store
	companies company.Store
	customers customer.Store

	logger  *slog.Logger
	metrics *agendametrics.Metrics
	auditor *audit.Publisher
	tracer  trace.Tracer

	// gen is the fetch-generation counter. A refresh whose generation is
	// stale by the time its data is assembled is discarded, which removes
	// the last-writer-wins race between overlapping fetches.
	gen atomic.Uint64

	mu       sync.RWMutex
	snapshot Snapshot
	loading  bool
	patches  map[string]PatchState

	subMu   sync.Mutex
	subs    map[uint64]chan Snapshot
	nextSub uint64
}

// PatchState tracks an optimistic local change awaiting store confirmation.
type PatchState string

const (
	PatchPending   PatchState = "pending"
	PatchConfirmed PatchState = "confirmed"
	PatchFailed    PatchState = "failed"
)

// Option configures a Timeline service.
type Option func(*Timeline)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timeline) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *agendametrics.Metrics) Option {
	return func(t *Timeline) { t.metrics = m }
}

// WithAuditor attaches the audit publisher.
func WithAuditor(p *audit.Publisher) Option {
	return func(t *Timeline) { t.auditor = p }
}

// NewTimeline constructs the agenda service over its stores.
func NewTimeline(policies policy.Store, reminders reminder.Store, notes note.Store, companies company.Store, customers customer.Store, opts ...Option) *Timeline {
	t := &Timeline{
		policies:  policies,
		reminders: reminders,
		notes:     notes,
		companies: companies,
		customers: customers,
		logger:    slog.Default(),
		tracer:    otel.Tracer("ajanda/agenda"),
		patches:   make(map[string]PatchState),
		subs:      make(map[uint64]chan Snapshot),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Refresh runs one full aggregate fetch cycle: policies and reminders
// concurrently, notes and companies alongside, partitioning only once all
// reads completed. Partial data is never installed.
//
// A read failure is terminal for the cycle: it is logged, the snapshot is
// cleared to empty, and loading is released. No retry loop.
func (t *Timeline) Refresh(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "agenda.Refresh")
	defer span.End()

	generation := t.gen.Add(1)
	now := requestcontext.Now(ctx)
	start := time.Now()

	t.mu.Lock()
	t.loading = true
	t.mu.Unlock()

	var (
		policies  []models.Policy
		reminders []models.Reminder
		noteList  []models.Note
		companies []models.Company
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		policies, err = t.policies.Query(gctx, policy.AgendaFilter(now))
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "policy query failed")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reminders, err = t.reminders.Query(gctx, reminder.Filter{OpenOrDueAfter: now.Add(-policy.QueryWindowBack)})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "reminder query failed")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		noteList, err = t.notes.List(gctx, note.ListLimit)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "note list failed")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		companies, err = t.companies.List(gctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "company list failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		t.logger.ErrorContext(ctx, "timeline refresh failed",
			"generation", generation,
			"error", err,
		)
		if t.metrics != nil {
			t.metrics.RefreshFailures.Inc()
		}
		t.install(Snapshot{
			Timeline:   timeline.Timeline{Overdue: []models.AgendaItem{}, Planned: []models.AgendaItem{}},
			Generation: generation,
			FetchedAt:  now,
		}, generation)
		return err
	}

	tl := timeline.Partition(normalize.Items(policies, reminders), now)
	installed := t.install(Snapshot{
		Timeline:   tl,
		Notes:      noteList,
		Companies:  companies,
		Generation: generation,
		FetchedAt:  now,
	}, generation)

	if !installed {
		if t.metrics != nil {
			t.metrics.StaleFetchDiscarded.Inc()
		}
		t.logger.InfoContext(ctx, "stale refresh discarded",
			"generation", generation,
			"current", t.gen.Load(),
		)
		return nil
	}

	if t.metrics != nil {
		t.metrics.ObserveRefresh(start)
		t.metrics.SetBucketSizes(len(tl.Overdue), len(tl.Planned))
	}
	t.logger.InfoContext(ctx, "timeline refreshed",
		"generation", generation,
		"overdue", len(tl.Overdue),
		"planned", len(tl.Planned),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// install writes the snapshot unless a newer generation superseded it.
// Confirmed and failed patches are swept; the fresh snapshot is authoritative.
func (t *Timeline) install(snap Snapshot, generation uint64) bool {
	t.mu.Lock()
	if generation != t.gen.Load() {
		t.mu.Unlock()
		return false
	}
	t.snapshot = snap
	t.loading = false
	t.patches = make(map[string]PatchState)
	t.mu.Unlock()

	t.notifySubscribers(snap)
	return true
}

// Snapshot returns the current agenda view.
func (t *Timeline) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// Loading reports whether an aggregate fetch cycle is in flight. One flag
// spans the whole cycle; there is no per-sub-fetch state.
func (t *Timeline) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// Counts recomputes the filter badges from the full planned set.
func (t *Timeline) Counts(now time.Time) timeline.Counts {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return timeline.CountWindows(t.snapshot.Timeline.Planned, now)
}

// Filtered returns the planned items inside the window.
func (t *Timeline) Filtered(w timeline.Window, now time.Time) []models.AgendaItem {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return timeline.Filter(t.snapshot.Timeline.Planned, w, now)
}

// Subscribe registers a snapshot consumer. The channel holds the latest
// snapshot only; a slow consumer sees intermediate states dropped, never a
// blocked publisher. The returned func unsubscribes.
func (t *Timeline) Subscribe() (<-chan Snapshot, func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	idx := t.nextSub
	t.nextSub++
	ch := make(chan Snapshot, 1)
	t.subs[idx] = ch

	return ch, func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		if existing, ok := t.subs[idx]; ok {
			delete(t.subs, idx)
			close(existing)
		}
	}
}

func (t *Timeline) notifySubscribers(snap Snapshot) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale pending snapshot with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// emitAudit records a business event, enriched with request metadata.
// Audit failures are logged, never surfaced to the operator.
func (t *Timeline) emitAudit(ctx context.Context, event audit.Event) {
	if t.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Browser = requestcontext.Browser(ctx)
	if event.Browser == "" {
		// Unparseable agents still identify the client in the trail.
		event.Browser = requestcontext.UserAgent(ctx)
	}
	event.Timestamp = requestcontext.Now(ctx)
	if err := t.auditor.Emit(ctx, event); err != nil {
		t.logger.ErrorContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
