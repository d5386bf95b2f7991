// Package timeline partitions normalized agenda items into overdue and
// planned buckets and derives the rolling-window views over the planned set.
package timeline

import (
	"sort"
	"time"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/models"
)

// Timeline holds the two buckets. Exactly one of them contains a given
// source record at any time; acknowledged or completed past-due records
// appear in neither.
type Timeline struct {
	Overdue []models.AgendaItem `json:"overdue"`
	Planned []models.AgendaItem `json:"planned"`
}

// handled reports whether the item's source record was acknowledged
// (policies) or completed (reminders).
func handled(item models.AgendaItem) bool {
	if item.IsPolicy() {
		return item.Meta.Acknowledged
	}
	return item.Meta.IsCompleted
}

// Partition splits items against the current midnight.
//
// Past-due and unhandled → overdue, with policies retyped to missed_renewal
// and status forced to urgent. Due today or later → planned. Past-due but
// handled → dropped: acknowledged history is not part of the live agenda.
//
// Overdue sorts oldest-first so the longest-neglected backlog surfaces
// first; planned sorts soonest-first.
func Partition(items []models.AgendaItem, now time.Time) Timeline {
	todayMidnight := dates.StartOfDay(now)

	tl := Timeline{
		Overdue: make([]models.AgendaItem, 0),
		Planned: make([]models.AgendaItem, 0, len(items)),
	}

	for _, item := range items {
		itemMidnight := dates.StartOfDay(item.Date)
		switch {
		case itemMidnight.Before(todayMidnight) && !handled(item):
			if item.Type == models.TypePolicyExpiry {
				item.Type = models.TypeMissedRenewal
			}
			item.Status = models.StatusItemUrgent
			tl.Overdue = append(tl.Overdue, item)
		case !itemMidnight.Before(todayMidnight):
			tl.Planned = append(tl.Planned, item)
		}
		// Past-due and handled: intentionally dropped.
	}

	sort.SliceStable(tl.Overdue, func(i, j int) bool {
		return tl.Overdue[i].Date.Before(tl.Overdue[j].Date)
	})
	sort.SliceStable(tl.Planned, func(i, j int) bool {
		return tl.Planned[i].Date.Before(tl.Planned[j].Date)
	})
	return tl
}

// RemoveByKey returns the bucket without the item carrying the given
// type-namespaced key. Used for optimistic removals.
func RemoveByKey(bucket []models.AgendaItem, key string) []models.AgendaItem {
	out := make([]models.AgendaItem, 0, len(bucket))
	for _, item := range bucket {
		if item.Key() != key {
			out = append(out, item)
		}
	}
	return out
}

// RemovePolicy returns the bucket without the policy-sourced item carrying
// the raw id. Matching is restricted to policy items because raw ids are not
// unique across source tables, and because a policy may sit in overdue as
// missed_renewal or in planned as policy_expiry.
func RemovePolicy(bucket []models.AgendaItem, rawID string) []models.AgendaItem {
	out := make([]models.AgendaItem, 0, len(bucket))
	for _, item := range bucket {
		if item.IsPolicy() && item.ID == rawID {
			continue
		}
		out = append(out, item)
	}
	return out
}
