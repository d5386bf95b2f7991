package timeline

import (
	"time"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/models"
)

// Window selects a rolling view over the planned bucket.
type Window string

const (
	WindowToday Window = "bugun"
	WindowWeek  Window = "bu_hafta"
	WindowMonth Window = "bu_ay"
)

const (
	weekDays  = 7
	monthDays = 30
)

// ParseWindow validates a filter name, defaulting empty to today.
func ParseWindow(raw string) (Window, bool) {
	switch Window(raw) {
	case WindowToday, WindowWeek, WindowMonth:
		return Window(raw), true
	case "":
		return WindowToday, true
	}
	return "", false
}

// inWindow is the single membership predicate shared by counts and filtered
// lists, so a tab's badge can never disagree with its list.
func inWindow(item models.AgendaItem, w Window, now time.Time) bool {
	switch w {
	case WindowToday:
		return dates.SameCalendarDay(item.Date, now)
	case WindowWeek:
		return dates.WithinRollingWindow(item.Date, now, weekDays)
	case WindowMonth:
		return dates.WithinRollingWindow(item.Date, now, monthDays)
	}
	return false
}

// Counts badge the filter tabs. Always computed over the full planned set,
// never over a previously filtered subset.
type Counts struct {
	Today int `json:"bugun"`
	Week  int `json:"bu_hafta"`
	Month int `json:"bu_ay"`
}

// CountWindows recomputes all three badges from the planned bucket.
func CountWindows(planned []models.AgendaItem, now time.Time) Counts {
	var c Counts
	for _, item := range planned {
		if inWindow(item, WindowToday, now) {
			c.Today++
		}
		if inWindow(item, WindowWeek, now) {
			c.Week++
		}
		if inWindow(item, WindowMonth, now) {
			c.Month++
		}
	}
	return c
}

// Filter returns the planned items inside the window, preserving order.
func Filter(planned []models.AgendaItem, w Window, now time.Time) []models.AgendaItem {
	out := make([]models.AgendaItem, 0, len(planned))
	for _, item := range planned {
		if inWindow(item, w, now) {
			out = append(out, item)
		}
	}
	return out
}
