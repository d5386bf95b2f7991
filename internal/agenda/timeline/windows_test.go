package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ajanda/internal/agenda/models"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		raw  string
		want Window
		ok   bool
	}{
		{"", WindowToday, true},
		{"bugun", WindowToday, true},
		{"bu_hafta", WindowWeek, true},
		{"bu_ay", WindowMonth, true},
		{"next_year", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWindow(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestCountWindows(t *testing.T) {
	ref := time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)
	at := func(daysOut, hour int) models.AgendaItem {
		day := ref.AddDate(0, 0, daysOut)
		return models.AgendaItem{
			ID:   day.Format("2006-01-02"),
			Type: models.TypeReminder,
			Date: time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.Local),
		}
	}

	planned := []models.AgendaItem{
		at(0, 12),  // today, week, month
		at(3, 9),   // week, month
		at(7, 9),   // week by ceiling, month
		at(20, 12), // month only
		at(45, 12), // outside all windows
	}

	counts := CountWindows(planned, ref)
	assert.Equal(t, 1, counts.Today)
	assert.Equal(t, 3, counts.Week)
	assert.Equal(t, 4, counts.Month)

	t.Run("windows are monotonic", func(t *testing.T) {
		assert.LessOrEqual(t, counts.Today, counts.Week)
		assert.LessOrEqual(t, counts.Week, counts.Month)
	})
}

func TestFilterMatchesCounts(t *testing.T) {
	ref := time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)
	planned := make([]models.AgendaItem, 0, 12)
	for d := 0; d < 12; d++ {
		day := ref.AddDate(0, 0, d)
		planned = append(planned, models.AgendaItem{
			ID:   day.Format("2006-01-02"),
			Type: models.TypeReminder,
			Date: time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.Local),
		})
	}

	counts := CountWindows(planned, ref)
	for _, w := range []Window{WindowToday, WindowWeek, WindowMonth} {
		filtered := Filter(planned, w, ref)
		var want int
		switch w {
		case WindowToday:
			want = counts.Today
		case WindowWeek:
			want = counts.Week
		case WindowMonth:
			want = counts.Month
		}
		require.Len(t, filtered, want, "badge and list must agree for %s", w)
	}

	t.Run("filter preserves order", func(t *testing.T) {
		filtered := Filter(planned, WindowMonth, ref)
		for i := 1; i < len(filtered); i++ {
			assert.True(t, !filtered[i].Date.Before(filtered[i-1].Date))
		}
	})
}
