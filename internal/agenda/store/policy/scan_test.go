package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ajanda/internal/agenda/dates"
)

// stubRow replays driver values the way lib/pq delivers them: DATE columns
// arrive as midnight UTC instants.
type stubRow struct {
	vals []any
}

func (r stubRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = r.vals[i].(string)
		case *time.Time:
			*v = r.vals[i].(time.Time)
		case *float64:
			*v = r.vals[i].(float64)
		case *bool:
			*v = r.vals[i].(bool)
		}
	}
	return nil
}

func TestScanPolicyRebasesTermDatesToLocalDay(t *testing.T) {
	utcStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	utcEnd := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	p, err := scanPolicy(stubRow{vals: []any{
		uuid.NewString(), "TRF-1", "Active", "Trafik Sigortası", "Trafik Sigortası",
		utcStart, utcEnd, 4500.0, 675.0,
		"34 ABC 123", false,
		"", "Ayşe Yılmaz", "+90 555",
		"", "Anadolu", time.Now().UTC(),
	}})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local), p.StartDate)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), p.EndDate)
	assert.True(t, dates.SameCalendarDay(p.EndDate, time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)),
		"a policy ending today must stay on today's local calendar day")
}
