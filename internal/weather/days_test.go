package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOptions(t *testing.T) {
	today := time.Date(2024, 12, 30, 21, 15, 0, 0, time.UTC)

	opts := DayOptions(today)
	require.Len(t, opts, WindowDays)

	assert.Equal(t, DayOption{Value: "2024-12-30", Label: "Today, Dec 30"}, opts[0])
	assert.Equal(t, DayOption{Value: "2024-12-31", Label: "Tomorrow, Dec 31"}, opts[1])
	assert.Equal(t, DayOption{Value: "2025-01-01", Label: "Wednesday, Jan 1"}, opts[2])
	assert.Equal(t, "2025-01-05", opts[6].Value)
}

func TestToday(t *testing.T) {
	// 23:30 at UTC-5 is already the next day in UTC.
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), Today(now))
}

func TestDayOptionsUseUTCDay(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	opts := DayOptions(now)
	assert.Equal(t, DayOption{Value: "2024-05-11", Label: "Today, May 11"}, opts[0])
}

func TestParseStartDate(t *testing.T) {
	loc := time.FixedZone("X", 2*3600)
	now := time.Date(2024, 5, 10, 1, 30, 0, 0, loc)

	d, err := ParseStartDate("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, Today(now), d)

	d, err = ParseStartDate("2024-05-12", now)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 12, d.Day())

	_, err = ParseStartDate("12/05/2024", now)
	assert.Error(t, err)
}

func TestQueryEndDate(t *testing.T) {
	q := Query{StartDate: time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03-03", q.EndDate().Format(DateLayout))
}

func TestLocationKey(t *testing.T) {
	a := Location{Name: "a", Lat: 28.76361, Lon: -17.89472}
	b := Location{Name: "b", Lat: 28.76359, Lon: -17.89468}
	assert.Equal(t, "28.7636,-17.8947", a.Key())
	assert.Equal(t, a.Key(), b.Key())
}
