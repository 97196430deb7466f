package dashboard

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/studentwell/internal/checkin"
	"github.com/kalambet/studentwell/internal/history"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/recommend"
	"github.com/kalambet/studentwell/internal/storage"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestDashboard(t *testing.T, now time.Time) (*Dashboard, *fakeClock) {
	t.Helper()
	store, err := history.Open(storage.NewMemory(), history.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	clock := &fakeClock{now: now}
	return New(store, Options{Clock: clock, Location: time.UTC}), clock
}

func TestDashboard_EmptyState(t *testing.T) {
	d, _ := newTestDashboard(t, time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, "neutral", d.CurrentMood())
	assert.False(t, d.CheckedInToday())
	assert.Zero(t, d.DaysTracked())
	assert.Equal(t, TabCheckIn, d.Active())
	assert.Equal(t, recommend.For("neutral"), d.Recommendations())

	s := d.Snapshot()
	assert.Nil(t, s.Latest)
	assert.Len(t, s.Resources, 2)
}

func TestDashboard_CheckInUpdatesDerivedState(t *testing.T) {
	d, _ := newTestDashboard(t, time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))

	e, note, err := d.CheckIn(1, "tired")
	require.NoError(t, err)
	assert.Equal(t, checkin.Confirmation, note)
	assert.Equal(t, "2025-09-01T10:00:00.000Z", e.Timestamp)

	assert.Equal(t, "poor", d.CurrentMood())
	assert.True(t, d.CheckedInToday())
	assert.Equal(t, 1, d.DaysTracked())
	assert.Equal(t, "You're not alone", d.Recommendations()[0].Title)

	s := d.Snapshot()
	require.NotNil(t, s.Latest)
	assert.Equal(t, e, *s.Latest)
}

func TestDashboard_OneCheckInPerDay(t *testing.T) {
	d, clock := newTestDashboard(t, time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))

	_, _, err := d.CheckIn(3, "")
	require.NoError(t, err)

	clock.now = clock.now.Add(15 * time.Hour)
	_, _, err = d.CheckIn(4, "")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, 1, d.DaysTracked())

	clock.now = time.Date(2025, 9, 2, 0, 0, 1, 0, time.UTC)
	assert.False(t, d.CheckedInToday())
	_, _, err = d.CheckIn(4, "")
	require.NoError(t, err)
	assert.Equal(t, "good", d.CurrentMood())
}

func TestDashboard_CheckInInvalidValue(t *testing.T) {
	d, _ := newTestDashboard(t, time.Now())
	_, _, err := d.CheckIn(9, "")
	assert.ErrorIs(t, err, mood.ErrInvalidMood)
}

func TestDashboard_FormIsBoundToRecord(t *testing.T) {
	d, clock := newTestDashboard(t, time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))

	f := d.NewCheckInForm()
	require.NoError(t, f.Select(5))
	_, _, err := f.Submit(clock.Now())
	require.NoError(t, err)
	assert.Equal(t, "excellent", d.CurrentMood())
}

func TestDashboard_TrendsReflectHistory(t *testing.T) {
	d, clock := newTestDashboard(t, time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))
	for i, v := range []int{2, 4} {
		clock.now = time.Date(2025, 9, 1+i, 8, 0, 0, 0, time.UTC)
		_, _, err := d.CheckIn(v, "")
		require.NoError(t, err)
	}

	r := d.Trends()
	assert.Equal(t, 2, r.CheckIns)
	assert.Equal(t, "3.0", r.OverallAverageText)
	require.Len(t, r.Series, 2)
	assert.Equal(t, "Tue", r.Series[1].Day)
}

func TestDashboard_TabRouting(t *testing.T) {
	d, _ := newTestDashboard(t, time.Now())

	require.NoError(t, d.Select(TabWellness))
	assert.Equal(t, TabWellness, d.Active())
	assert.Error(t, d.Select(Tab("settings")))
	assert.Equal(t, TabWellness, d.Active())

	tab, err := ParseTab("Insights")
	require.NoError(t, err)
	assert.Equal(t, TabInsights, tab)
	_, err = ParseTab("nope")
	assert.ErrorIs(t, err, ErrUnknownTab)
}
