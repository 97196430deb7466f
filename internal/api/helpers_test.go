package api

import (
	"testing"
	"time"

	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/history"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/storage"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

// newTestDashboard returns a dashboard over an in-memory slot preloaded with
// entries, with the clock pinned to testNow in UTC.
func newTestDashboard(t *testing.T, entries ...mood.Entry) (*dashboard.Dashboard, *fixedClock) {
	t.Helper()
	slot := storage.NewMemory()
	store, err := history.Open(slot, history.Options{})
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	for _, e := range entries {
		if _, err := store.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	clock := &fixedClock{now: testNow}
	d := dashboard.New(store, dashboard.Options{Clock: clock, Location: time.UTC})
	return d, clock
}

func entryAt(t *testing.T, value int, notes string, at time.Time) mood.Entry {
	t.Helper()
	e, err := mood.NewEntry(value, notes, at)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	return e
}
