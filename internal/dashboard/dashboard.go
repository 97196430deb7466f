// Package dashboard is the composition root for a mood-tracking session. It
// owns the history store and derives everything the three views display.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kalambet/studentwell/internal/checkin"
	"github.com/kalambet/studentwell/internal/history"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/recommend"
	"github.com/kalambet/studentwell/internal/trends"
)

// ErrAlreadyCheckedIn is returned when a check-in is submitted on a day that
// already has one.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// ErrUnknownTab is returned by ParseTab.
var ErrUnknownTab = errors.New("unknown tab")

// Tab identifies one of the dashboard views.
type Tab string

const (
	TabCheckIn  Tab = "checkin"
	TabInsights Tab = "insights"
	TabWellness Tab = "wellness"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabCheckIn, TabInsights, TabWellness}

// Title is the display name of the tab.
func (t Tab) Title() string {
	switch t {
	case TabCheckIn:
		return "Check-in"
	case TabInsights:
		return "Insights"
	case TabWellness:
		return "Wellness"
	default:
		return string(t)
	}
}

// ParseTab resolves a tab by id or title, ignoring case.
func ParseTab(s string) (Tab, error) {
	s = strings.TrimSpace(s)
	for _, t := range Tabs {
		if strings.EqualFold(string(t), s) || strings.EqualFold(t.Title(), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Resource is a crisis support contact shown on every screen.
type Resource struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// CrisisResources are display-only.
var CrisisResources = []Resource{
	{Name: "Crisis Text Line", Detail: "Text HOME to 741741"},
	{Name: "National Suicide Prevention Lifeline", Detail: "Call 988"},
}

// Options configures a Dashboard. Zero values use the wall clock, the local
// time zone and a 7-entry trend window.
type Options struct {
	Clock    Clock
	Location *time.Location
	Window   int
}

// Dashboard wires the history store to the views. The active tab lives only
// in memory.
type Dashboard struct {
	store  *history.Store
	clock  Clock
	loc    *time.Location
	window int

	mu     sync.Mutex
	active Tab
}

// New creates a Dashboard over store, starting on the check-in tab.
func New(store *history.Store, opts Options) *Dashboard {
	d := &Dashboard{
		store:  store,
		clock:  opts.Clock,
		loc:    opts.Location,
		window: opts.Window,
		active: TabCheckIn,
	}
	if d.clock == nil {
		d.clock = realClock{}
	}
	if d.loc == nil {
		d.loc = time.Local
	}
	if d.window <= 0 {
		d.window = trends.DefaultWindow
	}
	return d
}

// Active returns the selected tab.
func (d *Dashboard) Active() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Select switches the active tab.
func (d *Dashboard) Select(t Tab) error {
	if _, err := ParseTab(string(t)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = t
	return nil
}

// History returns all entries, oldest first.
func (d *Dashboard) History() mood.History {
	return d.store.History()
}

// Now is the dashboard clock in the dashboard's location.
func (d *Dashboard) Now() time.Time {
	return d.clock.Now().In(d.loc)
}

// CurrentMood is the lower-cased label of the latest entry, or "neutral".
func (d *Dashboard) CurrentMood() string {
	return mood.CurrentMood(d.store.History())
}

// CheckedInToday is recomputed from the full history on every call.
func (d *Dashboard) CheckedInToday() bool {
	return mood.HasCheckedInToday(d.store.History(), d.Now())
}

// DaysTracked is the number of recorded check-ins.
func (d *Dashboard) DaysTracked() int {
	return len(d.store.History())
}

// Record appends e unless today already has a check-in.
func (d *Dashboard) Record(e mood.Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if mood.HasCheckedInToday(d.store.History(), d.Now()) {
		return ErrAlreadyCheckedIn
	}
	if _, err := d.store.Append(e); err != nil {
		return err
	}
	return nil
}

// NewCheckInForm returns a form whose submissions are recorded here.
func (d *Dashboard) NewCheckInForm() *checkin.Form {
	return checkin.NewForm(d.Record)
}

// CheckIn fills and submits a form in one step.
func (d *Dashboard) CheckIn(value int, notes string) (mood.Entry, checkin.Notification, error) {
	f := d.NewCheckInForm()
	if err := f.Select(value); err != nil {
		return mood.Entry{}, checkin.Notification{}, err
	}
	f.SetNotes(notes)
	return f.Submit(d.clock.Now())
}

// Trends builds the insights report.
func (d *Dashboard) Trends() trends.Report {
	return trends.Build(d.store.History(), d.window, d.loc)
}

// Recommendations returns suggestions for the current mood.
func (d *Dashboard) Recommendations() []recommend.Recommendation {
	return recommend.For(d.CurrentMood())
}

// Snapshot is the header state of the dashboard.
type Snapshot struct {
	ActiveTab      Tab         `json:"active_tab"`
	CurrentMood    string      `json:"current_mood"`
	CheckedInToday bool        `json:"checked_in_today"`
	DaysTracked    int         `json:"days_tracked"`
	Latest         *mood.Entry `json:"latest,omitempty"`
	Resources      []Resource  `json:"crisis_resources"`
}

// Snapshot captures the derived state from a single read of the history.
func (d *Dashboard) Snapshot() Snapshot {
	h := d.store.History()
	s := Snapshot{
		ActiveTab:      d.Active(),
		CurrentMood:    mood.CurrentMood(h),
		CheckedInToday: mood.HasCheckedInToday(h, d.Now()),
		DaysTracked:    len(h),
		Resources:      CrisisResources,
	}
	if len(h) > 0 {
		latest := h[len(h)-1]
		s.Latest = &latest
	}
	return s
}
