// Package checkin holds the transient state of the daily check-in form.
package checkin

import (
	"errors"
	"fmt"
	"time"

	"github.com/kalambet/studentwell/internal/mood"
)

// ErrNoMoodSelected is returned by Submit while no mood is selected.
var ErrNoMoodSelected = errors.New("no mood selected")

// SubmitFunc receives a completed entry. It is typically the dashboard's
// record operation.
type SubmitFunc func(mood.Entry) error

// Notification is the confirmation shown after a successful submit.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Confirmation is the notification every successful check-in produces.
var Confirmation = Notification{
	Title:       "Mood recorded",
	Description: "Your daily check-in has been saved. Keep taking care of yourself! 💙",
}

// Form collects a mood selection and optional notes. The zero value is an
// empty form with no submit callback.
type Form struct {
	onSubmit SubmitFunc
	selected *int
	notes    string
}

// NewForm returns an empty form that hands entries to onSubmit.
func NewForm(onSubmit SubmitFunc) *Form {
	return &Form{onSubmit: onSubmit}
}

// Select marks value as the chosen mood.
func (f *Form) Select(value int) error {
	if _, err := mood.LevelFor(value); err != nil {
		return err
	}
	f.selected = &value
	return nil
}

// Clear removes the selection.
func (f *Form) Clear() {
	f.selected = nil
}

// Selected returns the chosen value and whether one is set.
func (f *Form) Selected() (int, bool) {
	if f.selected == nil {
		return 0, false
	}
	return *f.selected, true
}

// SetNotes replaces the note text.
func (f *Form) SetNotes(notes string) {
	f.notes = notes
}

// Notes returns the current note text.
func (f *Form) Notes() string {
	return f.notes
}

// CanSubmit is false until a mood is selected.
func (f *Form) CanSubmit() bool {
	return f.selected != nil
}

// Submit builds an entry stamped with now, passes it to the callback and
// resets the form. If the callback fails the form keeps its state.
func (f *Form) Submit(now time.Time) (mood.Entry, Notification, error) {
	if f.selected == nil {
		return mood.Entry{}, Notification{}, ErrNoMoodSelected
	}
	e, err := mood.NewEntry(*f.selected, f.notes, now)
	if err != nil {
		return mood.Entry{}, Notification{}, err
	}
	if f.onSubmit != nil {
		if err := f.onSubmit(e); err != nil {
			return mood.Entry{}, Notification{}, fmt.Errorf("submitting check-in: %w", err)
		}
	}
	f.selected = nil
	f.notes = ""
	return e, Confirmation, nil
}
