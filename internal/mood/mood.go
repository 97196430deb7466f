// Package mood defines the check-in record and the statistics derived from a
// history of check-ins.
package mood

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout matches the ISO-8601 form produced by JavaScript's
// Date.toISOString, which is what existing histories contain.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidMood is returned for values outside 1..5 or unknown labels.
var ErrInvalidMood = errors.New("invalid mood")

// Level describes one point on the five-step mood scale.
type Level struct {
	Value int
	Label string
	Emoji string
}

// Levels is ordered from lowest to highest.
var Levels = []Level{
	{Value: 1, Label: "Poor", Emoji: "😢"},
	{Value: 2, Label: "Low", Emoji: "😕"},
	{Value: 3, Label: "Neutral", Emoji: "😐"},
	{Value: 4, Label: "Good", Emoji: "😊"},
	{Value: 5, Label: "Excellent", Emoji: "😄"},
}

// LevelFor returns the level for a value in 1..5.
func LevelFor(value int) (Level, error) {
	if value < 1 || value > len(Levels) {
		return Level{}, fmt.Errorf("%w: value %d not in 1..%d", ErrInvalidMood, value, len(Levels))
	}
	return Levels[value-1], nil
}

// ParseLevel accepts either a numeric value ("4") or a label ("good").
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return LevelFor(v)
	}
	for _, l := range Levels {
		if strings.EqualFold(l.Label, s) {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %q", ErrInvalidMood, s)
}

// Entry is one recorded check-in. Entries are never modified after creation.
type Entry struct {
	Value     int    `json:"value"`
	Label     string `json:"label"`
	Emoji     string `json:"emoji"`
	Notes     string `json:"notes"`
	Timestamp string `json:"timestamp"`
}

// NewEntry builds an entry for value, stamped with now in UTC.
func NewEntry(value int, notes string, now time.Time) (Entry, error) {
	l, err := LevelFor(value)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Value:     l.Value,
		Label:     l.Label,
		Emoji:     l.Emoji,
		Notes:     notes,
		Timestamp: FormatTimestamp(now),
	}, nil
}

// FormatTimestamp renders t the way entries store it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Time parses the entry timestamp. Any RFC 3339 form is accepted.
func (e Entry) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", e.Timestamp, err)
	}
	return t, nil
}
