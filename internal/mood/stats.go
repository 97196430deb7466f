package mood

import (
	"strconv"
	"strings"
	"time"
)

// History is the ordered sequence of entries, oldest first.
type History []Entry

// DefaultMood is the current mood reported for an empty history.
const DefaultMood = "neutral"

// HasCheckedInToday reports whether any entry falls on the same calendar day
// as now, judged in now's location. Entries with unreadable timestamps never
// match.
func HasCheckedInToday(h History, now time.Time) bool {
	loc := now.Location()
	y, m, d := now.Date()
	for _, e := range h {
		t, err := e.Time()
		if err != nil {
			continue
		}
		ey, em, ed := t.In(loc).Date()
		if ey == y && em == m && ed == d {
			return true
		}
	}
	return false
}

// AverageMood returns the arithmetic mean of all values, or 0 for an empty
// history.
func AverageMood(h History) float64 {
	if len(h) == 0 {
		return 0
	}
	sum := 0
	for _, e := range h {
		sum += e.Value
	}
	return float64(sum) / float64(len(h))
}

// FormatAverage renders an average with one decimal. An empty history shows
// as "0".
func FormatAverage(h History) string {
	if len(h) == 0 {
		return "0"
	}
	return strconv.FormatFloat(AverageMood(h), 'f', 1, 64)
}

// RecentWindow returns the last n entries in their original order. The
// returned slice does not alias h.
func RecentWindow(h History, n int) History {
	if n <= 0 {
		return History{}
	}
	if n > len(h) {
		n = len(h)
	}
	out := make(History, n)
	copy(out, h[len(h)-n:])
	return out
}

// Distribution counts entries per label. All five labels are present.
func Distribution(h History) map[string]int {
	counts := make(map[string]int, len(Levels))
	for _, l := range Levels {
		counts[l.Label] = 0
	}
	for _, e := range h {
		if l, err := LevelFor(e.Value); err == nil {
			counts[l.Label]++
		}
	}
	return counts
}

// CurrentMood is the lower-cased label of the most recent entry.
func CurrentMood(h History) string {
	if len(h) == 0 {
		return DefaultMood
	}
	return strings.ToLower(h[len(h)-1].Label)
}
