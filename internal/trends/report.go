// Package trends computes the insight figures shown for a mood history.
package trends

import (
	"time"

	"github.com/kalambet/studentwell/internal/mood"
)

// DefaultWindow is the number of most recent entries treated as "this week".
const DefaultWindow = 7

// Point is one entry on the weekly trend line.
type Point struct {
	Day   string `json:"day"`
	Mood  int    `json:"mood"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Bar is one column of the distribution chart.
type Bar struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Report holds everything the insights view displays. OverallAverage and
// WeeklyAverage carry one-decimal display strings alongside the raw numbers.
type Report struct {
	OverallAverage     float64 `json:"overall_average"`
	OverallAverageText string  `json:"overall_average_text"`
	WeeklyAverage      float64 `json:"weekly_average"`
	WeeklyAverageText  string  `json:"weekly_average_text"`
	CheckIns           int     `json:"check_ins"`
	Series             []Point `json:"series"`
	Distribution       []Bar   `json:"distribution"`
}

// Build computes a report over h using the last window entries for the
// weekly figures. Weekday names use loc; a nil loc means time.Local.
func Build(h mood.History, window int, loc *time.Location) Report {
	if window <= 0 {
		window = DefaultWindow
	}
	if loc == nil {
		loc = time.Local
	}

	recent := mood.RecentWindow(h, window)
	series := make([]Point, 0, len(recent))
	for _, e := range recent {
		day := ""
		if t, err := e.Time(); err == nil {
			day = t.In(loc).Format("Mon")
		}
		series = append(series, Point{Day: day, Mood: e.Value, Label: e.Label, Emoji: e.Emoji})
	}

	counts := mood.Distribution(h)
	bars := make([]Bar, 0, len(mood.Levels))
	for _, l := range mood.Levels {
		bars = append(bars, Bar{Name: l.Label, Value: counts[l.Label]})
	}

	return Report{
		OverallAverage:     mood.AverageMood(h),
		OverallAverageText: mood.FormatAverage(h),
		WeeklyAverage:      mood.AverageMood(recent),
		WeeklyAverageText:  mood.FormatAverage(recent),
		CheckIns:           len(h),
		Series:             series,
		Distribution:       bars,
	}
}
