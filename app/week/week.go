// Package week provides the two week-numbering schemes the app relies on:
// ISO-8601 calendar weeks (calendar position) and rolling 7-day pace
// windows (elapsed pace time). They answer different questions and are
// intentionally kept separate.
package week

import (
	"fmt"
	"time"
)

// GridWeeks is the number of weeks in the yearly grid.
const GridWeeks = 52

// ISO returns the ISO-8601 week number of t. Weeks start on Monday and
// week 1 is the week containing the year's first Thursday.
func ISO(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// ISOYear returns the ISO-8601 week-based year of t, which can differ
// from t.Year() around the year boundary.
func ISOYear(t time.Time) int {
	y, _ := t.ISOWeek()
	return y
}

// Key returns a stable "YYYY-Www" key for the ISO week containing t,
// used to deduplicate once-per-week events across loads.
func Key(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// LastISO returns the number of ISO weeks in the given ISO year, 52 or
// 53. December 28 always falls in a year's final ISO week.
func LastISO(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// Pace counts elapsed 7-day blocks from the calendar day of first up to
// now, starting at 1 for the first block. This is NOT the ISO week
// distance; pace windows are anchored to the first task's day.
func Pace(first, now time.Time) int {
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days/7 + 1
}
