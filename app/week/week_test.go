package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestISOJanuaryFourthIsAlwaysWeekOne(t *testing.T) {
	for year := 1990; year <= 2040; year++ {
		jan4 := time.Date(year, time.January, 4, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, ISO(jan4), "year %d", year)
		assert.Equal(t, year, ISOYear(jan4), "year %d", year)
	}
}

func TestISOYearBoundary(t *testing.T) {
	// 2021-01-01 falls in ISO week 53 of 2020.
	d := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 53, ISO(d))
	assert.Equal(t, 2020, ISOYear(d))
}

func TestKey(t *testing.T) {
	d := time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-W10", Key(d))

	boundary := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2020-W53", Key(boundary))
}

func TestLastISO(t *testing.T) {
	// 2020 and 2026 are long ISO years; 2025 is not.
	assert.Equal(t, 53, LastISO(2020))
	assert.Equal(t, 52, LastISO(2025))
	assert.Equal(t, 53, LastISO(2026))
}

func TestPaceCountsRollingSevenDayBlocks(t *testing.T) {
	first := time.Date(2025, time.March, 4, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", first, 1},
		{"same day", first.Add(5 * time.Hour), 1},
		{"six days later", first.AddDate(0, 0, 6), 1},
		{"seven days later", first.AddDate(0, 0, 7), 2},
		{"thirteen days later", first.AddDate(0, 0, 13), 2},
		{"fourteen days later", first.AddDate(0, 0, 14), 3},
		{"now before first", first.Add(-time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pace(first, tt.now))
		})
	}
}

func TestPaceIsAnchoredToCalendarDay(t *testing.T) {
	// A task created late in the day still starts its pace window at
	// midnight, so the window boundary lands on the day boundary.
	first := time.Date(2025, time.March, 4, 23, 50, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 11, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 2, Pace(first, now))
}
