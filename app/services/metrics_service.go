package services

import (
	"time"

	"github.com/jonboulle/clockwork"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/week"
)

// MetricsService derives the display metrics record from the task
// collection and the join-week snapshot. The clock is injected so the
// engine's notion of "now" can be controlled without touching stored
// timestamps.
type MetricsService struct {
	clock clockwork.Clock
}

// NewMetricsService creates a metrics service. A nil clock falls back to
// the real clock.
func NewMetricsService(clock clockwork.Clock) *MetricsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MetricsService{clock: clock}
}

// Compute maps (task list, join-week snapshot, now) to derived metrics.
// With no snapshot for the current year, the target defaults to the full
// grid; the denominator is floored at 1.
func (s *MetricsService) Compute(tasks []models.Task, join *models.JoinWeekSnapshot) models.Metrics {
	now := s.clock.Now()
	year := now.Year()

	completed := completionsInYear(tasks, year)
	target := targetTasks(join, year)

	percentage := float64(completed) / float64(target) * 100
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	current := week.ISO(now)
	remaining := week.GridWeeks - current
	if remaining < 0 {
		remaining = 0
	}

	return models.Metrics{
		CurrentWeek:    current,
		WeeksRemaining: remaining,
		TasksCompleted: completed,
		TargetTasks:    target,
		Percentage:     percentage,
		PaceStatus:     paceStatus(tasks, completed, year, now),
	}
}

func targetTasks(join *models.JoinWeekSnapshot, year int) int {
	target := week.GridWeeks
	if join != nil && join.Year == year {
		target = week.GridWeeks - join.Week + 1
	}
	if target < 1 {
		target = 1
	}
	if target > week.GridWeeks {
		target = week.GridWeeks
	}
	return target
}

// completionsInYear counts completions whose timestamp falls in the given
// calendar year. Missing or malformed timestamps are filtered out rather
// than treated as errors.
func completionsInYear(tasks []models.Task, year int) int {
	count := 0
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil && !t.CompletedAt.IsZero() && t.CompletedAt.Year() == year {
			count++
		}
	}
	return count
}

// paceStatus compares completions this year against elapsed rolling pace
// weeks since the first task of the year. The rolling 7-day window is the
// canonical denominator here, not the ISO calendar week.
func paceStatus(tasks []models.Task, completed, year int, now time.Time) models.PaceStatus {
	first := firstCreatedInYear(tasks, year)
	if first.IsZero() {
		return models.PaceOnTrack
	}

	elapsed := week.Pace(first, now)
	switch {
	case completed < elapsed:
		return models.PaceBehind
	case completed > elapsed:
		return models.PaceAhead
	default:
		return models.PaceOnTrack
	}
}

func firstCreatedInYear(tasks []models.Task, year int) time.Time {
	var first time.Time
	for _, t := range tasks {
		if t.CreatedAt.IsZero() || t.CreatedAt.Year() != year {
			continue
		}
		if first.IsZero() || t.CreatedAt.Before(first) {
			first = t.CreatedAt
		}
	}
	return first
}
