package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage"
	"fiftytwo-go/app/week"
)

// Rollover choices.
const (
	RolloverClose = "close"
	RolloverCarry = "carry"
	RolloverFresh = "fresh"
)

var (
	// ErrNoPendingRollover indicates there is nothing to resolve.
	ErrNoPendingRollover = errors.New("no pending rollover")
	// ErrUnknownChoice indicates an unrecognized rollover choice.
	ErrUnknownChoice = errors.New("unknown rollover choice")
)

// PendingRollover is the one-time prompt surfaced after a year change.
type PendingRollover struct {
	Summary models.YearSummary `json:"summary"`
	NewYear int                `json:"newYear"`
}

// RolloverService detects calendar-year transitions on load and runs the
// weekly check-in gate. One summary is produced per transition; repeated
// loads within the same year never duplicate it.
type RolloverService struct {
	mu      sync.Mutex
	pending *PendingRollover

	tasks    *TaskService
	store    storage.Store
	clock    clockwork.Clock
	logger   *zap.Logger
	cooldown time.Duration
}

// NewRolloverService creates a rollover service. The cooldown gates the
// weekly check-in relative to first app use.
func NewRolloverService(tasks *TaskService, store storage.Store, clock clockwork.Clock, logger *zap.Logger, cooldown time.Duration) *RolloverService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RolloverService{
		tasks:    tasks,
		store:    store,
		clock:    clock,
		logger:   logger,
		cooldown: cooldown,
	}
}

// CheckOnLoad compares the persisted last-seen year to the current year
// and stages a pending rollover when the year advanced. The last-seen
// year is only advanced when the prompt is resolved, so a restart before
// resolution re-stages the prompt instead of losing the transition. It
// also records the first-use timestamp on the very first load.
func (s *RolloverService) CheckOnLoad(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	year := now.Year()

	if _, err := s.store.LoadInstalledAt(ctx); errors.Is(err, storage.ErrNotFound) {
		if err := s.store.SaveInstalledAt(ctx, now); err != nil {
			s.logger.Warn("save install timestamp failed", zap.Error(err))
		}
	}

	last, err := s.store.LoadLastSeenYear(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("load last seen year failed", zap.Error(err))
		}
		s.saveLastSeenYear(ctx, year)
		return
	}

	if year > last {
		summary := buildYearSummary(s.tasks.Tasks(), s.tasks.JoinWeek(), last)
		s.pending = &PendingRollover{Summary: summary, NewYear: year}
		s.logger.Info("year rollover detected",
			zap.Int("previousYear", last),
			zap.Int("currentYear", year),
		)
		return
	}
	if year < last {
		// Clock went backwards; resync so the next real transition
		// fires exactly once.
		s.saveLastSeenYear(ctx, year)
	}
}

// Pending returns the staged rollover prompt, or nil.
func (s *RolloverService) Pending() *PendingRollover {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

// Resolve applies the user's rollover choice. Close leaves data alone;
// carry keeps unfinished tasks; fresh clears everything. Non-close
// choices archive the summary and reset the join week to week 1 of the
// new year. The pending prompt is consumed either way, and the
// last-seen year advances here so the transition cannot archive twice.
func (s *RolloverService) Resolve(ctx context.Context, choice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingRollover
	}

	switch choice {
	case RolloverClose:
	case RolloverCarry:
		s.archive(ctx, s.pending.Summary)
		s.tasks.CarryOver(ctx, s.pending.NewYear)
	case RolloverFresh:
		s.archive(ctx, s.pending.Summary)
		s.tasks.Clear(ctx, s.pending.NewYear)
	default:
		return ErrUnknownChoice
	}

	s.saveLastSeenYear(ctx, s.pending.NewYear)
	s.pending = nil
	return nil
}

// Summaries returns the archived year summaries, oldest first. Read
// failures degrade to an empty list.
func (s *RolloverService) Summaries(ctx context.Context) []models.YearSummary {
	summaries, err := s.store.LoadSummaries(ctx)
	if err != nil {
		s.logger.Warn("load year summaries failed", zap.Error(err))
		return nil
	}
	return summaries
}

// CheckinDue reports whether the weekly check-in should fire: at most
// once per ISO week key, only with no completion this ISO week, and only
// after the cooldown since first use has elapsed.
func (s *RolloverService) CheckinDue(ctx context.Context) bool {
	now := s.clock.Now()
	key := week.Key(now)

	last, err := s.store.LoadCheckinWeek(ctx)
	if err == nil && last == key {
		return false
	}

	for _, t := range s.tasks.Tasks() {
		if t.CompletedAt != nil && week.Key(*t.CompletedAt) == key {
			return false
		}
	}

	installed, err := s.store.LoadInstalledAt(ctx)
	if err != nil {
		return false
	}
	return now.Sub(installed) >= s.cooldown
}

// AcknowledgeCheckin records the current ISO week key so the check-in
// does not fire again this week.
func (s *RolloverService) AcknowledgeCheckin(ctx context.Context) {
	key := week.Key(s.clock.Now())
	if err := s.store.SaveCheckinWeek(ctx, key); err != nil {
		s.logger.Warn("save checkin week failed", zap.Error(err))
	}
}

func (s *RolloverService) saveLastSeenYear(ctx context.Context, year int) {
	if err := s.store.SaveLastSeenYear(ctx, year); err != nil {
		s.logger.Warn("save last seen year failed", zap.Error(err))
	}
}

func (s *RolloverService) archive(ctx context.Context, summary models.YearSummary) {
	if err := s.store.AppendSummary(ctx, summary); err != nil {
		s.logger.Warn("archive year summary failed", zap.Error(err))
	}
}

// buildYearSummary aggregates the archival record for a finished year.
func buildYearSummary(tasks []models.Task, join *models.JoinWeekSnapshot, year int) models.YearSummary {
	return models.YearSummary{
		Year:               year,
		TasksCompleted:     completionsInYear(tasks, year),
		LongestStreakWeeks: longestStreak(tasks, year),
		TargetWeeks:        targetTasks(join, year),
	}
}

// longestStreak finds the longest run of consecutive ISO weeks with at
// least one completion in the given calendar year. Completions are
// bucketed by the full (ISO year, week) pair: days at the year edges
// belong to the neighboring ISO year and must not collide with same-
// numbered weeks. Malformed timestamps are skipped.
func longestStreak(tasks []models.Task, year int) int {
	type isoWeek struct {
		year int
		week int
	}
	seen := make(map[isoWeek]bool)
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil || t.CompletedAt.IsZero() {
			continue
		}
		if t.CompletedAt.Year() != year {
			continue
		}
		y, w := t.CompletedAt.ISOWeek()
		seen[isoWeek{year: y, week: w}] = true
	}
	if len(seen) == 0 {
		return 0
	}

	weeks := make([]isoWeek, 0, len(seen))
	for w := range seen {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].year != weeks[j].year {
			return weeks[i].year < weeks[j].year
		}
		return weeks[i].week < weeks[j].week
	})

	longest, run := 1, 1
	for i := 1; i < len(weeks); i++ {
		prev, cur := weeks[i-1], weeks[i]
		consecutive := (cur.year == prev.year && cur.week == prev.week+1) ||
			(cur.year == prev.year+1 && cur.week == 1 && prev.week == week.LastISO(prev.year))
		if consecutive {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
