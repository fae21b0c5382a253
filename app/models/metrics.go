package models

// PaceStatus compares completions this year against elapsed pace weeks.
type PaceStatus string

const (
	PaceBehind  PaceStatus = "behind"
	PaceOnTrack PaceStatus = "onTrack"
	PaceAhead   PaceStatus = "ahead"
)

// Metrics is the derived display record computed from the task list, the
// join-week snapshot, and the current time.
type Metrics struct {
	CurrentWeek    int        `json:"currentWeek"`
	WeeksRemaining int        `json:"weeksRemaining"`
	TasksCompleted int        `json:"tasksCompleted"`
	TargetTasks    int        `json:"targetTasks"`
	Percentage     float64    `json:"percentage"`
	PaceStatus     PaceStatus `json:"paceStatus"`
}
