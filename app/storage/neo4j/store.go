// Package neo4j provides a graph-backed Store. Tasks and subtasks are
// persisted as nodes joined by HAS_PARENT relationships; scalar state
// lives on a singleton AppState node.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage"
)

const stateNodeID = "app"

// Store persists application state in a Neo4j database.
type Store struct {
	driver neo4j.DriverWithContext
}

// New creates a store on top of an initialized driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{driver: driver}
}

// Close closes the underlying driver.
func (s *Store) Close() error {
	if s == nil || s.driver == nil {
		return nil
	}
	return s.driver.Close(context.Background())
}

// LoadTasks retrieves the full task collection, subtasks attached.
func (s *Store) LoadTasks(ctx context.Context) ([]models.Task, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) "+
				"RETURN t.id AS id, t.title AS title, t.completed AS completed, "+
				"t.createdAt AS createdAt, t.completedAt AS completedAt, "+
				"t.manuallyCompleted AS manuallyCompleted "+
				"ORDER BY t.idx",
			nil,
		)
		if err != nil {
			return nil, err
		}

		var tasks []models.Task
		index := make(map[string]int)
		for res.Next(ctx) {
			record := res.Record()
			task := models.Task{
				ID:                asString(record.Values[0]),
				Title:             asString(record.Values[1]),
				Completed:         asBool(record.Values[2]),
				CreatedAt:         asTime(record.Values[3]),
				CompletedAt:       asTimePtr(record.Values[4]),
				ManuallyCompleted: asBool(record.Values[5]),
			}
			index[task.ID] = len(tasks)
			tasks = append(tasks, task)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}

		subs, err := tx.Run(ctx,
			"MATCH (st:Subtask)-[:HAS_PARENT]->(t:Task) "+
				"RETURN t.id AS parentId, st.id AS id, st.title AS title, "+
				"st.completed AS completed, st.createdAt AS createdAt, st.completedAt AS completedAt "+
				"ORDER BY st.idx",
			nil,
		)
		if err != nil {
			return nil, err
		}
		for subs.Next(ctx) {
			record := subs.Record()
			parentID := asString(record.Values[0])
			i, ok := index[parentID]
			if !ok {
				continue
			}
			tasks[i].Subtasks = append(tasks[i].Subtasks, models.Subtask{
				ID:          asString(record.Values[1]),
				Title:       asString(record.Values[2]),
				Completed:   asBool(record.Values[3]),
				CreatedAt:   asTime(record.Values[4]),
				CompletedAt: asTimePtr(record.Values[5]),
			})
		}
		if err := subs.Err(); err != nil {
			return nil, err
		}

		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	tasks := result.([]models.Task)
	if tasks == nil {
		// Distinguish a saved-but-empty collection from never-saved state.
		if _, err := s.getProperty(ctx, "hasTasks"); err != nil {
			return nil, err
		}
		return []models.Task{}, nil
	}
	return tasks, nil
}

// SaveTasks replaces the stored task graph with the given snapshot.
func (s *Store) SaveTasks(ctx context.Context, tasks []models.Task) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MATCH (st:Subtask) DETACH DELETE st", nil); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, "MATCH (t:Task) DETACH DELETE t", nil); err != nil {
			return nil, err
		}

		for i, task := range tasks {
			_, err := tx.Run(ctx,
				"CREATE (t:Task {id: $id, title: $title, completed: $completed, "+
					"createdAt: $createdAt, completedAt: $completedAt, "+
					"manuallyCompleted: $manuallyCompleted, idx: $idx})",
				map[string]any{
					"id":                task.ID,
					"title":             task.Title,
					"completed":         task.Completed,
					"createdAt":         formatTime(task.CreatedAt),
					"completedAt":       formatTimePtr(task.CompletedAt),
					"manuallyCompleted": task.ManuallyCompleted,
					"idx":               i,
				},
			)
			if err != nil {
				return nil, err
			}

			for j, sub := range task.Subtasks {
				_, err := tx.Run(ctx,
					"MATCH (t:Task {id: $parentID}) "+
						"CREATE (st:Subtask {id: $id, title: $title, completed: $completed, "+
						"createdAt: $createdAt, completedAt: $completedAt, idx: $idx})"+
						"-[:HAS_PARENT]->(t)",
					map[string]any{
						"parentID":    task.ID,
						"id":          sub.ID,
						"title":       sub.Title,
						"completed":   sub.Completed,
						"createdAt":   formatTime(sub.CreatedAt),
						"completedAt": formatTimePtr(sub.CompletedAt),
						"idx":         j,
					},
				)
				if err != nil {
					return nil, err
				}
			}
		}

		// Empty collections still count as saved state.
		_, err := tx.Run(ctx,
			"MERGE (a:AppState {id: $id}) SET a.hasTasks = true",
			map[string]any{"id": stateNodeID},
		)
		return nil, err
	})
	return err
}

func (s *Store) LoadJoinWeek(ctx context.Context) (models.JoinWeekSnapshot, error) {
	week, err := s.getProperty(ctx, "joinWeek")
	if err != nil {
		return models.JoinWeekSnapshot{}, err
	}
	year, err := s.getProperty(ctx, "joinYear")
	if err != nil {
		return models.JoinWeekSnapshot{}, err
	}
	return models.JoinWeekSnapshot{Week: asInt(week), Year: asInt(year)}, nil
}

func (s *Store) SaveJoinWeek(ctx context.Context, snapshot models.JoinWeekSnapshot) error {
	if err := s.setProperty(ctx, "joinWeek", snapshot.Week); err != nil {
		return err
	}
	return s.setProperty(ctx, "joinYear", snapshot.Year)
}

func (s *Store) LoadLastSeenYear(ctx context.Context) (int, error) {
	value, err := s.getProperty(ctx, "lastSeenYear")
	if err != nil {
		return 0, err
	}
	return asInt(value), nil
}

func (s *Store) SaveLastSeenYear(ctx context.Context, year int) error {
	return s.setProperty(ctx, "lastSeenYear", year)
}

func (s *Store) LoadSummaries(ctx context.Context) ([]models.YearSummary, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (y:YearSummary) "+
				"RETURN y.year AS year, y.tasksCompleted AS tasksCompleted, "+
				"y.longestStreakWeeks AS longestStreakWeeks, y.targetWeeks AS targetWeeks "+
				"ORDER BY y.year",
			nil,
		)
		if err != nil {
			return nil, err
		}

		var summaries []models.YearSummary
		for res.Next(ctx) {
			record := res.Record()
			summaries = append(summaries, models.YearSummary{
				Year:               asInt(record.Values[0]),
				TasksCompleted:     asInt(record.Values[1]),
				LongestStreakWeeks: asInt(record.Values[2]),
				TargetWeeks:        asInt(record.Values[3]),
			})
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return summaries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.YearSummary), nil
}

func (s *Store) AppendSummary(ctx context.Context, summary models.YearSummary) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"CREATE (y:YearSummary {year: $year, tasksCompleted: $tasksCompleted, "+
				"longestStreakWeeks: $longestStreakWeeks, targetWeeks: $targetWeeks})",
			map[string]any{
				"year":               summary.Year,
				"tasksCompleted":     summary.TasksCompleted,
				"longestStreakWeeks": summary.LongestStreakWeeks,
				"targetWeeks":        summary.TargetWeeks,
			},
		)
		return nil, err
	})
	return err
}

func (s *Store) LoadCheckinWeek(ctx context.Context) (string, error) {
	value, err := s.getProperty(ctx, "lastCheckinWeek")
	if err != nil {
		return "", err
	}
	return asString(value), nil
}

func (s *Store) SaveCheckinWeek(ctx context.Context, key string) error {
	return s.setProperty(ctx, "lastCheckinWeek", key)
}

func (s *Store) LoadInstalledAt(ctx context.Context) (time.Time, error) {
	value, err := s.getProperty(ctx, "installedAt")
	if err != nil {
		return time.Time{}, err
	}
	at := asTime(value)
	if at.IsZero() {
		return time.Time{}, storage.ErrNotFound
	}
	return at, nil
}

func (s *Store) SaveInstalledAt(ctx context.Context, at time.Time) error {
	return s.setProperty(ctx, "installedAt", formatTime(at))
}

func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	value, err := s.getProperty(ctx, "theme")
	if err != nil {
		return "", err
	}
	return asString(value), nil
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.setProperty(ctx, "theme", theme)
}

func (s *Store) getProperty(ctx context.Context, name string) (any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			fmt.Sprintf("MATCH (a:AppState {id: $id}) RETURN a.%s AS value", name),
			map[string]any{"id": stateNodeID},
		)
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			return res.Record().Values[0], nil
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nil, storage.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

func (s *Store) setProperty(ctx context.Context, name string, value any) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			fmt.Sprintf("MERGE (a:AppState {id: $id}) SET a.%s = $value", name),
			map[string]any{"id": stateNodeID, "value": value},
		)
		return nil, err
	})
	return err
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	i, _ := v.(int64)
	return int(i)
}

func asTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func asTimePtr(v any) *time.Time {
	t := asTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
