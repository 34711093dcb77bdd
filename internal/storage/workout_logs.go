// ABOUTME: Performed-set logging against routine activities.
// ABOUTME: Logs survive activity deletion with their activity reference cleared.
package storage

import (
	"fmt"
	"strings"

	"github.com/ugmotion/ugmotion/internal/models"
)

const workoutLogColumns = `wl.id, wl.user_id, wl.routine_activity_id, wl.date, COALESCE(wl.weight, 0), COALESCE(wl.reps, 0), COALESCE(wl.completed, 0)`

// SaveWorkoutLog records a performed set. An empty date means today.
func (d *DB) SaveWorkoutLog(userID int64, l models.WorkoutLog) (int64, error) {
	if l.Reps < 0 || l.Weight < 0 {
		return 0, fmt.Errorf("save workout log: %w: weight and reps must be non-negative", ErrInvalid)
	}
	date := strings.TrimSpace(l.Date)
	if date == "" {
		date = d.Today()
	}
	return saveWorkoutLog(d.db, userID, date, l)
}

func saveWorkoutLog(q sqlExecer, userID int64, date string, l models.WorkoutLog) (int64, error) {
	var activity any
	if l.RoutineActivityID != nil {
		activity = *l.RoutineActivityID
	}
	result, err := q.Exec(`
		INSERT INTO workout_logs (user_id, routine_activity_id, date, weight, reps, completed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, activity, date, l.Weight, l.Reps, boolToInt(l.Completed))
	if err != nil {
		return 0, classify("save workout log", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("save workout log", err)
	}
	return id, nil
}

// ListWorkoutLogsForDay returns a user's logs for the activities of one plan day on a date.
// Logs whose activity has been deleted are not included.
func (d *DB) ListWorkoutLogsForDay(userID, planDayID int64, date string) ([]models.WorkoutLog, error) {
	return d.queryWorkoutLogs(`
		SELECT `+workoutLogColumns+`
		FROM workout_logs wl
		JOIN routine_activities ra ON ra.id = wl.routine_activity_id
		WHERE wl.user_id = ? AND ra.plan_day_id = ? AND wl.date = ?
		ORDER BY wl.id
	`, userID, planDayID, date)
}

// ListWorkoutLogs returns every log a user recorded on a date. An empty date lists all logs.
func (d *DB) ListWorkoutLogs(userID int64, date string) ([]models.WorkoutLog, error) {
	if date == "" {
		return d.queryWorkoutLogs(`
			SELECT `+workoutLogColumns+`
			FROM workout_logs wl
			WHERE wl.user_id = ?
			ORDER BY wl.date, wl.id
		`, userID)
	}
	return d.queryWorkoutLogs(`
		SELECT `+workoutLogColumns+`
		FROM workout_logs wl
		WHERE wl.user_id = ? AND wl.date = ?
		ORDER BY wl.id
	`, userID, date)
}

func (d *DB) queryWorkoutLogs(query string, args ...any) ([]models.WorkoutLog, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, classify("list workout logs", err)
	}
	defer rows.Close()

	logs := []models.WorkoutLog{}
	for rows.Next() {
		var l models.WorkoutLog
		var userID, activityID *int64
		var completed int
		if err := rows.Scan(&l.ID, &userID, &activityID, &l.Date, &l.Weight, &l.Reps, &completed); err != nil {
			return nil, classify("scan workout log", err)
		}
		if userID != nil {
			l.UserID = *userID
		}
		l.RoutineActivityID = activityID
		l.Completed = completed != 0
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list workout logs", err)
	}
	return logs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
