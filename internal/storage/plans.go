// ABOUTME: Weekly plan persistence: plan days and their routine activities.
// ABOUTME: A week is always rewritten as a whole inside one transaction.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ugmotion/ugmotion/internal/models"
)

// ReplaceWeeklyPlan deletes the user's plan and inserts the given days in order.
// Either the whole new week is stored or the old one is kept.
func (d *DB) ReplaceWeeklyPlan(userID int64, plan []models.DayPlan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return classify("begin replace plan", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := writePlan(tx, userID, plan); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit replace plan", err)
	}
	return nil
}

func validatePlan(plan []models.DayPlan) error {
	for _, day := range plan {
		if strings.TrimSpace(day.Day) == "" {
			return fmt.Errorf("replace plan: %w: day name is required", ErrInvalid)
		}
		for _, a := range day.Activities {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("replace plan: %w: activity name is required", ErrInvalid)
			}
			if a.Sets < 0 || a.Reps < 0 {
				return fmt.Errorf("replace plan: %w: sets and reps must be non-negative", ErrInvalid)
			}
		}
	}
	return nil
}

// writePlan swaps the user's plan rows inside an open transaction.
func writePlan(tx *sql.Tx, userID int64, plan []models.DayPlan) error {
	if _, err := tx.Exec("DELETE FROM plan_days WHERE user_id = ?", userID); err != nil {
		return classify("clear plan", err)
	}

	for _, day := range plan {
		result, err := tx.Exec(
			"INSERT INTO plan_days (user_id, day_name, focus) VALUES (?, ?, ?)",
			userID, day.Day, day.Focus,
		)
		if err != nil {
			return classify("insert plan day "+day.Day, err)
		}
		dayID, err := result.LastInsertId()
		if err != nil {
			return classify("insert plan day "+day.Day, err)
		}
		for _, a := range day.Activities {
			_, err := tx.Exec(
				"INSERT INTO routine_activities (plan_day_id, name, sets, reps) VALUES (?, ?, ?, ?)",
				dayID, a.Name, a.Sets, a.Reps,
			)
			if err != nil {
				return classify("insert activity "+a.Name, err)
			}
		}
	}
	return nil
}

// GetWeeklyPlan returns the user's days in insertion order with their activities.
// A user without a plan gets an empty slice.
func (d *DB) GetWeeklyPlan(userID int64) ([]models.DayPlan, error) {
	rows, err := d.db.Query(`
		SELECT id, day_name, COALESCE(focus, '')
		FROM plan_days
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, classify("get plan", err)
	}

	plan := []models.DayPlan{}
	index := map[int64]int{}
	for rows.Next() {
		var day models.DayPlan
		if err := rows.Scan(&day.ID, &day.Day, &day.Focus); err != nil {
			rows.Close()
			return nil, classify("scan plan day", err)
		}
		day.Activities = []models.RoutineActivity{}
		index[day.ID] = len(plan)
		plan = append(plan, day)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, classify("get plan", err)
	}
	rows.Close()

	if len(plan) == 0 {
		return plan, nil
	}

	rows, err = d.db.Query(`
		SELECT ra.id, ra.plan_day_id, ra.name, COALESCE(ra.sets, 0), COALESCE(ra.reps, 0)
		FROM routine_activities ra
		JOIN plan_days pd ON pd.id = ra.plan_day_id
		WHERE pd.user_id = ?
		ORDER BY ra.id
	`, userID)
	if err != nil {
		return nil, classify("get activities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.RoutineActivity
		if err := rows.Scan(&a.ID, &a.PlanDayID, &a.Name, &a.Sets, &a.Reps); err != nil {
			return nil, classify("scan activity", err)
		}
		if i, ok := index[a.PlanDayID]; ok {
			plan[i].Activities = append(plan[i].Activities, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get activities", err)
	}
	return plan, nil
}
