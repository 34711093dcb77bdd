// ABOUTME: Daily goal targets keyed by (date, user).
// ABOUTME: Saves are partial upserts; a nil field keeps the stored value.
package storage

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/ugmotion/ugmotion/internal/models"
)

// GetDailyGoals returns today's targets. Without a saved row every target is nil.
func (d *DB) GetDailyGoals(userID int64) (*models.DailyGoals, error) {
	today := d.Today()
	g := &models.DailyGoals{Date: today, UserID: userID}

	var water, calories, protein sql.NullFloat64
	err := d.db.QueryRow(`
		SELECT water_target, calorie_target, protein_target
		FROM daily_goals
		WHERE date = ? AND user_id = ?
	`, today, userID).Scan(&water, &calories, &protein)
	if err == sql.ErrNoRows {
		return g, nil
	}
	if err != nil {
		return nil, classify("get daily goals", err)
	}

	g.Water = nullFloat(water)
	g.Calories = nullFloat(calories)
	g.Protein = nullFloat(protein)
	return g, nil
}

// SaveDailyGoals upserts today's targets. Fields left nil keep their stored value.
func (d *DB) SaveDailyGoals(userID int64, u models.GoalsUpdate) error {
	for _, v := range []*float64{u.Water, u.Calories, u.Protein} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0) {
			return fmt.Errorf("save daily goals: %w: target must be a non-negative number", ErrInvalid)
		}
	}
	return saveGoals(d.db, userID, d.Today(), u)
}

func saveGoals(q sqlExecer, userID int64, date string, u models.GoalsUpdate) error {
	_, err := q.Exec(`
		INSERT INTO daily_goals (date, user_id, water_target, calorie_target, protein_target)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, user_id) DO UPDATE SET
			water_target = COALESCE(excluded.water_target, water_target),
			calorie_target = COALESCE(excluded.calorie_target, calorie_target),
			protein_target = COALESCE(excluded.protein_target, protein_target)
	`, date, userID, nullFloatArg(u.Water), nullFloatArg(u.Calories), nullFloatArg(u.Protein))
	if err != nil {
		return classify("save daily goals", err)
	}
	return nil
}

// ClearDailyTarget sets today's target for one nutrient back to unset.
func (d *DB) ClearDailyTarget(userID int64, n models.Nutrient) error {
	var column string
	switch n {
	case models.Water:
		column = "water_target"
	case models.Calories:
		column = "calorie_target"
	case models.Protein:
		column = "protein_target"
	default:
		return fmt.Errorf("clear target: %w: unknown nutrient %q", ErrInvalid, n)
	}

	query := fmt.Sprintf("UPDATE daily_goals SET %s = NULL WHERE date = ? AND user_id = ?", column)
	if _, err := d.db.Exec(query, d.Today(), userID); err != nil {
		return classify("clear "+string(n)+" target", err)
	}
	return nil
}

// listGoals returns every goal row for a user, oldest first.
func (d *DB) listGoals(userID int64) ([]models.DailyGoals, error) {
	rows, err := d.db.Query(`
		SELECT date, water_target, calorie_target, protein_target
		FROM daily_goals
		WHERE user_id = ?
		ORDER BY date
	`, userID)
	if err != nil {
		return nil, classify("list goals", err)
	}
	defer rows.Close()

	goals := []models.DailyGoals{}
	for rows.Next() {
		g := models.DailyGoals{UserID: userID}
		var water, calories, protein sql.NullFloat64
		if err := rows.Scan(&g.Date, &water, &calories, &protein); err != nil {
			return nil, classify("scan goals", err)
		}
		g.Water = nullFloat(water)
		g.Calories = nullFloat(calories)
		g.Protein = nullFloat(protein)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list goals", err)
	}
	return goals, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullFloatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
