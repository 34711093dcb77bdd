// ABOUTME: Water and food intake logging with per-day aggregation.
// ABOUTME: Water rows go to water_logs; calorie and protein rows go to food_logs.
package storage

import (
	"fmt"
	"math"

	"github.com/ugmotion/ugmotion/internal/models"
)

// AddIntake appends one log row for today. Negative amounts are compensating entries.
func (d *DB) AddIntake(userID int64, n models.Nutrient, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("add %s: %w: amount must be a finite number", n, ErrInvalid)
	}
	return d.insertIntake(d.db, userID, n, d.Today(), amount)
}

// AddWater logs millilitres of water for today.
func (d *DB) AddWater(userID int64, ml float64) error {
	return d.AddIntake(userID, models.Water, ml)
}

// AddCalories logs kilocalories for today.
func (d *DB) AddCalories(userID int64, kcal float64) error {
	return d.AddIntake(userID, models.Calories, kcal)
}

// AddProtein logs grams of protein for today.
func (d *DB) AddProtein(userID int64, grams float64) error {
	return d.AddIntake(userID, models.Protein, grams)
}

func (d *DB) insertIntake(q sqlExecer, userID int64, n models.Nutrient, date string, amount float64) error {
	var err error
	switch n {
	case models.Water:
		_, err = q.Exec(
			"INSERT INTO water_logs (user_id, date, amount_ml) VALUES (?, ?, ?)",
			userID, date, amount,
		)
	case models.Calories:
		_, err = q.Exec(`
			INSERT INTO food_logs (user_id, date, meal_type, food_name, calories, protein_g, carbs_g, fat_g)
			VALUES (?, ?, ?, ?, ?, 0, 0, 0)
		`, userID, date, models.DefaultMealType, models.DefaultFoodName, amount)
	case models.Protein:
		_, err = q.Exec(`
			INSERT INTO food_logs (user_id, date, meal_type, food_name, calories, protein_g, carbs_g, fat_g)
			VALUES (?, ?, ?, ?, 0, ?, 0, 0)
		`, userID, date, models.DefaultMealType, models.DefaultFoodName, amount)
	default:
		return fmt.Errorf("add intake: %w: unknown nutrient %q", ErrInvalid, n)
	}
	if err != nil {
		return classify("add "+string(n), err)
	}
	return nil
}

// sumExpr returns the table and summed column for a nutrient.
func sumExpr(n models.Nutrient) (table, column string, err error) {
	switch n {
	case models.Water:
		return "water_logs", "amount_ml", nil
	case models.Calories:
		return "food_logs", "calories", nil
	case models.Protein:
		return "food_logs", "protein_g", nil
	}
	return "", "", fmt.Errorf("%w: unknown nutrient %q", ErrInvalid, n)
}

// TodayTotal sums today's rows for one nutrient. No rows means zero.
func (d *DB) TodayTotal(userID int64, n models.Nutrient) (float64, error) {
	table, column, err := sumExpr(n)
	if err != nil {
		return 0, fmt.Errorf("today total: %w", err)
	}
	var total float64
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE user_id = ? AND date = ?", column, table)
	if err := d.db.QueryRow(query, userID, d.Today()).Scan(&total); err != nil {
		return 0, classify("today total "+string(n), err)
	}
	return total, nil
}

// TodayTotals returns today's totals for every nutrient.
func (d *DB) TodayTotals(userID int64) (models.Totals, error) {
	var t models.Totals
	for _, n := range models.AllNutrients {
		v, err := d.TodayTotal(userID, n)
		if err != nil {
			return models.Totals{}, err
		}
		t.Set(n, v)
	}
	return t, nil
}

// IntakeHistory returns per-day totals for the last days days including today,
// oldest first. Days without rows are reported as zero.
func (d *DB) IntakeHistory(userID int64, n models.Nutrient, days int) ([]models.DayTotal, error) {
	if days <= 0 {
		return nil, fmt.Errorf("intake history: %w: days must be positive", ErrInvalid)
	}
	table, column, err := sumExpr(n)
	if err != nil {
		return nil, fmt.Errorf("intake history: %w", err)
	}

	today := d.now().Local()
	start := today.AddDate(0, 0, -(days - 1)).Format(DateLayout)
	end := today.Format(DateLayout)

	query := fmt.Sprintf(`
		SELECT date, COALESCE(SUM(%s), 0)
		FROM %s
		WHERE user_id = ? AND date >= ? AND date <= ?
		GROUP BY date
	`, column, table)
	rows, err := d.db.Query(query, userID, start, end)
	if err != nil {
		return nil, classify("intake history", err)
	}
	defer rows.Close()

	sums := map[string]float64{}
	for rows.Next() {
		var date string
		var total float64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, classify("scan intake history", err)
		}
		sums[date] = total
	}
	if err := rows.Err(); err != nil {
		return nil, classify("intake history", err)
	}

	history := make([]models.DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateLayout)
		history = append(history, models.DayTotal{Date: date, Total: sums[date]})
	}
	return history, nil
}

// ListIntake returns every intake entry for a user, oldest first.
func (d *DB) ListIntake(userID int64) ([]models.IntakeEntry, error) {
	rows, err := d.db.Query(`
		SELECT id, date, 'water', amount_ml FROM water_logs WHERE user_id = ?
		UNION ALL
		SELECT id, date, 'calories', calories FROM food_logs WHERE user_id = ? AND calories != 0
		UNION ALL
		SELECT id, date, 'protein', protein_g FROM food_logs WHERE user_id = ? AND protein_g != 0
		ORDER BY 2, 1
	`, userID, userID, userID)
	if err != nil {
		return nil, classify("list intake", err)
	}
	defer rows.Close()

	entries := []models.IntakeEntry{}
	for rows.Next() {
		e := models.IntakeEntry{UserID: userID}
		var n string
		if err := rows.Scan(&e.ID, &e.Date, &n, &e.Amount); err != nil {
			return nil, classify("scan intake", err)
		}
		e.Nutrient = models.Nutrient(n)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list intake", err)
	}
	return entries, nil
}
