// ABOUTME: Tests for administrative storage operations.
// ABOUTME: Covers schema inspection and clearing all non-account data.
package storage

import (
	"testing"

	"github.com/ugmotion/ugmotion/internal/models"
)

func TestInspectSchema(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "ana")

	tables, err := db.InspectSchema()
	if err != nil {
		t.Fatalf("InspectSchema failed: %v", err)
	}

	byName := map[string]TableInfo{}
	for _, ti := range tables {
		byName[ti.Name] = ti
	}
	for _, name := range []string{"users", "plan_days", "routine_activities", "workout_logs", "water_logs", "food_logs", "daily_goals"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing table %s", name)
		}
	}
	if _, ok := byName["sqlite_sequence"]; ok {
		t.Error("internal tables should be skipped")
	}
	if byName["users"].Rows != 2 {
		t.Errorf("users rows = %d, want 2", byName["users"].Rows)
	}

	var setNull bool
	for _, fk := range byName["workout_logs"].ForeignKeys {
		if fk.From == "routine_activity_id" && fk.Table == "routine_activities" && fk.OnDelete == "SET NULL" {
			setNull = true
		}
	}
	if !setNull {
		t.Errorf("workout_logs foreign keys = %+v", byName["workout_logs"].ForeignKeys)
	}
}

func TestClearAllDataKeepsUsers(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")
	_ = db.ReplaceWeeklyPlan(u.ID, sampleWeek())
	_ = db.AddWater(u.ID, 300)
	_ = db.AddProtein(u.ID, 20)
	_ = db.SaveDailyGoals(u.ID, models.GoalsUpdate{Calories: float(2100)})
	_, _ = db.SaveWorkoutLog(u.ID, models.WorkoutLog{Reps: 5})

	if err := db.ClearAllData(); err != nil {
		t.Fatalf("ClearAllData failed: %v", err)
	}

	for _, table := range dataTables {
		if n := countRows(t, db, "SELECT COUNT(*) FROM "+table); n != 0 {
			t.Errorf("%s still has %d rows", table, n)
		}
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM users"); n != 2 {
		t.Errorf("users should be kept, got %d", n)
	}
}
