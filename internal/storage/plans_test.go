// ABOUTME: Tests for weekly plan persistence.
// ABOUTME: Covers ordering, whole-week replacement, rollback and empty plans.
package storage

import (
	"errors"
	"testing"

	"github.com/ugmotion/ugmotion/internal/models"
)

func sampleWeek() []models.DayPlan {
	return []models.DayPlan{
		{Day: "Mon", Focus: "Push", Activities: []models.RoutineActivity{
			models.NewActivity("Push-ups", 3, 12),
			models.NewActivity("Dumbbell Shoulder Press", 3, 10),
		}},
		{Day: "Tue", Focus: "Pull", Activities: []models.RoutineActivity{
			models.NewActivity("Pull-ups", 4, 6),
		}},
		{Day: "Wed", Focus: "Rest"},
	}
}

func TestGetWeeklyPlanEmpty(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")

	plan, err := db.GetWeeklyPlan(u.ID)
	if err != nil {
		t.Fatalf("GetWeeklyPlan failed: %v", err)
	}
	if plan == nil || len(plan) != 0 {
		t.Errorf("expected empty non-nil plan, got %v", plan)
	}
}

func TestReplaceAndGetWeeklyPlan(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")

	if err := db.ReplaceWeeklyPlan(u.ID, sampleWeek()); err != nil {
		t.Fatalf("ReplaceWeeklyPlan failed: %v", err)
	}

	plan, err := db.GetWeeklyPlan(u.ID)
	if err != nil {
		t.Fatalf("GetWeeklyPlan failed: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("expected 3 days, got %d", len(plan))
	}
	wantDays := []string{"Mon", "Tue", "Wed"}
	for i, d := range plan {
		if d.Day != wantDays[i] {
			t.Errorf("day %d = %s, want %s", i, d.Day, wantDays[i])
		}
		if d.Activities == nil {
			t.Errorf("day %s activities should be non-nil", d.Day)
		}
	}
	if len(plan[0].Activities) != 2 || plan[0].Activities[0].Name != "Push-ups" || plan[0].Activities[1].Name != "Dumbbell Shoulder Press" {
		t.Errorf("Mon activities out of order: %+v", plan[0].Activities)
	}
	if a := plan[1].Activities[0]; a.Sets != 4 || a.Reps != 6 || a.PlanDayID != plan[1].ID {
		t.Errorf("Tue activity = %+v", a)
	}
	if len(plan[2].Activities) != 0 {
		t.Errorf("Wed should have no activities")
	}
}

func TestReplaceWeeklyPlanOverwrites(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")

	if err := db.ReplaceWeeklyPlan(u.ID, sampleWeek()); err != nil {
		t.Fatalf("first replace failed: %v", err)
	}
	week := []models.DayPlan{{Day: "Thu", Focus: "Legs", Activities: []models.RoutineActivity{models.NewActivity("Squats", 5, 5)}}}
	if err := db.ReplaceWeeklyPlan(u.ID, week); err != nil {
		t.Fatalf("second replace failed: %v", err)
	}

	plan, _ := db.GetWeeklyPlan(u.ID)
	if len(plan) != 1 || plan[0].Day != "Thu" {
		t.Fatalf("plan not replaced: %+v", plan)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM routine_activities"); n != 1 {
		t.Errorf("old activities should cascade away, got %d rows", n)
	}
}

func TestReplaceWeeklyPlanPreservesDayCount(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")

	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	week := make([]models.DayPlan, len(days))
	for i, d := range days {
		week[i] = models.DayPlan{Day: d, Focus: "Rest"}
	}
	if err := db.ReplaceWeeklyPlan(u.ID, week); err != nil {
		t.Fatalf("ReplaceWeeklyPlan failed: %v", err)
	}
	plan, _ := db.GetWeeklyPlan(u.ID)
	if len(plan) != 7 {
		t.Errorf("expected 7 days, got %d", len(plan))
	}
}

func TestReplaceWeeklyPlanInvalidKeepsOldPlan(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")
	if err := db.ReplaceWeeklyPlan(u.ID, sampleWeek()); err != nil {
		t.Fatalf("ReplaceWeeklyPlan failed: %v", err)
	}

	bad := []models.DayPlan{{Day: "Mon", Activities: []models.RoutineActivity{{Name: "", Sets: 3, Reps: 3}}}}
	if err := db.ReplaceWeeklyPlan(u.ID, bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}

	plan, _ := db.GetWeeklyPlan(u.ID)
	if len(plan) != 3 {
		t.Errorf("old plan should survive a rejected replace, got %d days", len(plan))
	}
}

func TestReplaceWeeklyPlanRollsBack(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")
	if err := db.ReplaceWeeklyPlan(u.ID, sampleWeek()); err != nil {
		t.Fatalf("ReplaceWeeklyPlan failed: %v", err)
	}

	// Fail mid-transaction after the old days are deleted
	if _, err := db.db.Exec(`CREATE TRIGGER fail_insert BEFORE INSERT ON routine_activities
		WHEN NEW.name = 'Boom' BEGIN SELECT RAISE(ABORT, 'boom'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	week := []models.DayPlan{{Day: "Fri", Activities: []models.RoutineActivity{models.NewActivity("Boom", 1, 1)}}}
	if err := db.ReplaceWeeklyPlan(u.ID, week); err == nil {
		t.Fatal("expected failure from trigger")
	}

	plan, _ := db.GetWeeklyPlan(u.ID)
	if len(plan) != 3 || plan[0].Day != "Mon" {
		t.Errorf("plan should be unchanged after rollback, got %+v", plan)
	}
}

func TestWeeklyPlanPerUser(t *testing.T) {
	db := setupTestDB(t)
	ana := createTestUser(t, db, "ana")
	bob := createTestUser(t, db, "bob")

	if err := db.ReplaceWeeklyPlan(ana.ID, sampleWeek()); err != nil {
		t.Fatalf("ReplaceWeeklyPlan failed: %v", err)
	}
	plan, _ := db.GetWeeklyPlan(bob.ID)
	if len(plan) != 0 {
		t.Errorf("bob should not see ana's plan")
	}
}
