// ABOUTME: Tests for user account operations.
// ABOUTME: Covers uniqueness, profile updates, authentication and cascading delete.
package storage

import (
	"errors"
	"testing"

	"github.com/ugmotion/ugmotion/internal/models"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)

	u, err := db.CreateUser("ana", "pw123")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected assigned id")
	}
	if u.Age != models.NotSet || u.Sex != models.NotSet || u.Height != models.NotSet || u.Weight != models.NotSet {
		t.Errorf("profile fields should default to N/A: %+v", u)
	}
	if u.Email != nil || u.ProfileImageURI != nil {
		t.Error("email and image should be unset")
	}
	if u.Equipment == nil || len(u.Equipment) != 0 {
		t.Errorf("equipment = %v, want empty", u.Equipment)
	}
	if db.IsAdmin(u) {
		t.Error("regular user reported as admin")
	}
}

func TestCreateUserDuplicateIgnoresCase(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "Ana")

	before := countRows(t, db, "SELECT COUNT(*) FROM users")
	_, err := db.CreateUser("ana", "other")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name: got %v, want ErrConflict", err)
	}
	if after := countRows(t, db, "SELECT COUNT(*) FROM users"); after != before {
		t.Errorf("user count changed from %d to %d", before, after)
	}
}

func TestCreateUserInvalid(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name, user, password string
	}{
		{"empty name", "", "pw"},
		{"blank name", "   ", "pw"},
		{"empty password", "bob", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.CreateUser(tt.user, tt.password); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetUser(4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser: got %v, want ErrNotFound", err)
	}
	if _, err := db.GetUserByName("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByName: got %v, want ErrNotFound", err)
	}
}

func TestListUsersOrdered(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "zed")
	createTestUser(t, db, "amy")

	users, err := db.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users (admin + 2), got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID >= users[i].ID {
			t.Errorf("users not ordered by id: %d before %d", users[i-1].ID, users[i].ID)
		}
	}
}

func TestNameTaken(t *testing.T) {
	db := setupTestDB(t)
	ana := createTestUser(t, db, "ana")
	bob := createTestUser(t, db, "bob")

	tests := []struct {
		name     string
		check    string
		exceptID int64
		want     bool
	}{
		{"own name", "ANA", ana.ID, false},
		{"other user", "Ana", bob.ID, true},
		{"free name", "cara", bob.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.NameTaken(tt.check, tt.exceptID)
			if err != nil {
				t.Fatalf("NameTaken failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("NameTaken(%q, %d) = %v, want %v", tt.check, tt.exceptID, got, tt.want)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")
	oldHash := *u.PasswordHash

	email := "ana@example.com"
	image := "file:///photos/ana.jpg"
	p := u.ProfileUpdate()
	p.Name = "Ana B"
	p.Email = &email
	p.Age = "31"
	p.Height = "170"
	p.Weight = "70"
	p.ProfileImageURI = &image
	p.Equipment = []models.Equipment{models.EquipmentDumbbells, models.EquipmentCardio}

	if err := db.UpdateProfile(u.ID, p); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := db.GetUser(u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Ana B" || got.Age != "31" || got.Height != "170" || got.Weight != "70" {
		t.Errorf("profile not updated: %+v", got)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("Email = %v", got.Email)
	}
	if got.ProfileImageURI == nil || *got.ProfileImageURI != image {
		t.Errorf("ProfileImageURI = %v", got.ProfileImageURI)
	}
	if len(got.Equipment) != 2 || got.Equipment[0] != models.EquipmentDumbbells {
		t.Errorf("Equipment = %v", got.Equipment)
	}
	if *got.PasswordHash != oldHash {
		t.Error("UpdateProfile must not change the password")
	}
}

func TestUpdateProfileConflictAndMissing(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "ana")
	bob := createTestUser(t, db, "bob")

	p := bob.ProfileUpdate()
	p.Name = "ANA"
	if err := db.UpdateProfile(bob.ID, p); !errors.Is(err, ErrConflict) {
		t.Errorf("rename collision: got %v, want ErrConflict", err)
	}

	got, _ := db.GetUser(bob.ID)
	if got.Name != "bob" {
		t.Errorf("failed rename should leave name unchanged, got %q", got.Name)
	}

	if err := db.UpdateProfile(9999, p); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")

	got, err := db.Authenticate("ANA", "secret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated id = %d, want %d", got.ID, u.ID)
	}

	if _, err := db.Authenticate("ana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := db.Authenticate("ghost", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")

	if err := db.UpdatePassword(u.ID, "newpass"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	if _, err := db.Authenticate("ana", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password should no longer work")
	}
	if _, err := db.Authenticate("ana", "newpass"); err != nil {
		t.Errorf("new password should work: %v", err)
	}
	if err := db.UpdatePassword(9999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "ana")
	other := createTestUser(t, db, "bob")

	plan := []models.DayPlan{{Day: "Mon", Focus: "Push", Activities: []models.RoutineActivity{models.NewActivity("Push-ups", 3, 10)}}}
	for _, id := range []int64{u.ID, other.ID} {
		if err := db.ReplaceWeeklyPlan(id, plan); err != nil {
			t.Fatalf("ReplaceWeeklyPlan failed: %v", err)
		}
		if err := db.AddWater(id, 250); err != nil {
			t.Fatalf("AddWater failed: %v", err)
		}
		if err := db.AddCalories(id, 500); err != nil {
			t.Fatalf("AddCalories failed: %v", err)
		}
		if err := db.SaveDailyGoals(id, models.GoalsUpdate{Water: float(2500)}); err != nil {
			t.Fatalf("SaveDailyGoals failed: %v", err)
		}
		if _, err := db.SaveWorkoutLog(id, models.WorkoutLog{Reps: 10}); err != nil {
			t.Fatalf("SaveWorkoutLog failed: %v", err)
		}
	}

	if err := db.DeleteUser(u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	for _, table := range []string{"plan_days", "water_logs", "food_logs", "daily_goals", "workout_logs"} {
		if n := countRows(t, db, "SELECT COUNT(*) FROM "+table+" WHERE user_id = ?", u.ID); n != 0 {
			t.Errorf("%s has %d orphan rows", table, n)
		}
		if n := countRows(t, db, "SELECT COUNT(*) FROM "+table+" WHERE user_id = ?", other.ID); n == 0 {
			t.Errorf("%s lost rows of another user", table)
		}
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM routine_activities WHERE plan_day_id NOT IN (SELECT id FROM plan_days)"); n != 0 {
		t.Errorf("routine_activities has %d orphan rows", n)
	}
	if _, err := db.GetUser(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted user still readable: %v", err)
	}
	if err := db.DeleteUser(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
