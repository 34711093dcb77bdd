// ABOUTME: End-to-end session tests against a real SQLite repository.
// ABOUTME: Verifies that cached state and stored state agree after each mutation.
package session

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/routine"
	"github.com/ugmotion/ugmotion/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var _ Store = (*storage.DB)(nil)

func TestSessionWithSQLite(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "ugmotion.db"), storage.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	defer db.Close()

	u, err := db.CreateUser("ana", "pw")
	require.NoError(t, err)

	s, err := Open(db, u.ID, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Add(models.Water, 500))
	require.NoError(t, s.Add(models.Water, 300))
	require.NoError(t, s.Add(models.Water, -200))
	require.NoError(t, s.SetTarget(models.Calories, 1800))
	require.NoError(t, s.CreatePlan(routine.UpperLower, []models.Equipment{models.EquipmentDumbbells}))
	require.NoError(t, s.AddActivity("Mon", models.NewActivity("Goblet Squat", 3, 10)))

	_, err = s.LogSet("Mon", 0, 16, 10, true)
	require.NoError(t, err)

	before := s.Dashboard()
	require.NoError(t, s.Reconcile())
	assert.Equal(t, before, s.Dashboard(), "reconcile should not change a consistent session")

	total, err := db.TodayTotal(u.ID, models.Water)
	require.NoError(t, err)
	assert.Equal(t, 600.0, total)

	plan, err := db.GetWeeklyPlan(u.ID)
	require.NoError(t, err)
	assert.Len(t, plan, 7)
	assert.Equal(t, "Goblet Squat", plan[0].Activities[0].Name)

	require.NoError(t, s.Clear(models.Water))
	total, _ = db.TodayTotal(u.ID, models.Water)
	assert.Zero(t, total)
	goals, _ := db.GetDailyGoals(u.ID)
	assert.Nil(t, goals.Water)
	assert.Equal(t, 1800.0, *goals.Calories)

	logs, err := db.ListWorkoutLogsForDay(u.ID, plan[0].ID, db.Today())
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestSessionAcrossMidnight(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 50, 0, 0, time.Local)
	clock := func() time.Time { return now }
	db, err := storage.Open(filepath.Join(t.TempDir(), "ugmotion.db"),
		storage.WithClock(clock), storage.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	defer db.Close()

	u, err := db.CreateUser("ana", "pw")
	require.NoError(t, err)

	s, err := Open(db, u.ID, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Add(models.Water, 500))
	require.NoError(t, s.SetTarget(models.Water, 2500))

	now = now.Add(20 * time.Minute)
	require.NoError(t, s.Add(models.Water, 100))

	water := s.Intake(models.Water)
	stored, err := db.TodayTotal(u.ID, models.Water)
	require.NoError(t, err)
	assert.Equal(t, 100.0, water.Current)
	assert.Equal(t, stored, water.Current, "cached total matches the new day's logs")
	require.NotNil(t, water.Target)
	assert.Equal(t, 2000.0, *water.Target, "yesterday's target does not carry over")

	require.NoError(t, s.Clear(models.Water))
	stored, err = db.TodayTotal(u.ID, models.Water)
	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Zero(t, s.Intake(models.Water).Current)

	history, err := db.IntakeHistory(u.ID, models.Water, 2)
	require.NoError(t, err)
	var yesterday float64
	for _, d := range history {
		if d.Date == "2024-03-15" {
			yesterday = d.Total
		}
	}
	assert.Equal(t, 500.0, yesterday, "the previous day keeps its total")
}
