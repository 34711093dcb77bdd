// ABOUTME: Repository interface for ugmotion data storage.
// ABOUTME: Defines the contract for users, plans, intake, goals and workout logs.
package storage

import "github.com/ugmotion/ugmotion/internal/models"

// Repository defines the storage interface for fitness data.
// config.OpenStorage returns it, and the CLI works against it.
type Repository interface {
	// User operations
	CreateUser(name, password string) (*models.User, error)
	GetUser(id int64) (*models.User, error)
	GetUserByName(name string) (*models.User, error)
	ListUsers() ([]*models.User, error)
	NameTaken(name string, exceptID int64) (bool, error)
	UpdateProfile(id int64, p models.ProfileUpdate) error
	UpdatePassword(id int64, password string) error
	Authenticate(name, password string) (*models.User, error)
	DeleteUser(id int64) error
	IsAdmin(u *models.User) bool

	// Plan operations
	ReplaceWeeklyPlan(userID int64, plan []models.DayPlan) error
	GetWeeklyPlan(userID int64) ([]models.DayPlan, error)

	// Intake and goal operations
	AddIntake(userID int64, n models.Nutrient, amount float64) error
	TodayTotal(userID int64, n models.Nutrient) (float64, error)
	TodayTotals(userID int64) (models.Totals, error)
	IntakeHistory(userID int64, n models.Nutrient, days int) ([]models.DayTotal, error)
	GetDailyGoals(userID int64) (*models.DailyGoals, error)
	SaveDailyGoals(userID int64, u models.GoalsUpdate) error
	ClearDailyTarget(userID int64, n models.Nutrient) error

	// Workout log operations
	SaveWorkoutLog(userID int64, l models.WorkoutLog) (int64, error)
	ListWorkoutLogsForDay(userID, planDayID int64, date string) ([]models.WorkoutLog, error)
	ListWorkoutLogs(userID int64, date string) ([]models.WorkoutLog, error)

	// Admin
	InspectSchema() ([]TableInfo, error)
	ClearAllData() error

	// Export/Import
	ExportUser(userID int64) (*ExportData, error)
	ExportJSON(userID int64) ([]byte, error)
	ExportYAML(userID int64) ([]byte, error)
	ExportMarkdown(userID int64, days int) (string, error)
	ImportData(userID int64, data *ExportData) error
	ImportJSON(userID int64, data []byte) error

	// Administrator account
	AdminName() string
	UsingDefaultAdminPassword() (bool, error)

	// Lifecycle
	Path() string
	Today() string
	Close() error
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)
