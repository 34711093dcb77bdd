// ABOUTME: Export and import of one user's data.
// ABOUTME: Supports JSON, YAML, and Markdown export; JSON import.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ugmotion/ugmotion/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the format version written to exports.
const ExportVersion = "1.0"

// ExportData represents the full export format for one user.
type ExportData struct {
	Version     string               `json:"version" yaml:"version"`
	ExportedAt  time.Time            `json:"exported_at" yaml:"exported_at"`
	Tool        string               `json:"tool" yaml:"tool"`
	Profile     *models.User         `json:"profile" yaml:"profile"`
	Plan        []models.DayPlan     `json:"plan" yaml:"plan"`
	Intake      []models.IntakeEntry `json:"intake" yaml:"intake"`
	Goals       []models.DailyGoals  `json:"goals" yaml:"goals"`
	WorkoutLogs []models.WorkoutLog  `json:"workout_logs" yaml:"workout_logs"`
}

// ExportUser gathers everything stored for a user. The password is never included.
func (d *DB) ExportUser(userID int64) (*ExportData, error) {
	user, err := d.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = nil

	plan, err := d.GetWeeklyPlan(userID)
	if err != nil {
		return nil, err
	}
	intake, err := d.ListIntake(userID)
	if err != nil {
		return nil, err
	}
	goals, err := d.listGoals(userID)
	if err != nil {
		return nil, err
	}
	logs, err := d.ListWorkoutLogs(userID, "")
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  d.now(),
		Tool:        "ugmotion",
		Profile:     user,
		Plan:        plan,
		Intake:      intake,
		Goals:       goals,
		WorkoutLogs: logs,
	}, nil
}

// ExportJSON exports a user's data as JSON.
func (d *DB) ExportJSON(userID int64) ([]byte, error) {
	data, err := d.ExportUser(userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports a user's data as YAML with intake grouped by nutrient.
func (d *DB) ExportYAML(userID int64) ([]byte, error) {
	data, err := d.ExportUser(userID)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version     string                          `yaml:"version"`
		ExportedAt  string                          `yaml:"exported_at"`
		Tool        string                          `yaml:"tool"`
		Profile     *models.User                    `yaml:"profile"`
		Plan        []models.DayPlan                `yaml:"plan"`
		Intake      map[string][]models.IntakeEntry `yaml:"intake"`
		Goals       []models.DailyGoals             `yaml:"goals"`
		WorkoutLogs []models.WorkoutLog             `yaml:"workout_logs"`
	}{
		Version:     data.Version,
		ExportedAt:  data.ExportedAt.Format(time.RFC3339),
		Tool:        data.Tool,
		Profile:     data.Profile,
		Plan:        data.Plan,
		Intake:      make(map[string][]models.IntakeEntry),
		Goals:       data.Goals,
		WorkoutLogs: data.WorkoutLogs,
	}

	// Group intake by nutrient
	for _, e := range data.Intake {
		yamlData.Intake[string(e.Nutrient)] = append(yamlData.Intake[string(e.Nutrient)], e)
	}

	return yaml.Marshal(yamlData)
}

// ExportMarkdown renders a user's profile, weekly plan and recent intake as Markdown.
func (d *DB) ExportMarkdown(userID int64, days int) (string, error) {
	data, err := d.ExportUser(userID)
	if err != nil {
		return "", err
	}
	if days <= 0 {
		days = 7
	}

	var sb strings.Builder
	now := d.now()

	sb.WriteString(fmt.Sprintf("# UGMotion Export - %s\n\n", data.Profile.Name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Profile\n\n")
	sb.WriteString(fmt.Sprintf("- Age: %s\n- Sex: %s\n- Height: %s\n- Weight: %s\n",
		data.Profile.Age, data.Profile.Sex, data.Profile.Height, data.Profile.Weight))
	if len(data.Profile.Equipment) > 0 {
		eq := make([]string, len(data.Profile.Equipment))
		for i, e := range data.Profile.Equipment {
			eq[i] = string(e)
		}
		sb.WriteString(fmt.Sprintf("- Equipment: %s\n", strings.Join(eq, ", ")))
	}
	sb.WriteString("\n")

	if len(data.Plan) > 0 {
		sb.WriteString("## Weekly Plan\n\n")
		sb.WriteString("| Day | Focus | Activities |\n")
		sb.WriteString("|-----|-------|------------|\n")
		for _, day := range data.Plan {
			acts := make([]string, 0, len(day.Activities))
			for _, a := range day.Activities {
				acts = append(acts, fmt.Sprintf("%s %dx%d", a.Name, a.Sets, a.Reps))
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", day.Day, day.Focus, strings.Join(acts, ", ")))
		}
		sb.WriteString("\n")
	}

	for _, n := range models.AllNutrients {
		history, err := d.IntakeHistory(userID, n, days)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", n))
		sb.WriteString("| Date | Total |\n")
		sb.WriteString("|------|-------|\n")
		for _, h := range history {
			sb.WriteString(fmt.Sprintf("| %s | %.0f %s |\n", h.Date, h.Total, n.Unit()))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ImportData loads exported data into a user's account in one transaction.
// The plan is replaced; intake entries and workout logs are appended; goals are upserted.
// Workout logs lose their activity reference because activity ids are reassigned.
func (d *DB) ImportData(userID int64, data *ExportData) error {
	if err := validatePlan(data.Plan); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	for _, e := range data.Intake {
		if !e.Nutrient.Valid() || e.Date == "" {
			return fmt.Errorf("import intake: %w: entry %d", ErrInvalid, e.ID)
		}
	}
	for _, g := range data.Goals {
		if g.Date == "" {
			return fmt.Errorf("import goals: %w: missing date", ErrInvalid)
		}
	}

	tx, err := d.db.Begin()
	if err != nil {
		return classify("begin import", err)
	}
	defer func() { _ = tx.Rollback() }()

	if data.Plan != nil {
		if err := writePlan(tx, userID, data.Plan); err != nil {
			return fmt.Errorf("import plan: %w", err)
		}
	}
	for _, e := range data.Intake {
		if err := d.insertIntake(tx, userID, e.Nutrient, e.Date, e.Amount); err != nil {
			return fmt.Errorf("import intake: %w", err)
		}
	}
	for _, g := range data.Goals {
		u := models.GoalsUpdate{Water: g.Water, Calories: g.Calories, Protein: g.Protein}
		if err := saveGoals(tx, userID, g.Date, u); err != nil {
			return fmt.Errorf("import goals: %w", err)
		}
	}
	for _, l := range data.WorkoutLogs {
		l.RoutineActivityID = nil
		date := l.Date
		if date == "" {
			date = d.Today()
		}
		if _, err := saveWorkoutLog(tx, userID, date, l); err != nil {
			return fmt.Errorf("import workout log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit import", err)
	}
	return nil
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(userID int64, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w: %w", ErrInvalid, err)
	}
	return d.ImportData(userID, &exportData)
}
