// ABOUTME: MCP tool implementations for ugmotion.
// ABOUTME: Exposes intake logging, targets, BMI, and weekly plan editing.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/ugmotion/ugmotion/internal/fitness"
	"github.com/ugmotion/ugmotion/internal/models"
)

func (s *Server) registerTools() {
	// add_intake
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_intake",
		Description: "Record water (ml), calories (kcal) or protein (g) for today. Negative amounts correct earlier entries.",
	}, s.handleAddIntake)

	// set_target
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_target",
		Description: "Set today's target for water, calories or protein",
	}, s.handleSetTarget)

	// clear_intake
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_intake",
		Description: "Reset today's total to zero and unset the target for a nutrient",
	}, s.handleClearIntake)

	// get_today
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_today",
		Description: "Get today's intake, targets and ring fill percentages",
	}, s.handleGetToday)

	// calculate_bmi
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_bmi",
		Description: "Calculate BMI from height and weight, defaulting to the user's profile",
	}, s.handleCalculateBMI)

	// get_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get the weekly workout plan, optionally a single day",
	}, s.handleGetPlan)

	// add_activity
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_activity",
		Description: "Append an exercise to a day of the weekly plan",
	}, s.handleAddActivity)

	// delete_activity
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_activity",
		Description: "Remove an exercise from a day of the weekly plan by its position",
	}, s.handleDeleteActivity)

	// log_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a performed set for an exercise in today's plan",
	}, s.handleLogSet)
}

// Tool input/output types

type addIntakeInput struct {
	Nutrient string  `json:"nutrient" jsonschema:"water, calories or protein"`
	Amount   float64 `json:"amount" jsonschema:"amount in ml, kcal or g"`
}

type setTargetInput struct {
	Nutrient string  `json:"nutrient" jsonschema:"water, calories or protein"`
	Target   float64 `json:"target" jsonschema:"target amount, zero or more"`
}

type nutrientInput struct {
	Nutrient string `json:"nutrient" jsonschema:"water, calories or protein"`
}

type intakeOutput struct {
	Nutrient string   `json:"nutrient"`
	Total    float64  `json:"total"`
	Target   *float64 `json:"target,omitempty"`
	Unit     string   `json:"unit"`
	Percent  float64  `json:"percent"`
	Message  string   `json:"message"`
}

type getTodayInput struct{}

type bmiInput struct {
	HeightCm float64 `json:"height_cm,omitempty" jsonschema:"height in centimetres, defaults to the profile height"`
	WeightKg float64 `json:"weight_kg,omitempty" jsonschema:"weight in kilograms, defaults to the profile weight"`
}

type bmiOutput struct {
	BMI            float64 `json:"bmi"`
	Classification string  `json:"classification"`
	Message        string  `json:"message"`
}

type getPlanInput struct {
	Day string `json:"day,omitempty" jsonschema:"three-letter day name such as Mon; omit for the whole week"`
}

type planOutput struct {
	Days []models.DayPlan `json:"days"`
}

type addActivityInput struct {
	Day  string `json:"day" jsonschema:"three-letter day name such as Mon"`
	Name string `json:"name" jsonschema:"exercise name"`
	Sets int    `json:"sets,omitempty" jsonschema:"number of sets"`
	Reps int    `json:"reps,omitempty" jsonschema:"repetitions per set"`
}

type deleteActivityInput struct {
	Day      string `json:"day" jsonschema:"three-letter day name such as Mon"`
	Position int    `json:"position" jsonschema:"1-based position of the exercise within the day"`
}

type logSetInput struct {
	Day       string  `json:"day" jsonschema:"three-letter day name such as Mon"`
	Position  int     `json:"position" jsonschema:"1-based position of the exercise within the day"`
	Weight    float64 `json:"weight,omitempty" jsonschema:"weight lifted"`
	Reps      int     `json:"reps,omitempty" jsonschema:"repetitions performed"`
	Completed bool    `json:"completed,omitempty" jsonschema:"whether the set was completed"`
}

type logSetOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddIntake(ctx context.Context, req *mcp.CallToolRequest, input addIntakeInput) (*mcp.CallToolResult, intakeOutput, error) {
	n, err := models.ParseNutrient(input.Nutrient)
	if err != nil {
		return nil, intakeOutput{}, err
	}
	if err := s.resync(s.sess.Add(n, input.Amount)); err != nil {
		return nil, intakeOutput{}, fmt.Errorf("failed to add %s: %w", n, err)
	}

	out := s.intake(n)
	out.Message = fmt.Sprintf("Added %s of %s, today's total is %s",
		fitness.FormatAmount(input.Amount, n.Unit()), n, fitness.FormatAmount(out.Total, n.Unit()))
	return nil, out, nil
}

func (s *Server) handleSetTarget(ctx context.Context, req *mcp.CallToolRequest, input setTargetInput) (*mcp.CallToolResult, intakeOutput, error) {
	n, err := models.ParseNutrient(input.Nutrient)
	if err != nil {
		return nil, intakeOutput{}, err
	}
	if err := s.resync(s.sess.SetTarget(n, input.Target)); err != nil {
		return nil, intakeOutput{}, fmt.Errorf("failed to set %s target: %w", n, err)
	}

	out := s.intake(n)
	out.Message = fmt.Sprintf("Set %s target to %s", n, fitness.FormatTarget(out.Target, n.Unit()))
	return nil, out, nil
}

func (s *Server) handleClearIntake(ctx context.Context, req *mcp.CallToolRequest, input nutrientInput) (*mcp.CallToolResult, intakeOutput, error) {
	n, err := models.ParseNutrient(input.Nutrient)
	if err != nil {
		return nil, intakeOutput{}, err
	}
	if err := s.resync(s.sess.Clear(n)); err != nil {
		return nil, intakeOutput{}, fmt.Errorf("failed to clear %s: %w", n, err)
	}

	out := s.intake(n)
	out.Message = fmt.Sprintf("Cleared today's %s", n)
	return nil, out, nil
}

func (s *Server) intake(n models.Nutrient) intakeOutput {
	p := s.sess.Intake(n)
	return intakeOutput{
		Nutrient: string(n),
		Total:    p.Current,
		Target:   p.Target,
		Unit:     n.Unit(),
		Percent:  p.Fill(),
	}
}

func (s *Server) handleGetToday(ctx context.Context, req *mcp.CallToolRequest, input getTodayInput) (*mcp.CallToolResult, any, error) {
	return nil, s.sess.Dashboard(), nil
}

func (s *Server) handleCalculateBMI(ctx context.Context, req *mcp.CallToolRequest, input bmiInput) (*mcp.CallToolResult, bmiOutput, error) {
	var (
		bmi float64
		err error
	)
	if input.HeightCm == 0 && input.WeightKg == 0 {
		u := s.sess.User()
		bmi, err = fitness.ParseBMI(u.Height, u.Weight)
	} else {
		bmi, err = fitness.BMI(input.HeightCm, input.WeightKg)
	}
	if err != nil {
		return nil, bmiOutput{}, fmt.Errorf("failed to calculate bmi: %w", err)
	}

	class := fitness.Classify(bmi)
	return nil, bmiOutput{
		BMI:            bmi,
		Classification: string(class),
		Message:        fmt.Sprintf("BMI %.1f (%s)", bmi, class),
	}, nil
}

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input getPlanInput) (*mcp.CallToolResult, planOutput, error) {
	plan := s.sess.WeeklyPlan()
	if input.Day == "" {
		return nil, planOutput{Days: plan}, nil
	}
	for _, d := range plan {
		if strings.EqualFold(d.Day, strings.TrimSpace(input.Day)) {
			return nil, planOutput{Days: []models.DayPlan{d}}, nil
		}
	}
	return nil, planOutput{}, fmt.Errorf("no plan for day %q", input.Day)
}

func (s *Server) handleAddActivity(ctx context.Context, req *mcp.CallToolRequest, input addActivityInput) (*mcp.CallToolResult, simpleOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, simpleOutput{}, fmt.Errorf("activity name is required")
	}
	a := models.NewActivity(strings.TrimSpace(input.Name), input.Sets, input.Reps)
	if err := s.resync(s.sess.AddActivity(input.Day, a)); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to add activity: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Added %s (%dx%d) to %s", a.Name, a.Sets, a.Reps, input.Day),
	}, nil
}

func (s *Server) handleDeleteActivity(ctx context.Context, req *mcp.CallToolRequest, input deleteActivityInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.resync(s.sess.DeleteActivity(input.Day, input.Position-1)); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete activity: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted activity #%d from %s", input.Position, input.Day),
	}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, logSetOutput, error) {
	id, err := s.sess.LogSet(input.Day, input.Position-1, input.Weight, input.Reps, input.Completed)
	if err != nil {
		return nil, logSetOutput{}, fmt.Errorf("failed to log set: %w", err)
	}

	return nil, logSetOutput{
		ID:      id,
		Message: fmt.Sprintf("Logged %d reps at %g (ID: %d)", input.Reps, input.Weight, id),
	}, nil
}
