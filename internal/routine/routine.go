// ABOUTME: Weekly split templates and equipment-based exercise suggestions.
// ABOUTME: Used to seed a new plan before the user edits individual days.
package routine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ugmotion/ugmotion/internal/models"
)

// ErrInvalidSelection is returned when a split or equipment choice is missing or unknown.
var ErrInvalidSelection = errors.New("invalid routine selection")

// Split is a weekly training split.
type Split string

const (
	PushPullLegs Split = "ppl"
	UpperLower   Split = "upper_lower"
	BodyPart     Split = "body_part"
)

// Weekdays are the plan days in display order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RestFocus labels a day without training.
const RestFocus = "Rest"

var splitFocus = map[Split][]string{
	PushPullLegs: {"Push", "Pull", "Legs", RestFocus, "Push", "Pull", RestFocus},
	UpperLower:   {"Upper", "Lower", RestFocus, "Upper", "Lower", RestFocus, RestFocus},
	BodyPart:     {"Chest", "Back", "Legs", "Shoulders", "Arms", RestFocus, RestFocus},
}

// Splits lists the supported splits.
var Splits = []Split{PushPullLegs, UpperLower, BodyPart}

// ParseSplit resolves a split name such as "ppl" or "upper-lower".
func ParseSplit(s string) (Split, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch key {
	case "ppl", "push_pull_legs":
		return PushPullLegs, nil
	case "upper_lower":
		return UpperLower, nil
	case "body_part", "bro":
		return BodyPart, nil
	}
	return "", fmt.Errorf("%w: unknown split %q", ErrInvalidSelection, s)
}

// Week returns a seven-day plan for the split with empty activity lists.
func Week(split Split) ([]models.DayPlan, error) {
	focus, ok := splitFocus[split]
	if !ok {
		return nil, fmt.Errorf("%w: unknown split %q", ErrInvalidSelection, split)
	}
	week := make([]models.DayPlan, len(Weekdays))
	for i, day := range Weekdays {
		week[i] = models.DayPlan{Day: day, Focus: focus[i], Activities: []models.RoutineActivity{}}
	}
	return week, nil
}

var suggestions = map[models.Equipment][]string{
	models.EquipmentDumbbells: {
		"Dumbbell Bench Press", "Dumbbell Rows", "Goblet Squat", "Dumbbell Shoulder Press",
		"Bicep Curls", "Tricep Extensions", "Lunges",
	},
	models.EquipmentBodyweight: {
		"Push-ups", "Pull-ups", "Squats", "Plank", "Crunches", "Burpees", "Jumping Jacks",
	},
	models.EquipmentCardio: {
		"Running", "Cycling", "Jump Rope", "Stair Climbing", "Elliptical Trainer",
	},
	models.EquipmentMachines: {
		"Leg Press", "Lat Pulldown", "Chest Press Machine", "Seated Cable Row",
		"Leg Extension", "Hamstring Curl",
	},
}

// Suggestions returns exercise names for the selected equipment, in selection order without duplicates.
func Suggestions(equipment []models.Equipment) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range equipment {
		for _, name := range suggestions[e] {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Validate checks that a split is chosen and at least one equipment type is selected.
func Validate(split Split, equipment []models.Equipment) error {
	if split == "" {
		return fmt.Errorf("%w: choose a split", ErrInvalidSelection)
	}
	if _, ok := splitFocus[split]; !ok {
		return fmt.Errorf("%w: unknown split %q", ErrInvalidSelection, split)
	}
	if len(equipment) == 0 {
		return fmt.Errorf("%w: select at least one equipment type", ErrInvalidSelection)
	}
	for _, e := range equipment {
		if _, ok := suggestions[e]; !ok {
			return fmt.Errorf("%w: unknown equipment %q", ErrInvalidSelection, e)
		}
	}
	return nil
}
