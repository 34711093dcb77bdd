// ABOUTME: Nutrient enum plus the intake log and daily goal models.
// ABOUTME: Water is tracked in millilitres, calories in kcal, protein in grams.
package models

import (
	"fmt"
	"strings"
)

// Nutrient is a daily tracked intake metric.
type Nutrient string

const (
	Water    Nutrient = "water"
	Calories Nutrient = "calories"
	Protein  Nutrient = "protein"
)

// AllNutrients lists every nutrient in dashboard order.
var AllNutrients = []Nutrient{Water, Calories, Protein}

// nutrientUnits maps nutrients to their display units.
var nutrientUnits = map[Nutrient]string{
	Water:    "ml",
	Calories: "kcal",
	Protein:  "g",
}

// nutrientAliases maps shorthand input to nutrients.
var nutrientAliases = map[string]Nutrient{
	"water":    Water,
	"h2o":      Water,
	"calories": Calories,
	"calorie":  Calories,
	"kcal":     Calories,
	"cal":      Calories,
	"protein":  Protein,
	"prot":     Protein,
}

// ParseNutrient resolves a nutrient name or alias.
func ParseNutrient(s string) (Nutrient, error) {
	if n, ok := nutrientAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return n, nil
	}
	return "", fmt.Errorf("unknown nutrient: %q", s)
}

// Unit returns the display unit for the nutrient.
func (n Nutrient) Unit() string {
	return nutrientUnits[n]
}

// Valid reports whether n is a known nutrient.
func (n Nutrient) Valid() bool {
	_, ok := nutrientUnits[n]
	return ok
}

// DefaultTarget is the daily target assumed before the user saves one.
func (n Nutrient) DefaultTarget() float64 {
	switch n {
	case Water:
		return 2000
	case Calories:
		return 2000
	case Protein:
		return 150
	}
	return 0
}

// Food log defaults written for calorie and protein entries.
const (
	DefaultMealType = "General"
	DefaultFoodName = "Logged Intake"
)

// IntakeEntry is one row of water_logs or food_logs, normalized to a single nutrient.
type IntakeEntry struct {
	ID       int64    `json:"id" yaml:"id"`
	UserID   int64    `json:"user_id" yaml:"-"`
	Date     string   `json:"date" yaml:"date"`
	Nutrient Nutrient `json:"nutrient" yaml:"-"`
	Amount   float64  `json:"amount" yaml:"amount"`
}

// FoodEntry is a full food_logs row.
type FoodEntry struct {
	ID       int64   `json:"id" yaml:"id"`
	UserID   int64   `json:"user_id" yaml:"-"`
	Date     string  `json:"date" yaml:"date"`
	MealType string  `json:"meal_type" yaml:"meal_type"`
	FoodName string  `json:"food_name" yaml:"food_name"`
	Calories float64 `json:"calories" yaml:"calories"`
	ProteinG float64 `json:"protein_g" yaml:"protein_g"`
	CarbsG   float64 `json:"carbs_g" yaml:"carbs_g"`
	FatG     float64 `json:"fat_g" yaml:"fat_g"`
}

// Totals holds today's summed intake per nutrient.
type Totals struct {
	Water    float64 `json:"water"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

// Get returns the total for one nutrient.
func (t Totals) Get(n Nutrient) float64 {
	switch n {
	case Water:
		return t.Water
	case Calories:
		return t.Calories
	case Protein:
		return t.Protein
	}
	return 0
}

// Set replaces the total for one nutrient.
func (t *Totals) Set(n Nutrient, v float64) {
	switch n {
	case Water:
		t.Water = v
	case Calories:
		t.Calories = v
	case Protein:
		t.Protein = v
	}
}

// DayTotal is the summed intake for one calendar date.
type DayTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// DailyGoals is a user's targets for one date. Nil means not set.
type DailyGoals struct {
	Date     string   `json:"date" yaml:"date"`
	UserID   int64    `json:"user_id" yaml:"-"`
	Water    *float64 `json:"water_target,omitempty" yaml:"water_target,omitempty"`
	Calories *float64 `json:"calorie_target,omitempty" yaml:"calorie_target,omitempty"`
	Protein  *float64 `json:"protein_target,omitempty" yaml:"protein_target,omitempty"`
}

// Target returns the target for one nutrient, or nil when unset.
func (g *DailyGoals) Target(n Nutrient) *float64 {
	if g == nil {
		return nil
	}
	switch n {
	case Water:
		return g.Water
	case Calories:
		return g.Calories
	case Protein:
		return g.Protein
	}
	return nil
}

// GoalsUpdate is a partial goal save. Nil fields leave the stored value unchanged.
type GoalsUpdate struct {
	Water    *float64
	Calories *float64
	Protein  *float64
}

// GoalsUpdateFor builds an update that sets a single nutrient target.
func GoalsUpdateFor(n Nutrient, target float64) GoalsUpdate {
	var u GoalsUpdate
	switch n {
	case Water:
		u.Water = &target
	case Calories:
		u.Calories = &target
	case Protein:
		u.Protein = &target
	}
	return u
}
