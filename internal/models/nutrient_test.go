// ABOUTME: Tests for nutrient parsing, totals and goal helpers.
// ABOUTME: Covers aliases, units, defaults and partial goal updates.
package models

import "testing"

func TestParseNutrient(t *testing.T) {
	tests := []struct {
		input   string
		want    Nutrient
		wantErr bool
	}{
		{"water", Water, false},
		{"H2O", Water, false},
		{" kcal ", Calories, false},
		{"cal", Calories, false},
		{"protein", Protein, false},
		{"sugar", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNutrient(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseNutrient(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNutrient(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseNutrient(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNutrientUnitsAndDefaults(t *testing.T) {
	tests := []struct {
		n      Nutrient
		unit   string
		target float64
	}{
		{Water, "ml", 2000},
		{Calories, "kcal", 2000},
		{Protein, "g", 150},
	}
	for _, tt := range tests {
		if got := tt.n.Unit(); got != tt.unit {
			t.Errorf("%s.Unit() = %q, want %q", tt.n, got, tt.unit)
		}
		if got := tt.n.DefaultTarget(); got != tt.target {
			t.Errorf("%s.DefaultTarget() = %v, want %v", tt.n, got, tt.target)
		}
		if !tt.n.Valid() {
			t.Errorf("%s.Valid() = false", tt.n)
		}
	}
	if Nutrient("fiber").Valid() {
		t.Error("fiber should not be valid")
	}
}

func TestTotalsGetSet(t *testing.T) {
	var tot Totals
	tot.Set(Water, 600)
	tot.Set(Protein, 40)
	if tot.Get(Water) != 600 || tot.Get(Protein) != 40 || tot.Get(Calories) != 0 {
		t.Errorf("unexpected totals: %+v", tot)
	}
}

func TestGoalsUpdateFor(t *testing.T) {
	u := GoalsUpdateFor(Calories, 2200)
	if u.Water != nil || u.Protein != nil {
		t.Errorf("only calories should be set: %+v", u)
	}
	if u.Calories == nil || *u.Calories != 2200 {
		t.Errorf("Calories = %v, want 2200", u.Calories)
	}

	var g *DailyGoals
	if g.Target(Water) != nil {
		t.Error("nil goals should have nil targets")
	}
}
