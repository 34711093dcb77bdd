// ABOUTME: Derived fitness metrics: BMI, weight classification and goal ring math.
// ABOUTME: Pure functions with no storage access.
package fitness

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidMeasurement is returned for missing, non-numeric or non-positive inputs.
var ErrInvalidMeasurement = errors.New("invalid measurement")

// Daily goals shown on the dashboard that are not user-configurable.
const (
	StepGoal  = 10000
	SleepGoal = 8 * time.Hour
)

// BMI computes body mass index from height in centimetres and weight in kilograms.
func BMI(heightCm, weightKg float64) (float64, error) {
	if !(heightCm > 0) || !(weightKg > 0) || math.IsInf(heightCm, 0) || math.IsInf(weightKg, 0) {
		return 0, fmt.Errorf("bmi: %w: height and weight must be positive", ErrInvalidMeasurement)
	}
	m := heightCm / 100
	return weightKg / (m * m), nil
}

// ParseBMI computes BMI from the freeform profile strings.
func ParseBMI(height, weight string) (float64, error) {
	h, err := parseMeasurement(height)
	if err != nil {
		return 0, fmt.Errorf("height: %w", err)
	}
	w, err := parseMeasurement(weight)
	if err != nil {
		return 0, fmt.Errorf("weight: %w", err)
	}
	return BMI(h, w)
}

// parseMeasurement accepts a number with an optional trailing unit, e.g. "170" or "70 kg".
func parseMeasurement(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz ")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, ErrInvalidMeasurement
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMeasurement, s)
	}
	return v, nil
}

// Classification is a BMI weight category.
type Classification string

const (
	Underweight   Classification = "Underweight"
	HealthyWeight Classification = "Healthy Weight"
	Overweight    Classification = "Overweight"
	ObeseClass1   Classification = "Obese (Class 1)"
	ObeseClass2   Classification = "Obese (Class 2)"
	ObeseClass3   Classification = "Obese (Class 3)"
)

// Classify maps a BMI value to its category.
func Classify(bmi float64) Classification {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi <= 24.9:
		return HealthyWeight
	case bmi <= 29.9:
		return Overweight
	case bmi <= 34.9:
		return ObeseClass1
	case bmi <= 39.9:
		return ObeseClass2
	default:
		return ObeseClass3
	}
}

// FillPercent is the progress ring fill for current against target, clamped to [0, 100].
// A non-positive target counts as 1.
func FillPercent(current, target float64) float64 {
	if !(target > 0) {
		target = 1
	}
	p := current / target * 100
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(100, math.Max(0, p))
}

// FillPercentOf is FillPercent with an optional target. Nil counts as 1.
func FillPercentOf(current float64, target *float64) float64 {
	if target == nil {
		return FillPercent(current, 1)
	}
	return FillPercent(current, *target)
}

// Remaining returns how much is left to reach the target, never below zero.
// It reports false when no target is set.
func Remaining(current float64, target *float64) (float64, bool) {
	if target == nil {
		return 0, false
	}
	return math.Max(0, *target-current), true
}

// FormatTarget renders an optional target with its unit, or N/A.
func FormatTarget(target *float64, unit string) string {
	if target == nil {
		return "N/A"
	}
	return FormatAmount(*target, unit)
}

// FormatAmount renders an amount without trailing zeros, e.g. "2000 ml" or "12.5 g".
func FormatAmount(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
