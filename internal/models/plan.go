// ABOUTME: Weekly workout plan models: days and their routine activities.
// ABOUTME: A plan is always saved and loaded as a whole week.
package models

// DayPlan is one weekday slot in a user's weekly routine.
type DayPlan struct {
	ID         int64             `json:"id" yaml:"id"`
	Day        string            `json:"day" yaml:"day"`
	Focus      string            `json:"focus" yaml:"focus"`
	Activities []RoutineActivity `json:"activities" yaml:"activities"`
}

// RoutineActivity is an exercise prescription within a day.
type RoutineActivity struct {
	ID        int64  `json:"id" yaml:"id"`
	PlanDayID int64  `json:"plan_day_id" yaml:"plan_day_id"`
	Name      string `json:"name" yaml:"name"`
	Sets      int    `json:"sets" yaml:"sets"`
	Reps      int    `json:"reps" yaml:"reps"`
}

// NewActivity creates an unsaved activity.
func NewActivity(name string, sets, reps int) RoutineActivity {
	return RoutineActivity{Name: name, Sets: sets, Reps: reps}
}

// ClonePlan deep-copies a week so callers can edit it without aliasing activities.
func ClonePlan(plan []DayPlan) []DayPlan {
	out := make([]DayPlan, len(plan))
	for i, d := range plan {
		out[i] = d
		out[i].Activities = append([]RoutineActivity{}, d.Activities...)
	}
	return out
}

// WorkoutLog is a performed set recorded against an activity on a date.
// RoutineActivityID becomes nil when the activity is deleted.
type WorkoutLog struct {
	ID                int64   `json:"id" yaml:"id"`
	UserID            int64   `json:"user_id" yaml:"user_id"`
	RoutineActivityID *int64  `json:"routine_activity_id,omitempty" yaml:"routine_activity_id,omitempty"`
	Date              string  `json:"date" yaml:"date"`
	Weight            float64 `json:"weight" yaml:"weight"`
	Reps              int     `json:"reps" yaml:"reps"`
	Completed         bool    `json:"completed" yaml:"completed"`
}
