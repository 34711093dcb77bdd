// ABOUTME: CLI commands for logging sets against the weekly plan.
// ABOUTME: Supports log and list subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/models"
)

var (
	workoutWeight float64
	workoutReps   int
	workoutDone   bool
	workoutDate   string
	workoutDay    string
	workoutAll    bool
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"wo"},
	Short:   "Log and review workout sets",
	Long: `Log the sets you perform for exercises in your weekly plan.

Exercises are addressed by day and position, as shown by 'ugmotion plan show'.

COMMANDS:

  log    Record a set for an exercise, dated today
  list   List logged sets for a date`,
}

var workoutLogCmd = &cobra.Command{
	Use:   "log <day> <position>",
	Short: "Log a set",
	Long: `Log a performed set for an exercise in your plan.

Examples:
  ugmotion workout log Mon 1 --reps 12 --done
  ugmotion workout log Tue 2 --weight 22.5 --reps 8`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		if workoutWeight < 0 || workoutReps < 0 {
			return fmt.Errorf("weight and reps cannot be negative")
		}
		s, err := requireSession()
		if err != nil {
			return err
		}

		id, err := s.LogSet(args[0], index, workoutWeight, workoutReps, workoutDone)
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		color.Green("✓ Logged set")
		fmt.Printf("  %s %d reps @ %g%s\n",
			color.New(color.Faint).Sprintf("#%d", id),
			workoutReps, workoutWeight, doneMark(workoutDone))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List logged sets",
	Long: `List logged sets for a date (default today).

Use --day to only show sets for the exercises of one plan day, or --all to list
every logged set. Sets whose exercise was removed from the plan show as "(removed)".

Examples:
  ugmotion workout list
  ugmotion workout list --date 2024-03-14 --day Thu
  ugmotion workout list --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		date := repo.Today()
		if workoutDate != "" {
			if date, err = parseDate(workoutDate); err != nil {
				return err
			}
		}

		plan := s.WeeklyPlan()
		var logs []models.WorkoutLog
		switch {
		case workoutDay != "":
			day, err := findPlanDay(plan, workoutDay)
			if err != nil {
				return err
			}
			logs, err = repo.ListWorkoutLogsForDay(s.UserID(), day.ID, date)
			if err != nil {
				return fmt.Errorf("failed to list sets: %w", err)
			}
		case workoutAll:
			logs, err = repo.ListWorkoutLogs(s.UserID(), "")
		default:
			logs, err = repo.ListWorkoutLogs(s.UserID(), date)
		}
		if err != nil {
			return fmt.Errorf("failed to list sets: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No sets logged.")
			return nil
		}

		names := activityNames(plan)
		faint := color.New(color.Faint)
		for _, l := range logs {
			name := "(removed)"
			if l.RoutineActivityID != nil {
				if n, ok := names[*l.RoutineActivityID]; ok {
					name = n
				}
			}
			fmt.Printf("%s %s %s %d reps @ %g%s\n",
				faint.Sprintf("#%-4d", l.ID),
				faint.Sprint(l.Date),
				padRight(truncate(name, 24), 24),
				l.Reps, l.Weight, doneMark(l.Completed))
		}
		return nil
	},
}

func activityNames(plan []models.DayPlan) map[int64]string {
	names := make(map[int64]string)
	for _, d := range plan {
		for _, a := range d.Activities {
			names[a.ID] = d.Day + " " + a.Name
		}
	}
	return names
}

func doneMark(done bool) string {
	if done {
		return color.GreenString(" ✓")
	}
	return ""
}

func init() {
	workoutLogCmd.Flags().Float64Var(&workoutWeight, "weight", 0, "weight lifted")
	workoutLogCmd.Flags().IntVar(&workoutReps, "reps", 0, "repetitions performed")
	workoutLogCmd.Flags().BoolVar(&workoutDone, "done", false, "mark the set as completed")

	workoutListCmd.Flags().StringVar(&workoutDate, "date", "", "date to list (YYYY-MM-DD, default today)")
	workoutListCmd.Flags().StringVar(&workoutDay, "day", "", "only sets for this plan day")
	workoutListCmd.Flags().BoolVar(&workoutAll, "all", false, "list every logged set")

	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutListCmd)

	rootCmd.AddCommand(workoutCmd)
}
