// ABOUTME: CLI commands for the weekly workout plan.
// ABOUTME: Supports create, show, add, edit, rm and suggest subcommands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/routine"
)

var (
	planEquipment []string
	planAddSets   int
	planAddReps   int
	planEditName  string
	planEditSets  int
	planEditReps  int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage your weekly workout plan",
	Long: `Build a seven-day workout plan and fill it with exercises.

WORKFLOW:

  1. Create the week:      ugmotion plan create ppl -e dumbbells,bodyweight
  2. Add exercises:        ugmotion plan add Mon "Push-ups" --sets 3 --reps 12
  3. View the calendar:    ugmotion plan show
  4. Log what you did:     ugmotion workout log Mon 1 --reps 12 --done

SPLITS:

  ppl          Push / Pull / Legs
  upper_lower  Upper / Lower
  body_part    Chest / Back / Legs / Shoulders / Arms

Days are named Mon..Sun; exercises are addressed by their position (1, 2, ...).`,
}

var planCreateCmd = &cobra.Command{
	Use:   "create <split>",
	Short: "Create a new week from a split",
	Long: `Create a new seven-day plan from a training split, replacing the current plan.

Examples:
  ugmotion plan create ppl --equipment bodyweight
  ugmotion plan create upper_lower -e dumbbells -e machines`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(routine.PushPullLegs), string(routine.UpperLower), string(routine.BodyPart)},
	RunE: func(cmd *cobra.Command, args []string) error {
		split, err := routine.ParseSplit(args[0])
		if err != nil {
			return err
		}
		s, err := requireSession()
		if err != nil {
			return err
		}

		equipment, err := parseEquipmentList(planEquipment)
		if err != nil {
			return err
		}
		if len(equipment) == 0 {
			equipment = s.Equipment()
		}

		if err := s.CreatePlan(split, equipment); err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}

		color.Green("✓ Created %s plan", split)
		printPlan(s.WeeklyPlan())
		fmt.Printf("\nSuggested exercises: %s\n", strings.Join(routine.Suggestions(equipment), ", "))
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:     "show [day]",
	Aliases: []string{"ls"},
	Short:   "Show the week or a single day",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		plan := s.WeeklyPlan()
		if len(plan) == 0 {
			fmt.Println("No plan yet. Create one with 'ugmotion plan create <split>'.")
			return nil
		}
		if len(args) == 1 {
			for _, d := range plan {
				if strings.EqualFold(d.Day, args[0]) {
					printPlan([]models.DayPlan{d})
					return nil
				}
			}
			return fmt.Errorf("no plan day named %q", args[0])
		}
		printPlan(plan)
		return nil
	},
}

var planAddCmd = &cobra.Command{
	Use:   "add <day> <exercise>",
	Short: "Add an exercise to a day",
	Long: `Append an exercise to a day of the plan.

Examples:
  ugmotion plan add Mon "Push-ups" --sets 3 --reps 12
  ugmotion plan add thu Running`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[1])
		if name == "" {
			return fmt.Errorf("exercise name is required")
		}
		if planAddSets < 0 || planAddReps < 0 {
			return fmt.Errorf("sets and reps cannot be negative")
		}
		s, err := requireSession()
		if err != nil {
			return err
		}

		a := models.NewActivity(name, planAddSets, planAddReps)
		if err := s.AddActivity(args[0], a); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.Green("✓ Added %s to %s", name, args[0])
		return nil
	},
}

var planEditCmd = &cobra.Command{
	Use:   "edit <day> <position>",
	Short: "Edit an exercise",
	Long: `Change the name, sets or reps of an exercise. Only the flags you pass change.

Examples:
  ugmotion plan edit Mon 1 --reps 15
  ugmotion plan edit Tue 2 --name "Chin-ups" --sets 4`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		s, err := requireSession()
		if err != nil {
			return err
		}

		day, err := findPlanDay(s.WeeklyPlan(), args[0])
		if err != nil {
			return err
		}
		if index >= len(day.Activities) {
			return fmt.Errorf("%s has no exercise #%d", day.Day, index+1)
		}

		a := day.Activities[index]
		flags := cmd.Flags()
		if flags.Changed("name") {
			a.Name = strings.TrimSpace(planEditName)
		}
		if flags.Changed("sets") {
			a.Sets = planEditSets
		}
		if flags.Changed("reps") {
			a.Reps = planEditReps
		}
		if a.Name == "" || a.Sets < 0 || a.Reps < 0 {
			return fmt.Errorf("exercise needs a name and non-negative sets and reps")
		}
		if err := s.EditActivity(day.Day, index, a); err != nil {
			return fmt.Errorf("failed to edit exercise: %w", err)
		}
		color.Green("✓ Updated %s #%d: %s", day.Day, index+1, formatActivity(a))
		return nil
	},
}

var planRmCmd = &cobra.Command{
	Use:     "rm <day> <position>",
	Aliases: []string{"delete"},
	Short:   "Remove an exercise",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		s, err := requireSession()
		if err != nil {
			return err
		}

		day, err := findPlanDay(s.WeeklyPlan(), args[0])
		if err != nil {
			return err
		}
		if index >= len(day.Activities) {
			return fmt.Errorf("%s has no exercise #%d", day.Day, index+1)
		}
		name := day.Activities[index].Name

		if err := s.DeleteActivity(day.Day, index); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		color.Yellow("✗ Removed %s from %s", name, day.Day)
		return nil
	},
}

var planSuggestCmd = &cobra.Command{
	Use:   "suggest [equipment...]",
	Short: "List exercises for your equipment",
	RunE: func(cmd *cobra.Command, args []string) error {
		equipment, err := parseEquipmentList(args)
		if err != nil {
			return err
		}
		if len(equipment) == 0 {
			s, err := requireSession()
			if err != nil {
				return err
			}
			equipment = s.Equipment()
		}
		if len(equipment) == 0 {
			return fmt.Errorf("no equipment selected (see 'ugmotion equipment')")
		}
		for _, name := range routine.Suggestions(equipment) {
			fmt.Println(name)
		}
		return nil
	},
}

func findPlanDay(plan []models.DayPlan, day string) (models.DayPlan, error) {
	for _, d := range plan {
		if strings.EqualFold(d.Day, strings.TrimSpace(day)) {
			return d, nil
		}
	}
	return models.DayPlan{}, fmt.Errorf("no plan day named %q", day)
}

func formatActivity(a models.RoutineActivity) string {
	if a.Sets == 0 && a.Reps == 0 {
		return a.Name
	}
	return a.Name + " " + strconv.Itoa(a.Sets) + "x" + strconv.Itoa(a.Reps)
}

func printPlan(plan []models.DayPlan) {
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)
	for _, d := range plan {
		fmt.Printf("%s %s\n", bold.Sprint(padRight(d.Day, 4)), d.Focus)
		if len(d.Activities) == 0 {
			fmt.Printf("     %s\n", faint.Sprint("no exercises"))
			continue
		}
		for i, a := range d.Activities {
			fmt.Printf("     %s %s\n", faint.Sprintf("%d.", i+1), formatActivity(a))
		}
	}
}

func init() {
	planCreateCmd.Flags().StringSliceVarP(&planEquipment, "equipment", "e", nil, "equipment types (default: your saved equipment)")

	planAddCmd.Flags().IntVar(&planAddSets, "sets", 3, "number of sets")
	planAddCmd.Flags().IntVar(&planAddReps, "reps", 10, "repetitions per set")

	planEditCmd.Flags().StringVar(&planEditName, "name", "", "new exercise name")
	planEditCmd.Flags().IntVar(&planEditSets, "sets", 0, "number of sets")
	planEditCmd.Flags().IntVar(&planEditReps, "reps", 0, "repetitions per set")

	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planEditCmd)
	planCmd.AddCommand(planRmCmd)
	planCmd.AddCommand(planSuggestCmd)

	rootCmd.AddCommand(planCmd)
}
