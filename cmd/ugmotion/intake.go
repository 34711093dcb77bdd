// ABOUTME: CLI commands for daily intake of water, calories and protein.
// ABOUTME: Provides <nutrient> add/target/clear plus the today and history views.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/fitness"
	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/session"
)

var historyDays int

// newNutrientCmd builds the add/target/clear command group for one nutrient.
func newNutrientCmd(n models.Nutrient, alias string) *cobra.Command {
	unit := n.Unit()
	parent := &cobra.Command{
		Use:     string(n),
		Aliases: []string{alias},
		Short:   fmt.Sprintf("Track today's %s (%s)", n, unit),
		Long: fmt.Sprintf(`Track today's %[1]s in %[2]s.

COMMANDS:

  add <amount>      Log an amount; negative amounts correct earlier entries
  target <amount>   Set today's target (default %[3]s)
  clear             Reset today's total to zero and unset the target

Examples:
  ugmotion %[1]s add 250
  ugmotion %[1]s add -- -50
  ugmotion %[1]s target %[4]s`, n, unit, fitness.FormatAmount(n.DefaultTarget(), unit), fitness.FormatAmount(n.DefaultTarget(), "")),
	}

	add := &cobra.Command{
		Use:   "add <amount>",
		Short: fmt.Sprintf("Log %s in %s", n, unit),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			s, err := requireSession()
			if err != nil {
				return err
			}
			if err := s.Add(n, amount); err != nil {
				return fmt.Errorf("failed to add %s: %w", n, err)
			}

			p := s.Intake(n)
			color.Green("✓ Added %s of %s", fitness.FormatAmount(amount, unit), n)
			printProgress(p, unit)
			return nil
		},
	}

	target := &cobra.Command{
		Use:   "target <amount>",
		Short: fmt.Sprintf("Set today's %s target", n),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			s, err := requireSession()
			if err != nil {
				return err
			}
			if err := s.SetTarget(n, amount); err != nil {
				return fmt.Errorf("failed to set %s target: %w", n, err)
			}

			color.Green("✓ %s target set to %s", n, fitness.FormatAmount(amount, unit))
			printProgress(s.Intake(n), unit)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Reset today's %s", n),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := requireSession()
			if err != nil {
				return err
			}
			if err := s.Clear(n); err != nil {
				return fmt.Errorf("failed to clear %s: %w", n, err)
			}
			color.Yellow("✗ Cleared today's %s", n)
			return nil
		},
	}

	parent.AddCommand(add, target, clearCmd)
	return parent
}

func printProgress(p session.Progress, unit string) {
	fill := p.Fill()
	fmt.Printf("  %s / %s %s %3.0f%%",
		fitness.FormatAmount(p.Current, unit),
		fitness.FormatTarget(p.Target, unit),
		progressBar(fill, barWidth),
		fill)
	if left, ok := p.Remaining(); ok {
		fmt.Print(color.New(color.Faint).Sprintf("  %s left", fitness.FormatAmount(left, unit)))
	}
	fmt.Println()
}

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"dashboard", "t"},
	Short:   "Show today's progress",
	Long: `Show today's intake against targets, plus steps and last night's sleep.

A target that was cleared shows N/A until it is set again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		dash := s.Dashboard()
		faint := color.New(color.Faint)

		fmt.Printf("%s %s\n", color.New(color.Bold).Sprintf("Today, %s", dash.User), faint.Sprint(repo.Today()))
		for _, st := range dash.Nutrients {
			fmt.Printf("  %s", padRight(string(st.Nutrient), 10))
			printProgress(st.Progress, st.Unit)
		}

		steps, err := kv.Steps(repo.Today())
		if err != nil {
			return err
		}
		stepFill := fitness.FillPercent(float64(steps), fitness.StepGoal)
		fmt.Printf("  %s  %d / %d %s %3.0f%%\n", padRight("steps", 10), steps, fitness.StepGoal,
			progressBar(stepFill, barWidth), stepFill)

		if bed, ok, err := kv.Bedtime(); err != nil {
			return err
		} else if ok {
			fmt.Printf("  %s  asleep for %s\n", padRight("sleep", 10), formatDuration(time.Since(bed)))
		} else if last, ok, err := kv.LastSleep(); err != nil {
			return err
		} else if ok {
			sleepFill := fitness.FillPercent(last.Hours(), fitness.SleepGoal.Hours())
			fmt.Printf("  %s  %s / %s %s %3.0f%%\n", padRight("sleep", 10), formatDuration(last),
				formatDuration(fitness.SleepGoal), progressBar(sleepFill, barWidth), sleepFill)
		}

		if dash.Diverged {
			color.Red("  some changes were not saved; run any command again to reload")
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <water|calories|protein>",
	Short: "Show daily totals for recent days",
	Long: `Show per-day totals for a nutrient, oldest first. Days without entries show 0.

Examples:
  ugmotion history water
  ugmotion history protein --days 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := models.ParseNutrient(args[0])
		if err != nil {
			return err
		}
		s, err := requireSession()
		if err != nil {
			return err
		}

		history, err := repo.IntakeHistory(s.UserID(), n, historyDays)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		target := s.Intake(n).Target
		faint := color.New(color.Faint)
		for _, day := range history {
			fill := fitness.FillPercentOf(day.Total, target)
			fmt.Printf("%s %s %s\n",
				faint.Sprint(day.Date),
				progressBar(fill, barWidth),
				fitness.FormatAmount(day.Total, n.Unit()))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 7, "number of days including today")

	rootCmd.AddCommand(newNutrientCmd(models.Water, "w"))
	rootCmd.AddCommand(newNutrientCmd(models.Calories, "cal"))
	rootCmd.AddCommand(newNutrientCmd(models.Protein, "prot"))
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(historyCmd)
}
