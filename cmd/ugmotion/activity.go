// ABOUTME: CLI commands for device-tracked activity.
// ABOUTME: Provides sleep start/stop/status and the daily step count.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/fitness"
	"github.com/ugmotion/ugmotion/internal/kvstore"
)

var stepsDate string

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Track sleep sessions",
	Long: `Track sleep on this device. Start a session at bedtime and stop it when
you wake up; the duration is kept as your last sleep.

Examples:
  ugmotion sleep start
  ugmotion sleep stop
  ugmotion sleep status`,
}

var sleepStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a sleep session now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := currentUserID(); err != nil {
			return err
		}
		if bed, ok, err := kv.Bedtime(); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("a sleep session is already running since %s", bed.Format("15:04"))
		}

		now := time.Now()
		if err := kv.StartSleep(now); err != nil {
			return fmt.Errorf("failed to start sleep: %w", err)
		}
		color.Green("✓ Sleep started at %s", now.Format("15:04"))
		return nil
	},
}

var sleepStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running sleep session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := currentUserID(); err != nil {
			return err
		}
		d, err := kv.StopSleep(time.Now())
		if err != nil {
			if errors.Is(err, kvstore.ErrNoSleepSession) {
				return fmt.Errorf("no sleep session running (start one with 'ugmotion sleep start')")
			}
			return fmt.Errorf("failed to stop sleep: %w", err)
		}

		color.Green("✓ Slept %s", formatDuration(d))
		fill := fitness.FillPercent(d.Hours(), fitness.SleepGoal.Hours())
		fmt.Printf("  %s %3.0f%% of %s\n", progressBar(fill, barWidth), fill, formatDuration(fitness.SleepGoal))
		return nil
	},
}

var sleepStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running session or the last sleep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bed, ok, err := kv.Bedtime(); err != nil {
			return err
		} else if ok {
			fmt.Printf("Asleep since %s (%s)\n", bed.Format("15:04"), formatDuration(time.Since(bed)))
			return nil
		}
		last, ok, err := kv.LastSleep()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No sleep recorded.")
			return nil
		}
		fmt.Printf("Last sleep: %s\n", formatDuration(last))
		return nil
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps [count]",
	Short: "Show or record today's step count",
	Long: fmt.Sprintf(`Show or record the step count for a day. The daily goal is %d steps.

Examples:
  ugmotion steps
  ugmotion steps 8450
  ugmotion steps 12000 --date 2024-03-14`, fitness.StepGoal),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := currentUserID(); err != nil {
			return err
		}
		date := repo.Today()
		if stepsDate != "" {
			d, err := parseDate(stepsDate)
			if err != nil {
				return err
			}
			date = d
		}

		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid step count: %s", args[0])
			}
			if err := kv.SetSteps(date, n); err != nil {
				return fmt.Errorf("failed to save steps: %w", err)
			}
			color.Green("✓ Recorded %d steps for %s", n, date)
		}

		steps, err := kv.Steps(date)
		if err != nil {
			return err
		}
		fill := fitness.FillPercent(float64(steps), fitness.StepGoal)
		fmt.Printf("  %d / %d %s %3.0f%%\n", steps, fitness.StepGoal, progressBar(fill, barWidth), fill)
		return nil
	},
}

func init() {
	stepsCmd.Flags().StringVar(&stepsDate, "date", "", "day to show or record (YYYY-MM-DD, default today)")

	sleepCmd.AddCommand(sleepStartCmd)
	sleepCmd.AddCommand(sleepStopCmd)
	sleepCmd.AddCommand(sleepStatusCmd)

	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(stepsCmd)
}
