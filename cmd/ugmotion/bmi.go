// ABOUTME: CLI command for the BMI calculator.
// ABOUTME: Uses explicit measurements or falls back to the profile.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/fitness"
)

var bmiCmd = &cobra.Command{
	Use:   "bmi [height_cm weight_kg]",
	Short: "Calculate body mass index",
	Long: `Calculate BMI from height (cm) and weight (kg).

Without arguments the height and weight from your profile are used.

CATEGORIES:

  below 18.5    Underweight
  18.5 - 24.9   Healthy Weight
  25.0 - 29.9   Overweight
  30.0 - 34.9   Obese (Class 1)
  35.0 - 39.9   Obese (Class 2)
  40 and above  Obese (Class 3)

Examples:
  ugmotion bmi 178 74.5
  ugmotion bmi`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("provide both height and weight, or neither")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			bmi float64
			err error
		)
		if len(args) == 2 {
			bmi, err = fitness.ParseBMI(args[0], args[1])
		} else {
			s, serr := requireSession()
			if serr != nil {
				return serr
			}
			u := s.User()
			bmi, err = fitness.ParseBMI(u.Height, u.Weight)
			if err != nil {
				return fmt.Errorf("set your height and weight first (ugmotion profile set --height 178 --weight 74): %w", err)
			}
		}
		if err != nil {
			return err
		}

		class := fitness.Classify(bmi)
		c := color.New(color.FgGreen)
		if class != fitness.HealthyWeight {
			c = color.New(color.FgYellow)
		}
		fmt.Printf("BMI %.1f %s\n", bmi, c.Sprint(class))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bmiCmd)
}
