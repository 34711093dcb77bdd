// ABOUTME: CLI commands for the user profile and equipment selection.
// ABOUTME: Provides profile show/set/image and the equipment command.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/fitness"
	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/storage"
)

var (
	profileName   string
	profileEmail  string
	profileAge    string
	profileSex    string
	profileHeight string
	profileWeight string

	profileImageRemove bool
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "View and edit your profile",
	Long: `View and edit your profile.

Height is in centimetres and weight in kilograms; both are used for BMI.
Fields that were never set show N/A.

COMMANDS:

  show    Print the profile
  set     Change one or more fields
  image   Set or remove the profile image reference`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		u := s.User()

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(u.Name), faint.Sprintf("(#%d)", u.ID))
		fmt.Printf("  %s %s\n", padRight("Email", 10), optional(u.Email))
		fmt.Printf("  %s %s\n", padRight("Age", 10), u.Age)
		fmt.Printf("  %s %s\n", padRight("Sex", 10), u.Sex)
		fmt.Printf("  %s %s\n", padRight("Height", 10), u.Height)
		fmt.Printf("  %s %s\n", padRight("Weight", 10), u.Weight)
		fmt.Printf("  %s %s\n", padRight("Equipment", 10), formatEquipment(u.Equipment))
		fmt.Printf("  %s %s\n", padRight("Image", 10), optional(u.ProfileImageURI))
		if bmi, err := fitness.ParseBMI(u.Height, u.Weight); err == nil {
			fmt.Printf("  %s %.1f %s\n", padRight("BMI", 10), bmi, faint.Sprintf("(%s)", fitness.Classify(bmi)))
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Only the flags you pass are changed.

Examples:
  ugmotion profile set --height 178 --weight 74.5
  ugmotion profile set --name casey.r --email casey@example.com
  ugmotion profile set --age 31 --sex F`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		p := s.User().ProfileUpdate()
		changed := false
		flags := cmd.Flags()
		set := func(flag string, dst *string, value string) {
			if flags.Changed(flag) {
				*dst = strings.TrimSpace(value)
				if *dst == "" {
					*dst = models.NotSet
				}
				changed = true
			}
		}
		if flags.Changed("name") {
			p.Name = strings.TrimSpace(profileName)
			changed = true
		}
		set("age", &p.Age, profileAge)
		set("sex", &p.Sex, profileSex)
		set("height", &p.Height, profileHeight)
		set("weight", &p.Weight, profileWeight)
		if flags.Changed("email") {
			email := strings.TrimSpace(profileEmail)
			if email == "" {
				p.Email = nil
			} else {
				p.Email = &email
			}
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update (see 'ugmotion profile set --help')")
		}

		if err := s.UpdateProfile(p); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("the name %q is already taken", p.Name)
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}
		color.Green("✓ Profile updated")
		return nil
	},
}

var profileImageCmd = &cobra.Command{
	Use:   "image [uri]",
	Short: "Set or remove the profile image",
	Long: `Set the profile image reference (a file path or URI), or remove it.

Examples:
  ugmotion profile image file:///home/casey/me.jpg
  ugmotion profile image --remove`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		if profileImageRemove {
			if err := s.SetProfileImage(nil); err != nil {
				return fmt.Errorf("failed to remove image: %w", err)
			}
			color.Yellow("✗ Removed profile image")
			return nil
		}
		if len(args) == 0 {
			fmt.Println(optional(s.User().ProfileImageURI))
			return nil
		}

		uri := strings.TrimSpace(args[0])
		if err := s.SetProfileImage(&uri); err != nil {
			return fmt.Errorf("failed to set image: %w", err)
		}
		color.Green("✓ Profile image set")
		return nil
	},
}

var equipmentCmd = &cobra.Command{
	Use:     "equipment [type...]",
	Aliases: []string{"eq"},
	Short:   "Show or select your equipment",
	Long: `Show your equipment, or replace the selection.

TYPES:

  dumbbells, bodyweight, cardio, machines

Examples:
  ugmotion equipment
  ugmotion equipment dumbbells bodyweight
  ugmotion equipment cardio,machines`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Println(formatEquipment(s.Equipment()))
			return nil
		}

		eq, err := parseEquipmentList(args)
		if err != nil {
			return err
		}
		if err := s.SetEquipment(eq); err != nil {
			return fmt.Errorf("failed to save equipment: %w", err)
		}
		color.Green("✓ Equipment: %s", formatEquipment(eq))
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileSetCmd.Flags().StringVar(&profileEmail, "email", "", "email address (empty to remove)")
	profileSetCmd.Flags().StringVar(&profileAge, "age", "", "age")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "sex")
	profileSetCmd.Flags().StringVar(&profileHeight, "height", "", "height in cm")
	profileSetCmd.Flags().StringVar(&profileWeight, "weight", "", "weight in kg")

	profileImageCmd.Flags().BoolVar(&profileImageRemove, "remove", false, "remove the profile image")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileImageCmd)

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(equipmentCmd)
}
