// ABOUTME: CLI commands for exporting and importing your data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export your data",
	Long: `Export your profile, plan, intake, goals and workout logs.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, intake grouped by nutrient)
  markdown   Markdown tables (profile, weekly plan, recent daily totals)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --days         Days of intake history in the Markdown export

EXAMPLES:

  ugmotion export json -o backup.json
  ugmotion export yaml
  ugmotion export markdown --days 30`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		s, err := requireSession()
		if err != nil {
			return err
		}
		userID := s.UserID()

		var data []byte
		switch format {
		case "json":
			data, err = repo.ExportJSON(userID)
		case "yaml":
			data, err = repo.ExportYAML(userID)
		case "markdown", "md":
			var md string
			md, err = repo.ExportMarkdown(userID, exportDays)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a JSON export",
	Long: `Import a JSON export into your account.

The weekly plan is replaced; intake entries and workout logs are appended;
daily goals are merged. Logged sets are imported without their exercise link.
Nothing is written if any part of the file is invalid.

EXAMPLES:

  ugmotion import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		id, err := currentUserID()
		if err != nil {
			return err
		}
		if err := repo.ImportJSON(id, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().IntVar(&exportDays, "days", 7, "days of intake history (markdown only)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
