// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server acting for the logged-in user.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server acts for the user logged in on this device and communicates via
stdin/stdout.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "ugmotion": {
        "command": "ugmotion",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_intake        Record water, calories or protein
  set_target        Set today's target for a nutrient
  clear_intake      Reset today's total and target for a nutrient
  get_today         Today's intake, targets and ring fill
  calculate_bmi     BMI from measurements or the profile
  get_plan          The weekly plan or one day of it
  add_activity      Add an exercise to a day
  delete_activity   Remove an exercise from a day
  log_set           Log a performed set

AVAILABLE RESOURCES:

  ugmotion://today     Today's intake against targets
  ugmotion://plan      The weekly plan
  ugmotion://profile   Profile, equipment and BMI`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(s)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		logger.Info("mcp server started", "user", s.User().Name)
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
