package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/cli"
	"github.com/example/vigil/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "vigil",
		Short:   "vigil - rule-based escalation engine for design projects",
		Version: version.String(),
		Long: `vigil watches a design-project workspace and escalates what humans miss:
overdue milestones, drifting metrics, stalled work. Rules describe what
to watch and who to tell; each 'vigil run' evaluates them and dispatches
actions for newly reached escalation levels.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.RunCmd())

	// Rule catalog
	rootCmd.AddCommand(cli.RuleCmd())
	rootCmd.AddCommand(cli.TemplateCmd())

	// Engine bookkeeping
	rootCmd.AddCommand(cli.StateCmd())
	rootCmd.AddCommand(cli.LogCmd())
	rootCmd.AddCommand(cli.AlertCmd())

	// Local entity view
	rootCmd.AddCommand(cli.ProjectCmd())
	rootCmd.AddCommand(cli.MilestoneCmd())
	rootCmd.AddCommand(cli.MetricCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
