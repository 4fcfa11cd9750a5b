package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	var scope string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one evaluation cycle",
		Long: `Run one evaluation cycle: evaluate every active rule against every
candidate entity, dispatch actions for newly reached escalation levels,
and append each outcome to the execution log.

The engine is batch-per-invocation. Schedule this command (cron,
systemd timer) for continuous monitoring.

Examples:
  vigil run
  vigil run --scope PROJ-001
  vigil run --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if scope == "" {
				scope = wire.Config().DefaultScope
			}

			report, err := wire.EngineService().RunCycle(ctx, primary.RunCycleRequest{
				Scope:  scope,
				Now:    time.Now(),
				DryRun: dryRun,
			})
			if err != nil {
				return fmt.Errorf("cycle failed: %w", err)
			}

			printCycleReport(report, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Limit evaluation to one project (falls back to default_scope from .vigil/config.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate and report without dispatching actions or writing state")

	return cmd
}

func printCycleReport(report *primary.CycleReport, dryRun bool) {
	if dryRun {
		color.New(color.FgHiYellow).Println("dry run: no actions dispatched, no state written")
	}

	fmt.Printf("Evaluated %d pair(s): %d matched, %d escalated, %d error(s)\n",
		report.Evaluated, report.Matched, report.Escalated, report.Errors)

	if len(report.Pairs) == 0 {
		return
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RULE\tENTITY\tMATCHED\tLEVEL\tTRANSITION\tACTIONS\tSTATUS")
	for _, p := range report.Pairs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.RuleID,
			p.EntityID,
			yesNo(p.Matched),
			dash(p.Level),
			p.Transition,
			len(p.ActionsAttempted),
			colorStatus(p.Status),
		)
	}
	w.Flush()

	for _, p := range report.Pairs {
		if p.Error != "" {
			color.New(color.FgRed).Printf("✗ %s/%s: %s\n", p.RuleID, p.EntityID, p.Error)
		}
	}
}

func colorStatus(status string) string {
	switch status {
	case "success":
		return color.GreenString(status)
	case "partial":
		return color.YellowString(status)
	case "error":
		return color.RedString(status)
	default:
		return status
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
