package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	var ruleID, entityID, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "View the execution log",
		Long: `View the append-only execution log: one entry per (rule, entity)
evaluation, newest first.

Examples:
  vigil log
  vigil log --rule RULE-001 --status error
  vigil log --entity MS-004 -n 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := wire.ExecutionLogService().ListEntries(context.Background(), primary.ExecutionLogFilters{
				RuleID:   ruleID,
				EntityID: entityID,
				Status:   status,
				Limit:    limit,
			})
			if err != nil {
				return fmt.Errorf("failed to fetch log: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No log entries found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tRULE\tENTITY\tLEVEL\tACTIONS\tSTATUS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					formatTimestamp(e.ExecutedAt),
					e.RuleID,
					e.EntityID,
					dash(e.MatchedLevel),
					dash(strings.Join(e.ActionsAttempted, ",")),
					colorStatus(e.Status),
				)
			}
			w.Flush()

			for _, e := range entries {
				if e.ErrorMessage != "" {
					fmt.Printf("✗ %s %s/%s: %s\n", e.ID, e.RuleID, e.EntityID, e.ErrorMessage)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleID, "rule", "", "Filter by rule ID")
	cmd.Flags().StringVar(&entityID, "entity", "", "Filter by entity ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (success, partial, error)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show")

	return cmd
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}
