package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// AlertCmd returns the alert command
func AlertCmd() *cobra.Command {
	var scope, severity string
	var limit int

	cmd := &cobra.Command{
		Use:   "alert",
		Short: "View raised alerts",
		Long:  `View alerts raised by create_alert actions, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := wire.AlertService().ListAlerts(context.Background(), primary.AlertFilters{
				Scope:    scope,
				Severity: severity,
				Limit:    limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			if len(alerts) == 0 {
				fmt.Println("No alerts found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tID\tSCOPE\tSEVERITY\tMESSAGE")
			for _, a := range alerts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					formatTimestamp(a.CreatedAt),
					a.ID,
					dash(a.Scope),
					a.Severity,
					a.Message,
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Filter by project scope")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter by severity level tag")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum alerts to show")

	return cmd
}
