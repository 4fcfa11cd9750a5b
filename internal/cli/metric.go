package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// MetricCmd returns the metric command
func MetricCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metric",
		Short: "Record and inspect metric samples",
		Long: `Record and inspect the metric samples that metric_threshold and
metric_deviation rules evaluate.`,
	}

	cmd.AddCommand(metricRecordCmd())
	cmd.AddCommand(metricListCmd())

	return cmd
}

func metricRecordCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "record [metric] [value]",
		Short: "Record one metric sample",
		Long: `Record one metric sample. Scope is the project the sample belongs
to; omit it for global metrics.

Examples:
  vigil metric record budget_spend_ratio 1.12 --scope PROJ-001
  vigil metric record compliance_rate 0.86 --scope PROJ-002`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			if err := wire.ProjectService().RecordMetricSample(context.Background(), primary.RecordSampleRequest{
				Scope:  scope,
				Metric: args[0],
				Value:  value,
			}); err != nil {
				return fmt.Errorf("failed to record sample: %w", err)
			}

			fmt.Printf("✓ Recorded %s = %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Project the sample belongs to")

	return cmd
}

func metricListCmd() *cobra.Command {
	var scope string
	var limit int

	cmd := &cobra.Command{
		Use:   "list [metric]",
		Short: "List samples for a metric, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := wire.ProjectService().ListMetricSamples(context.Background(), scope, args[0], limit)
			if err != nil {
				return fmt.Errorf("failed to list samples: %w", err)
			}

			if len(samples) == 0 {
				fmt.Println("No samples found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tSCOPE\tMETRIC\tVALUE")
			for _, s := range samples {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\n",
					formatTimestamp(s.Timestamp),
					dash(s.Scope),
					s.Metric,
					s.Value,
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Project scope")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Only the most recent N samples")

	return cmd
}
