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

// StateCmd returns the state command
func StateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and reset escalation state",
		Long: `Inspect per-(rule, entity) escalation progression and reset it.
A reset pair re-escalates from the bottom of its ladder on the next
matching cycle.`,
	}

	cmd.AddCommand(stateListCmd())
	cmd.AddCommand(stateResetCmd())

	return cmd
}

func stateListCmd() *cobra.Command {
	var ruleID, entityID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List escalation states",
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := wire.StateService().ListStates(context.Background(), primary.StateFilters{
				RuleID:   ruleID,
				EntityID: entityID,
			})
			if err != nil {
				return fmt.Errorf("failed to list states: %w", err)
			}

			if len(states) == 0 {
				fmt.Println("No escalation state. All pairs are dormant.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "RULE\tENTITY\tHIGHEST LEVEL\tRANK\tLAST EVALUATED\tLAST ACTION")
			for _, s := range states {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					s.RuleID,
					s.EntityID,
					s.HighestLevel,
					s.HighestRank,
					dash(s.LastEvaluatedAt),
					dash(s.LastActionAt),
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleID, "rule", "", "Filter by rule ID")
	cmd.Flags().StringVar(&entityID, "entity", "", "Filter by entity ID")

	return cmd
}

func stateResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [rule-id] [entity-id]",
		Short: "Reset one (rule, entity) pair to dormant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.StateService().ResetState(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Reset escalation state for %s/%s\n", args[0], args[1])
			return nil
		},
	}
}
