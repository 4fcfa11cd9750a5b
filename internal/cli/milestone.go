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

// MilestoneCmd returns the milestone command
func MilestoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage the local milestone view",
	}

	cmd.AddCommand(milestoneCreateCmd())
	cmd.AddCommand(milestoneListCmd())
	cmd.AddCommand(milestoneStatusCmd())
	cmd.AddCommand(milestoneDueCmd())

	return cmd
}

func milestoneCreateCmd() *cobra.Command {
	var projectID, dueDate, status string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register a milestone under a project",
		Long: `Register a milestone under a project.

Examples:
  vigil milestone create "Schematic sign-off" --project PROJ-001 --due 2026-09-15T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := wire.ProjectService().CreateMilestone(context.Background(), primary.CreateMilestoneRequest{
				ProjectID: projectID,
				Name:      args[0],
				DueDate:   dueDate,
				Status:    status,
			})
			if err != nil {
				return fmt.Errorf("failed to create milestone: %w", err)
			}

			fmt.Printf("✓ Created milestone %s: %s\n", m.ID, m.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID (required)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (RFC3339)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default pending)")
	cmd.MarkFlagRequired("project")

	return cmd
}

func milestoneListCmd() *cobra.Command {
	var projectID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			milestones, err := wire.ProjectService().ListMilestones(context.Background(), primary.MilestoneFilters{
				ProjectID: projectID,
				Status:    status,
			})
			if err != nil {
				return fmt.Errorf("failed to list milestones: %w", err)
			}

			if len(milestones) == 0 {
				fmt.Println("No milestones found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tPROJECT\tNAME\tDUE\tSTATUS\tCOMPLETED")
			for _, m := range milestones {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					m.ID,
					m.ProjectID,
					m.Name,
					dash(formatDate(m.DueDate)),
					m.Status,
					dash(formatDate(m.CompletedDate)),
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Filter by project ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")

	return cmd
}

func milestoneStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [milestone-id] [status]",
		Short: "Set a milestone's status",
		Long: `Set a milestone's status (pending, in_progress, completed, cancelled).
Completing a milestone clears its overdue condition; the engine resets
the matching escalation ladders on the next cycle.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.ProjectService().SetMilestoneStatus(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Milestone %s status set to %s\n", args[0], args[1])
			return nil
		},
	}
}

func milestoneDueCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "due [milestone-id] [due-date]",
		Short: "Set or clear a milestone's due date",
		Long: `Set a milestone's due date (RFC3339), or clear it with --clear.
A milestone without a due date never matches overdue or due-soon rules.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate := ""
			if !clear {
				if len(args) < 2 {
					return fmt.Errorf("due date required (or pass --clear)")
				}
				dueDate = args[1]
			}

			if err := wire.ProjectService().SetMilestoneDueDate(context.Background(), args[0], dueDate); err != nil {
				return err
			}
			if clear {
				fmt.Printf("✓ Milestone %s due date cleared\n", args[0])
			} else {
				fmt.Printf("✓ Milestone %s due %s\n", args[0], dueDate)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the due date")

	return cmd
}
