package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// ProjectCmd returns the project command
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the local project view",
		Long: `Manage the engine's local view of projects. In production this view
is fed by the upstream project tool; these commands exist for
development and standalone use.`,
	}

	cmd.AddCommand(projectCreateCmd())
	cmd.AddCommand(projectListCmd())
	cmd.AddCommand(projectShowCmd())
	cmd.AddCommand(projectStatusCmd())

	return cmd
}

func projectCreateCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := wire.ProjectService().CreateProject(context.Background(), primary.CreateProjectRequest{
				Name:   args[0],
				Status: status,
			})
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			fmt.Printf("✓ Created project %s: %s\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Initial status (default active)")

	return cmd
}

func projectListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := wire.ProjectService().ListProjects(context.Background(), primary.ProjectFilters{Status: status})
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCREATED")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Status, formatTimestamp(p.CreatedAt))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")

	return cmd
}

func projectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show a project and its milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			p, err := wire.ProjectService().GetProject(ctx, args[0])
			if err != nil {
				return fmt.Errorf("project not found: %w", err)
			}

			fmt.Printf("Project: %s\n", p.ID)
			fmt.Printf("Name: %s\n", p.Name)
			fmt.Printf("Status: %s\n", p.Status)
			fmt.Printf("Created: %s\n", formatTimestamp(p.CreatedAt))

			milestones, err := wire.ProjectService().ListMilestones(ctx, primary.MilestoneFilters{ProjectID: p.ID})
			if err != nil {
				return fmt.Errorf("failed to list milestones: %w", err)
			}
			if len(milestones) == 0 {
				return nil
			}

			fmt.Println("\nMilestones:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "  ID\tNAME\tDUE\tSTATUS")
			for _, m := range milestones {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", m.ID, m.Name, dash(formatDate(m.DueDate)), m.Status)
			}
			w.Flush()
			return nil
		},
	}
}

func projectStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [project-id] [status]",
		Short: "Set a project's status",
		Long:  `Set a project's status (active, on_hold, at_risk, complete, archived).`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.ProjectService().SetProjectStatus(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Project %s status set to %s\n", args[0], args[1])
			return nil
		},
	}
}

func formatDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02")
}
