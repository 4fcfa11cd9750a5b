package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// TemplateCmd returns the template command
func TemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Browse and instantiate rule templates",
		Long:  `Browse the built-in template catalog and create rules from templates.`,
	}

	cmd.AddCommand(templateListCmd())
	cmd.AddCommand(templateShowCmd())
	cmd.AddCommand(templateInstantiateCmd())

	return cmd
}

func templateListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := wire.TemplateService().ListTemplates(context.Background(), category)
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}

			if len(templates) == 0 {
				fmt.Println("No templates found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTRIGGER")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Category, t.TriggerType)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category (milestone, metric)")

	return cmd
}

func templateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [template-id]",
		Short: "Show a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := wire.TemplateService().GetTemplate(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("template not found: %w", err)
			}

			fmt.Printf("Template: %s\n", t.ID)
			fmt.Printf("Name: %s\n", t.Name)
			if t.Description != "" {
				fmt.Printf("Description: %s\n", t.Description)
			}
			fmt.Printf("Category: %s\n", t.Category)
			fmt.Printf("Trigger: %s\n", t.TriggerType)
			if t.Trigger.Metric != "" {
				fmt.Printf("Metric: %s %s", t.Trigger.Metric, t.Trigger.Operator)
				if t.Trigger.Threshold != nil {
					fmt.Printf(" %.4g", *t.Trigger.Threshold)
				}
				fmt.Println()
			}

			if len(t.Levels) > 0 {
				fmt.Println("\nEscalation ladder:")
				for i, lvl := range t.Levels {
					fmt.Printf("  %d. %s at %.4g\n", i+1, lvl.Level, lvl.ThresholdValue)
				}
			}
			if len(t.Actions) > 0 {
				fmt.Println("\nDefault actions:")
				for _, a := range t.Actions {
					fmt.Printf("  - %s\n", a.Type)
				}
			}

			return nil
		},
	}
}

func templateInstantiateCmd() *cobra.Command {
	var name, scope, metric string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "instantiate [template-id]",
		Short: "Create a rule from a template",
		Long: `Create a rule from a template with optional overrides. The resulting
definition goes through the same validation as a hand-written rule.

Examples:
  vigil template instantiate TPL-OVERDUE-LADDER --scope PROJ-001
  vigil template instantiate TPL-LOW-COMPLIANCE --scope PROJ-002 --threshold 0.85`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := rule.Overrides{
				Name:   name,
				Scope:  scope,
				Metric: metric,
			}
			if cmd.Flags().Changed("threshold") {
				overrides.Threshold = &threshold
			}

			created, err := wire.RuleService().CreateFromTemplate(context.Background(), primary.CreateFromTemplateRequest{
				TemplateID: args[0],
				Overrides:  overrides,
			})
			if err != nil {
				return fmt.Errorf("failed to instantiate template: %w", err)
			}

			fmt.Printf("✓ Created rule %s: %s\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Override the rule name")
	cmd.Flags().StringVar(&scope, "scope", "", "Limit the rule to one project")
	cmd.Flags().StringVar(&metric, "metric", "", "Override the metric name")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Override the trigger threshold")

	return cmd
}
