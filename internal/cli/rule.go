package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/wire"
)

// RuleCmd returns the rule command
func RuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage automation rules",
		Long:  `Create, list, validate, and manage the rules the engine evaluates each cycle.`,
	}

	cmd.AddCommand(ruleCreateCmd())
	cmd.AddCommand(ruleListCmd())
	cmd.AddCommand(ruleShowCmd())
	cmd.AddCommand(ruleEnableCmd())
	cmd.AddCommand(ruleDisableCmd())
	cmd.AddCommand(ruleDeleteCmd())
	cmd.AddCommand(ruleValidateCmd())
	cmd.AddCommand(ruleImportCmd())

	return cmd
}

func ruleCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a rule from a YAML definition",
		Long: `Create a rule from a YAML definition file. The definition is fully
validated before anything is persisted; an invalid definition is
rejected with every violation listed.

Examples:
  vigil rule create -f overdue.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			def, err := readRuleFile(file)
			if err != nil {
				return err
			}

			created, err := wire.RuleService().CreateRule(ctx, primary.CreateRuleRequest{Definition: *def})
			if err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Printf("✓ Created rule %s: %s\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML rule definition (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func ruleListCmd() *cobra.Command {
	var scope, triggerType string
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filters := primary.RuleFilters{Scope: scope, TriggerType: triggerType}
			if enabledOnly {
				t := true
				filters.Enabled = &t
			}

			rules, err := wire.RuleService().ListRules(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println("No rules found.")
				fmt.Println()
				fmt.Println("Create one from a template:")
				fmt.Println("  vigil template list")
				fmt.Println("  vigil template instantiate TPL-OVERDUE-LADDER --scope PROJ-001")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTRIGGER\tSCOPE\tLEVELS\tENABLED")
			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					r.ID,
					r.Name,
					r.TriggerType,
					dash(r.Scope),
					len(r.Levels),
					yesNo(r.Enabled),
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Filter by project scope")
	cmd.Flags().StringVar(&triggerType, "trigger", "", "Filter by trigger type")
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "Only enabled rules")

	return cmd
}

func ruleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [rule-id]",
		Short: "Show a rule definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			r, err := wire.RuleService().GetRule(ctx, args[0])
			if err != nil {
				return fmt.Errorf("rule not found: %w", err)
			}

			fmt.Printf("Rule: %s\n", r.ID)
			fmt.Printf("Name: %s\n", r.Name)
			if r.Description != "" {
				fmt.Printf("Description: %s\n", r.Description)
			}
			fmt.Printf("Trigger: %s\n", r.TriggerType)
			fmt.Printf("Scope: %s\n", dash(r.Scope))
			fmt.Printf("Enabled: %s\n", yesNo(r.Enabled))
			if r.Severity != "" {
				fmt.Printf("Severity: %s\n", r.Severity)
			}
			fmt.Printf("Created: %s\n", r.CreatedAt)

			if len(r.Levels) > 0 {
				fmt.Println("\nEscalation ladder:")
				for i, lvl := range r.Levels {
					fmt.Printf("  %d. %s at %.4g", i+1, lvl.Level, lvl.ThresholdValue)
					if len(lvl.Actions) > 0 {
						fmt.Printf(" (%d action override(s))", len(lvl.Actions))
					}
					fmt.Println()
				}
			}

			if len(r.Actions) > 0 {
				fmt.Println("\nDefault actions:")
				for _, a := range r.Actions {
					fmt.Printf("  - %s\n", a.Type)
				}
			}

			return nil
		},
	}
}

func ruleEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable [rule-id]",
		Short: "Enable a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RuleService().SetRuleEnabled(context.Background(), args[0], true); err != nil {
				return err
			}
			fmt.Printf("✓ Rule %s enabled\n", args[0])
			return nil
		},
	}
}

func ruleDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable [rule-id]",
		Short: "Disable a rule",
		Long: `Disable a rule. Escalation state is kept: a re-enabled rule resumes
from its recorded high-water marks instead of re-firing old levels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RuleService().SetRuleEnabled(context.Background(), args[0], false); err != nil {
				return err
			}
			fmt.Printf("✓ Rule %s disabled\n", args[0])
			return nil
		},
	}
}

func ruleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [rule-id]",
		Short: "Delete a rule and its escalation state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RuleService().DeleteRule(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Rule %s deleted\n", args[0])
			return nil
		},
	}
}

func ruleValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a YAML definition without persisting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readRuleFile(file)
			if err != nil {
				return err
			}

			errs := wire.RuleService().ValidateDefinition(*def)
			if len(errs) == 0 {
				fmt.Println("✓ Definition is valid")
				return nil
			}

			fmt.Printf("✗ %d validation error(s):\n", len(errs))
			for _, e := range errs {
				fmt.Printf("  - %s\n", e.Error())
			}
			os.Exit(1)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML rule definition (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func ruleImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a batch of rules from a YAML file",
		Long: `Import a YAML file containing a list of rule definitions. Each
definition is validated independently: valid ones are created, invalid
ones are reported and skipped.

Examples:
  vigil rule import -f rules.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			var defs []rule.Rule
			if err := yaml.Unmarshal(data, &defs); err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}

			report, err := wire.RuleService().ImportRules(ctx, defs)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			for _, id := range report.Created {
				fmt.Printf("✓ Created %s\n", id)
			}
			for _, rej := range report.Rejected {
				name := rej.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("✗ Rejected %s:\n", name)
				for _, e := range rej.Errors {
					fmt.Printf("    - %s\n", e.Error())
				}
			}

			fmt.Printf("\n%d created, %d rejected\n", len(report.Created), len(report.Rejected))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a list of definitions (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

// readRuleFile parses a single YAML rule definition.
func readRuleFile(path string) (*rule.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var def rule.Rule
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &def, nil
}
