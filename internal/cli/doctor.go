package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/adapters/sqlite"
	"github.com/example/vigil/internal/app"
	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/db"
	"github.com/example/vigil/internal/ports/secondary"
	"github.com/example/vigil/internal/version"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the vigil environment",
		Long:  `Check that the database exists, opens, and carries the expected tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runChecks()

			failed := 0
			for _, r := range results {
				if r.Status == "✗" {
					failed++
				}
				if quiet && r.Status == "✓" {
					continue
				}
				fmt.Printf("%s %s\n", r.Status, r.Name)
				if r.Details != "" && r.Status != "✓" {
					fmt.Printf("    %s\n", r.Details)
				}
			}

			if failed > 0 {
				fmt.Printf("\n%d check(s) failed\n", failed)
				os.Exit(1)
			}
			if !quiet {
				fmt.Println("\nAll checks passed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only show warnings and failures")

	return cmd
}

func runChecks() []CheckResult {
	var results []CheckResult

	results = append(results, CheckResult{Name: "version: " + version.String(), Status: "✓"})

	dbPath, err := db.DefaultPath()
	if err != nil {
		results = append(results, CheckResult{
			Name: "database path", Status: "✗", Details: err.Error(),
		})
		return results
	}

	if _, err := os.Stat(dbPath); err != nil {
		results = append(results, CheckResult{
			Name: "database exists", Status: "✗",
			Details: fmt.Sprintf("%s missing; run 'vigil init'", dbPath),
		})
		return results
	}
	results = append(results, CheckResult{Name: "database exists: " + dbPath, Status: "✓"})

	database, err := db.GetDB()
	if err != nil {
		results = append(results, CheckResult{Name: "database opens", Status: "✗", Details: err.Error()})
		return results
	}
	results = append(results, CheckResult{Name: "database opens", Status: "✓"})

	for _, table := range []string{"projects", "milestones", "rules", "escalation_states", "execution_log", "alerts", "metric_samples"} {
		var count int
		err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
		if err != nil || count == 0 {
			results = append(results, CheckResult{
				Name: "table " + table, Status: "✗",
				Details: "missing; run 'vigil init'",
			})
			continue
		}
		results = append(results, CheckResult{Name: "table " + table, Status: "✓"})
	}

	results = append(results, checkSchemaVersion(database))

	var rules int
	if err := database.QueryRow("SELECT COUNT(*) FROM rules WHERE enabled = 1").Scan(&rules); err == nil && rules == 0 {
		results = append(results, CheckResult{
			Name: "active rules", Status: "⚠",
			Details: "no enabled rules; cycles will evaluate nothing",
		})
	} else if err == nil {
		results = append(results, CheckResult{Name: fmt.Sprintf("active rules: %d", rules), Status: "✓"})
	}

	results = append(results, checkRuleDefinitions(database))

	// Orphaned state rows survive rule deletion only if the foreign key
	// was off when the delete ran; flag them rather than auto-cleaning.
	var orphans int
	err = database.QueryRow(
		"SELECT COUNT(*) FROM escalation_states WHERE rule_id NOT IN (SELECT id FROM rules)",
	).Scan(&orphans)
	if err == nil && orphans > 0 {
		results = append(results, CheckResult{
			Name: "orphaned escalation state", Status: "⚠",
			Details: fmt.Sprintf("%d state row(s) reference deleted rules; 'vigil state reset' to clear", orphans),
		})
	} else if err == nil {
		results = append(results, CheckResult{Name: "no orphaned escalation state", Status: "✓"})
	}

	results = append(results, checkStateLogConsistency(database))

	return results
}

// checkSchemaVersion compares the recorded schema version against the
// latest known migration.
func checkSchemaVersion(database *sql.DB) CheckResult {
	var recorded int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&recorded)
	if err != nil {
		return CheckResult{Name: "schema version", Status: "✗", Details: err.Error()}
	}

	latest := db.LatestSchemaVersion()
	if recorded < latest {
		return CheckResult{
			Name: "schema version", Status: "✗",
			Details: fmt.Sprintf("database at version %d, latest is %d; run 'vigil init'", recorded, latest),
		}
	}
	return CheckResult{Name: fmt.Sprintf("schema version: %d", recorded), Status: "✓"}
}

// checkRuleDefinitions re-validates every stored rule. Rules are
// validated at save time, so a failure here means the row was edited
// outside vigil or written by an older build.
func checkRuleDefinitions(database *sql.DB) CheckResult {
	records, err := sqlite.NewRuleRepository(database).List(context.Background(), secondary.RuleFilters{})
	if err != nil {
		return CheckResult{Name: "rule definitions", Status: "✗", Details: err.Error()}
	}

	var invalid []string
	for _, rec := range records {
		if errs := rule.Validate(&rec.Rule); len(errs) > 0 {
			invalid = append(invalid, fmt.Sprintf("%s (%s)", rec.Rule.ID, errs[0].Error()))
		}
	}
	if len(invalid) > 0 {
		return CheckResult{
			Name: "rule definitions", Status: "⚠",
			Details: fmt.Sprintf("%d invalid rule(s): %s; fix with 'vigil rule validate'", len(invalid), invalid[0]),
		}
	}
	return CheckResult{Name: fmt.Sprintf("rule definitions valid: %d", len(records)), Status: "✓"}
}

// checkStateLogConsistency cross-checks escalation state rows against
// the execution log via the state service audit.
func checkStateLogConsistency(database *sql.DB) CheckResult {
	svc := app.NewStateService(
		sqlite.NewStateRepository(database),
		sqlite.NewExecutionLogRepository(database),
	)
	drift, err := svc.AuditStates(context.Background())
	if err != nil {
		return CheckResult{Name: "state/log consistency", Status: "✗", Details: err.Error()}
	}
	if len(drift) > 0 {
		first := drift[0]
		return CheckResult{
			Name: "state/log consistency", Status: "⚠",
			Details: fmt.Sprintf("%d state row(s) without an actioned log entry, first (%s, %s) at %s; 'vigil state reset' to clear",
				len(drift), first.RuleID, first.EntityID, first.HighestLevel),
		}
	}
	return CheckResult{Name: "state/log consistency", Status: "✓"}
}
