package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/db"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with development fixtures",
		Long: `Populate the database with development fixtures: two projects,
milestones in assorted states (including overdue ones), and metric
series that exercise threshold and deviation rules. Intended for a
fresh database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}

			fmt.Println("✓ Fixtures seeded")
			fmt.Println()
			fmt.Println("Try:")
			fmt.Println("  vigil template instantiate TPL-OVERDUE-LADDER")
			fmt.Println("  vigil run --dry-run")

			return nil
		},
	}
}
