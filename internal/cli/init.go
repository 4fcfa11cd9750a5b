package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vigil/internal/config"
	"github.com/example/vigil/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the vigil database",
		Long: `Initialize the vigil database at ~/.vigil/vigil.db with the required
schema, and write a starter .vigil/config.json in the working directory
if none exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing vigil database at %s\n", dbPath)

			if _, err := db.Open(dbPath); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			if _, err := config.LoadConfig("."); err != nil {
				if err := config.SaveConfig(".", &config.Config{Version: "1"}); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Println("✓ Wrote .vigil/config.json")
			}

			fmt.Println("✓ Database initialized successfully")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  vigil project create \"My First Project\"")
			fmt.Println("  vigil template list")
			fmt.Println("  vigil run")

			return nil
		},
	}
}
