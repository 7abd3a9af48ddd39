package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thedreamteamconsultancy/workstatus/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or roll back the PostgreSQL schema",
	Long: `Run the embedded schema migrations against database.url.

Reads the DSN from --database-url, WORKSTATUS_DATABASE_URL, or the config file.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func runMigrate(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dsn := cfg.Database.URL
	if dsn == "" {
		return fmt.Errorf("database.url is not set")
	}

	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	switch direction {
	case "up":
		err = postgres.Migrate(dsn)
	case "down":
		err = postgres.Down(dsn)
	default:
		return fmt.Errorf("unknown direction %q (want up or down)", direction)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	fmt.Printf("migrations %s complete\n", direction)
	return nil
}

