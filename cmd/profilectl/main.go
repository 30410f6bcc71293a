// Command profilectl manages the profile database: migrations, seeding,
// dataset imports and admin accounts.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/PalikaProfile/Profile-Backend/internal/auth"
	"github.com/PalikaProfile/Profile-Backend/internal/config"
	"github.com/PalikaProfile/Profile-Backend/internal/culture"
	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "profilectl",
		Short:        "Administer the municipal profile database.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(".env.local")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console"})
			db.Connect(cfg.Database)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newImportCmd(),
		newSummaryCmd(),
		newCreateAdminCmd(),
	)
	return root
}

// migrate creates every schema, extension and table the server needs.
func migrate() {
	auth.Init()
	profile.Init()
	wardstats.Init()
	demographics.Init()
	culture.Init()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create schemas and tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate()
			logging.Info().Msg("Migrations complete")
			return nil
		},
	}
}
