package main

import (
	"github.com/spf13/cobra"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/seeds"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML profile (the built-in sample by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seeds.Load(file)
			if err != nil {
				return err
			}
			migrate()
			if err := seeds.SeedAll(cmd.Context(), db.DB, f); err != nil {
				return err
			}
			logging.Info().Str("municipality", f.Municipality.Name).Msg("Seeding complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file; empty uses the embedded sample")
	return cmd
}
