package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/importer"
)

func newImportCmd() *cobra.Command {
	var cfg importer.Config
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace one dataset with the rows of a CSV file",
		Long: "Replace one dataset with the rows of a CSV file.\n\n" +
			"The file needs ward, category and value columns, plus gender for\n" +
			"datasets split by gender. Existing rows of the dataset are deleted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importer.Run(cmd.Context(), db.DB, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s (total %.0f)\n", res.Rows, res.Dataset, res.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Dataset, "dataset", "", "dataset key, e.g. religion")
	cmd.Flags().StringVar(&cfg.CSVPath, "csv", "", "path to the CSV file")
	cmd.Flags().StringVar(&cfg.Namespace, "namespace", "", "uuid namespace for row ids")
	cmd.Flags().IntVar(&cfg.RowsPerSecond, "rate", 0, "max rows inserted per second, 0 for unlimited")
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}
