package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print ward population figures and stored dataset counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := demographics.NewRepository(db.DB).Summaries(cmd.Context())
			if err != nil {
				return err
			}
			counts, err := wardstats.NewRepository(db.DB).Counts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderWards(out, demographics.SummarizeMunicipality(rows))
			fmt.Fprintln(out)
			renderCounts(out, counts)
			return nil
		},
	}
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func renderWards(out io.Writer, m demographics.MunicipalityStats) {
	table := newTable(out, "Ward", "Population", "Households", "Share (%)", "Sex ratio", "Household size")
	for _, w := range m.Wards {
		table.Append([]string{
			strconv.Itoa(w.WardNumber),
			strconv.Itoa(w.Population),
			strconv.Itoa(w.Households),
			num(w.Percentage),
			num(w.SexRatio),
			num(w.AverageHouseholdSize),
		})
	}
	table.SetFooter([]string{
		"Total",
		strconv.Itoa(m.TotalPopulation),
		strconv.Itoa(m.TotalHouseholds),
		"100.00",
		num(m.SexRatio),
		num(m.AverageHouseholdSize),
	})
	table.Render()
	fmt.Fprintf(out, "mean ward population %s, std dev %s, cv %s%%\n",
		num(m.MeanWardPopulation), num(m.WardPopulationStdDev), num(m.WardPopulationCV))
}

func renderCounts(out io.Writer, counts []wardstats.DatasetCount) {
	table := newTable(out, "Dataset", "Rows", "Total")
	for _, c := range counts {
		table.Append([]string{c.Dataset, strconv.FormatInt(c.Rows, 10), num(c.Total)})
	}
	table.Render()
}
