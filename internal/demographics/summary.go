package demographics

import (
	"cmp"
	"slices"

	"github.com/PalikaProfile/Profile-Backend/internal/stats"
)

type WardShare struct {
	WardNumber           int     `json:"ward_number"`
	Population           int     `json:"population"`
	Households           int     `json:"households"`
	Percentage           float64 `json:"percentage"`
	SexRatio             float64 `json:"sex_ratio"`
	AverageHouseholdSize float64 `json:"average_household_size"`
}

// MunicipalityStats totals the ward summaries and describes how population
// is spread across wards.
type MunicipalityStats struct {
	TotalPopulation        int         `json:"total_population"`
	MalePopulation         int         `json:"male_population"`
	FemalePopulation       int         `json:"female_population"`
	OtherPopulation        int         `json:"other_population"`
	TotalHouseholds        int         `json:"total_households"`
	SexRatio               float64     `json:"sex_ratio"`
	AverageHouseholdSize   float64     `json:"average_household_size"`
	WardCount              int         `json:"ward_count"`
	MeanWardPopulation     float64     `json:"mean_ward_population"`
	WardPopulationVariance float64     `json:"ward_population_variance"`
	WardPopulationStdDev   float64     `json:"ward_population_std_dev"`
	WardPopulationCV       float64     `json:"ward_population_cv"`
	LargestWard            int         `json:"largest_ward"`
	SmallestWard           int         `json:"smallest_ward"`
	Wards                  []WardShare `json:"wards"`
}

// SummarizeMunicipality reduces per-ward rows. Ratios are recomputed from the
// totals rather than averaged across wards.
func SummarizeMunicipality(rows []WardSummary) MunicipalityStats {
	var m MunicipalityStats
	if len(rows) == 0 {
		return m
	}

	rows = slices.Clone(rows)
	slices.SortFunc(rows, func(a, b WardSummary) int { return cmp.Compare(a.WardNumber, b.WardNumber) })

	populations := make([]float64, len(rows))
	largest, smallest := 0, 0
	for i, r := range rows {
		m.MalePopulation += r.MalePopulation
		m.FemalePopulation += r.FemalePopulation
		m.OtherPopulation += r.OtherPopulation
		m.TotalHouseholds += r.TotalHouseholds
		populations[i] = float64(population(r))

		// Ties keep the lower ward number.
		if populations[i] > populations[largest] {
			largest = i
		}
		if populations[i] < populations[smallest] {
			smallest = i
		}
	}
	m.TotalPopulation = m.MalePopulation + m.FemalePopulation + m.OtherPopulation
	m.WardCount = len(rows)
	m.LargestWard = rows[largest].WardNumber
	m.SmallestWard = rows[smallest].WardNumber

	m.SexRatio = stats.Round(stats.SexRatio(float64(m.MalePopulation), float64(m.FemalePopulation)), 2)
	m.AverageHouseholdSize = stats.Round(stats.AverageHouseholdSize(float64(m.TotalPopulation), float64(m.TotalHouseholds)), 2)
	m.MeanWardPopulation = stats.Round(stats.Mean(populations), 2)
	m.WardPopulationVariance = stats.Round(stats.Variance(populations), 2)
	m.WardPopulationStdDev = stats.Round(stats.StdDev(populations), 2)
	m.WardPopulationCV = stats.Round(stats.CoefficientOfVariation(populations), 2)

	m.Wards = make([]WardShare, len(rows))
	for i, r := range rows {
		pop := population(r)
		m.Wards[i] = WardShare{
			WardNumber:           r.WardNumber,
			Population:           pop,
			Households:           r.TotalHouseholds,
			Percentage:           stats.Round(stats.Percentage(float64(pop), float64(m.TotalPopulation)), 2),
			SexRatio:             stats.Round(stats.SexRatio(float64(r.MalePopulation), float64(r.FemalePopulation)), 2),
			AverageHouseholdSize: stats.Round(stats.AverageHouseholdSize(float64(pop), float64(r.TotalHouseholds)), 2),
		}
	}
	return m
}

func population(r WardSummary) int {
	return r.MalePopulation + r.FemalePopulation + r.OtherPopulation
}
