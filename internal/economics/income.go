package economics

import (
	"slices"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/stats"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

// AgriculturalSources are the income sources counted as farm dependent.
var AgriculturalSources = []string{"agriculture", "animal-husbandry"}

const foreignEmployment = "foreign-employment"

type DependencyStats struct {
	WardNumber                  int     `json:"ward_number,omitempty"`
	Households                  float64 `json:"households"`
	Agricultural                float64 `json:"agricultural"`
	NonAgricultural             float64 `json:"non_agricultural"`
	AgriculturalPercentage      float64 `json:"agricultural_percentage"`
	NonAgriculturalPercentage   float64 `json:"non_agricultural_percentage"`
	ForeignEmployment           float64 `json:"foreign_employment"`
	ForeignEmploymentPercentage float64 `json:"foreign_employment_percentage"`
	DominantSource              string  `json:"dominant_source"`
	DominantLabel               string  `json:"dominant_label"`
}

type IncomeDependencyReport struct {
	Overall DependencyStats   `json:"overall"`
	Wards   []DependencyStats `json:"wards"`
	// Ward most reliant on farming; 0 when there is no data.
	MostAgriculturalWard int `json:"most_agricultural_ward"`
}

func IncomeDependency(ds profile.Dataset, rows []wardstats.WardCategoryStat, locale string) IncomeDependencyReport {
	report := IncomeDependencyReport{Overall: dependencyStats(ds, rows, locale)}

	byWard := stats.GroupBy(rows, func(r wardstats.WardCategoryStat) int { return r.WardNumber })
	best := -1.0
	for _, n := range stats.SortedKeys(byWard.Items) {
		s := dependencyStats(ds, byWard.Items[n], locale)
		s.WardNumber = n
		report.Wards = append(report.Wards, s)
		if s.Households > 0 && s.AgriculturalPercentage > best {
			best = s.AgriculturalPercentage
			report.MostAgriculturalWard = n
		}
	}
	return report
}

func dependencyStats(ds profile.Dataset, rows []wardstats.WardCategoryStat, locale string) DependencyStats {
	var s DependencyStats
	totals := make(map[string]float64)
	for _, r := range rows {
		totals[r.Category] += r.Value
		s.Households += r.Value
		if slices.Contains(AgriculturalSources, r.Category) {
			s.Agricultural += r.Value
		} else {
			s.NonAgricultural += r.Value
		}
		if r.Category == foreignEmployment {
			s.ForeignEmployment += r.Value
		}
	}
	s.AgriculturalPercentage = stats.Round(stats.Percentage(s.Agricultural, s.Households), 2)
	s.NonAgriculturalPercentage = stats.Round(stats.Percentage(s.NonAgricultural, s.Households), 2)
	s.ForeignEmploymentPercentage = stats.Round(stats.Percentage(s.ForeignEmployment, s.Households), 2)
	if key, ok := stats.Dominant(totals); ok {
		s.DominantSource = key
		s.DominantLabel = ds.Label(key, locale)
	}
	return s
}
