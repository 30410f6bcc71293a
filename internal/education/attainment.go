package education

import (
	"slices"

	"github.com/PalikaProfile/Profile-Backend/internal/stats"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

var higherLevels = []string{"bachelor", "master", "phd"}

type Attainment struct {
	WardNumber        int     `json:"ward_number,omitempty"`
	Population        float64 `json:"population"`
	Secondary         float64 `json:"secondary"`
	Higher            float64 `json:"higher"`
	SecondaryShare    float64 `json:"secondary_share"`
	HigherShare       float64 `json:"higher_share"`
	FemaleHigherShare float64 `json:"female_higher_share"`
}

type AttainmentReport struct {
	Overall Attainment   `json:"overall"`
	Wards   []Attainment `json:"wards"`
}

// EducationalAttainment reports how much of the population reached secondary
// and higher education, from the educational-level dataset.
func EducationalAttainment(rows []wardstats.WardCategoryStat) AttainmentReport {
	report := AttainmentReport{Overall: attainment(rows)}
	byWard := stats.GroupBy(rows, func(r wardstats.WardCategoryStat) int { return r.WardNumber })
	for _, n := range stats.SortedKeys(byWard.Items) {
		a := attainment(byWard.Items[n])
		a.WardNumber = n
		report.Wards = append(report.Wards, a)
	}
	return report
}

func attainment(rows []wardstats.WardCategoryStat) Attainment {
	var a Attainment
	var higherFemale float64
	for _, r := range rows {
		a.Population += r.Value
		switch {
		case r.Category == "secondary":
			a.Secondary += r.Value
		case slices.Contains(higherLevels, r.Category):
			a.Higher += r.Value
			if r.Gender == "female" {
				higherFemale += r.Value
			}
		}
	}
	a.SecondaryShare = stats.Round(stats.Percentage(a.Secondary, a.Population), 2)
	a.HigherShare = stats.Round(stats.Percentage(a.Higher, a.Population), 2)
	a.FemaleHigherShare = stats.Round(stats.Percentage(higherFemale, a.Higher), 2)
	return a
}
