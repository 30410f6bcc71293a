package education

import (
	"github.com/PalikaProfile/Profile-Backend/internal/stats"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

const (
	ReadAndWrite = "both-reading-and-writing"
	ReadOnly     = "reading-only"
	Illiterate   = "illiterate"
)

type LiteracyStats struct {
	WardNumber       int     `json:"ward_number,omitempty"`
	Population       float64 `json:"population"`
	Literate         float64 `json:"literate"`
	FullyLiterate    float64 `json:"fully_literate"`
	Illiterate       float64 `json:"illiterate"`
	LiteracyRate     float64 `json:"literacy_rate"`
	FullLiteracyRate float64 `json:"full_literacy_rate"`
	MaleRate         float64 `json:"male_rate"`
	FemaleRate       float64 `json:"female_rate"`
	// Male rate minus female rate, in percentage points.
	GenderGap float64 `json:"gender_gap"`
}

type LiteracyReport struct {
	Overall     LiteracyStats   `json:"overall"`
	Wards       []LiteracyStats `json:"wards"`
	LowestWard  int             `json:"lowest_ward"`
	HighestWard int             `json:"highest_ward"`
}

type tally struct {
	total, literate, full, illiterate float64
}

func (t *tally) add(r wardstats.WardCategoryStat) {
	t.total += r.Value
	switch r.Category {
	case ReadAndWrite:
		t.literate += r.Value
		t.full += r.Value
	case ReadOnly:
		t.literate += r.Value
	case Illiterate:
		t.illiterate += r.Value
	}
}

func (t tally) rate() float64 {
	return stats.Percentage(t.literate, t.total)
}

// LiteracyRates reduces the literacy-status dataset. A person who can read but
// not write counts as literate; the full rate counts reading and writing only.
func LiteracyRates(rows []wardstats.WardCategoryStat) LiteracyReport {
	report := LiteracyReport{Overall: literacyStats(rows)}

	byWard := stats.GroupBy(rows, func(r wardstats.WardCategoryStat) int { return r.WardNumber })
	lowest, highest := 0, 0
	for _, n := range stats.SortedKeys(byWard.Items) {
		s := literacyStats(byWard.Items[n])
		s.WardNumber = n
		report.Wards = append(report.Wards, s)

		i := len(report.Wards) - 1
		if s.LiteracyRate < report.Wards[lowest].LiteracyRate {
			lowest = i
		}
		if s.LiteracyRate > report.Wards[highest].LiteracyRate {
			highest = i
		}
	}
	if len(report.Wards) > 0 {
		report.LowestWard = report.Wards[lowest].WardNumber
		report.HighestWard = report.Wards[highest].WardNumber
	}
	return report
}

func literacyStats(rows []wardstats.WardCategoryStat) LiteracyStats {
	var all, male, female tally
	for _, r := range rows {
		all.add(r)
		switch r.Gender {
		case "male":
			male.add(r)
		case "female":
			female.add(r)
		}
	}

	s := LiteracyStats{
		Population:       all.total,
		Literate:         all.literate,
		FullyLiterate:    all.full,
		Illiterate:       all.illiterate,
		LiteracyRate:     stats.Round(all.rate(), 2),
		FullLiteracyRate: stats.Round(stats.Percentage(all.full, all.total), 2),
		MaleRate:         stats.Round(male.rate(), 2),
		FemaleRate:       stats.Round(female.rate(), 2),
	}
	if male.total > 0 && female.total > 0 {
		s.GenderGap = stats.Round(male.rate()-female.rate(), 2)
	}
	return s
}
