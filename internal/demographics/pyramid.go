package demographics

import (
	"strconv"
	"strings"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/stats"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

const (
	workingAgeFrom = 15
	elderlyFrom    = 65
)

type AgeBand struct {
	Key              string  `json:"key"`
	Label            string  `json:"label"`
	MinAge           int     `json:"min_age"`
	Male             float64 `json:"male"`
	Female           float64 `json:"female"`
	Other            float64 `json:"other"`
	Total            float64 `json:"total"`
	MalePercentage   float64 `json:"male_percentage"`
	FemalePercentage float64 `json:"female_percentage"`
	Percentage       float64 `json:"percentage"`
}

type WardTotal struct {
	WardNumber int     `json:"ward_number"`
	Total      float64 `json:"total"`
	Young      float64 `json:"young"`
	Working    float64 `json:"working"`
	Elderly    float64 `json:"elderly"`
	// Dependants per 100 working-age residents.
	DependencyRatio float64 `json:"dependency_ratio"`
}

// AgePyramid is the age-groups dataset folded into ordered bands.
type AgePyramid struct {
	Bands                 []AgeBand   `json:"bands"`
	Total                 float64     `json:"total"`
	Young                 float64     `json:"young"`
	Working               float64     `json:"working"`
	Elderly               float64     `json:"elderly"`
	DependencyRatio       float64     `json:"dependency_ratio"`
	YouthDependencyRatio  float64     `json:"youth_dependency_ratio"`
	ElderlyDependencyRate float64     `json:"elderly_dependency_ratio"`
	MedianBand            string      `json:"median_band"`
	Wards                 []WardTotal `json:"wards"`
}

// MinAge reads the lower bound out of an age band key such as "age-15-19"
// or "age-75-and-above".
func MinAge(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "age-")
	if !ok {
		return 0, false
	}
	first, _, _ := strings.Cut(rest, "-")
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0, false
	}
	return n, true
}

func bracket(minAge int) (young, working, elderly bool) {
	switch {
	case minAge < workingAgeFrom:
		return true, false, false
	case minAge >= elderlyFrom:
		return false, false, true
	default:
		return false, true, false
	}
}

// BuildAgePyramid reduces age-groups rows. Bands follow catalog order; rows
// with keys that carry no age are ignored.
func BuildAgePyramid(ds profile.Dataset, rows []wardstats.WardCategoryStat, locale string) AgePyramid {
	var p AgePyramid
	bandIndex := make(map[string]int)
	for _, c := range ds.Categories {
		minAge, ok := MinAge(c.Key)
		if !ok {
			continue
		}
		bandIndex[c.Key] = len(p.Bands)
		p.Bands = append(p.Bands, AgeBand{Key: c.Key, Label: ds.Label(c.Key, locale), MinAge: minAge})
	}

	wards := make(map[int]*WardTotal)
	for _, r := range rows {
		i, ok := bandIndex[r.Category]
		if !ok {
			continue
		}
		b := &p.Bands[i]
		switch r.Gender {
		case "male":
			b.Male += r.Value
		case "female":
			b.Female += r.Value
		default:
			b.Other += r.Value
		}
		b.Total += r.Value
		p.Total += r.Value

		w, seen := wards[r.WardNumber]
		if !seen {
			w = &WardTotal{WardNumber: r.WardNumber}
			wards[r.WardNumber] = w
		}
		w.Total += r.Value
		young, working, _ := bracket(b.MinAge)
		switch {
		case young:
			w.Young += r.Value
		case working:
			w.Working += r.Value
		default:
			w.Elderly += r.Value
		}
	}

	var cumulative float64
	for i := range p.Bands {
		b := &p.Bands[i]
		b.Percentage = stats.Round(stats.Percentage(b.Total, p.Total), 2)
		b.MalePercentage = stats.Round(stats.Percentage(b.Male, p.Total), 2)
		b.FemalePercentage = stats.Round(stats.Percentage(b.Female, p.Total), 2)

		young, working, _ := bracket(b.MinAge)
		switch {
		case young:
			p.Young += b.Total
		case working:
			p.Working += b.Total
		default:
			p.Elderly += b.Total
		}

		cumulative += b.Total
		if p.MedianBand == "" && p.Total > 0 && cumulative >= p.Total/2 {
			p.MedianBand = b.Key
		}
	}

	p.DependencyRatio = stats.Round(stats.DependencyRatio(p.Young, p.Elderly, p.Working), 2)
	p.YouthDependencyRatio = stats.Round(stats.DependencyRatio(p.Young, 0, p.Working), 2)
	p.ElderlyDependencyRate = stats.Round(stats.DependencyRatio(0, p.Elderly, p.Working), 2)

	for _, n := range stats.SortedKeys(wards) {
		w := wards[n]
		w.DependencyRatio = stats.Round(stats.DependencyRatio(w.Young, w.Elderly, w.Working), 2)
		p.Wards = append(p.Wards, *w)
	}
	return p
}
