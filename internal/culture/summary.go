package culture

import (
	"github.com/PalikaProfile/Profile-Backend/internal/stats"
)

type WardCount struct {
	WardNumber int `json:"ward_number"`
	Count      int `json:"count"`
}

// SiteStats is the overview shown above the site listing.
type SiteStats struct {
	Total          int           `json:"total"`
	HeritageListed int           `json:"heritage_listed"`
	WithLocation   int           `json:"with_location"`
	Unassigned     int           `json:"unassigned"`
	ByType         []stats.Share `json:"by_type"`
	ByWard         []WardCount   `json:"by_ward"`
}

func SummarizeSites(sites []HistoricalSite, locale string) SiteStats {
	s := SiteStats{Total: len(sites)}
	byType := make(map[string]float64)
	byWard := make(map[int]int)

	for _, site := range sites {
		byType[string(site.Type)]++
		if site.IsHeritageListed {
			s.HeritageListed++
		}
		if len(site.Location) > 0 {
			s.WithLocation++
		}
		if site.WardNumber == nil {
			s.Unassigned++
		} else {
			byWard[*site.WardNumber]++
		}
	}

	s.ByType = stats.Shares(byType)
	for i := range s.ByType {
		s.ByType[i].Label = SiteType(s.ByType[i].Key).Label(locale)
		s.ByType[i].Percentage = stats.Round(s.ByType[i].Percentage, 2)
	}
	for _, n := range stats.SortedKeys(byWard) {
		s.ByWard = append(s.ByWard, WardCount{WardNumber: n, Count: byWard[n]})
	}
	return s
}
