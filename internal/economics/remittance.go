package economics

import (
	"math"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/stats"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

const NoRemittance = "no-remittance"

// BandMidpoints maps remittance bands to an assumed annual amount in NPR.
// The open upper band is taken at 750,000.
var BandMidpoints = map[string]float64{
	"less-than-50k":  25000,
	"50k-100k":       75000,
	"100k-200k":      150000,
	"200k-500k":      350000,
	"more-than-500k": 750000,
}

type RemittanceStats struct {
	WardNumber          int           `json:"ward_number,omitempty"`
	Households          float64       `json:"households"`
	ReceivingHouseholds float64       `json:"receiving_households"`
	ReceivingPercentage float64       `json:"receiving_percentage"`
	MeanAmount          float64       `json:"mean_amount"`
	Variance            float64       `json:"variance"`
	StdDev              float64       `json:"std_dev"`
	EstimatedTotal      float64       `json:"estimated_total"`
	Bands               []stats.Share `json:"bands"`
}

type RemittanceReport struct {
	Overall RemittanceStats   `json:"overall"`
	Wards   []RemittanceStats `json:"wards"`
}

// RemittanceEstimate turns banded household counts into amount estimates.
// Mean and spread are over receiving households only.
func RemittanceEstimate(ds profile.Dataset, rows []wardstats.WardCategoryStat, locale string) RemittanceReport {
	report := RemittanceReport{Overall: remittanceStats(ds, rows, locale)}
	byWard := stats.GroupBy(rows, func(r wardstats.WardCategoryStat) int { return r.WardNumber })
	for _, n := range stats.SortedKeys(byWard.Items) {
		s := remittanceStats(ds, byWard.Items[n], locale)
		s.WardNumber = n
		report.Wards = append(report.Wards, s)
	}
	return report
}

func remittanceStats(ds profile.Dataset, rows []wardstats.WardCategoryStat, locale string) RemittanceStats {
	var s RemittanceStats
	totals := stats.SumBy(rows, func(r wardstats.WardCategoryStat) string { return r.Category },
		func(r wardstats.WardCategoryStat) float64 { return r.Value })

	var amounts, weights []float64
	for _, key := range stats.SortedKeys(totals) {
		n := totals[key]
		s.Households += n
		mid, ok := BandMidpoints[key]
		if !ok {
			continue
		}
		s.ReceivingHouseholds += n
		s.EstimatedTotal += mid * n
		amounts = append(amounts, mid)
		weights = append(weights, n)
	}

	s.ReceivingPercentage = stats.Round(stats.Percentage(s.ReceivingHouseholds, s.Households), 2)
	s.MeanAmount = stats.Round(stats.WeightedMean(amounts, weights), 2)
	variance := stats.WeightedVariance(amounts, weights)
	s.Variance = stats.Round(variance, 2)
	s.StdDev = stats.Round(math.Sqrt(variance), 2)

	s.Bands = bandShares(ds, totals, locale)
	return s
}

// bandShares keeps catalog band order rather than sorting by size.
func bandShares(ds profile.Dataset, totals map[string]float64, locale string) []stats.Share {
	var whole float64
	for _, v := range totals {
		whole += v
	}
	out := make([]stats.Share, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		v := totals[c.Key]
		out = append(out, stats.Share{
			Key:        c.Key,
			Label:      ds.Label(c.Key, locale),
			Value:      v,
			Percentage: stats.Round(stats.Percentage(v, whole), 2),
		})
	}
	return out
}
