// Package stats holds the arithmetic shared by every profile page: sums,
// means, variance, percentages and the demographic ratios derived from them.
// Every function returns 0 instead of NaN or Inf when a denominator is zero.
package stats

import "math"

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

func Sum[T Number](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(Sum(values)) / float64(len(values))
}

// Variance is the population variance (divides by n).
func Variance[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var acc float64
	for _, v := range values {
		d := float64(v) - mean
		acc += d * d
	}
	return acc / float64(len(values))
}

func StdDev[T Number](values []T) float64 {
	return math.Sqrt(Variance(values))
}

// CoefficientOfVariation is the standard deviation as a percentage of the mean.
func CoefficientOfVariation[T Number](values []T) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return StdDev(values) / mean * 100
}

func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// SexRatio is males per 100 females.
func SexRatio(male, female float64) float64 {
	if female == 0 {
		return 0
	}
	return male / female * 100
}

func AverageHouseholdSize(population, households float64) float64 {
	if households == 0 {
		return 0
	}
	return population / households
}

// DependencyRatio is dependants (young + old) per 100 working-age people.
func DependencyRatio(young, old, working float64) float64 {
	if working == 0 {
		return 0
	}
	return (young + old) / working * 100
}

// WeightedMean returns sum(v*w)/sum(w). Mismatched lengths use the shorter slice.
func WeightedMean(values, weights []float64) float64 {
	n := min(len(values), len(weights))
	var num, den float64
	for i := 0; i < n; i++ {
		num += values[i] * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// WeightedVariance is the frequency-weighted population variance.
func WeightedVariance(values, weights []float64) float64 {
	n := min(len(values), len(weights))
	mean := WeightedMean(values, weights)
	var num, den float64
	for i := 0; i < n; i++ {
		d := values[i] - mean
		num += weights[i] * d * d
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}
