package stats

import (
	"cmp"
	"slices"
)

// Groups keeps rows bucketed by key along with the order keys were first seen.
type Groups[K comparable, T any] struct {
	Keys  []K
	Items map[K][]T
}

func GroupBy[K comparable, T any](rows []T, key func(T) K) Groups[K, T] {
	g := Groups[K, T]{Items: make(map[K][]T)}
	for _, row := range rows {
		k := key(row)
		if _, seen := g.Items[k]; !seen {
			g.Keys = append(g.Keys, k)
		}
		g.Items[k] = append(g.Items[k], row)
	}
	return g
}

// SumBy totals value(row) per key.
func SumBy[K comparable, T any](rows []T, key func(T) K, value func(T) float64) map[K]float64 {
	out := make(map[K]float64)
	for _, row := range rows {
		out[key(row)] += value(row)
	}
	return out
}

func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type Share struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Shares converts totals into percentages of their sum, largest first,
// ties broken by key.
func Shares(totals map[string]float64) []Share {
	var whole float64
	for _, v := range totals {
		whole += v
	}
	out := make([]Share, 0, len(totals))
	for k, v := range totals {
		out = append(out, Share{Key: k, Label: k, Value: v, Percentage: Percentage(v, whole)})
	}
	sortShares(out)
	return out
}

func sortShares(shares []Share) {
	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

// TopN keeps the n largest shares and folds the rest into one share keyed otherKey.
// If otherKey is already among the kept shares the tail is added to it. The
// result stays sorted like Shares.
func TopN(shares []Share, n int, otherKey string) []Share {
	if n <= 0 || len(shares) <= n {
		return shares
	}
	head := slices.Clone(shares[:n])
	var rest Share
	rest.Key, rest.Label = otherKey, otherKey
	for _, s := range shares[n:] {
		rest.Value += s.Value
		rest.Percentage += s.Percentage
	}
	for i := range head {
		if head[i].Key == otherKey {
			head[i].Value += rest.Value
			head[i].Percentage += rest.Percentage
			sortShares(head)
			return head
		}
	}
	head = append(head, rest)
	sortShares(head)
	return head
}

// Dominant returns the key with the largest value; ties go to the smaller key.
func Dominant[K cmp.Ordered](m map[K]float64) (K, bool) {
	var best K
	found := false
	for k, v := range m {
		if !found || v > m[best] || (v == m[best] && k < best) {
			best, found = k, true
		}
	}
	return best, found
}
