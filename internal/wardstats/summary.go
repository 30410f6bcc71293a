package wardstats

import (
	"cmp"
	"slices"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/stats"
)

// OtherKey collects the categories folded away by a top-N summary.
const OtherKey = "other"

type WardBreakdown struct {
	WardNumber    int           `json:"ward_number"`
	Total         float64       `json:"total"`
	Categories    []stats.Share `json:"categories"`
	Dominant      string        `json:"dominant"`
	DominantLabel string        `json:"dominant_label"`
}

// CategorySummary is the municipality-wide and per-ward reduction of one dataset.
type CategorySummary struct {
	Dataset       string             `json:"dataset"`
	Title         string             `json:"title"`
	Unit          profile.Unit       `json:"unit"`
	Total         float64            `json:"total"`
	WardCount     int                `json:"ward_count"`
	Dominant      string             `json:"dominant"`
	DominantLabel string             `json:"dominant_label"`
	Categories    []stats.Share      `json:"categories"`
	Wards         []WardBreakdown    `json:"wards"`
	GenderTotals  map[string]float64 `json:"gender_totals,omitempty"`
}

func category(r WardCategoryStat) string { return r.Category }
func ward(r WardCategoryStat) int        { return r.WardNumber }
func gender(r WardCategoryStat) string   { return r.Gender }
func value(r WardCategoryStat) float64   { return r.Value }

// SummarizeCategories groups rows by category and by ward. Categories beyond
// topN (when positive) are folded into OtherKey at the municipality level only.
// Rows whose category is not in the catalog are kept under their raw key.
func SummarizeCategories(ds profile.Dataset, rows []WardCategoryStat, topN int) CategorySummary {
	s := CategorySummary{
		Dataset: ds.Key,
		Title:   ds.Title,
		Unit:    ds.Unit,
	}

	totals := stats.SumBy(rows, category, value)
	for _, v := range totals {
		s.Total += v
	}
	s.Categories = stats.TopN(stats.Shares(totals), topN, OtherKey)
	if key, ok := stats.Dominant(totals); ok {
		s.Dominant = key
	}

	byWard := stats.GroupBy(rows, ward)
	for _, n := range stats.SortedKeys(byWard.Items) {
		wardTotals := stats.SumBy(byWard.Items[n], category, value)
		b := WardBreakdown{
			WardNumber: n,
			Categories: stats.Shares(wardTotals),
		}
		for _, v := range wardTotals {
			b.Total += v
		}
		b.Dominant, _ = stats.Dominant(wardTotals)
		s.Wards = append(s.Wards, b)
	}
	s.WardCount = len(s.Wards)

	if ds.HasGender {
		s.GenderTotals = stats.SumBy(rows, gender, value)
	}

	s.round()
	return s.Localize(ds, "en")
}

func (s *CategorySummary) round() {
	for i := range s.Categories {
		s.Categories[i].Percentage = stats.Round(s.Categories[i].Percentage, 2)
	}
	for i := range s.Wards {
		for j := range s.Wards[i].Categories {
			s.Wards[i].Categories[j].Percentage = stats.Round(s.Wards[i].Categories[j].Percentage, 2)
		}
	}
}

// Localize returns a copy with category labels resolved for locale.
func (s CategorySummary) Localize(ds profile.Dataset, locale string) CategorySummary {
	out := s
	out.Title = ds.LocalTitle(locale)
	out.Categories = labelShares(ds, s.Categories, locale)
	out.DominantLabel = categoryLabel(ds, s.Dominant, locale)
	out.Wards = make([]WardBreakdown, len(s.Wards))
	for i, w := range s.Wards {
		w.Categories = labelShares(ds, w.Categories, locale)
		w.DominantLabel = categoryLabel(ds, w.Dominant, locale)
		out.Wards[i] = w
	}
	return out
}

func labelShares(ds profile.Dataset, shares []stats.Share, locale string) []stats.Share {
	out := make([]stats.Share, len(shares))
	for i, sh := range shares {
		sh.Label = categoryLabel(ds, sh.Key, locale)
		out[i] = sh
	}
	return out
}

func categoryLabel(ds profile.Dataset, key, locale string) string {
	if key == "" {
		return ""
	}
	if key == OtherKey && !ds.HasCategory(OtherKey) {
		if locale == "ne" {
			return "अन्य"
		}
		return "Other"
	}
	return ds.Label(key, locale)
}

// Table is a ward x category cross tabulation with catalog column order.
type Table struct {
	Columns    []profile.Category `json:"columns"`
	Rows       []TableRow         `json:"rows"`
	Totals     []float64          `json:"totals"`
	GrandTotal float64            `json:"grand_total"`
}

type TableRow struct {
	WardNumber int       `json:"ward_number"`
	Cells      []float64 `json:"cells"`
	Total      float64   `json:"total"`
}

// CrossTab lays rows out as one line per ward. Every catalog category gets a
// column; unknown stored categories are appended in key order.
func CrossTab(ds profile.Dataset, rows []WardCategoryStat, locale string) Table {
	var t Table
	index := make(map[string]int)
	for _, c := range ds.Categories {
		index[c.Key] = len(t.Columns)
		t.Columns = append(t.Columns, profile.Category{Key: c.Key, Label: ds.Label(c.Key, locale)})
	}

	var unknown []string
	for _, r := range rows {
		if _, ok := index[r.Category]; !ok && !slices.Contains(unknown, r.Category) {
			unknown = append(unknown, r.Category)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		index[key] = len(t.Columns)
		t.Columns = append(t.Columns, profile.Category{Key: key, Label: key})
	}

	t.Totals = make([]float64, len(t.Columns))
	byWard := stats.GroupBy(rows, ward)
	for _, n := range stats.SortedKeys(byWard.Items) {
		row := TableRow{WardNumber: n, Cells: make([]float64, len(t.Columns))}
		for _, r := range byWard.Items[n] {
			col := index[r.Category]
			row.Cells[col] += r.Value
			row.Total += r.Value
			t.Totals[col] += r.Value
		}
		t.GrandTotal += row.Total
		t.Rows = append(t.Rows, row)
	}
	return t
}

// GenderRow is one category split by gender.
type GenderRow struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Male     float64 `json:"male"`
	Female   float64 `json:"female"`
	Other    float64 `json:"other"`
	Total    float64 `json:"total"`
	SexRatio float64 `json:"sex_ratio"`
}

// GenderBreakdown totals a gendered dataset per category in catalog order.
func GenderBreakdown(ds profile.Dataset, rows []WardCategoryStat, locale string) []GenderRow {
	byCat := make(map[string]*GenderRow)
	for _, r := range rows {
		g, ok := byCat[r.Category]
		if !ok {
			g = &GenderRow{Category: r.Category, Label: ds.Label(r.Category, locale)}
			byCat[r.Category] = g
		}
		switch r.Gender {
		case "male":
			g.Male += r.Value
		case "female":
			g.Female += r.Value
		default:
			g.Other += r.Value
		}
		g.Total += r.Value
	}

	out := make([]GenderRow, 0, len(byCat))
	for _, g := range byCat {
		g.SexRatio = stats.Round(stats.SexRatio(g.Male, g.Female), 2)
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b GenderRow) int {
		if c := cmp.Compare(ds.CategoryOrder(a.Category), ds.CategoryOrder(b.Category)); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}
