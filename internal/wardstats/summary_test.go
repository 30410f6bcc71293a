package wardstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
)

func religionRows() []WardCategoryStat {
	return []WardCategoryStat{
		{Dataset: "religion", WardNumber: 1, Category: "hindu", Value: 600},
		{Dataset: "religion", WardNumber: 1, Category: "buddhist", Value: 300},
		{Dataset: "religion", WardNumber: 1, Category: "kirati", Value: 100},
		{Dataset: "religion", WardNumber: 2, Category: "buddhist", Value: 500},
		{Dataset: "religion", WardNumber: 2, Category: "hindu", Value: 400},
		{Dataset: "religion", WardNumber: 2, Category: "zoroastrian", Value: 100},
	}
}

func TestSummarizeCategories(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetReligion)
	s := SummarizeCategories(ds, religionRows(), 0)

	assert.Equal(t, 2000.0, s.Total)
	assert.Equal(t, 2, s.WardCount)
	assert.Equal(t, "hindu", s.Dominant)
	assert.Equal(t, "Hindu", s.DominantLabel)

	require.Len(t, s.Categories, 4)
	assert.Equal(t, "hindu", s.Categories[0].Key)
	assert.Equal(t, 50.0, s.Categories[0].Percentage)
	assert.Equal(t, "buddhist", s.Categories[1].Key)
	assert.Equal(t, 40.0, s.Categories[1].Percentage)

	var unknown bool
	for _, c := range s.Categories {
		if c.Key == "zoroastrian" {
			unknown = true
			assert.Equal(t, "zoroastrian", c.Label)
		}
	}
	assert.True(t, unknown, "unknown categories are kept under their raw key")

	require.Len(t, s.Wards, 2)
	assert.Equal(t, 1, s.Wards[0].WardNumber)
	assert.Equal(t, 1000.0, s.Wards[0].Total)
	assert.Equal(t, "hindu", s.Wards[0].Dominant)
	assert.Equal(t, "buddhist", s.Wards[1].Dominant)
	assert.Nil(t, s.GenderTotals)
}

func TestSummarizeCategories_PercentagesCoverTheWhole(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetReligion)
	s := SummarizeCategories(ds, religionRows(), 0)

	var sum float64
	for _, c := range s.Categories {
		sum += c.Percentage
	}
	assert.InDelta(t, 100, sum, 0.05)
}

func TestSummarizeCategories_TopN(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetReligion)
	s := SummarizeCategories(ds, religionRows(), 2)

	require.Len(t, s.Categories, 3)
	other := s.Categories[2]
	assert.Equal(t, OtherKey, other.Key)
	assert.Equal(t, "Other", other.Label)
	assert.Equal(t, 200.0, other.Value)
	assert.Equal(t, 10.0, other.Percentage)
}

func TestSummarizeCategories_TopNWithOtherInHead(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetReligion)
	rows := []WardCategoryStat{
		{WardNumber: 1, Category: "hindu", Value: 400},
		{WardNumber: 1, Category: OtherKey, Value: 300},
		{WardNumber: 1, Category: "buddhist", Value: 200},
		{WardNumber: 2, Category: "kirati", Value: 100},
	}
	s := SummarizeCategories(ds, rows, 2)

	require.Len(t, s.Categories, 2)
	assert.Equal(t, OtherKey, s.Categories[0].Key)
	assert.Equal(t, 600.0, s.Categories[0].Value)
	assert.Equal(t, 60.0, s.Categories[0].Percentage)
	assert.Equal(t, "hindu", s.Categories[1].Key)
	for i := 1; i < len(s.Categories); i++ {
		assert.GreaterOrEqual(t, s.Categories[i-1].Value, s.Categories[i].Value)
	}
}

func TestSummarizeCategories_Empty(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetCaste)
	s := SummarizeCategories(ds, nil, 5)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Categories)
	assert.Empty(t, s.Wards)
	assert.Equal(t, "", s.DominantLabel)
}

func TestSummarizeCategories_GenderTotals(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetLiteracyStatus)
	rows := []WardCategoryStat{
		{WardNumber: 1, Category: "both-reading-and-writing", Gender: "male", Value: 80},
		{WardNumber: 1, Category: "both-reading-and-writing", Gender: "female", Value: 60},
		{WardNumber: 1, Category: "illiterate", Gender: "female", Value: 40},
	}
	s := SummarizeCategories(ds, rows, 0)
	assert.Equal(t, map[string]float64{"male": 80, "female": 100}, s.GenderTotals)
}

func TestLocalize(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetReligion)
	s := SummarizeCategories(ds, religionRows(), 0).Localize(ds, "ne")

	assert.Equal(t, "धर्म अनुसार जनसंख्या", s.Title)
	assert.Equal(t, "हिन्दु", s.Categories[0].Label)
	assert.Equal(t, "हिन्दु", s.DominantLabel)
	assert.Equal(t, "बौद्ध", s.Wards[1].DominantLabel)
}

func TestCrossTab(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetReligion)
	tab := CrossTab(ds, religionRows(), "en")

	require.Len(t, tab.Columns, len(ds.Categories)+1)
	assert.Equal(t, "hindu", tab.Columns[0].Key)
	assert.Equal(t, "zoroastrian", tab.Columns[len(tab.Columns)-1].Key)

	require.Len(t, tab.Rows, 2)
	assert.Equal(t, 600.0, tab.Rows[0].Cells[0])
	assert.Equal(t, 1000.0, tab.Rows[0].Total)
	assert.Equal(t, 1000.0, tab.Totals[0])
	assert.Equal(t, 2000.0, tab.GrandTotal)
}

func TestGenderBreakdown(t *testing.T) {
	ds, _ := profile.Lookup(profile.DatasetLiteracyStatus)
	rows := []WardCategoryStat{
		{WardNumber: 2, Category: "illiterate", Gender: "male", Value: 10},
		{WardNumber: 1, Category: "illiterate", Gender: "female", Value: 20},
		{WardNumber: 1, Category: "both-reading-and-writing", Gender: "male", Value: 90},
		{WardNumber: 1, Category: "both-reading-and-writing", Gender: "female", Value: 75},
		{WardNumber: 1, Category: "both-reading-and-writing", Gender: "other", Value: 1},
	}
	got := GenderBreakdown(ds, rows, "en")

	require.Len(t, got, 2)
	assert.Equal(t, "both-reading-and-writing", got[0].Category)
	assert.Equal(t, 166.0, got[0].Total)
	assert.Equal(t, 120.0, got[0].SexRatio)
	assert.Equal(t, "illiterate", got[1].Category)
	assert.Equal(t, 50.0, got[1].SexRatio)
}
