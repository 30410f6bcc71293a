package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Datasets() {
		assert.False(t, seen[d.Key], "duplicate dataset %s", d.Key)
		seen[d.Key] = true
		assert.NotEmpty(t, d.Categories, d.Key)
		assert.Equal(t, d.Key, d.Slug)

		cats := map[string]bool{}
		for _, c := range d.Categories {
			assert.False(t, cats[c.Key], "duplicate category %s in %s", c.Key, d.Key)
			cats[c.Key] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(DatasetLiteracyStatus)
	require.True(t, ok)
	assert.True(t, d.HasGender)
	assert.Equal(t, DomainEducation, d.Domain)
	assert.Equal(t, "/profile/education/literacy-status", d.Path())

	_, ok = Lookup("unknown")
	assert.False(t, ok)

	_, ok = LookupPage(DomainEconomics, DatasetCaste)
	assert.False(t, ok, "caste lives under demographics")
}

func TestDatasetLabels(t *testing.T) {
	d, _ := Lookup(DatasetReligion)
	assert.Equal(t, "Hindu", d.Label("hindu", "en"))
	assert.Equal(t, "हिन्दु", d.Label("hindu", "ne"))
	assert.Equal(t, "zoroastrian", d.Label("zoroastrian", "en"))
	assert.Equal(t, "धर्म अनुसार जनसंख्या", d.LocalTitle("ne"))
	assert.Equal(t, 0, d.CategoryOrder("hindu"))
	assert.Equal(t, len(d.Categories), d.CategoryOrder("zoroastrian"))
}

func TestValidGender(t *testing.T) {
	ages, _ := Lookup(DatasetAgeGroups)
	assert.True(t, ages.ValidGender("female"))
	assert.False(t, ages.ValidGender(""))

	caste, _ := Lookup(DatasetCaste)
	assert.True(t, caste.ValidGender(""))
	assert.False(t, caste.ValidGender("male"))
}

func TestDatasetsByDomain(t *testing.T) {
	for _, d := range DatasetsByDomain(DomainEconomics) {
		assert.Equal(t, DomainEconomics, d.Domain)
	}
	assert.Len(t, DatasetsByDomain(DomainEducation), 2)
	assert.Empty(t, DatasetsByDomain(DomainCulture))

	_, ok := ParseDomain("sports")
	assert.False(t, ok)
}
