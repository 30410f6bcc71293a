package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
)

func TestSample(t *testing.T) {
	f, err := Sample()
	require.NoError(t, err)

	assert.Equal(t, "Sundarbazar Municipality", f.Municipality.Name)
	require.NotNil(t, f.Municipality.Latitude)
	assert.Len(t, f.Wards, 3)
	assert.Len(t, f.Summaries, 3)
	assert.Equal(t, 0, f.Summaries[1].Other)
	assert.Contains(t, f.Datasets, profile.DatasetReligion)
	assert.Contains(t, f.Datasets, profile.DatasetAgeGroups)
	assert.Equal(t, "male", f.Datasets[profile.DatasetAgeGroups][0].Gender)

	require.Len(t, f.Sites, 2)
	assert.Equal(t, "sundar-devi-temple", f.Sites[0].SiteSlug())
	require.NotNil(t, f.Sites[0].Location)
	assert.InDelta(t, 84.4188, f.Sites[0].Location.Lng, 1e-9)
	require.NotNil(t, f.Sites[1].Ward)
	assert.Equal(t, 3, *f.Sites[1].Ward)
}

func TestLoad_EmptyPathUsesSample(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sundarbazar", f.Municipality.Slug)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "municipality: {district: Lamjung}\n", "municipality.name is required"},
		{"unknown field", "municipality: {name: X, mayor: Y}\n", "parse seed file"},
		{"ward range", "municipality: {name: X}\nwards: [{number: 0}]\n", "wards[0]: number 0 out of range"},
		{"negative summary", "municipality: {name: X}\nsummaries: [{ward: 1, male: -3}]\n", "summaries[0]: counts must not be negative"},
		{"unknown dataset", "municipality: {name: X}\ndatasets: {cats: []}\n", `unknown dataset "cats"`},
		{"unknown category", "municipality: {name: X}\ndatasets: {religion: [{ward: 1, category: jedi, value: 1}]}\n", `datasets.religion[0]: unknown category "jedi"`},
		{"missing gender", "municipality: {name: X}\ndatasets: {age-groups: [{ward: 1, category: age-0-4, value: 1}]}\n", `invalid gender ""`},
		{"site type", "municipality: {name: X}\nsites: [{name: Y, type: castle}]\n", `sites[0]: unknown type "castle"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestPointGeoJSON(t *testing.T) {
	raw, err := pointGeoJSON(&Point{Lat: 28.1, Lng: 84.4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[84.4,28.1]}`, string(raw))

	raw, err = pointGeoJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}
