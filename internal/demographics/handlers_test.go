package demographics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
	"github.com/PalikaProfile/Profile-Backend/internal/utils"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

type fakeStore struct {
	rows map[int]WardSummary
}

func (f *fakeStore) Summaries(ctx context.Context) ([]WardSummary, error) {
	var out []WardSummary
	for i := 1; i <= 99; i++ {
		if r, ok := f.rows[i]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Summary(ctx context.Context, ward int) (*WardSummary, error) {
	r, ok := f.rows[ward]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (f *fakeStore) SaveSummary(ctx context.Context, row *WardSummary) (*WardSummary, error) {
	row.Derive()
	if f.rows == nil {
		f.rows = map[int]WardSummary{}
	}
	f.rows[row.WardNumber] = *row
	return row, nil
}

func (f *fakeStore) DeleteSummary(ctx context.Context, ward int) error {
	if _, ok := f.rows[ward]; !ok {
		return ErrNotFound
	}
	delete(f.rows, ward)
	return nil
}

type fakeStats struct {
	rows []wardstats.WardCategoryStat
}

func (f fakeStats) List(ctx context.Context, dataset string, filter wardstats.Filter) ([]wardstats.WardCategoryStat, error) {
	return f.rows, nil
}

type admin struct{}

func (admin) FindSessionByID(id string) (utils.SessionData, error) {
	return utils.SessionData{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}
func (admin) FindUserRole(string) (string, error) { return "admin", nil }

func request(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "s"})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestPutSummaryRecomputesDerivedFields(t *testing.T) {
	store := &fakeStore{}
	var inv []string
	h := &Handler{Store: store, Stats: fakeStats{}, Invalidate: func(p ...string) { inv = append(inv, p...) }}
	srv := SetupRoutes(h, middleware.Guard{Sessions: admin{}, Roles: admin{}})

	body := `{"male_population":500,"female_population":520,"total_households":200,
		"total_population":1,"sex_ratio":1,"average_household_size":1}`
	rr := request(srv, http.MethodPut, "/summary/1", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got WardSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 1020, got.TotalPopulation)
	assert.InDelta(t, 5.1, got.AverageHouseholdSize, 1e-9)
	assert.InDelta(t, 96.15, got.SexRatio, 1e-9)
	assert.Equal(t, []string{"demographics:", "overview:"}, inv)

	rr = request(srv, http.MethodPut, "/summary/1", `{"male_population":-5}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSummaryReads(t *testing.T) {
	store := &fakeStore{rows: map[int]WardSummary{}}
	for _, r := range sampleSummaries() {
		r.Derive()
		store.rows[r.WardNumber] = r
	}
	h := &Handler{Store: store, Stats: fakeStats{rows: ageRows()}}
	srv := SetupRoutes(h, middleware.Guard{Sessions: admin{}, Roles: admin{}})

	rr := request(srv, http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []WardSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, 1, list[0].WardNumber)

	rr = request(srv, http.MethodGet, "/summary/2", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = request(srv, http.MethodGet, "/summary/9", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(srv, http.MethodGet, "/summary/x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(srv, http.MethodGet, "/municipality", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var m MunicipalityStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, 2992, m.TotalPopulation)

	rr = request(srv, http.MethodGet, "/age-pyramid", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var p AgePyramid
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, 75.0, p.DependencyRatio)
}

func TestDeleteSummary(t *testing.T) {
	store := &fakeStore{rows: map[int]WardSummary{4: {WardNumber: 4}}}
	h := &Handler{Store: store, Stats: fakeStats{}}
	srv := SetupRoutes(h, middleware.Guard{Sessions: admin{}, Roles: admin{}})

	assert.Equal(t, http.StatusNoContent, request(srv, http.MethodDelete, "/summary/4", "").Code)
	assert.Equal(t, http.StatusNotFound, request(srv, http.MethodDelete, "/summary/4", "").Code)
}
