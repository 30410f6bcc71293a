package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	municipality *Municipality
	wards        map[int]*Ward
	boundary     json.RawMessage
	err          error
	saveErr      error
}

func (f *fakeStore) Municipality(ctx context.Context) (*Municipality, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.municipality == nil {
		return nil, ErrNotFound
	}
	return f.municipality, nil
}

func (f *fakeStore) SaveMunicipality(ctx context.Context, m *Municipality, boundary json.RawMessage) (*Municipality, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.municipality = m
	f.boundary = boundary
	return m, nil
}

func (f *fakeStore) Wards(ctx context.Context) ([]Ward, error) {
	var out []Ward
	for i := 1; i <= 99; i++ {
		if w, ok := f.wards[i]; ok {
			out = append(out, *w)
		}
	}
	return out, f.err
}

func (f *fakeStore) Ward(ctx context.Context, number int) (*Ward, error) {
	if w, ok := f.wards[number]; ok {
		return w, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) SaveWard(ctx context.Context, w *Ward, boundary json.RawMessage) (*Ward, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.wards == nil {
		f.wards = map[int]*Ward{}
	}
	f.wards[w.Number] = w
	f.boundary = boundary
	return w, nil
}

func serve(h http.HandlerFunc, method, pattern, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGetMunicipality_NotConfigured(t *testing.T) {
	h := &Handler{Store: &fakeStore{}}
	rr := serve(h.GetMunicipality, http.MethodGet, "/municipality", "/municipality", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_FOUND")
}

func TestGetMunicipality_StoreError(t *testing.T) {
	h := &Handler{Store: &fakeStore{err: errors.New("connection refused")}}
	rr := serve(h.GetMunicipality, http.MethodGet, "/municipality", "/municipality", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestPutMunicipality(t *testing.T) {
	store := &fakeStore{}
	var invalidated []string
	h := &Handler{Store: store, Invalidate: func(p ...string) { invalidated = append(invalidated, p...) }}

	body := `{"name":"Khandbari Municipality","district":"Sankhuwasabha","ward_count":11,
		"boundary":{"type":"Polygon","coordinates":[[[87.1,27.3],[87.3,27.3],[87.3,27.5],[87.1,27.3]]]}}`
	rr := serve(h.PutMunicipality, http.MethodPut, "/municipality", "/municipality", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, "khandbari-municipality", store.municipality.Slug)
	assert.Contains(t, string(store.boundary), "Polygon")
	assert.Equal(t, []string{""}, invalidated)
}

func TestPutMunicipality_NullBoundaryKeepsGeometry(t *testing.T) {
	store := &fakeStore{}
	h := &Handler{Store: store}

	rr := serve(h.PutMunicipality, http.MethodPut, "/municipality", "/municipality", `{"name":"Khandbari","boundary":null}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Nil(t, store.boundary)
}

func TestPutMunicipality_Validation(t *testing.T) {
	h := &Handler{Store: &fakeStore{}}

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing name", `{"district":"Sankhuwasabha"}`, http.StatusBadRequest},
		{"bad boundary", `{"name":"Khandbari","boundary":{"type":"Circle","coordinates":[1,2]}}`, http.StatusBadRequest},
		{"bad slug", `{"name":"Khandbari","slug":"Not A Slug"}`, http.StatusBadRequest},
		{"unknown field", `{"name":"Khandbari","mayor":"x"}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h.PutMunicipality, http.MethodPut, "/municipality", "/municipality", tt.body)
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestWardRoutes(t *testing.T) {
	store := &fakeStore{}
	h := &Handler{Store: store}

	rr := serve(h.PutWard, http.MethodPut, "/wards/{number}", "/wards/4", `{"name":"Tumlingtar","area_sq_km":12.5}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = serve(h.GetWard, http.MethodGet, "/wards/{number}", "/wards/4", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got Ward
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Number)
	assert.Equal(t, "Tumlingtar", got.Name)

	rr = serve(h.GetWard, http.MethodGet, "/wards/{number}", "/wards/5", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(h.GetWard, http.MethodGet, "/wards/{number}", "/wards/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h.PutWard, http.MethodPut, "/wards/{number}", "/wards/100", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h.ListWards, http.MethodGet, "/wards", "/wards", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []Ward
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestPutWard_RejectedBoundary(t *testing.T) {
	store := &fakeStore{saveErr: fmt.Errorf("%w: geometry contains non-closed rings", ErrInvalidBoundary)}
	h := &Handler{Store: store}
	ring := `{"type":"Polygon","coordinates":[[[87.2,27.3],[87.3,27.3],[87.3,27.4]]]}`

	rr := serve(h.PutWard, http.MethodPut, "/wards/{number}", "/wards/4", `{"name":"Tumlingtar","boundary":`+ring+`}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"VALIDATION_ERROR"`)
	assert.Contains(t, rr.Body.String(), `"field":"boundary"`)
}

func TestListWards_EmptyIsArray(t *testing.T) {
	h := &Handler{Store: &fakeStore{}}
	rr := serve(h.ListWards, http.MethodGet, "/wards", "/wards", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListDatasets(t *testing.T) {
	h := &Handler{Store: &fakeStore{}}

	rr := serve(h.ListDatasets, http.MethodGet, "/datasets", "/datasets?domain=education", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got []Dataset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rr = serve(h.ListDatasets, http.MethodGet, "/datasets", "/datasets?domain=sports", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
