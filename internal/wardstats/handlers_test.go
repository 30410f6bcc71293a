package wardstats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
	"github.com/PalikaProfile/Profile-Backend/internal/utils"
)

type fakeStore struct {
	rows       []WardCategoryStat
	lastFilter Filter
	replaced   []WardCategoryStat
}

func (f *fakeStore) List(ctx context.Context, dataset string, filter Filter) ([]WardCategoryStat, error) {
	f.lastFilter = filter
	var out []WardCategoryStat
	for _, r := range f.rows {
		if r.Dataset == dataset {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Upsert(ctx context.Context, row *WardCategoryStat) (*WardCategoryStat, error) {
	row.ID = uuid.New()
	f.rows = append(f.rows, *row)
	return row, nil
}

func (f *fakeStore) Update(ctx context.Context, dataset string, id uuid.UUID, row WardCategoryStat) (*WardCategoryStat, error) {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Dataset == dataset {
			row.ID = id
			f.rows[i] = row
			return &row, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, dataset string, id uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Dataset == dataset {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) Replace(ctx context.Context, dataset string, rows []WardCategoryStat) (int, error) {
	f.replaced = rows
	return len(rows), nil
}

type allowAll struct{}

func (allowAll) FindSessionByID(id string) (utils.SessionData, error) {
	return utils.SessionData{UserID: "admin-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (allowAll) FindUserRole(userID string) (string, error) { return "admin", nil }

func newServer(store *fakeStore, invalidated *[]string) http.Handler {
	h := &Handler{Store: store, Invalidate: func(p ...string) { *invalidated = append(*invalidated, p...) }}
	return SetupRoutes(h, middleware.Guard{Sessions: allowAll{}, Roles: allowAll{}})
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "s1"})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestUnknownDataset(t *testing.T) {
	var inv []string
	rr := do(t, newServer(&fakeStore{}, &inv), http.MethodGet, "/football", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNKNOWN_DATASET")
}

func TestListParsesFilters(t *testing.T) {
	store := &fakeStore{}
	var inv []string
	rr := do(t, newServer(store, &inv), http.MethodGet, "/age-groups?ward=1&ward=2,3&gender=female", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	assert.Equal(t, []int{1, 2, 3}, store.lastFilter.Wards)
	assert.Equal(t, []string{"female"}, store.lastFilter.Genders)
	assert.Empty(t, store.lastFilter.Categories)

	rr = do(t, newServer(store, &inv), http.MethodGet, "/age-groups?ward=120", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	store := &fakeStore{rows: religionRows()}
	var inv []string
	srv := newServer(store, &inv)

	rr := do(t, srv, http.MethodGet, "/religion/summary?top=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var s CategorySummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, 2000.0, s.Total)
	require.Len(t, s.Categories, 2)
	assert.Equal(t, OtherKey, s.Categories[1].Key)

	rr = do(t, srv, http.MethodGet, "/religion/summary?top=-1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateValidatesAgainstCatalog(t *testing.T) {
	tests := []struct {
		name    string
		dataset string
		body    string
		code    int
	}{
		{"ok", "caste", `{"ward_number":3,"category":"newar","value":120}`, http.StatusCreated},
		{"gendered ok", "age-groups", `{"ward_number":3,"category":"age-0-4","gender":"female","value":12}`, http.StatusCreated},
		{"unknown category", "caste", `{"ward_number":3,"category":"martian","value":1}`, http.StatusBadRequest},
		{"gender on plain dataset", "caste", `{"ward_number":3,"category":"newar","gender":"male","value":1}`, http.StatusBadRequest},
		{"missing gender", "age-groups", `{"ward_number":3,"category":"age-0-4","value":1}`, http.StatusBadRequest},
		{"negative value", "caste", `{"ward_number":3,"category":"newar","value":-1}`, http.StatusBadRequest},
		{"ward out of range", "caste", `{"ward_number":0,"category":"newar","value":1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inv []string
			rr := do(t, newServer(&fakeStore{}, &inv), http.MethodPost, "/"+tt.dataset, tt.body)
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
			if tt.code == http.StatusCreated {
				assert.Contains(t, inv, "stats:"+tt.dataset+":")
				assert.Contains(t, inv, "overview:")
			} else {
				assert.Empty(t, inv)
			}
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{rows: []WardCategoryStat{{ID: id, Dataset: "caste", WardNumber: 1, Category: "newar", Value: 5}}}
	var inv []string
	srv := newServer(store, &inv)

	rr := do(t, srv, http.MethodPut, "/caste/rows/"+id.String(), `{"ward_number":1,"category":"newar","value":9}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 9.0, store.rows[0].Value)

	rr = do(t, srv, http.MethodPut, "/religion/rows/"+id.String(), `{"ward_number":1,"category":"hindu","value":9}`)
	assert.Equal(t, http.StatusNotFound, rr.Code, "row belongs to another dataset")

	rr = do(t, srv, http.MethodDelete, "/caste/rows/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, srv, http.MethodDelete, "/caste/rows/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, store.rows)

	rr = do(t, srv, http.MethodDelete, "/caste/rows/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReplace(t *testing.T) {
	store := &fakeStore{}
	var inv []string
	srv := newServer(store, &inv)

	body := `{"rows":[
		{"ward_number":1,"category":"hindu","value":10},
		{"ward_number":2,"category":"hindu","value":20}
	]}`
	rr := do(t, srv, http.MethodPut, "/religion", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"dataset":"religion","rows":2}`, rr.Body.String())
	assert.Len(t, store.replaced, 2)

	dup := `{"rows":[
		{"ward_number":1,"category":"hindu","value":10},
		{"ward_number":1,"category":"hindu","value":11}
	]}`
	rr = do(t, srv, http.MethodPut, "/religion", dup)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "DUPLICATE_ROW")
}

func TestReplace_RowValidationDetails(t *testing.T) {
	store := &fakeStore{}
	var inv []string
	srv := newServer(store, &inv)

	body := `{"rows":[
		{"ward_number":1,"category":"hindu","value":10},
		{"ward_number":2,"category":"no-such-religion","value":20}
	]}`
	rr := do(t, srv, http.MethodPut, "/religion", body)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	var got struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "VALIDATION_ERROR", got.Error.Code)
	assert.Equal(t, 1.0, got.Error.Details["row"])
	assert.Equal(t, "category", got.Error.Details["field"])
	assert.True(t, strings.HasPrefix(got.Error.Message, "rows[1]: "), got.Error.Message)
	assert.Empty(t, store.replaced)
	assert.Empty(t, inv)
}

func TestMutationsRequireSession(t *testing.T) {
	var inv []string
	srv := newServer(&fakeStore{}, &inv)
	req := httptest.NewRequest(http.MethodPost, "/caste", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
