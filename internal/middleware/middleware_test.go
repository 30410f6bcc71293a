package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
	"github.com/PalikaProfile/Profile-Backend/internal/utils"
)

type sessions struct {
	session utils.SessionData
	err     error
}

func (s sessions) FindSessionByID(string) (utils.SessionData, error) {
	return s.session, s.err
}

type roles struct {
	role string
	err  error
}

func (r roles) FindUserRole(string) (string, error) {
	return r.role, r.err
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// echoCaller writes the user id and role found on the context.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.UserIDFrom(r.Context())
	w.Header().Set("X-User", id)
	w.Header().Set("X-Role", utils.RoleFrom(r.Context()))
	w.WriteHeader(http.StatusOK)
})

func TestSessionMiddleware(t *testing.T) {
	live := utils.SessionData{UserID: "ward-officer", ExpiresAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name     string
		cookie   string
		fetcher  sessions
		want     int
		wantCode string
		wantMsg  string
	}{
		{name: "no cookie", fetcher: sessions{session: live}, want: http.StatusUnauthorized, wantCode: "NO_SESSION"},
		{name: "unknown session", cookie: "s1", fetcher: sessions{err: errors.New("record not found")}, want: http.StatusUnauthorized, wantCode: "NO_SESSION"},
		{
			name:     "expired",
			cookie:   "s1",
			fetcher:  sessions{session: utils.SessionData{UserID: "u", ExpiresAt: time.Now().Add(-time.Hour)}},
			want:     http.StatusUnauthorized,
			wantCode: "SESSION_EXPIRED",
			wantMsg:  "Session expired",
		},
		{name: "live", cookie: "s1", fetcher: sessions{session: live}, want: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile/municipality", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			middleware.SessionMiddleware(tc.fetcher)(echoCaller).ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "ward-officer", rec.Header().Get("X-User"))
				return
			}
			body := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, body.Error.Code)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, body.Error.Message)
			}
		})
	}
}

func TestSessionMiddlewareAt_UsesGivenClock(t *testing.T) {
	expires := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	fetcher := sessions{session: utils.SessionData{UserID: "ward-officer", ExpiresAt: expires}}

	call := func(now time.Time) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "s1"})
		rec := httptest.NewRecorder()
		mw := middleware.SessionMiddlewareAt(fetcher, func() time.Time { return now })
		mw(echoCaller).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call(expires.Add(-time.Minute)).Code)
	rec := call(expires)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_EXPIRED", decodeError(t, rec).Error.Code)
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		roles  roles
		want   int
	}{
		{"admin passes", "user-1", roles{role: "admin"}, http.StatusOK},
		{"viewer forbidden", "user-1", roles{role: "viewer"}, http.StatusForbidden},
		{"unknown user", "user-1", roles{err: errors.New("record not found")}, http.StatusUnauthorized},
		{"no session upstream", "", roles{role: "admin"}, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/culture/historical-sites", nil)
			if tc.userID != "" {
				req = req.WithContext(utils.WithUserID(req.Context(), tc.userID))
			}
			rec := httptest.NewRecorder()
			middleware.AdminMiddleware(tc.roles)(echoCaller).ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "admin", rec.Header().Get("X-Role"))
			}
		})
	}
}

func TestGuardAdmin(t *testing.T) {
	g := middleware.Guard{
		Sessions: sessions{session: utils.SessionData{UserID: "admin-1", ExpiresAt: time.Now().Add(time.Hour)}},
		Roles:    roles{role: "admin"},
	}
	var h http.Handler = echoCaller
	mws := g.Admin()
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/culture/historical-sites", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "s"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", rec.Header().Get("X-User"))
	assert.Equal(t, "admin", rec.Header().Get("X-Role"))
}

func TestCORS_AllowListedOrigin(t *testing.T) {
	mw := middleware.CORS([]string{"https://profile.example.gov.np"})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile/municipality", nil)
	req.Header.Set("Origin", "https://profile.example.gov.np")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://profile.example.gov.np" {
		t.Errorf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/profile/municipality", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}

func TestMutationsOnlyRateLimit(t *testing.T) {
	mw := middleware.MutationsOnly(middleware.RateLimit(1, time.Minute))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method string) int {
		req := httptest.NewRequest(method, "/api/stats/caste", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(http.MethodPost); code != http.StatusOK {
		t.Fatalf("first POST: expected 200, got %d", code)
	}
	if code := do(http.MethodPost); code != http.StatusTooManyRequests {
		t.Fatalf("second POST: expected 429, got %d", code)
	}
	if code := do(http.MethodGet); code != http.StatusOK {
		t.Fatalf("GET should bypass the limiter, got %d", code)
	}
}

func TestPublicCache(t *testing.T) {
	mw := middleware.PublicCache(10 * time.Minute)

	ok := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	missing := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile/wards", nil))
	assert.Equal(t, "public, max-age=600", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile/wards", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	missing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile/wards/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
