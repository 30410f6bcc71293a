package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Site: config.SiteConfig{
			Name:          "Test Municipality",
			BaseURL:       "https://profile.example.org",
			DefaultLocale: "en",
		},
		Cache: config.CacheConfig{TTL: time.Minute},
	}
}

// The routes exercised here never reach the database.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	site, err := newPages(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(site.Close)
	return newRouter(cfg, nil, site)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is up!\n", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestMutationsRequireSession(t *testing.T) {
	router := newTestRouter(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/api/profile/municipality"},
		{http.MethodPut, "/api/profile/wards/3"},
		{http.MethodPost, "/api/stats/religion/"},
		{http.MethodPut, "/api/demographics/summary/1"},
		{http.MethodPost, "/api/culture/historical-sites"},
		{http.MethodGet, "/auth/me"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRobotsServedByPages(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://profile.example.org/sitemap.xml")
}

func TestIsHTTPS(t *testing.T) {
	assert.True(t, isHTTPS("https://profile.example.org"))
	assert.False(t, isHTTPS("http://localhost:5050"))
}
