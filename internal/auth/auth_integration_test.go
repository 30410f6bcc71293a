package auth_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PalikaProfile/Profile-Backend/internal/auth"
	"github.com/PalikaProfile/Profile-Backend/internal/config"
	"github.com/PalikaProfile/Profile-Backend/internal/db"
)

// liveServer is set only when DATABASE_URL points at a reachable database.
var liveServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		os.Exit(m.Run())
	}

	db.Connect(config.DatabaseConfig{URL: url, MaxOpenConns: 4, MaxIdleConns: 4, SlowThreshold: time.Second})
	auth.Init()

	r := chi.NewRouter()
	r.Mount("/auth", auth.SetupRoutes(&auth.Handler{Store: auth.NewSessionInfo(db.DB)}))
	liveServer = httptest.NewServer(r)

	code := m.Run()
	liveServer.Close()
	os.Exit(code)
}

type session struct {
	t      *testing.T
	client *http.Client
}

// newAdmin creates a throwaway admin account, removed when the test ends.
func newAdmin(t *testing.T) (*session, string, string) {
	t.Helper()
	if testing.Short() || liveServer == nil {
		t.Skip("requires DATABASE_URL")
	}

	username := "officer_" + uuid.NewString()[:8]
	password := "Sundarbazar#1"
	user, err := auth.CreateUser(context.Background(), db.DB, username, password, auth.RoleAdmin)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &session{t: t, client: &http.Client{Jar: jar}}, username, password
}

func (s *session) call(method, path string, body any) (int, string) {
	s.t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, liveServer.URL+path, payload)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, string(out)
}

func (s *session) login(username, password string) (int, string) {
	return s.call(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password})
}

func TestLive_LoginMeLogout(t *testing.T) {
	s, username, password := newAdmin(t)

	code, body := s.login(username, password)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"role":"admin"`)

	for i := 0; i < 2; i++ {
		code, body = s.call(http.MethodGet, "/auth/me", nil)
		require.Equal(t, http.StatusOK, code, body)
		assert.Contains(t, body, username)
	}

	code, body = s.call(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, code, body)

	code, _ = s.call(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLive_ExpiredSession(t *testing.T) {
	s, username, password := newAdmin(t)

	code, body := s.login(username, password)
	require.Equal(t, http.StatusOK, code, body)

	var me auth.MeResponse
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	require.NoError(t, db.DB.Model(&auth.Session{}).
		Where("user_id = ?", me.UserID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	code, body = s.call(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, "Session expired")
}

func TestLive_WrongPassword(t *testing.T) {
	s, username, _ := newAdmin(t)
	code, body := s.login(username, "not-the-password")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, "INVALID_CREDENTIALS")
}

func TestLive_DuplicateUsername(t *testing.T) {
	_, username, _ := newAdmin(t)
	_, err := auth.CreateUser(context.Background(), db.DB, username, "AnotherPass1", auth.RoleViewer)
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}
