package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/PalikaProfile/Profile-Backend/internal/utils"
)

type memStore struct {
	users    map[string]*User
	sessions map[string]Session
}

func newMemStore(t *testing.T) *memStore {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &memStore{
		users:    map[string]*User{"u1": {UserID: "u1", Username: "ward-officer", HashedPassword: string(hashed), Role: RoleAdmin}},
		sessions: map[string]Session{},
	}
}

func (m *memStore) FindSessionByID(id string) (utils.SessionData, error) {
	s, ok := m.sessions[id]
	if !ok {
		return utils.SessionData{}, ErrNotFound
	}
	return utils.SessionData{UserID: s.UserID, ExpiresAt: s.ExpiresAt}, nil
}

func (m *memStore) UserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UserByID(_ context.Context, id string) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) StartSession(_ context.Context, userID, sessionID string, expires time.Time) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	m.sessions[sessionID] = Session{SessionID: sessionID, UserID: userID, ExpiresAt: expires}
	return nil
}

func (m *memStore) EndSession(_ context.Context, sessionID string) error {
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *memStore) SetPassword(_ context.Context, userID, hashed string) error {
	m.users[userID].HashedPassword = hashed
	return nil
}

func do(h http.Handler, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginMeLogout(t *testing.T) {
	store := newMemStore(t)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	h := SetupRoutes(&Handler{Store: store, now: func() time.Time { return now }})

	rr := do(h, http.MethodPost, "/login", `{"username":"ward-officer","password":"correct-horse"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"role":"admin"`)

	cookie := sessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)
	require.Contains(t, store.sessions, cookie.Value)
	assert.Equal(t, now.Add(6*time.Hour), store.sessions[cookie.Value].ExpiresAt)

	rr = do(h, http.MethodGet, "/me", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"ward-officer"`)

	rr = do(h, http.MethodPost, "/logout", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, store.sessions)
	assert.Equal(t, -1, sessionCookie(t, rr).MaxAge)

	rr = do(h, http.MethodGet, "/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	store := newMemStore(t)
	h := SetupRoutes(&Handler{Store: store})
	body := `{"username":"ward-officer","password":"correct-horse"}`

	first := sessionCookie(t, do(h, http.MethodPost, "/login", body, nil))
	second := sessionCookie(t, do(h, http.MethodPost, "/login", body, nil))

	assert.NotEqual(t, first.Value, second.Value)
	assert.Len(t, store.sessions, 1)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/me", "", first).Code)
}

func TestLoginRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"ward-officer","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"correct-horse"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"ward-officer"}`, http.StatusBadRequest},
		{"unknown field", `{"username":"ward-officer","password":"x","role":"admin"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(t)
			rr := do(SetupRoutes(&Handler{Store: store}), http.MethodPost, "/login", tt.body, nil)
			assert.Equal(t, tt.want, rr.Code)
			assert.Empty(t, store.sessions)
			assert.Empty(t, rr.Result().Cookies())
		})
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	store := newMemStore(t)
	store.sessions["old"] = Session{SessionID: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Hour)}

	rr := do(SetupRoutes(&Handler{Store: store}), http.MethodGet, "/me", "", &http.Cookie{Name: SessionCookie, Value: "old"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Session expired")
}

func TestSessionExpiryFollowsHandlerClock(t *testing.T) {
	store := newMemStore(t)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	h := SetupRoutes(&Handler{Store: store, now: func() time.Time { return now }})

	cookie := sessionCookie(t, do(h, http.MethodPost, "/login", `{"username":"ward-officer","password":"correct-horse"}`, nil))

	now = now.Add(SessionTTL - time.Minute)
	rr := do(h, http.MethodGet, "/me", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	now = now.Add(2 * time.Minute)
	rr = do(h, http.MethodGet, "/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Session expired")
}

func TestUpdatePassword(t *testing.T) {
	store := newMemStore(t)
	h := SetupRoutes(&Handler{Store: store})
	cookie := sessionCookie(t, do(h, http.MethodPost, "/login", `{"username":"ward-officer","password":"correct-horse"}`, nil))

	rr := do(h, http.MethodPost, "/password", `{"current_password":"wrong","new_password":"battery-staple"}`, cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(h, http.MethodPost, "/password", `{"current_password":"correct-horse","new_password":"short"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h, http.MethodPost, "/password", `{"current_password":"correct-horse","new_password":"battery-staple"}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users["u1"].HashedPassword), []byte("battery-staple")))
}
