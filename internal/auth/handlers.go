package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
	"github.com/PalikaProfile/Profile-Backend/internal/utils"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
)

const (
	SessionCookie     = middleware.SessionCookie
	SessionTTL        = 6 * time.Hour
	MinPasswordLength = 8
)

type Store interface {
	FindSessionByID(id string) (utils.SessionData, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
	StartSession(ctx context.Context, userID, sessionID string, expires time.Time) error
	EndSession(ctx context.Context, sessionID string) error
	SetPassword(ctx context.Context, userID, hashed string) error
}

type Handler struct {
	Store         Store
	// SecureCookies marks the session cookie Secure; off for plain-HTTP local dev.
	SecureCookies bool
	now           func() time.Time
}

func (h *Handler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *Handler) cookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else {
		c.Expires = expires
	}
	return c
}

type LoginInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	ctx := r.Context()
	user, err := h.Store.UserByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		httputil.WriteInternal(w, r, "Failed to load user", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password)) != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	sessionID := uuid.NewString()
	expires := h.clock().Add(SessionTTL)
	if err := h.Store.StartSession(ctx, user.UserID, sessionID, expires); err != nil {
		httputil.WriteInternal(w, r, "Failed to start session", err)
		return
	}
	http.SetCookie(w, h.cookie(sessionID, expires))

	logging.Ctx(ctx).Info().Str("component", "auth").Str("user_id", user.UserID).Msg("User logged in")
	httputil.WriteJSON(w, http.StatusOK, MeResponse{UserID: user.UserID, Username: user.Username, Role: user.Role})
}

// Logout runs behind the session middleware, so the cookie is known to exist.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Couldn't find cookie")
		return
	}
	if err := h.Store.EndSession(r.Context(), cookie.Value); err != nil && !errors.Is(err, ErrNotFound) {
		httputil.WriteInternal(w, r, "Failed to end session", err)
		return
	}
	http.SetCookie(w, h.cookie("", time.Time{}))
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFrom(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		return
	}
	user, err := h.Store.UserByID(r.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Couldn't find user")
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to load user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MeResponse{UserID: user.UserID, Username: user.Username, Role: user.Role})
}

type PasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=200,nefield=CurrentPassword"`
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFrom(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		return
	}
	var in PasswordInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	ctx := r.Context()
	user, err := h.Store.UserByID(ctx, userID)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Couldn't find user")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.CurrentPassword)) != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid current password")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to hash password", err)
		return
	}
	if err := h.Store.SetPassword(ctx, userID, string(hashed)); err != nil {
		httputil.WriteInternal(w, r, "Failed to update password", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
