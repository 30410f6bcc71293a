package middleware

import (
	"net/http"
	"time"

	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/utils"
)

// SessionCookie names the cookie holding the session id.
const SessionCookie = "session_id"

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

// RoleFetcher resolves the role of an authenticated user.
type RoleFetcher interface {
	FindUserRole(userID string) (string, error)
}

// SessionMiddleware rejects requests without a live session and puts the
// session's user id on the context.
func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return SessionMiddlewareAt(fetcher, time.Now)
}

// SessionMiddlewareAt is SessionMiddleware with expiry judged against now().
func SessionMiddlewareAt(fetcher SessionFetcher, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "NO_SESSION", "Couldn't find session cookie")
				return
			}

			session, err := fetcher.FindSessionByID(cookie.Value)
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "NO_SESSION", "Couldn't find session")
				return
			}
			if session.Expired(now()) {
				httputil.WriteError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), session.UserID)))
		})
	}
}

// AdminMiddleware must run after SessionMiddleware.
func AdminMiddleware(fetcher RoleFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.UserIDFrom(r.Context())
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user ID in context")
				return
			}

			role, err := fetcher.FindUserRole(userID)
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not found")
				return
			}
			if role != "admin" {
				httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithRole(r.Context(), role)))
		})
	}
}

// Guard is the session + admin pair every mutating procedure sits behind.
type Guard struct {
	Sessions SessionFetcher
	Roles    RoleFetcher
}

func (g Guard) Admin() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SessionMiddleware(g.Sessions),
		AdminMiddleware(g.Roles),
	}
}
