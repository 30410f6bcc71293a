package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	session := middleware.SessionMiddlewareAt(h.Store, h.clock)

	r.Post("/login", h.Login)
	r.With(session).Post("/logout", h.Logout)
	r.With(session).Get("/me", h.Me)
	r.With(session).Post("/password", h.UpdatePassword)
	return r
}
