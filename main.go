package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/PalikaProfile/Profile-Backend/internal/auth"
	"github.com/PalikaProfile/Profile-Backend/internal/config"
	"github.com/PalikaProfile/Profile-Backend/internal/culture"
	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/economics"
	"github.com/PalikaProfile/Profile-Backend/internal/education"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/metrics"
	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
	"github.com/PalikaProfile/Profile-Backend/internal/pages"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := logging.Component("server")

	db.Connect(cfg.Database)

	auth.Init()
	profile.Init()
	wardstats.Init()
	demographics.Init()
	culture.Init()

	site, err := newPages(cfg, db.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load page templates")
	}
	defer site.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
		Handler: newRouter(cfg, db.DB, site),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func newPages(cfg *config.Config, d *gorm.DB) (*pages.Server, error) {
	return pages.New(cfg.Site, pages.Sources{
		Profile:   profile.NewRepository(d),
		Summaries: demographics.NewRepository(d),
		Stats:     wardstats.NewRepository(d),
		Sites:     culture.NewRepository(d),
	}, cfg.Cache.TTL)
}

// newRouter wires the procedures under /api and the rendered pages at the root.
// Every mutating procedure invalidates the page cache it feeds.
func newRouter(cfg *config.Config, d *gorm.DB, site *pages.Server) http.Handler {
	sessions := auth.NewSessionInfo(d)
	guard := middleware.Guard{Sessions: sessions, Roles: sessions}
	stats := wardstats.NewRepository(d)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(logging.AccessLog)
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.MutationsOnly(middleware.RateLimit(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)))

	r.Get("/healthz", HealthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Mount("/auth", auth.SetupRoutes(&auth.Handler{Store: sessions, SecureCookies: isHTTPS(cfg.Site.BaseURL)}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.PublicCache(cfg.Cache.TTL))
		r.Mount("/profile", profile.SetupRoutes(&profile.Handler{
			Store:      profile.NewRepository(d),
			Invalidate: site.Invalidate,
		}, guard))
		r.Mount("/stats", wardstats.SetupRoutes(&wardstats.Handler{
			Store:      stats,
			Invalidate: site.Invalidate,
		}, guard))
		r.Mount("/demographics", demographics.SetupRoutes(&demographics.Handler{
			Store:      demographics.NewRepository(d),
			Stats:      stats,
			Invalidate: site.Invalidate,
		}, guard))
		r.Mount("/economics", economics.SetupRoutes(&economics.Handler{Stats: stats}))
		r.Mount("/education", education.SetupRoutes(&education.Handler{Stats: stats}))
		r.Mount("/culture", culture.SetupRoutes(&culture.Handler{
			Store:      culture.NewRepository(d),
			Invalidate: site.Invalidate,
		}, guard))
	})

	r.Mount("/", site.Routes())
	return r
}

func isHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}
