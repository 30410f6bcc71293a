// Package pages renders the public, server-side HTML profile. Every page
// fetches rows, reduces them with the domain packages, then renders tables,
// chart data, SEO metadata and JSON-LD through one shared layout.
package pages

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/cache"
	"github.com/PalikaProfile/Profile-Backend/internal/config"
	"github.com/PalikaProfile/Profile-Backend/internal/culture"
	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/seo"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

//go:embed templates/*.html
var templatesFS embed.FS

type ProfileSource interface {
	Municipality(ctx context.Context) (*profile.Municipality, error)
	Wards(ctx context.Context) ([]profile.Ward, error)
}

type SummarySource interface {
	Summaries(ctx context.Context) ([]demographics.WardSummary, error)
}

type StatsSource interface {
	List(ctx context.Context, dataset string, f wardstats.Filter) ([]wardstats.WardCategoryStat, error)
}

type SiteSource interface {
	All(ctx context.Context) ([]culture.HistoricalSite, error)
	BySlug(ctx context.Context, slug string) (*culture.HistoricalSite, error)
}

type Sources struct {
	Profile   ProfileSource
	Summaries SummarySource
	Stats     StatsSource
	Sites     SiteSource
}

type Server struct {
	site      config.SiteConfig
	src       Sources
	ttl       time.Duration
	templates map[string]*template.Template
	views     *cache.Memo[*View]
	sitemaps  *cache.Memo[[]byte]
}

var pageNames = []string{
	"overview", "ward_summary", "age_groups", "dataset",
	"remittance", "literacy", "sites", "site", "error",
}

func New(site config.SiteConfig, src Sources, ttl time.Duration) (*Server, error) {
	tmpls, err := parseTemplates(templatesFS)
	if err != nil {
		return nil, err
	}
	return &Server{
		site:      site,
		src:       src,
		ttl:       ttl,
		templates: tmpls,
		views:     cache.NewMemo[*View]("pages", ttl),
		sitemaps:  cache.NewMemo[[]byte]("sitemap", ttl),
	}, nil
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).ParseFS(fsys, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Invalidate drops cached views whose key starts with any prefix. Mutating
// API handlers call it after a successful write.
func (s *Server) Invalidate(prefixes ...string) {
	for _, p := range prefixes {
		s.views.Invalidate(p)
		if p == "" || strings.HasPrefix(p, "sitemap:") {
			s.sitemaps.Invalidate("")
		}
	}
}

func (s *Server) Close() {
	s.views.Stop()
	s.sitemaps.Stop()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.Overview)
	r.Get("/profile/demographics/ward-summary", s.WardSummary)
	r.Get("/profile/demographics/age-groups", s.AgeGroups)
	r.Get("/profile/economics/remittance", s.Remittance)
	r.Get("/profile/education/literacy", s.Literacy)
	r.Get("/profile/culture/historical-sites", s.Sites)
	r.Get("/profile/culture/historical-sites/{slug}", s.Site)
	r.Get("/profile/{domain}/{slug}", s.Dataset)
	r.Get("/sitemap.xml", s.Sitemap)
	r.Get("/robots.txt", s.Robots)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r, s.locale(r))
	})
	return r
}

// locale honours ?lang= for supported locales and falls back to the site default.
func (s *Server) locale(r *http.Request) string {
	switch l := r.URL.Query().Get("lang"); l {
	case "en", "ne":
		return l
	}
	return s.site.DefaultLocale
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// errNotFound lets a loader ask for the 404 page.
var errNotFound = errors.New("page not found")

// serve loads (or reuses) a view and renders it with the named template.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, page, key string, load func(ctx context.Context, locale string) (*View, error)) {
	locale := s.locale(r)
	ctx := r.Context()
	start := time.Now()
	view, err := s.views.Get(cacheKey(key, locale), func() (*View, error) {
		return load(ctx, locale)
	})
	httputil.AddServerTiming(w, "load", time.Since(start))
	switch {
	case errors.Is(err, errNotFound):
		s.notFound(w, r, locale)
		return
	case err != nil:
		s.internalError(w, r, locale, err)
		return
	}
	httputil.CacheControl(w, s.ttl)
	s.render(w, r, http.StatusOK, page, view)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, view *View) {
	var buf bytes.Buffer
	start := time.Now()
	if err := s.templates[page].ExecuteTemplate(&buf, "layout", view); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("component", "pages").Str("page", page).Msg("Failed to render page")
		w.Header().Del("Cache-Control")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	httputil.AddServerTiming(w, "render", time.Since(start))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if lang := view.Locale; lang != "" {
		w.Header().Set("Content-Language", lang)
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, locale string) {
	view := s.newView(r.Context(), locale, r.URL.Path, t(locale, "not_found"), "")
	view.Data = errorPage{Status: http.StatusNotFound, Message: t(locale, "not_found_message")}
	view.Meta.Canonical = ""
	s.render(w, r, http.StatusNotFound, "error", view)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, locale string, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("component", "pages").Str("path", r.URL.Path).Msg("Failed to build page")
	view := s.newView(r.Context(), locale, r.URL.Path, t(locale, "server_error"), "")
	view.Data = errorPage{Status: http.StatusInternalServerError, Message: t(locale, "server_error_message")}
	view.Meta.Canonical = ""
	s.render(w, r, http.StatusInternalServerError, "error", view)
}

type errorPage struct {
	Status  int
	Message string
}

// place returns the municipality as a schema.org place, falling back to the
// configured site name when no municipality row exists yet.
func (s *Server) place(ctx context.Context) seo.Place {
	p := seo.Place{Name: s.site.Name, AltName: s.site.NameNe, URL: seo.AbsoluteURL(s.site, "/"), Admin: true}
	m, err := s.src.Profile.Municipality(ctx)
	if err != nil || m == nil {
		return p
	}
	p.Name, p.AltName = m.Name, m.NameNe
	p.Lat, p.Lng = m.Latitude, m.Longitude
	return p
}
