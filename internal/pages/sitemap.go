package pages

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/seo"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string    `xml:"loc"`
	LastMod string    `xml:"lastmod,omitempty"`
	Links   []altLink `xml:"xhtml:link"`
}

type altLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Paths lists every static page path, datasets included, in sitemap order.
func Paths() []string {
	paths := []string{
		"/",
		"/profile/demographics/ward-summary",
		"/profile/economics/remittance",
		"/profile/education/literacy",
		sitesPath,
	}
	for _, ds := range profile.Datasets() {
		paths = append(paths, ds.Path())
	}
	return paths
}

func (s *Server) entry(path, lastMod string) sitemapURL {
	u := sitemapURL{Loc: seo.AbsoluteURL(s.site, path), LastMod: lastMod}
	for _, l := range seo.Locales {
		u.Links = append(u.Links, altLink{Rel: "alternate", Hreflang: l, Href: seo.LocalURL(s.site, path, l)})
	}
	return u
}

func (s *Server) buildSitemap(ctx context.Context) ([]byte, error) {
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	for _, p := range Paths() {
		set.URLs = append(set.URLs, s.entry(p, ""))
	}
	sites, err := s.src.Sites.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list historical sites: %w", err)
	}
	for _, site := range sites {
		lastMod := ""
		if !site.UpdatedAt.IsZero() {
			lastMod = site.UpdatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, s.entry(sitesPath+"/"+site.Slug, lastMod))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := s.sitemaps.Get("sitemap:xml", func() ([]byte, error) {
		return s.buildSitemap(r.Context())
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("component", "pages").Msg("Failed to build sitemap")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	httputil.CacheControl(w, s.ttl)
	_, _ = w.Write(body)
}

func (s *Server) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /api/\nDisallow: /auth/\n\nSitemap: %s\n",
		seo.AbsoluteURL(s.site, "/sitemap.xml"))
}
