// Package seo builds the page metadata and schema.org JSON-LD documents that
// every profile page embeds in its head.
package seo

import (
	"net/url"
	"strings"

	"github.com/PalikaProfile/Profile-Backend/internal/config"
)

var Locales = []string{"en", "ne"}

type OpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	Image       string
	SiteName    string
}

type Twitter struct {
	Card        string
	Title       string
	Description string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Keywords    []string
	Locale      string
	// Alternates maps a locale to the URL of the same page in that locale.
	Alternates  map[string]string
	OpenGraph   OpenGraph
	Twitter     Twitter
}

// NewMeta fills canonical, alternate and social fields for path on site.
// The canonical URL is the default-locale URL so translated pages do not compete.
func NewMeta(site config.SiteConfig, path, title, description string) Meta {
	canonical := LocalURL(site, path, site.DefaultLocale)
	full := title
	if site.Name != "" && title != site.Name {
		full = title + " | " + site.Name
	}

	m := Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		Locale:      site.DefaultLocale,
		Alternates:  make(map[string]string, len(Locales)),
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			Type:        "website",
			URL:         canonical,
			SiteName:    site.Name,
		},
		Twitter: Twitter{Card: "summary", Title: title, Description: description},
	}
	for _, l := range Locales {
		m.Alternates[l] = LocalURL(site, path, l)
	}
	return m
}

// ForLocale switches the page locale; canonical stays on the default locale.
func (m Meta) ForLocale(locale string) Meta {
	m.Locale = locale
	if u, ok := m.Alternates[locale]; ok {
		m.OpenGraph.URL = u
	}
	return m
}

func (m Meta) KeywordList() string {
	return strings.Join(m.Keywords, ", ")
}

// AbsoluteURL joins path onto the site base URL.
func AbsoluteURL(site config.SiteConfig, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(site.BaseURL, "/") + path
}

// LocalURL is AbsoluteURL plus ?lang= for every locale but the default.
func LocalURL(site config.SiteConfig, path, locale string) string {
	u := AbsoluteURL(site, path)
	if locale == "" || locale == site.DefaultLocale {
		return u
	}
	return u + "?lang=" + url.QueryEscape(locale)
}
