package seo

import (
	"bytes"
	"html/template"
	"time"

	"github.com/goccy/go-json"

	"github.com/PalikaProfile/Profile-Backend/internal/config"
)

// Node is one schema.org object. Fields are set by the builders below.
type Node map[string]any

const schemaContext = "https://schema.org"

func GeoCoordinates(lat, lng float64) Node {
	return Node{"@type": "GeoCoordinates", "latitude": lat, "longitude": lng}
}

// Place describes the municipality or a ward. lat/lng are optional.
type Place struct {
	Name        string
	AltName     string
	URL         string
	Lat, Lng    *float64
	ContainedIn *Place
	// Admin marks the place as an AdministrativeArea rather than a plain Place.
	Admin bool
}

func (p Place) Node() Node {
	n := Node{"@type": "Place", "name": p.Name}
	if p.Admin {
		n["@type"] = "AdministrativeArea"
	}
	if p.AltName != "" {
		n["alternateName"] = p.AltName
	}
	if p.URL != "" {
		n["url"] = p.URL
	}
	if p.Lat != nil && p.Lng != nil {
		n["geo"] = GeoCoordinates(*p.Lat, *p.Lng)
	}
	if p.ContainedIn != nil {
		n["containedInPlace"] = p.ContainedIn.Node()
	}
	return n
}

func Organization(site config.SiteConfig) Node {
	name := site.Publisher
	if name == "" {
		name = site.Name
	}
	return Node{"@type": "GovernmentOrganization", "name": name, "url": site.BaseURL}
}

type DatasetInfo struct {
	Name        string
	Description string
	URL         string
	Keywords    []string
	Variables   []string
	Spatial     Place
	Modified    time.Time
}

func Dataset(site config.SiteConfig, d DatasetInfo) Node {
	n := Node{
		"@context":            schemaContext,
		"@type":               "Dataset",
		"name":                d.Name,
		"description":         d.Description,
		"url":                 d.URL,
		"isAccessibleForFree": true,
		"spatialCoverage":     d.Spatial.Node(),
		"creator":             Organization(site),
	}
	if len(d.Keywords) > 0 {
		n["keywords"] = d.Keywords
	}
	if len(d.Variables) > 0 {
		n["variableMeasured"] = d.Variables
	}
	if site.License != "" {
		n["license"] = site.License
	}
	if !d.Modified.IsZero() {
		n["dateModified"] = d.Modified.UTC().Format("2006-01-02")
	}
	return n
}

// AdministrativeArea is a top-level document for the municipality or a ward.
func AdministrativeArea(p Place) Node {
	p.Admin = true
	n := p.Node()
	n["@context"] = schemaContext
	return n
}

type Crumb struct {
	Name string
	URL  string
}

func BreadcrumbList(crumbs ...Crumb) Node {
	items := make([]Node, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, Node{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     c.URL,
		})
	}
	return Node{"@context": schemaContext, "@type": "BreadcrumbList", "itemListElement": items}
}

type LandmarkInfo struct {
	Name        string
	AltName     string
	Description string
	URL         string
	Images      []string
	Lat, Lng    *float64
	Keywords    []string
	Period      string
	Area        Place
}

// Landmark describes a historical site as both a tourist attraction and a
// historical building.
func Landmark(l LandmarkInfo) Node {
	n := Node{
		"@context":            schemaContext,
		"@type":               []string{"TouristAttraction", "LandmarksOrHistoricalBuildings"},
		"name":                l.Name,
		"url":                 l.URL,
		"containedInPlace":    l.Area.Node(),
		"isAccessibleForFree": true,
	}
	if l.AltName != "" {
		n["alternateName"] = l.AltName
	}
	if l.Description != "" {
		n["description"] = l.Description
	}
	if len(l.Images) > 0 {
		n["image"] = l.Images
	}
	if l.Lat != nil && l.Lng != nil {
		n["geo"] = GeoCoordinates(*l.Lat, *l.Lng)
	}
	if len(l.Keywords) > 0 {
		n["keywords"] = l.Keywords
	}
	if l.Period != "" {
		n["temporalCoverage"] = l.Period
	}
	return n
}

type ListEntry struct {
	Name string
	URL  string
}

func ItemList(name string, entries []ListEntry) Node {
	items := make([]Node, 0, len(entries))
	for i, e := range entries {
		items = append(items, Node{"@type": "ListItem", "position": i + 1, "name": e.Name, "url": e.URL})
	}
	return Node{
		"@context":        schemaContext,
		"@type":           "ItemList",
		"name":            name,
		"numberOfItems":   len(entries),
		"itemListElement": items,
	}
}

// Script renders each document in its own ld+json script tag. <, > and & are
// escaped so no string value can close the tag.
func Script(docs ...Node) (template.HTML, error) {
	var b bytes.Buffer
	for _, d := range docs {
		if d == nil {
			continue
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return "", err
		}
		b.WriteString(`<script type="application/ld+json">`)
		b.Write(escapeScript(raw))
		b.WriteString("</script>\n")
	}
	return template.HTML(b.String()), nil
}

func escapeScript(raw []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(raw))
	for _, c := range raw {
		switch c {
		case '<':
			b.WriteString(`\u003c`)
		case '>':
			b.WriteString(`\u003e`)
		case '&':
			b.WriteString(`\u0026`)
		default:
			b.WriteByte(c)
		}
	}
	return b.Bytes()
}
