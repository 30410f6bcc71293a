package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/culture"
	"github.com/PalikaProfile/Profile-Backend/internal/geojson"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/seo"
)

const sitesPath = "/profile/culture/historical-sites"

type siteItem struct {
	Site culture.HistoricalSite
	Name string
	Type string
	URL  string
}

type sitesData struct {
	Stats culture.SiteStats
	Items []siteItem
}

func localName(name, nameNe, locale string) string {
	if locale == "ne" && nameNe != "" {
		return nameNe
	}
	return name
}

func (s *Server) Sites(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "sites", "culture:sites", func(ctx context.Context, locale string) (*View, error) {
		sites, err := s.src.Sites.All(ctx)
		if err != nil {
			return nil, err
		}
		v := s.newView(ctx, locale, sitesPath, t(locale, "historical_sites"),
			"Temples, monasteries, forts and other heritage sites of the municipality.")
		v.crumb(profile.DomainTitle(profile.DomainCulture, locale), sitesPath)
		v.crumb(t(locale, "historical_sites"), sitesPath)

		data := sitesData{Stats: culture.SummarizeSites(sites, locale)}
		entries := make([]seo.ListEntry, 0, len(sites))
		for _, site := range sites {
			path := sitesPath + "/" + site.Slug
			item := siteItem{
				Site: site,
				Name: localName(site.Name, site.NameNe, locale),
				Type: site.Type.Label(locale),
				URL:  v.Link(path),
			}
			data.Items = append(data.Items, item)
			entries = append(entries, seo.ListEntry{Name: item.Name, URL: seo.LocalURL(s.site, path, locale)})
		}
		v.Data = data

		chart := barChart{Series: map[string][]float64{"sites": {}}}
		for _, share := range data.Stats.ByType {
			chart.Labels = append(chart.Labels, share.Label)
			chart.Series["sites"] = append(chart.Series["sites"], share.Value)
		}
		v.Chart = chart
		return v, v.withLD(seo.ItemList(t(locale, "historical_sites"), entries))
	})
}

type siteData struct {
	Site culture.HistoricalSite
	Name string
	Type string
	Ward string
	Lat  *float64
	Lng  *float64
}

// point reads the site location; sites without one have no coordinates.
func point(site culture.HistoricalSite) (lat, lng *float64) {
	if !geojson.Present(site.Location) {
		return nil, nil
	}
	g, err := geojson.ParseGeometry(site.Location)
	if err != nil {
		return nil, nil
	}
	la, ln, err := g.LatLng()
	if err != nil {
		return nil, nil
	}
	return &la, &ln
}

func (s *Server) Site(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s.serve(w, r, "site", cacheKey("culture", "site", slug), func(ctx context.Context, locale string) (*View, error) {
		site, err := s.src.Sites.BySlug(ctx, slug)
		if errors.Is(err, culture.ErrNotFound) {
			return nil, errNotFound
		}
		if err != nil {
			return nil, err
		}

		path := sitesPath + "/" + site.Slug
		name := localName(site.Name, site.NameNe, locale)
		v := s.newView(ctx, locale, path, name, site.Description)
		v.Meta.Keywords = site.Tags
		v.Meta.OpenGraph.Type = "place"
		if len(site.Images) > 0 {
			v.Meta.OpenGraph.Image = site.Images[0]
			v.Meta.Twitter.Card = "summary_large_image"
		}
		v.crumb(profile.DomainTitle(profile.DomainCulture, locale), sitesPath)
		v.crumb(t(locale, "historical_sites"), sitesPath)
		v.crumb(name, path)

		data := siteData{Site: *site, Name: name, Type: site.Type.Label(locale)}
		data.Lat, data.Lng = point(*site)

		area := s.place(ctx)
		if site.WardNumber != nil {
			data.Ward = v.WardLabel(*site.WardNumber)
			municipality := area
			area = seo.Place{Name: profile.WardLabel(*site.WardNumber), ContainedIn: &municipality, Admin: true}
		}
		v.Data = data

		ld := seo.Landmark(seo.LandmarkInfo{
			Name:        site.Name,
			AltName:     site.NameNe,
			Description: site.Description,
			URL:         seo.LocalURL(s.site, path, locale),
			Images:      site.Images,
			Lat:         data.Lat,
			Lng:         data.Lng,
			Keywords:    site.Tags,
			Period:      site.Period,
			Area:        area,
		})
		return v, v.withLD(ld)
	})
}
