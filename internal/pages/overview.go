package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/PalikaProfile/Profile-Backend/internal/culture"
	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/seo"
)

type section struct {
	Title string
	Links []NavLink
}

type overviewData struct {
	Municipality *profile.Municipality
	Stats        demographics.MunicipalityStats
	Sites        culture.SiteStats
	Sections     []section
}

type barChart struct {
	Labels []string             `json:"labels"`
	Series map[string][]float64 `json:"series"`
}

func (s *Server) Overview(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "overview", "overview", s.loadOverview)
}

func (s *Server) loadOverview(ctx context.Context, locale string) (*View, error) {
	m, err := s.src.Profile.Municipality(ctx)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	summaries, err := s.src.Summaries.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := s.src.Sites.All(ctx)
	if err != nil {
		return nil, err
	}

	title := s.site.Name
	if m != nil {
		title = m.Name
		if locale == "ne" && m.NameNe != "" {
			title = m.NameNe
		}
	}
	data := overviewData{
		Municipality: m,
		Stats:        demographics.SummarizeMunicipality(summaries),
		Sites:        culture.SummarizeSites(sites, locale),
	}

	v := s.newView(ctx, locale, "/", title, "")
	v.Meta.Description = overviewDescription(v, data)
	v.Meta.OpenGraph.Description = v.Meta.Description
	v.Meta.Twitter.Description = v.Meta.Description

	var entries []seo.ListEntry
	for _, d := range profile.Domains {
		sec := section{Title: profile.DomainTitle(d, locale)}
		landing := domainLanding(d)
		sec.Links = append(sec.Links, NavLink{Title: landingTitle(d, locale), URL: v.Link(landing)})
		for _, ds := range profile.DatasetsByDomain(d) {
			sec.Links = append(sec.Links, NavLink{Title: ds.LocalTitle(locale), URL: v.Link(ds.Path())})
			entries = append(entries, seo.ListEntry{Name: ds.LocalTitle(locale), URL: seo.LocalURL(s.site, ds.Path(), locale)})
		}
		data.Sections = append(data.Sections, sec)
	}
	v.Data = data

	chart := barChart{Series: map[string][]float64{"population": {}}}
	for _, ward := range data.Stats.Wards {
		chart.Labels = append(chart.Labels, v.WardLabel(ward.WardNumber))
		chart.Series["population"] = append(chart.Series["population"], float64(ward.Population))
	}
	v.Chart = chart

	place := s.place(ctx)
	if err := v.withLD(seo.AdministrativeArea(place), seo.ItemList(t(locale, "datasets"), entries)); err != nil {
		return nil, err
	}
	return v, nil
}

func landingTitle(d profile.Domain, locale string) string {
	switch d {
	case profile.DomainDemographics:
		return t(locale, "ward_summary")
	case profile.DomainEconomics:
		return t(locale, "remittance")
	case profile.DomainEducation:
		return t(locale, "literacy")
	default:
		return t(locale, "historical_sites")
	}
}

func overviewDescription(v *View, d overviewData) string {
	if d.Stats.WardCount == 0 {
		return v.SiteName
	}
	if v.Locale == "ne" {
		return v.SiteName + ": " + v.Num(d.Stats.WardCount) + " वडा, जनसंख्या " + v.Num(d.Stats.TotalPopulation) +
			", घरधुरी " + v.Num(d.Stats.TotalHouseholds) + "।"
	}
	return v.SiteName + ": " + v.Num(d.Stats.WardCount) + " wards, population " + v.Num(d.Stats.TotalPopulation) +
		", " + v.Num(d.Stats.TotalHouseholds) + " households."
}
