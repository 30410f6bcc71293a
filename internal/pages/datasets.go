package pages

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/economics"
	"github.com/PalikaProfile/Profile-Backend/internal/education"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/seo"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

// rows loads every ward row of a catalog dataset.
func (s *Server) rows(ctx context.Context, key string) (profile.Dataset, []wardstats.WardCategoryStat, error) {
	ds, ok := profile.Lookup(key)
	if !ok {
		return profile.Dataset{}, nil, fmt.Errorf("dataset %q missing from catalog", key)
	}
	rows, err := s.src.Stats.List(ctx, ds.Key, wardstats.Filter{})
	if err != nil {
		return ds, nil, fmt.Errorf("load %s rows: %w", ds.Key, err)
	}
	return ds, rows, nil
}

// datasetLD describes one catalog dataset for search engines.
func (s *Server) datasetLD(ctx context.Context, v *View, ds profile.Dataset, path string) seo.Node {
	vars := make([]string, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		vars = append(vars, ds.Label(c.Key, v.Locale))
	}
	return seo.Dataset(s.site, seo.DatasetInfo{
		Name:        ds.LocalTitle(v.Locale),
		Description: ds.Description,
		URL:         seo.LocalURL(s.site, path, v.Locale),
		Keywords:    ds.Keywords,
		Variables:   vars,
		Spatial:     s.place(ctx),
	})
}

type wardRow struct {
	demographics.WardSummary
	Label      string
	Percentage float64
}

type wardSummaryData struct {
	Stats demographics.MunicipalityStats
	Rows  []wardRow
}

func (s *Server) WardSummary(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "ward_summary", "demographics:ward-summary", func(ctx context.Context, locale string) (*View, error) {
		rows, err := s.src.Summaries.Summaries(ctx)
		if err != nil {
			return nil, err
		}
		wards, err := s.src.Profile.Wards(ctx)
		if err != nil {
			return nil, err
		}
		named := make(map[int]profile.Ward, len(wards))
		for _, w := range wards {
			named[w.Number] = w
		}
		const path = "/profile/demographics/ward-summary"
		v := s.newView(ctx, locale, path, t(locale, "ward_summary"),
			"Population, households, sex ratio and average household size for every ward.")
		v.crumb(profile.DomainTitle(profile.DomainDemographics, locale), path)
		v.crumb(t(locale, "ward_summary"), path)

		data := wardSummaryData{Stats: demographics.SummarizeMunicipality(rows)}
		shares := make(map[int]float64, len(data.Stats.Wards))
		for _, share := range data.Stats.Wards {
			shares[share.WardNumber] = share.Percentage
		}
		for _, row := range rows {
			label := v.WardLabel(row.WardNumber)
			if w, ok := named[row.WardNumber]; ok {
				label = v.NamedWard(w)
			}
			data.Rows = append(data.Rows, wardRow{WardSummary: row, Label: label, Percentage: shares[row.WardNumber]})
		}
		v.Data = data

		chart := barChart{Series: map[string][]float64{"male": {}, "female": {}, "households": {}}}
		for _, row := range data.Rows {
			chart.Labels = append(chart.Labels, row.Label)
			chart.Series["male"] = append(chart.Series["male"], float64(row.MalePopulation))
			chart.Series["female"] = append(chart.Series["female"], float64(row.FemalePopulation))
			chart.Series["households"] = append(chart.Series["households"], float64(row.TotalHouseholds))
		}
		v.Chart = chart

		ld := seo.Dataset(s.site, seo.DatasetInfo{
			Name:      t(locale, "ward_summary"),
			URL:       seo.LocalURL(s.site, path, locale),
			Keywords:  []string{"population", "households", "sex ratio", "wards"},
			Variables: []string{"total_population", "male_population", "female_population", "total_households"},
			Spatial:   s.place(ctx),
		})
		return v, v.withLD(ld)
	})
}

func (s *Server) AgeGroups(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "age_groups", "demographics:age-groups", func(ctx context.Context, locale string) (*View, error) {
		ds, rows, err := s.rows(ctx, profile.DatasetAgeGroups)
		if err != nil {
			return nil, err
		}
		path := ds.Path()
		v := s.newView(ctx, locale, path, ds.LocalTitle(locale), ds.Description)
		v.Meta.Keywords = ds.Keywords
		v.crumb(profile.DomainTitle(ds.Domain, locale), domainLanding(ds.Domain))
		v.crumb(ds.LocalTitle(locale), path)

		pyramid := demographics.BuildAgePyramid(ds, rows, locale)
		v.Data = pyramid

		chart := barChart{Series: map[string][]float64{"male": {}, "female": {}}}
		for _, b := range pyramid.Bands {
			chart.Labels = append(chart.Labels, b.Label)
			chart.Series["male"] = append(chart.Series["male"], b.Male)
			chart.Series["female"] = append(chart.Series["female"], b.Female)
		}
		v.Chart = chart
		return v, v.withLD(s.datasetLD(ctx, v, ds, path))
	})
}

type datasetData struct {
	Dataset profile.Dataset
	Summary wardstats.CategorySummary
	Table   wardstats.Table
	Genders []wardstats.GenderRow
}

// Dataset renders any catalog dataset as category shares plus a ward table.
func (s *Server) Dataset(w http.ResponseWriter, r *http.Request) {
	domain, ok := profile.ParseDomain(chi.URLParam(r, "domain"))
	if !ok {
		s.notFound(w, r, s.locale(r))
		return
	}
	ds, ok := profile.LookupPage(domain, chi.URLParam(r, "slug"))
	if !ok {
		s.notFound(w, r, s.locale(r))
		return
	}

	s.serve(w, r, "dataset", cacheKey("stats", ds.Key), func(ctx context.Context, locale string) (*View, error) {
		_, rows, err := s.rows(ctx, ds.Key)
		if err != nil {
			return nil, err
		}
		path := ds.Path()
		v := s.newView(ctx, locale, path, ds.LocalTitle(locale), ds.Description)
		v.Meta.Keywords = ds.Keywords
		v.crumb(profile.DomainTitle(ds.Domain, locale), domainLanding(ds.Domain))
		v.crumb(ds.LocalTitle(locale), path)

		data := datasetData{
			Dataset: ds,
			Summary: wardstats.SummarizeCategories(ds, rows, 0).Localize(ds, locale),
			Table:   wardstats.CrossTab(ds, rows, locale),
		}
		if ds.HasGender {
			data.Genders = wardstats.GenderBreakdown(ds, rows, locale)
		}
		v.Data = data

		chart := barChart{Series: map[string][]float64{"value": {}}}
		for _, c := range data.Summary.Categories {
			chart.Labels = append(chart.Labels, c.Label)
			chart.Series["value"] = append(chart.Series["value"], c.Value)
		}
		v.Chart = chart
		return v, v.withLD(s.datasetLD(ctx, v, ds, path))
	})
}

type remittanceData struct {
	Remittance economics.RemittanceReport
	Income     economics.IncomeDependencyReport
}

func (s *Server) Remittance(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "remittance", "economics:remittance", func(ctx context.Context, locale string) (*View, error) {
		remDS, remRows, err := s.rows(ctx, profile.DatasetRemittance)
		if err != nil {
			return nil, err
		}
		incDS, incRows, err := s.rows(ctx, profile.DatasetIncomeSource)
		if err != nil {
			return nil, err
		}

		const path = "/profile/economics/remittance"
		v := s.newView(ctx, locale, path, t(locale, "remittance"),
			"Households receiving remittance, estimated amounts and dependence on agriculture by ward.")
		v.Meta.Keywords = append(append([]string{}, remDS.Keywords...), incDS.Keywords...)
		v.crumb(profile.DomainTitle(profile.DomainEconomics, locale), path)
		v.crumb(t(locale, "remittance"), path)

		data := remittanceData{
			Remittance: economics.RemittanceEstimate(remDS, remRows, locale),
			Income:     economics.IncomeDependency(incDS, incRows, locale),
		}
		v.Data = data

		chart := barChart{Series: map[string][]float64{"households": {}}}
		for _, b := range data.Remittance.Overall.Bands {
			chart.Labels = append(chart.Labels, b.Label)
			chart.Series["households"] = append(chart.Series["households"], b.Value)
		}
		v.Chart = chart
		return v, v.withLD(s.datasetLD(ctx, v, remDS, path), s.datasetLD(ctx, v, incDS, incDS.Path()))
	})
}

type literacyData struct {
	Literacy   education.LiteracyReport
	Attainment education.AttainmentReport
}

func (s *Server) Literacy(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "literacy", "education:literacy", func(ctx context.Context, locale string) (*View, error) {
		litDS, litRows, err := s.rows(ctx, profile.DatasetLiteracyStatus)
		if err != nil {
			return nil, err
		}
		eduDS, eduRows, err := s.rows(ctx, profile.DatasetEducationalLevel)
		if err != nil {
			return nil, err
		}

		const path = "/profile/education/literacy"
		v := s.newView(ctx, locale, path, t(locale, "literacy"),
			"Literacy rates by ward and gender, with secondary and higher education attainment.")
		v.Meta.Keywords = litDS.Keywords
		v.crumb(profile.DomainTitle(profile.DomainEducation, locale), path)
		v.crumb(t(locale, "literacy"), path)

		data := literacyData{
			Literacy:   education.LiteracyRates(litRows),
			Attainment: education.EducationalAttainment(eduRows),
		}
		v.Data = data

		chart := barChart{Series: map[string][]float64{"literacy_rate": {}}}
		for _, ward := range data.Literacy.Wards {
			chart.Labels = append(chart.Labels, v.WardLabel(ward.WardNumber))
			chart.Series["literacy_rate"] = append(chart.Series["literacy_rate"], ward.LiteracyRate)
		}
		v.Chart = chart
		return v, v.withLD(s.datasetLD(ctx, v, litDS, path), s.datasetLD(ctx, v, eduDS, eduDS.Path()))
	})
}
