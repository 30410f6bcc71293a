// Package seeds loads a YAML profile into an empty or existing database.
// Seeding twice leaves the database in the same state.
package seeds

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PalikaProfile/Profile-Backend/internal/culture"
	"github.com/PalikaProfile/Profile-Backend/internal/demographics"
	"github.com/PalikaProfile/Profile-Backend/internal/importer"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/slug"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

//go:embed data/sample.yaml
var sample []byte

type File struct {
	Municipality Municipality            `yaml:"municipality"`
	Wards        []Ward                  `yaml:"wards"`
	Summaries    []Summary               `yaml:"summaries"`
	Datasets     map[string][]DatasetRow `yaml:"datasets"`
	Sites        []Site                  `yaml:"sites"`
}

type Municipality struct {
	Name      string   `yaml:"name"`
	NameNe    string   `yaml:"name_ne"`
	Slug      string   `yaml:"slug"`
	District  string   `yaml:"district"`
	Province  string   `yaml:"province"`
	AreaSqKm  float64  `yaml:"area_sq_km"`
	WardCount int      `yaml:"ward_count"`
	Website   string   `yaml:"website"`
	Email     string   `yaml:"email"`
	Phone     string   `yaml:"phone"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

type Ward struct {
	Number   int     `yaml:"number"`
	Name     string  `yaml:"name"`
	NameNe   string  `yaml:"name_ne"`
	AreaSqKm float64 `yaml:"area_sq_km"`
	Office   string  `yaml:"office"`
	Phone    string  `yaml:"phone"`
}

type Summary struct {
	Ward       int `yaml:"ward"`
	Male       int `yaml:"male"`
	Female     int `yaml:"female"`
	Other      int `yaml:"other"`
	Households int `yaml:"households"`
}

type DatasetRow struct {
	Ward     int     `yaml:"ward"`
	Category string  `yaml:"category"`
	Gender   string  `yaml:"gender"`
	Value    float64 `yaml:"value"`
}

type Point struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type Site struct {
	Name            string   `yaml:"name"`
	NameNe          string   `yaml:"name_ne"`
	Slug            string   `yaml:"slug"`
	Type            string   `yaml:"type"`
	Ward            *int     `yaml:"ward"`
	Description     string   `yaml:"description"`
	Period          string   `yaml:"period"`
	YearEstablished *int     `yaml:"year_established"`
	HeritageListed  bool     `yaml:"heritage_listed"`
	Tags            []string `yaml:"tags"`
	Images          []string `yaml:"images"`
	Location        *Point   `yaml:"location"`
}

// Sample returns the embedded seed file.
func Sample() (*File, error) {
	return Parse(sample)
}

// Load reads path, or the embedded sample when path is empty.
func Load(path string) (*File, error) {
	if path == "" {
		return Sample()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a seed file strictly and checks it against the dataset catalog.
func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(raw, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) check() error {
	if f.Municipality.Name == "" {
		return fmt.Errorf("municipality.name is required")
	}
	for i, w := range f.Wards {
		if w.Number < 1 || w.Number > validation.MaxWard {
			return fmt.Errorf("wards[%d]: number %d out of range", i, w.Number)
		}
	}
	for i, s := range f.Summaries {
		if s.Ward < 1 || s.Ward > validation.MaxWard {
			return fmt.Errorf("summaries[%d]: ward %d out of range", i, s.Ward)
		}
		if s.Male < 0 || s.Female < 0 || s.Other < 0 || s.Households < 0 {
			return fmt.Errorf("summaries[%d]: counts must not be negative", i)
		}
	}
	for key, rows := range f.Datasets {
		ds, ok := profile.Lookup(key)
		if !ok {
			return fmt.Errorf("datasets: unknown dataset %q", key)
		}
		for i, r := range rows {
			switch {
			case r.Ward < 1 || r.Ward > validation.MaxWard:
				return fmt.Errorf("datasets.%s[%d]: ward %d out of range", key, i, r.Ward)
			case !ds.HasCategory(r.Category):
				return fmt.Errorf("datasets.%s[%d]: unknown category %q", key, i, r.Category)
			case !ds.ValidGender(r.Gender):
				return fmt.Errorf("datasets.%s[%d]: invalid gender %q", key, i, r.Gender)
			case r.Value < 0:
				return fmt.Errorf("datasets.%s[%d]: value must not be negative", key, i)
			}
		}
	}
	for i, s := range f.Sites {
		if s.Name == "" {
			return fmt.Errorf("sites[%d]: name is required", i)
		}
		if !validSiteType(culture.SiteType(s.Type)) {
			return fmt.Errorf("sites[%d]: unknown type %q", i, s.Type)
		}
	}
	return nil
}

func validSiteType(t culture.SiteType) bool {
	for _, known := range culture.SiteTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SiteSlug is the slug a site is stored under.
func (s Site) SiteSlug() string {
	if s.Slug != "" {
		return s.Slug
	}
	return slug.Make(s.Name)
}

func pointGeoJSON(p *Point) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(map[string]any{"type": "Point", "coordinates": []float64{p.Lng, p.Lat}})
}

// SeedAll writes f through the domain repositories. Profile rows and ward
// summaries are upserted, datasets replaced, and sites inserted when their
// slug is free.
func SeedAll(ctx context.Context, d *gorm.DB, f *File) error {
	log := logging.Component("seeds")

	profiles := profile.NewRepository(d)
	m := f.Municipality
	if m.Slug == "" {
		m.Slug = slug.Make(m.Name)
	}
	_, err := profiles.SaveMunicipality(ctx, &profile.Municipality{
		Name: m.Name, NameNe: m.NameNe, Slug: m.Slug, District: m.District, Province: m.Province,
		AreaSqKm: m.AreaSqKm, WardCount: m.WardCount, Website: m.Website, Email: m.Email, Phone: m.Phone,
		Latitude: m.Latitude, Longitude: m.Longitude,
	}, nil)
	if err != nil {
		return err
	}
	for _, w := range f.Wards {
		ward := &profile.Ward{Number: w.Number, Name: w.Name, NameNe: w.NameNe, AreaSqKm: w.AreaSqKm, Office: w.Office, Phone: w.Phone}
		if _, err := profiles.SaveWard(ctx, ward, nil); err != nil {
			return err
		}
	}
	log.Info().Int("wards", len(f.Wards)).Msg("Seeded municipality")

	summaries := demographics.NewRepository(d)
	for _, s := range f.Summaries {
		row := &demographics.WardSummary{
			WardNumber: s.Ward, MalePopulation: s.Male, FemalePopulation: s.Female,
			OtherPopulation: s.Other, TotalHouseholds: s.Households,
		}
		if _, err := summaries.SaveSummary(ctx, row); err != nil {
			return err
		}
	}
	log.Info().Int("summaries", len(f.Summaries)).Msg("Seeded ward summaries")

	stats := wardstats.NewRepository(d)
	for key, rows := range f.Datasets {
		parsed := make([]importer.Row, 0, len(rows))
		for i, r := range rows {
			parsed = append(parsed, importer.Row{Line: i + 1, Ward: r.Ward, Category: r.Category, Gender: r.Gender, Value: r.Value})
		}
		n, err := stats.Replace(ctx, key, importer.Build(importer.DefaultNamespace, key, parsed))
		if err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		log.Info().Str("dataset", key).Int("rows", n).Msg("Seeded dataset")
	}

	sites := culture.NewRepository(d)
	created := 0
	for _, s := range f.Sites {
		siteSlug := s.SiteSlug()
		exists, err := sites.SlugExists(ctx, siteSlug, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			log.Debug().Str("slug", siteSlug).Msg("Site exists, skipping")
			continue
		}
		location, err := pointGeoJSON(s.Location)
		if err != nil {
			return err
		}
		site := &culture.HistoricalSite{
			Name: s.Name, NameNe: s.NameNe, Slug: siteSlug, Type: culture.SiteType(s.Type),
			Description: s.Description, WardNumber: s.Ward, Period: s.Period,
			YearEstablished: s.YearEstablished, IsHeritageListed: s.HeritageListed,
			Tags: s.Tags, Images: s.Images,
		}
		if _, err := sites.Create(ctx, site, location, nil); err != nil {
			return fmt.Errorf("seed site %s: %w", siteSlug, err)
		}
		created++
	}
	log.Info().Int("created", created).Int("skipped", len(f.Sites)-created).Msg("Seeded historical sites")
	return nil
}
