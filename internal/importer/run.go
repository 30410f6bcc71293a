// Package importer loads ward x category datasets from CSV files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/metrics"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

type Config struct {
	Dataset string
	CSVPath string
	// Namespace is the uuid namespace for row ids. Empty uses DefaultNamespace.
	Namespace string
	// RowsPerSecond caps insert throughput. 0 means unlimited.
	RowsPerSecond int
}

// Result reports what an import wrote.
type Result struct {
	Dataset string
	Rows    int
	Total   float64
}

// Run parses cfg.CSVPath and replaces the dataset with its rows in one transaction.
func Run(ctx context.Context, d *gorm.DB, cfg Config) (*Result, error) {
	ds, ok := profile.Lookup(cfg.Dataset)
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", cfg.Dataset)
	}

	ns := DefaultNamespace
	if cfg.Namespace != "" {
		parsed, err := uuid.Parse(cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("invalid namespace uuid: %w", err)
		}
		ns = parsed
	}
	if cfg.RowsPerSecond < 0 {
		return nil, errors.New("rate must not be negative")
	}

	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := ParseCSV(f, ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.CSVPath, err)
	}

	rows := Build(ns, ds.Key, parsed)
	limiter := newLimiter(cfg.RowsPerSecond)

	log := logging.Component("importer")
	err = d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return wardstats.ReplaceTx(tx, ds.Key, rows, func(n int) error {
			if limiter == nil {
				return nil
			}
			return limiter.WaitN(ctx, n)
		})
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Dataset: ds.Key, Rows: len(rows)}
	for _, r := range rows {
		res.Total += r.Value
	}
	metrics.ImportRowsTotal.WithLabelValues(ds.Key).Add(float64(len(rows)))
	log.Info().Str("dataset", ds.Key).Int("rows", res.Rows).Float64("total", res.Total).Msg("Dataset imported")
	return res, nil
}

// Build turns parsed rows into stored rows with deterministic ids.
func Build(ns uuid.UUID, dataset string, parsed []Row) []wardstats.WardCategoryStat {
	out := make([]wardstats.WardCategoryStat, 0, len(parsed))
	for _, r := range parsed {
		out = append(out, wardstats.WardCategoryStat{
			ID:         RowID(ns, dataset, r.Ward, r.Category, r.Gender),
			Dataset:    dataset,
			WardNumber: r.Ward,
			Category:   r.Category,
			Gender:     r.Gender,
			Value:      r.Value,
		})
	}
	return out
}

// newLimiter paces whole batches. The burst must cover a full batch or WaitN
// fails outright.
func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(perSecond, wardstats.BatchSize))
}
