package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
)

// Row is one parsed CSV record. Line is the 1-based file line the record starts on.
type Row struct {
	Line     int
	Ward     int
	Category string
	Gender   string
	Value    float64
}

var required = []string{"ward", "category", "value"}

// ParseCSV reads ward,category[,gender],value rows and checks them against ds.
// Columns may appear in any order; a leading BOM is ignored.
func ParseCSV(in io.Reader, ds profile.Dataset) ([]Row, error) {
	r := csv.NewReader(bufio.NewReader(in))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv has no data rows")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range required {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}
	_, hasGender := col["gender"]
	if ds.HasGender && !hasGender {
		return nil, fmt.Errorf("dataset %s is split by gender: missing column gender", ds.Key)
	}

	type cell struct {
		ward             int
		category, gender string
	}
	seen := map[cell]int{}
	var out []Row

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		ward, err := validation.ParseWard(get("ward"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		category := get("category")
		if category == "" {
			return nil, fmt.Errorf("row %d: category is required", line)
		}
		if !ds.HasCategory(category) {
			return nil, fmt.Errorf("row %d: unknown category %q for dataset %s", line, category, ds.Key)
		}

		gender := strings.ToLower(get("gender"))
		if !ds.ValidGender(gender) {
			if ds.HasGender {
				return nil, fmt.Errorf("row %d: gender must be one of %s (got %q)", line, strings.Join(profile.Genders, ", "), gender)
			}
			return nil, fmt.Errorf("row %d: dataset %s has no gender split (got %q)", line, ds.Key, gender)
		}

		raw := get("value")
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: value %q is not a number", line, raw)
		}
		if value < 0 {
			return nil, fmt.Errorf("row %d: value must not be negative", line)
		}

		key := cell{ward, category, gender}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("row %d: duplicate of row %d", line, prev)
		}
		seen[key] = line

		out = append(out, Row{Line: line, Ward: ward, Category: category, Gender: gender, Value: value})
	}
	if len(out) == 0 {
		return nil, errors.New("csv has no data rows")
	}
	return out, nil
}
