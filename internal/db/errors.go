package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation       = "23505"
	invalidParameterValue = "22023"
	internalError         = "XX000"
)

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// ConstraintName returns the violated constraint, or "" when err is not a PgError.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsInvalidGeometry reports whether PostGIS rejected a geometry value, for
// example GeoJSON with an unclosed ring or too few points.
func IsInvalidGeometry(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case invalidParameterValue:
		return true
	case internalError:
		msg := strings.ToLower(pgErr.Message)
		for _, hint := range []string{"geojson", "geometry", "ring", "point", "coordinates", "polygon"} {
			if strings.Contains(msg, hint) {
				return true
			}
		}
	}
	return false
}
