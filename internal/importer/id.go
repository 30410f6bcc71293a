package importer

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultNamespace seeds row ids when no namespace is configured.
var DefaultNamespace = uuid.MustParse("6f2a4d1e-8c3b-5e7f-9a10-4b2c8d6e1f30")

// RowID is stable for a given dataset cell, so re-importing the same file
// yields the same primary keys.
func RowID(ns uuid.UUID, dataset string, ward int, category, gender string) uuid.UUID {
	return uuid.NewSHA1(ns, []byte(fmt.Sprintf("%s:%d:%s:%s", dataset, ward, category, gender)))
}
