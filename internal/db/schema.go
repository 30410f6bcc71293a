package db

import "gorm.io/gorm"

func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}

// EnsureExtensions enables Postgres extensions such as uuid-ossp and postgis.
func EnsureExtensions(d *gorm.DB, names ...string) error {
	for _, name := range names {
		if err := d.Exec(`CREATE EXTENSION IF NOT EXISTS "` + name + `"`).Error; err != nil {
			return err
		}
	}
	return nil
}
