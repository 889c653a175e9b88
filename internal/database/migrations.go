package database

import (
	"gorm.io/gorm"

	"nogus/server/internal/models"
)

// MigrateSchema creates or updates the tables for stored analyses
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(&models.AnalysisRecord{})
}

// RunMigrations migrates the wrapped connection
func (d *Database) RunMigrations() error {
	return MigrateSchema(d.db)
}
