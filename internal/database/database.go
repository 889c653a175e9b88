package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"nogus/server/internal/models"
)

// Database stores computed analysis outputs
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

// NewTestDB opens a private in-memory database
func NewTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// every pooled connection would otherwise see its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// FromGorm wraps an existing connection
func FromGorm(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertAnalyses inserts records or overwrites existing ones with the same ID
func UpsertAnalyses(tx *gorm.DB, records []*models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(records).Error
}

func (d *Database) SaveAnalysis(record *models.AnalysisRecord) error {
	return UpsertAnalyses(d.db, []*models.AnalysisRecord{record})
}

// GetAnalysis returns the stored analysis, or nil if there is none
func (d *Database) GetAnalysis(id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := d.db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAnalyses returns the most recent analyses, optionally filtered by
// status
func (d *Database) ListAnalyses(limit int, status string) ([]models.AnalysisRecord, error) {
	query := d.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var records []models.AnalysisRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
