package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nogus/server/internal/models"
)

func setupTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewTestDB()
	require.NoError(t, err)
	require.NoError(t, MigrateSchema(db))
	return FromGorm(db)
}

func completedRecord(id string) *models.AnalysisRecord {
	input := models.AnalysisInput{
		Name:         "Franklin's Tower",
		HoldingYears: 5,
		Acquisition:  models.AcquisitionTerms{PricePerUnit: 315000, Units: 150},
	}
	result := &models.AnalysisResult{
		Name:         input.Name,
		HoldingYears: 5,
		NOI:          []float64{80000, 80000, 80000, 80000, 80000},
		Unlevered:    models.NewCashflowSeries([]float64{-1000000, 80000, 80000, 80000, 80000, 80000, 1454545.45}),
		UnleveredIRR: models.IRRResult{RatePct: 12.1, SignChanges: 1},
		LeveredIRR:   models.IRRResult{RatePct: 9.4, SignChanges: 2, MultipleRoots: true},
	}
	return models.NewAnalysisRecord(id, input, result, nil)
}

func TestDatabase_SaveAndGetAnalysis(t *testing.T) {
	d := setupTestDatabase(t)

	require.NoError(t, d.SaveAnalysis(completedRecord("a-1")))

	got, err := d.GetAnalysis("a-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.AnalysisStatusCompleted, got.Status)
	assert.Equal(t, "Franklin's Tower", got.Name)
	require.NotNil(t, got.UnleveredIRR)
	assert.Equal(t, 12.1, *got.UnleveredIRR)
	assert.True(t, got.MultipleRoots)
	assert.Equal(t, 150, got.Input.Acquisition.Units)

	require.NotNil(t, got.Result)
	assert.Equal(t, []float64{-1000000, 80000, 80000, 80000, 80000, 80000, 1454545.45}, got.Result.Unlevered.Amounts())
	assert.Equal(t, 6, got.Result.Unlevered[6].Period)
}

func TestDatabase_GetMissingAnalysis(t *testing.T) {
	d := setupTestDatabase(t)

	got, err := d.GetAnalysis("nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDatabase_FailedRecord(t *testing.T) {
	d := setupTestDatabase(t)

	input := models.AnalysisInput{Name: "broken", HoldingYears: 0}
	record := models.NewAnalysisRecord("f-1", input, nil, errors.New("analysis: holding period must be positive, got 0 years"))
	require.NoError(t, d.SaveAnalysis(record))

	got, err := d.GetAnalysis("f-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.AnalysisStatusFailed, got.Status)
	assert.Contains(t, got.Error, "holding period")
	assert.Nil(t, got.Result)
	assert.Nil(t, got.LeveredIRR)
}

func TestUpsertAnalyses(t *testing.T) {
	d := setupTestDatabase(t)

	batch := []*models.AnalysisRecord{completedRecord("b-1"), completedRecord("b-2")}
	require.NoError(t, d.GetDB().Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, batch)
	}))

	// second write of the same ID replaces it
	updated := completedRecord("b-1")
	updated.Name = "renamed"
	require.NoError(t, UpsertAnalyses(d.GetDB(), []*models.AnalysisRecord{updated}))

	got, err := d.GetAnalysis("b-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	records, err := d.ListAnalyses(10, "")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	assert.NoError(t, UpsertAnalyses(d.GetDB(), nil))
}

func TestDatabase_ListAnalyses(t *testing.T) {
	d := setupTestDatabase(t)

	for i := 0; i < 3; i++ {
		record := completedRecord(fmt.Sprintf("c-%d", i))
		record.CreatedAt = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, d.SaveAnalysis(record))
	}
	failed := models.NewAnalysisRecord("c-failed", models.AnalysisInput{Name: "broken"}, nil, errors.New("boom"))
	failed.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, d.SaveAnalysis(failed))

	records, err := d.ListAnalyses(2, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c-failed", records[0].ID)
	assert.Equal(t, "c-2", records[1].ID)

	completed, err := d.ListAnalyses(10, models.AnalysisStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 3)
}

func TestNewDatabase_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nogus.db")

	d, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, d.RunMigrations())
	require.NoError(t, d.SaveAnalysis(completedRecord("file-1")))
	assert.NoError(t, d.Close())
	assert.FileExists(t, path)
}
