package gateway

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmwatch/internal/models"
)

// Snapshot is the current domain state for one farm, fetched once per
// sweep and handed to every detector.
type Snapshot struct {
	Farm      models.Farm
	Crops     []models.Crop
	Livestock []models.Livestock
	Workers   []models.Worker
	Inputs    []models.Input
	Tasks     []models.Task
	Weather   *models.WeatherObservation
	Forecast  []models.DailyForecast
}

// FarmData is the read-only gateway the alert engine depends on. The
// engine never touches a concrete store's query language directly.
type FarmData interface {
	Snapshot(ctx context.Context, farmID string) (*Snapshot, error)
	ListFarmIDs(ctx context.Context) ([]string, error)
}

type gormFarmData struct {
	db *gorm.DB
}

// NewFarmData returns a FarmData backed by the GORM store.
func NewFarmData(db *gorm.DB) FarmData {
	return &gormFarmData{db: db}
}

func (g *gormFarmData) Snapshot(ctx context.Context, farmID string) (*Snapshot, error) {
	db := g.db.WithContext(ctx)

	var snap Snapshot
	if err := db.First(&snap.Farm, "id = ?", farmID).Error; err != nil {
		return nil, fmt.Errorf("failed to load farm %s: %w", farmID, err)
	}

	if err := db.Where("farm_id = ?", farmID).Find(&snap.Crops).Error; err != nil {
		return nil, fmt.Errorf("failed to load crops: %w", err)
	}
	if err := db.Preload("Vaccinations").Preload("HealthIssues").
		Where("farm_id = ?", farmID).Find(&snap.Livestock).Error; err != nil {
		return nil, fmt.Errorf("failed to load livestock: %w", err)
	}
	if err := db.Preload("Attendance").Preload("SafetyIncidents").
		Where("farm_id = ?", farmID).Find(&snap.Workers).Error; err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}
	if err := db.Where("farm_id = ?", farmID).Find(&snap.Inputs).Error; err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}
	if err := db.Where("farm_id = ? AND status IN ?", farmID,
		[]models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress}).
		Find(&snap.Tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	var obs models.WeatherObservation
	err := db.Where("farm_id = ?", farmID).Order("observed_at desc").First(&obs).Error
	switch {
	case err == nil:
		snap.Weather = &obs
	case err != gorm.ErrRecordNotFound:
		return nil, fmt.Errorf("failed to load weather: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := db.Where("farm_id = ? AND date >= ?", farmID, today).
		Order("date asc").Limit(3).Find(&snap.Forecast).Error; err != nil {
		return nil, fmt.Errorf("failed to load forecast: %w", err)
	}

	return &snap, nil
}

func (g *gormFarmData) ListFarmIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := g.db.WithContext(ctx).Model(&models.Farm{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return ids, nil
}
