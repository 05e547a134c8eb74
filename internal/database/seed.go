package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmwatch/internal/models"
)

// EnsureDemoFarm seeds a demo farm, an admin user and enough farm data
// for a first sweep to produce alerts. It is a no-op when any farm
// already exists.
func EnsureDemoFarm(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Farm{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count farms: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin := &models.User{
		Username:    "admin",
		Role:        models.RoleAdmin,
		Email:       "admin@farmwatch.local",
		IsActive:    true,
		NotifyEmail: true,
		NotifySMS:   false,
		NotifyPush:  true,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	now := time.Now()
	farm := &models.Farm{
		ID:           uuid.NewString(),
		Name:         "Demo Farm",
		OwnerID:      fmt.Sprint(admin.ID),
		Location:     "Demo Valley",
		SizeHectares: 42,
	}
	if err := db.Create(farm).Error; err != nil {
		return fmt.Errorf("failed to create demo farm: %w", err)
	}

	harvest := now.AddDate(0, 0, 2)
	crop := &models.Crop{
		ID:                uuid.NewString(),
		FarmID:            farm.ID,
		Name:              "Maize",
		Variety:           "Hybrid 614",
		PlantedAt:         now.AddDate(0, -4, 0),
		ExpectedHarvestAt: &harvest,
		Stage:             models.StageMature,
		StageChangedAt:    now.AddDate(0, 0, -10),
		AreaHectares:      12,
	}
	if err := db.Create(crop).Error; err != nil {
		return fmt.Errorf("failed to create demo crop: %w", err)
	}

	inputs := []models.Input{
		{
			ID:           uuid.NewString(),
			FarmID:       farm.ID,
			Name:         "DAP Fertilizer",
			Category:     "fertilizer",
			CurrentStock: 3,
			MinimumStock: 10,
			Unit:         "bags",
		},
		{
			ID:           uuid.NewString(),
			FarmID:       farm.ID,
			Name:         "Dairy Feed",
			Category:     "feed",
			CurrentStock: 40,
			MinimumStock: 15,
			Unit:         "kg",
		},
	}
	if err := db.Create(&inputs).Error; err != nil {
		return fmt.Errorf("failed to create demo inputs: %w", err)
	}

	due := now.AddDate(0, 0, -5)
	task := &models.Task{
		ID:       uuid.NewString(),
		FarmID:   farm.ID,
		Title:    "Repair irrigation pump",
		Status:   models.TaskStatusPending,
		Priority: models.TaskPriorityHigh,
		DueAt:    &due,
	}
	if err := db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create demo task: %w", err)
	}

	return nil
}
