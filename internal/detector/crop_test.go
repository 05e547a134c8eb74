package detector

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

func cropWithHarvest(id string, daysOut int) models.Crop {
	harvest := time.Now().AddDate(0, 0, daysOut)
	return models.Crop{
		ID:                id,
		Name:              "Maize",
		Variety:           "Hybrid 614",
		Stage:             models.StageMature,
		ExpectedHarvestAt: &harvest,
	}
}

func TestCropDetector_HarvestOverdue(t *testing.T) {
	now := time.Now()
	snap := &gateway.Snapshot{Crops: []models.Crop{cropWithHarvest("c-1", -5)}}

	cands := CropDetector{}.Detect(snap, now)
	require.Len(t, cands, 1)
	require.Equal(t, models.AlertCropHarvestOverdue, cands[0].Type)
	require.Equal(t, models.SeverityHigh, cands[0].Severity)
	require.Equal(t, 9, cands[0].Priority)
	require.Equal(t, []string{"c-1"}, cands[0].RelatedCrops)
	require.Contains(t, cands[0].Message, fmt.Sprintf("%d days past", int(cands[0].CurrentValue)))
	require.Equal(t, 3*24*time.Hour, cands[0].TTL)
}

func TestCropDetector_HarvestReadyWindow(t *testing.T) {
	now := time.Now()

	ready := CropDetector{}.Detect(&gateway.Snapshot{Crops: []models.Crop{cropWithHarvest("c-1", 2)}}, now)
	require.Len(t, ready, 1)
	require.Equal(t, models.AlertCropHarvestReady, ready[0].Type)
	require.Equal(t, models.SeverityInfo, ready[0].Severity)

	// outside the 3-day window, nothing yet
	tooEarly := CropDetector{}.Detect(&gateway.Snapshot{Crops: []models.Crop{cropWithHarvest("c-1", 10)}}, now)
	require.Empty(t, tooEarly)
}

func TestCropDetector_HarvestedCropIgnored(t *testing.T) {
	crop := cropWithHarvest("c-1", -5)
	crop.Stage = models.StageHarvested
	require.Empty(t, CropDetector{}.Detect(&gateway.Snapshot{Crops: []models.Crop{crop}}, time.Now()))
}

func TestCropDetector_NoHarvestDate(t *testing.T) {
	crop := models.Crop{ID: "c-1", Name: "Pasture", Stage: models.StageVegetative}
	require.Empty(t, CropDetector{}.Detect(&gateway.Snapshot{Crops: []models.Crop{crop}}, time.Now()))
}

func TestCropDetector_StalledFlowering(t *testing.T) {
	now := time.Now()
	crop := models.Crop{
		ID:             "c-1",
		Name:           "Tomato",
		Stage:          models.StageFlowering,
		StageChangedAt: now.AddDate(0, 0, -120),
	}

	cands := CropDetector{}.Detect(&gateway.Snapshot{Crops: []models.Crop{crop}}, now)
	require.Len(t, cands, 1)
	require.Equal(t, models.AlertCropGrowthAnomaly, cands[0].Type)
	require.Equal(t, models.SeverityLow, cands[0].Severity)
	require.InDelta(t, 120, cands[0].CurrentValue, 1)

	// within the expected stage duration, no anomaly
	crop.StageChangedAt = now.AddDate(0, 0, -30)
	require.Empty(t, CropDetector{}.Detect(&gateway.Snapshot{Crops: []models.Crop{crop}}, now))
}
