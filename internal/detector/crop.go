package detector

import (
	"fmt"
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

const (
	harvestReadyWindowDays = 3
	floweringStageMaxDays  = 90
)

// CropDetector watches harvest timing and growth-stage anomalies.
type CropDetector struct{}

func (CropDetector) Name() string { return "crop" }

func (CropDetector) Detect(snap *gateway.Snapshot, now time.Time) []Candidate {
	var out []Candidate

	for _, crop := range snap.Crops {
		if crop.Stage == models.StageHarvested {
			continue
		}

		if days, ok := crop.DaysToHarvest(now); ok {
			switch {
			case days < 0:
				overdue := -days
				out = append(out, Candidate{
					Type:     models.AlertCropHarvestOverdue,
					Severity: models.SeverityHigh,
					Priority: 9,
					Title:    fmt.Sprintf("Harvest overdue: %s", crop.Name),
					Message: fmt.Sprintf("%s (%s) is %d days past its expected harvest date",
						crop.Name, crop.Variety, overdue),
					CurrentValue:   float64(overdue),
					ThresholdValue: 0,
					Unit:           "days",
					Operator:       models.OperatorGT,
					RelatedCrops:   []string{crop.ID},
					RecommendedActions: []string{
						fmt.Sprintf("Harvest %s immediately to avoid quality loss", crop.Name),
					},
					TTL: 3 * 24 * time.Hour,
				})
			case days > 0 && days <= harvestReadyWindowDays:
				out = append(out, Candidate{
					Type:     models.AlertCropHarvestReady,
					Severity: models.SeverityInfo,
					Priority: 7,
					Title:    fmt.Sprintf("Harvest ready: %s", crop.Name),
					Message: fmt.Sprintf("%s (%s) reaches its expected harvest date in %d days",
						crop.Name, crop.Variety, days),
					CurrentValue:   float64(days),
					ThresholdValue: harvestReadyWindowDays,
					Unit:           "days",
					Operator:       models.OperatorLTE,
					RelatedCrops:   []string{crop.ID},
					RecommendedActions: []string{
						"Line up labor and equipment for the harvest",
					},
					TTL: 3 * 24 * time.Hour,
				})
			}
		}

		if crop.Stage == models.StageFlowering {
			stageDays := int(now.Sub(crop.StageChangedAt).Hours() / 24)
			if stageDays > floweringStageMaxDays {
				out = append(out, Candidate{
					Type:     models.AlertCropGrowthAnomaly,
					Severity: models.SeverityLow,
					Priority: 5,
					Title:    fmt.Sprintf("Growth anomaly: %s", crop.Name),
					Message: fmt.Sprintf("%s has been in the flowering stage for %d days, beyond the expected %d",
						crop.Name, stageDays, floweringStageMaxDays),
					CurrentValue:   float64(stageDays),
					ThresholdValue: floweringStageMaxDays,
					Unit:           "days",
					Operator:       models.OperatorGT,
					RelatedCrops:   []string{crop.ID},
					RecommendedActions: []string{
						"Inspect the crop for nutrient deficiency or disease",
					},
				})
			}
		}
	}

	return out
}
