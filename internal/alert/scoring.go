package alert

import (
	"time"

	"github.com/farmwatch/internal/models"
)

var severityWeight = map[models.AlertSeverity]int{
	models.SeverityInfo:      1,
	models.SeverityLow:       2,
	models.SeverityMedium:    4,
	models.SeverityHigh:      7,
	models.SeverityCritical:  9,
	models.SeverityEmergency: 10,
}

// UrgencyScore ranks an alert in [0,100] from severity, priority, age
// and status. It is always recomputable from persisted fields and never
// stored authoritatively.
func UrgencyScore(a *models.Alert, now time.Time) int {
	score := severityWeight[a.Severity]*10 + a.Priority*5

	hoursOld := now.Sub(a.CreatedAt).Hours()
	switch {
	case hoursOld > 24:
		score += 20
	case hoursOld > 12:
		score += 10
	case hoursOld > 6:
		score += 5
	}

	switch a.Status {
	case models.AlertStatusActive:
		score += 10
	case models.AlertStatusAcknowledged:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// estimatedImpact ranks alert types by expected operational impact on a
// 1..10 scale. Display and ranking only, never a lifecycle input.
var estimatedImpact = map[models.AlertType]int{
	models.AlertWeatherDrought:        9,
	models.AlertWeatherFloodRisk:      9,
	models.AlertWeatherFrost:          8,
	models.AlertWeatherExtremeHeat:    7,
	models.AlertCropDiseaseDetected:   7,
	models.AlertCropPestDetected:      7,
	models.AlertCropHarvestOverdue:    6,
	models.AlertLivestockHealthIssue:  7,
	models.AlertWorkerSafetyIncident:  8,
	models.AlertEquipmentFailure:      7,
	models.AlertInputExpired:          6,
	models.AlertCostBudgetExceeded:    6,
}

const defaultImpact = 5

// EstimatedImpact returns the impact rank for an alert type.
func EstimatedImpact(alertType models.AlertType) int {
	if impact, ok := estimatedImpact[alertType]; ok {
		return impact
	}
	return defaultImpact
}
