package detector

import (
	"fmt"
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

const (
	vaccinationDueWindow    = 7 * 24 * time.Hour
	vaccinationUrgentWindow = 3 * 24 * time.Hour
	productionGoalFraction  = 0.80
)

// LivestockDetector covers vaccination schedules, production shortfalls
// and open health issues.
type LivestockDetector struct{}

func (LivestockDetector) Name() string { return "livestock" }

func (LivestockDetector) Detect(snap *gateway.Snapshot, now time.Time) []Candidate {
	var out []Candidate

	for i := range snap.Livestock {
		animal := &snap.Livestock[i]
		label := animal.Tag
		if label == "" {
			label = animal.Species
		}

		for _, vac := range animal.Vaccinations {
			if vac.AdministeredAt != nil {
				continue
			}
			until := vac.DueAt.Sub(now)
			if until > vaccinationDueWindow {
				continue
			}
			severity := models.SeverityLow
			priority := 6
			if until <= vaccinationUrgentWindow {
				severity = models.SeverityHigh
				priority = 8
			}
			out = append(out, Candidate{
				Type:     models.AlertLivestockVaccinationDue,
				Severity: severity,
				Priority: priority,
				Title:    fmt.Sprintf("Vaccination due: %s", label),
				Message: fmt.Sprintf("%s vaccination for %s is due on %s",
					vac.Name, label, vac.DueAt.Format("2006-01-02")),
				RelatedLivestock: []string{animal.ID},
				RecommendedActions: []string{
					fmt.Sprintf("Schedule the %s vaccination with the vet", vac.Name),
				},
			})
		}

		if animal.ProductionGoal > 0 &&
			animal.CurrentProduction < animal.ProductionGoal*productionGoalFraction {
			out = append(out, Candidate{
				Type:     models.AlertLivestockProductionDrop,
				Severity: models.SeverityLow,
				Priority: 6,
				Title:    fmt.Sprintf("Production drop: %s", label),
				Message: fmt.Sprintf("%s is producing %.1f %s against a goal of %.1f %s",
					label, animal.CurrentProduction, animal.ProductionUnit,
					animal.ProductionGoal, animal.ProductionUnit),
				CurrentValue:     animal.CurrentProduction,
				ThresholdValue:   animal.ProductionGoal * productionGoalFraction,
				Unit:             animal.ProductionUnit,
				Operator:         models.OperatorLT,
				RelatedLivestock: []string{animal.ID},
				RecommendedActions: []string{
					"Check feed quality and quantity",
					"Rule out early signs of illness",
				},
			})
		}

		for _, issue := range animal.HealthIssues {
			if !issue.Active {
				continue
			}
			out = append(out, Candidate{
				Type:     models.AlertLivestockHealthIssue,
				Severity: models.SeverityHigh,
				Priority: 7,
				Title:    fmt.Sprintf("Health issue: %s", label),
				Message: fmt.Sprintf("%s has an active %s health issue: %s",
					label, issue.Severity, issue.Description),
				RelatedLivestock: []string{animal.ID},
				RecommendedActions: []string{
					"Isolate the animal if the condition may spread",
					"Consult the veterinarian",
				},
			})
		}
	}

	return out
}
