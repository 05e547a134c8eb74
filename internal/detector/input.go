package detector

import (
	"fmt"
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

const (
	inputExpiryWarningWindow = 30 * 24 * time.Hour
)

// InputDetector flags inventory items that are low on stock or
// approaching their expiry date.
type InputDetector struct{}

func (InputDetector) Name() string { return "input" }

func (InputDetector) Detect(snap *gateway.Snapshot, now time.Time) []Candidate {
	var out []Candidate

	for _, input := range snap.Inputs {
		if input.CurrentStock <= input.MinimumStock {
			out = append(out, Candidate{
				Type:     models.AlertInputLowStock,
				Severity: models.SeverityMedium,
				Priority: 6,
				Title:    fmt.Sprintf("Low stock: %s", input.Name),
				Message: fmt.Sprintf("%s is at %.1f %s, at or below the minimum of %.1f %s",
					input.Name, input.CurrentStock, input.Unit, input.MinimumStock, input.Unit),
				CurrentValue:   input.CurrentStock,
				ThresholdValue: input.MinimumStock,
				Unit:           input.Unit,
				Operator:       models.OperatorLTE,
				RelatedInputs:  []string{input.ID},
				RecommendedActions: []string{
					fmt.Sprintf("Reorder %s before stock runs out", input.Name),
				},
			})
		}

		if input.ExpiryDate == nil {
			continue
		}
		switch {
		case input.ExpiryDate.Before(now):
			out = append(out, Candidate{
				Type:     models.AlertInputExpired,
				Severity: models.SeverityHigh,
				Priority: 7,
				Title:    fmt.Sprintf("Expired input: %s", input.Name),
				Message: fmt.Sprintf("%s expired on %s and should be disposed of",
					input.Name, input.ExpiryDate.Format("2006-01-02")),
				RelatedInputs: []string{input.ID},
				RecommendedActions: []string{
					"Remove the expired stock from inventory",
					"Check remaining batches for contamination",
				},
			})
		case input.ExpiryDate.Before(now.Add(inputExpiryWarningWindow)):
			days := int(input.ExpiryDate.Sub(now).Hours() / 24)
			out = append(out, Candidate{
				Type:     models.AlertInputExpiringSoon,
				Severity: models.SeverityMedium,
				Priority: 5,
				Title:    fmt.Sprintf("Input expiring soon: %s", input.Name),
				Message: fmt.Sprintf("%s expires in %d days (%s)",
					input.Name, days, input.ExpiryDate.Format("2006-01-02")),
				CurrentValue:   float64(days),
				ThresholdValue: 30,
				Unit:           "days",
				Operator:       models.OperatorLT,
				RelatedInputs:  []string{input.ID},
				RecommendedActions: []string{
					fmt.Sprintf("Plan to use %s before its expiry date", input.Name),
				},
			})
		}
	}

	return out
}
