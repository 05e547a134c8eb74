package detector

import (
	"fmt"
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

const (
	attendanceWindow       = 30 * 24 * time.Hour
	attendanceRateMinimum  = 0.80
	performanceMinimum     = 3.0 // out of 5
	safetyIncidentLookback = 30 * 24 * time.Hour
)

// WorkerDetector covers attendance, performance and recent safety
// incidents for the farm's workforce.
type WorkerDetector struct{}

func (WorkerDetector) Name() string { return "worker" }

func (WorkerDetector) Detect(snap *gateway.Snapshot, now time.Time) []Candidate {
	var out []Candidate

	for i := range snap.Workers {
		worker := &snap.Workers[i]

		if rate, ok := worker.AttendanceRate(now, attendanceWindow); ok && rate < attendanceRateMinimum {
			out = append(out, Candidate{
				Type:     models.AlertWorkerAttendanceLow,
				Severity: models.SeverityLow,
				Priority: 6,
				Title:    fmt.Sprintf("Low attendance: %s", worker.Name),
				Message: fmt.Sprintf("%s attended %.0f%% of the last 30 days, below the %.0f%% floor",
					worker.Name, rate*100, attendanceRateMinimum*100),
				CurrentValue:   rate * 100,
				ThresholdValue: attendanceRateMinimum * 100,
				Unit:           "%",
				Operator:       models.OperatorLT,
				RelatedWorkers: []string{worker.ID},
				RecommendedActions: []string{
					fmt.Sprintf("Review the attendance pattern with %s", worker.Name),
				},
			})
		}

		if worker.PerformanceRating > 0 && worker.PerformanceRating < performanceMinimum {
			out = append(out, Candidate{
				Type:     models.AlertWorkerPerformanceIssue,
				Severity: models.SeverityMedium,
				Priority: 5,
				Title:    fmt.Sprintf("Performance issue: %s", worker.Name),
				Message: fmt.Sprintf("%s has a performance rating of %.1f/5, below the %.0f/5 minimum",
					worker.Name, worker.PerformanceRating, performanceMinimum),
				CurrentValue:   worker.PerformanceRating,
				ThresholdValue: performanceMinimum,
				Operator:       models.OperatorLT,
				RelatedWorkers: []string{worker.ID},
				RecommendedActions: []string{
					"Schedule a performance review",
					"Identify training needs",
				},
			})
		}

		for _, incident := range worker.SafetyIncidents {
			if incident.OccurredAt.Before(now.Add(-safetyIncidentLookback)) {
				continue
			}
			if incident.Severity != "severe" && incident.Severity != "critical" {
				continue
			}
			out = append(out, Candidate{
				Type:     models.AlertWorkerSafetyIncident,
				Severity: models.SeverityHigh,
				Priority: 8,
				Title:    fmt.Sprintf("Safety incident: %s", worker.Name),
				Message: fmt.Sprintf("%s incident involving %s on %s: %s",
					incident.Severity, worker.Name, incident.OccurredAt.Format("2006-01-02"), incident.Description),
				RelatedWorkers: []string{worker.ID},
				RecommendedActions: []string{
					"Complete the incident report",
					"Review safety procedures for the affected area",
				},
			})
		}
	}

	return out
}
