package detector

import (
	"fmt"
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

const (
	taskOverdueGraceDays  = 3
	highWorkloadThreshold = 5
)

// TaskDetector batches overdue tasks into a single alert per farm and
// flags days with an unusually heavy high-priority workload.
type TaskDetector struct{}

func (TaskDetector) Name() string { return "task" }

func (TaskDetector) Detect(snap *gateway.Snapshot, now time.Time) []Candidate {
	var out []Candidate

	grace := time.Duration(taskOverdueGraceDays) * 24 * time.Hour

	var overdue []models.Task
	var oldest *models.Task
	for i := range snap.Tasks {
		task := snap.Tasks[i]
		if task.Status == models.TaskStatusCompleted || task.Status == models.TaskStatusCancelled {
			continue
		}
		if task.DueAt == nil || now.Sub(*task.DueAt) <= grace {
			continue
		}
		overdue = append(overdue, task)
		if oldest == nil || task.DueAt.Before(*oldest.DueAt) {
			oldest = &snap.Tasks[i]
		}
	}

	if len(overdue) > 0 {
		ids := make([]string, len(overdue))
		for i, task := range overdue {
			ids[i] = task.ID
		}
		out = append(out, Candidate{
			Type:     models.AlertTaskOverdue,
			Severity: models.SeverityHigh,
			Priority: 8,
			Title:    fmt.Sprintf("%d overdue tasks", len(overdue)),
			Message: fmt.Sprintf("%d tasks are more than %d days overdue; the oldest is %q, due %s",
				len(overdue), taskOverdueGraceDays, oldest.Title, oldest.DueAt.Format("2006-01-02")),
			CurrentValue:   float64(len(overdue)),
			ThresholdValue: 0,
			Operator:       models.OperatorGT,
			RelatedTasks:   ids,
			Data: models.JSONMap{
				"overdue_count": len(overdue),
				"oldest_task":   oldest.ID,
			},
			RecommendedActions: []string{
				"Reassign or reschedule the overdue tasks",
			},
		})
	}

	var todayHigh []string
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, task := range snap.Tasks {
		if task.Status != models.TaskStatusPending {
			continue
		}
		if task.Priority != models.TaskPriorityHigh && task.Priority != models.TaskPriorityCritical {
			continue
		}
		if task.DueAt == nil || task.DueAt.Before(dayStart) || !task.DueAt.Before(dayEnd) {
			continue
		}
		todayHigh = append(todayHigh, task.ID)
	}

	if len(todayHigh) > highWorkloadThreshold {
		out = append(out, Candidate{
			Type:     models.AlertTaskHighWorkload,
			Severity: models.SeverityLow,
			Priority: 5,
			Title:    "High workload today",
			Message: fmt.Sprintf("%d high or critical priority tasks are scheduled for today",
				len(todayHigh)),
			CurrentValue:   float64(len(todayHigh)),
			ThresholdValue: highWorkloadThreshold,
			Operator:       models.OperatorGT,
			RelatedTasks:   todayHigh,
			RecommendedActions: []string{
				"Spread non-urgent tasks across the week",
			},
			TTL: 24 * time.Hour,
		})
	}

	return out
}
