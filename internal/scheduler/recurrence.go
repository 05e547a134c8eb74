package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/models"
)

const recurrenceCloneTTL = 7 * 24 * time.Hour

// RecurrenceScheduler regenerates recurring alerts. A resolved
// recurring alert whose next occurrence has arrived spawns a fresh
// active clone; the recurrence then lives on the clone, so the
// original is never reprocessed.
type RecurrenceScheduler struct {
	store  *alert.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewRecurrenceScheduler(store *alert.Store, logger *zap.Logger) *RecurrenceScheduler {
	return &RecurrenceScheduler{store: store, logger: logger, now: time.Now}
}

// Run processes every due recurrence. Per-alert failures are logged and
// skipped so one bad row never aborts the batch.
func (r *RecurrenceScheduler) Run(ctx context.Context) {
	now := r.now()

	due, err := r.store.DueRecurrences(ctx, now)
	if err != nil {
		r.logger.Error("recurrence query failed", zap.Error(err))
		return
	}

	for i := range due {
		original := &due[i]
		if err := r.spawn(ctx, original, now); err != nil {
			r.logger.Error("failed to regenerate recurring alert",
				zap.String("alert_id", original.ID), zap.Error(err))
		}
	}
}

func (r *RecurrenceScheduler) spawn(ctx context.Context, original *models.Alert, now time.Time) error {
	if original.RecurrenceEnd != nil && original.RecurrenceEnd.Before(now) {
		original.IsRecurring = false
		return r.store.UpdateChecked(ctx, original)
	}

	clone := cloneForRecurrence(original, now)
	if err := r.store.Create(ctx, clone); err != nil {
		return err
	}

	original.IsRecurring = false
	original.NextOccurrence = &clone.CreatedAt
	if err := r.store.UpdateChecked(ctx, original); err != nil {
		return err
	}

	r.logger.Info("recurring alert regenerated",
		zap.String("original_id", original.ID),
		zap.String("clone_id", clone.ID),
		zap.Time("next_occurrence", *clone.NextOccurrence))
	return nil
}

// cloneForRecurrence copies the alert's classification and content,
// stripping acknowledgment, resolution, escalation, metrics and the
// notification log.
func cloneForRecurrence(original *models.Alert, now time.Time) *models.Alert {
	expiresAt := now.Add(recurrenceCloneTTL)
	next := NextOccurrence(now, original.Frequency, original.RecurrenceInterval)

	return &models.Alert{
		ID:                 uuid.New().String(),
		FarmID:             original.FarmID,
		UserID:             original.UserID,
		Type:               original.Type,
		Severity:           original.Severity,
		Priority:           original.Priority,
		Title:              original.Title,
		Message:            original.Message,
		Data:               original.Data,
		CurrentValue:       original.CurrentValue,
		ThresholdValue:     original.ThresholdValue,
		Unit:               original.Unit,
		Operator:           original.Operator,
		RelatedCrops:       original.RelatedCrops,
		RelatedLivestock:   original.RelatedLivestock,
		RelatedWorkers:     original.RelatedWorkers,
		RelatedInputs:      original.RelatedInputs,
		RelatedTasks:       original.RelatedTasks,
		RecommendedActions: original.RecommendedActions,
		Status:             models.AlertStatusActive,
		IsActive:           true,
		ExpiresAt:          &expiresAt,
		IsRecurring:        true,
		Frequency:          original.Frequency,
		RecurrenceInterval: original.RecurrenceInterval,
		NextOccurrence:     &next,
		RecurrenceEnd:      original.RecurrenceEnd,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NextOccurrence computes the follow-up occurrence from the given
// instant. Monthly recurrences land on the same day of the next month.
func NextOccurrence(from time.Time, frequency models.RecurrenceFrequency, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch frequency {
	case models.FrequencyDaily:
		return from.AddDate(0, 0, interval)
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7*interval)
	case models.FrequencyMonthly:
		return from.AddDate(0, interval, 0)
	default:
		return from.AddDate(0, 0, interval)
	}
}
