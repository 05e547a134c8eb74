package alert

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/farmwatch/internal/models"
)

// Lifecycle applies the alert state machine. Every write is an
// optimistic compare-and-swap through the store; a concurrent writer
// (another user, the expiry sweeper) surfaces as ErrStaleState.
type Lifecycle struct {
	store  *Store
	logger *zap.Logger
	now    func() time.Time
}

func NewLifecycle(store *Store, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Acknowledge moves an active alert to acknowledged and records the
// response time. Any other starting status is an invalid transition.
func (l *Lifecycle) Acknowledge(ctx context.Context, alertID, userID, notes string) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != models.AlertStatusActive {
		return nil, ErrInvalidTransition
	}

	now := l.now()
	responseTime := alert.TimeSinceCreation(now)

	alert.Status = models.AlertStatusAcknowledged
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = userID
	alert.AcknowledgmentNotes = notes
	alert.ResponseTimeMinutes = &responseTime

	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	l.logger.Info("alert acknowledged",
		zap.String("alert_id", alert.ID), zap.String("by", userID))
	return alert, nil
}

// Start moves an acknowledged alert to in_progress.
func (l *Lifecycle) Start(ctx context.Context, alertID, userID string) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != models.AlertStatusAcknowledged {
		return nil, ErrInvalidTransition
	}

	alert.Status = models.AlertStatusInProgress
	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// ResolutionInput carries the user-supplied resolution details.
type ResolutionInput struct {
	Resolution       string   `json:"resolution"`
	ActionsTaken     []string `json:"actions_taken,omitempty"`
	Effectiveness    string   `json:"effectiveness,omitempty"`
	Cost             float64  `json:"cost,omitempty"`
	TimeSpentMinutes int      `json:"time_spent_minutes,omitempty"`
}

// Resolve closes the alert from any non-terminal state and records the
// resolution metrics. A recurring alert has its next occurrence marked
// due so the recurrence scheduler spawns the follow-up clone.
func (l *Lifecycle) Resolve(ctx context.Context, alertID, userID string, input ResolutionInput) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	now := l.now()
	resolutionTime := alert.TimeSinceCreation(now)

	alert.Status = models.AlertStatusResolved
	alert.IsActive = false
	alert.ResolvedAt = &now
	alert.ResolvedBy = userID
	alert.Resolution = input.Resolution
	alert.ActionsTaken = input.ActionsTaken
	alert.Effectiveness = input.Effectiveness
	alert.ResolutionCost = input.Cost
	alert.TimeSpentMinutes = input.TimeSpentMinutes
	alert.ResolutionTimeMinutes = &resolutionTime

	if alert.IsRecurring {
		if alert.NextOccurrence == nil || alert.NextOccurrence.Before(now) {
			due := now
			alert.NextOccurrence = &due
		}
	}

	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	l.logger.Info("alert resolved",
		zap.String("alert_id", alert.ID), zap.String("by", userID),
		zap.Float64("resolution_minutes", resolutionTime))
	return alert, nil
}

// Escalate bumps priority by two (clamped at 10) and records who took
// the escalation. Status is untouched.
func (l *Lifecycle) Escalate(ctx context.Context, alertID, userID, escalatedTo, reason string) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	now := l.now()
	alert.Escalated = true
	alert.EscalatedAt = &now
	alert.EscalatedBy = userID
	alert.EscalatedTo = escalatedTo
	alert.EscalationReason = reason
	alert.Priority = clampPriority(alert.Priority + 2)

	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	l.logger.Info("alert escalated",
		zap.String("alert_id", alert.ID), zap.String("to", escalatedTo),
		zap.Int("priority", alert.Priority))
	return alert, nil
}

// Dismiss terminally closes the alert without resolution metrics.
func (l *Lifecycle) Dismiss(ctx context.Context, alertID, userID string) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	alert.Status = models.AlertStatusDismissed
	alert.IsActive = false
	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Snooze pushes the expiry out without changing status.
func (l *Lifecycle) Snooze(ctx context.Context, alertID string, minutes int) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	until := l.now().Add(time.Duration(minutes) * time.Minute)
	alert.ExpiresAt = &until
	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Expire is the system-only transition applied by the sweeper. It is a
// no-op on already-terminal alerts and illegal from in_progress.
func (l *Lifecycle) Expire(ctx context.Context, alertID string) (*models.Alert, error) {
	alert, err := l.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status.IsTerminal() {
		return alert, nil
	}
	if alert.Status == models.AlertStatusInProgress {
		return nil, ErrInvalidTransition
	}

	alert.Status = models.AlertStatusExpired
	alert.IsActive = false
	if err := l.store.UpdateChecked(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}
