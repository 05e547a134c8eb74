package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/database"
	"github.com/farmwatch/internal/models"
)

func seedResolvedRecurring(t *testing.T, store *alert.Store, farmID string,
	next time.Time, end *time.Time) *models.Alert {
	t.Helper()
	resolvedAt := next.Add(-time.Minute)
	a := &models.Alert{
		ID:                 uuid.NewString(),
		FarmID:             farmID,
		UserID:             "owner-1",
		Type:               models.AlertCropFertilizationDue,
		Severity:           models.SeverityMedium,
		Priority:           5,
		Title:              "Fertilization due",
		Message:            "Apply the scheduled fertilizer round",
		Status:             models.AlertStatusResolved,
		ResolvedAt:         &resolvedAt,
		Resolution:         "applied",
		IsRecurring:        true,
		Frequency:          models.FrequencyWeekly,
		RecurrenceInterval: 1,
		NextOccurrence:     &next,
		RecurrenceEnd:      end,
		Version:            1,
	}
	require.NoError(t, store.Create(context.Background(), a))
	return a
}

func TestRecurrenceScheduler_SpawnsWeeklyClone(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	store := alert.NewStore(db)
	farmID := uuid.NewString()
	now := time.Now().Truncate(time.Second)
	ctx := context.Background()

	original := seedResolvedRecurring(t, store, farmID, now, nil)

	logger, _ := zap.NewDevelopment()
	scheduler := NewRecurrenceScheduler(store, logger)
	scheduler.now = func() time.Time { return now }
	scheduler.Run(ctx)

	alerts, err := store.List(ctx, alert.ListFilter{FarmID: farmID})
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	var clone *models.Alert
	for i := range alerts {
		if alerts[i].ID != original.ID {
			clone = &alerts[i]
		}
	}
	require.NotNil(t, clone)

	// fresh identity and state, same classification and content
	require.Equal(t, models.AlertStatusActive, clone.Status)
	require.True(t, clone.IsActive)
	require.Equal(t, original.Type, clone.Type)
	require.Equal(t, original.Severity, clone.Severity)
	require.Equal(t, original.Title, clone.Title)
	require.Empty(t, clone.Resolution)
	require.Nil(t, clone.ResolvedAt)
	require.Nil(t, clone.ResponseTimeMinutes)
	require.Empty(t, clone.Notifications)

	// the next occurrence lands a week out from the spawn instant
	require.NotNil(t, clone.NextOccurrence)
	require.WithinDuration(t, now.AddDate(0, 0, 7), *clone.NextOccurrence, time.Second)

	// recurrence ownership moves to the clone
	updated, err := store.GetByID(ctx, original.ID)
	require.NoError(t, err)
	require.False(t, updated.IsRecurring)
}

func TestRecurrenceScheduler_RerunDoesNotDuplicate(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	store := alert.NewStore(db)
	farmID := uuid.NewString()
	now := time.Now()
	ctx := context.Background()

	seedResolvedRecurring(t, store, farmID, now, nil)

	logger, _ := zap.NewDevelopment()
	scheduler := NewRecurrenceScheduler(store, logger)
	scheduler.now = func() time.Time { return now }
	scheduler.Run(ctx)
	scheduler.Run(ctx)

	alerts, err := store.List(ctx, alert.ListFilter{FarmID: farmID})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
}

func TestRecurrenceScheduler_HonorsRecurrenceEnd(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	store := alert.NewStore(db)
	farmID := uuid.NewString()
	now := time.Now()
	ctx := context.Background()

	end := now.Add(-24 * time.Hour)
	original := seedResolvedRecurring(t, store, farmID, now, &end)

	logger, _ := zap.NewDevelopment()
	scheduler := NewRecurrenceScheduler(store, logger)
	scheduler.now = func() time.Time { return now }
	scheduler.Run(ctx)

	alerts, err := store.List(ctx, alert.ListFilter{FarmID: farmID})
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	updated, err := store.GetByID(ctx, original.ID)
	require.NoError(t, err)
	require.False(t, updated.IsRecurring)
}

func TestNextOccurrence(t *testing.T) {
	from := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	require.Equal(t, from.AddDate(0, 0, 2), NextOccurrence(from, models.FrequencyDaily, 2))
	require.Equal(t, from.AddDate(0, 0, 14), NextOccurrence(from, models.FrequencyWeekly, 2))
	require.Equal(t, from.AddDate(0, 1, 0), NextOccurrence(from, models.FrequencyMonthly, 1))
	// zero interval is treated as one
	require.Equal(t, from.AddDate(0, 0, 1), NextOccurrence(from, models.FrequencyDaily, 0))
}
