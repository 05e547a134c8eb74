package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/farmwatch/internal/database"
	"github.com/farmwatch/internal/models"
)

func TestSnapshot_UsesLatestObservationAndUpcomingForecast(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	farmID := uuid.NewString()
	now := time.Now()
	require.NoError(t, db.Create(&models.Farm{ID: farmID, Name: "Riverside", OwnerID: "owner-1"}).Error)

	observations := []models.WeatherObservation{
		{FarmID: farmID, ObservedAt: now.Add(-6 * time.Hour), TemperatureC: 20},
		{FarmID: farmID, ObservedAt: now.Add(-time.Hour), TemperatureC: 31},
	}
	require.NoError(t, db.Create(&observations).Error)

	forecast := []models.DailyForecast{
		{FarmID: farmID, Date: now.AddDate(0, 0, -1), MinTempC: 4},
		{FarmID: farmID, Date: now.AddDate(0, 0, 1), MinTempC: 6},
		{FarmID: farmID, Date: now.AddDate(0, 0, 2), MinTempC: 7},
		{FarmID: farmID, Date: now.AddDate(0, 0, 3), MinTempC: 8},
		{FarmID: farmID, Date: now.AddDate(0, 0, 4), MinTempC: 9},
	}
	require.NoError(t, db.Create(&forecast).Error)

	snap, err := NewFarmData(db).Snapshot(context.Background(), farmID)
	require.NoError(t, err)

	require.NotNil(t, snap.Weather)
	require.Equal(t, 31.0, snap.Weather.TemperatureC)

	// past days are excluded and the horizon is three days out
	require.Len(t, snap.Forecast, 3)
	require.Equal(t, 6.0, snap.Forecast[0].MinTempC)
}

func TestSnapshot_ExcludesClosedTasks(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	farmID := uuid.NewString()
	require.NoError(t, db.Create(&models.Farm{ID: farmID, Name: "Hilltop", OwnerID: "owner-1"}).Error)

	tasks := []models.Task{
		{ID: uuid.NewString(), FarmID: farmID, Title: "irrigate", Status: models.TaskStatusPending},
		{ID: uuid.NewString(), FarmID: farmID, Title: "fencing", Status: models.TaskStatusInProgress},
		{ID: uuid.NewString(), FarmID: farmID, Title: "done", Status: models.TaskStatusCompleted},
		{ID: uuid.NewString(), FarmID: farmID, Title: "dropped", Status: models.TaskStatusCancelled},
	}
	require.NoError(t, db.Create(&tasks).Error)

	snap, err := NewFarmData(db).Snapshot(context.Background(), farmID)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 2)
}

func TestSnapshot_UnknownFarm(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	_, err = NewFarmData(db).Snapshot(context.Background(), uuid.NewString())
	require.Error(t, err)
}

func TestListFarmIDs(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	a := uuid.NewString()
	b := uuid.NewString()
	require.NoError(t, db.Create(&models.Farm{ID: a, Name: "A"}).Error)
	require.NoError(t, db.Create(&models.Farm{ID: b, Name: "B"}).Error)

	ids, err := NewFarmData(db).ListFarmIDs(context.Background())
	require.NoError(t, err)
	require.Subset(t, ids, []string{a, b})
}
