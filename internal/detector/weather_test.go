package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

func candidatesByType(cands []Candidate) map[models.AlertType]Candidate {
	byType := make(map[models.AlertType]Candidate, len(cands))
	for _, c := range cands {
		byType[c.Type] = c
	}
	return byType
}

func TestWeatherDetector_ObservationThresholds(t *testing.T) {
	now := time.Now()
	snap := &gateway.Snapshot{
		Weather: &models.WeatherObservation{
			TemperatureC:    38.5,
			PrecipitationMM: 25,
			SoilMoisturePct: 15,
			WindSpeedKPH:    30,
		},
	}

	cands := WeatherDetector{}.Detect(snap, now)
	byType := candidatesByType(cands)
	require.Len(t, cands, 4)

	heat := byType[models.AlertWeatherExtremeHeat]
	require.Equal(t, models.SeverityHigh, heat.Severity)
	require.Equal(t, 38.5, heat.CurrentValue)
	require.Equal(t, models.OperatorGT, heat.Operator)

	drought := byType[models.AlertWeatherDrought]
	require.Equal(t, models.SeverityMedium, drought.Severity)
	require.Equal(t, models.OperatorLT, drought.Operator)

	require.Equal(t, models.SeverityLow, byType[models.AlertWeatherHeavyRain].Severity)
	require.Equal(t, models.SeverityLow, byType[models.AlertWeatherStrongWind].Severity)
}

func TestWeatherDetector_QuietObservation(t *testing.T) {
	snap := &gateway.Snapshot{
		Weather: &models.WeatherObservation{
			TemperatureC:    22,
			PrecipitationMM: 2,
			SoilMoisturePct: 45,
			WindSpeedKPH:    10,
		},
	}
	require.Empty(t, WeatherDetector{}.Detect(snap, time.Now()))
}

func TestWeatherDetector_MissingSoilMoistureIsNotDrought(t *testing.T) {
	snap := &gateway.Snapshot{
		Weather: &models.WeatherObservation{TemperatureC: 22, SoilMoisturePct: 0},
	}
	require.Empty(t, WeatherDetector{}.Detect(snap, time.Now()))
}

func TestWeatherDetector_NoObservation(t *testing.T) {
	require.Empty(t, WeatherDetector{}.Detect(&gateway.Snapshot{}, time.Now()))
}

func TestWeatherDetector_FrostUsesColdestForecastDay(t *testing.T) {
	now := time.Now()
	snap := &gateway.Snapshot{
		Forecast: []models.DailyForecast{
			{MinTempC: 1.5},
			{MinTempC: -2},
			{MinTempC: 5},
		},
	}

	cands := WeatherDetector{}.Detect(snap, now)
	require.Len(t, cands, 1)
	require.Equal(t, models.AlertWeatherFrost, cands[0].Type)
	require.Equal(t, models.SeverityHigh, cands[0].Severity)
	require.Equal(t, -2.0, cands[0].CurrentValue)
}

func TestWeatherDetector_FloodRiskEscalatesToEmergency(t *testing.T) {
	now := time.Now()

	medium := &gateway.Snapshot{
		Forecast: []models.DailyForecast{
			{MinTempC: 10, PrecipitationMM: 30},
			{MinTempC: 10, PrecipitationMM: 25},
		},
	}
	cands := WeatherDetector{}.Detect(medium, now)
	require.Len(t, cands, 1)
	require.Equal(t, models.AlertWeatherFloodRisk, cands[0].Type)
	require.Equal(t, models.SeverityMedium, cands[0].Severity)

	extreme := &gateway.Snapshot{
		Forecast: []models.DailyForecast{
			{MinTempC: 10, PrecipitationMM: 60},
			{MinTempC: 10, PrecipitationMM: 55},
		},
	}
	cands = WeatherDetector{}.Detect(extreme, now)
	require.Len(t, cands, 1)
	require.Equal(t, models.SeverityEmergency, cands[0].Severity)
	require.Equal(t, 9, cands[0].Priority)
}
