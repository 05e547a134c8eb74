package detector

import (
	"fmt"
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

// Weather rule thresholds. Values are the provider's metric units.
const (
	extremeHeatTempC     = 35.0
	heavyRainMM          = 20.0
	droughtSoilMoisture  = 20.0
	frostTempC           = 2.0
	strongWindKPH        = 25.0
	floodRiskForecastMM  = 50.0
	floodEmergencyMM     = 100.0
	weatherAlertLifetime = 24 * time.Hour
)

// WeatherDetector evaluates the latest observation and the 3-day
// forecast against the fixed threshold table.
type WeatherDetector struct{}

func (WeatherDetector) Name() string { return "weather" }

func (WeatherDetector) Detect(snap *gateway.Snapshot, now time.Time) []Candidate {
	var out []Candidate

	if obs := snap.Weather; obs != nil {
		if obs.TemperatureC > extremeHeatTempC {
			out = append(out, weatherCandidate(models.AlertWeatherExtremeHeat, models.SeverityHigh, 7,
				"Extreme heat",
				fmt.Sprintf("Temperature is %.1f°C, above the %.0f°C heat threshold", obs.TemperatureC, extremeHeatTempC),
				obs.TemperatureC, extremeHeatTempC, "°C", models.OperatorGT,
				"Increase irrigation and provide shade for livestock"))
		}
		if obs.PrecipitationMM > heavyRainMM {
			out = append(out, weatherCandidate(models.AlertWeatherHeavyRain, models.SeverityLow, 4,
				"Heavy rain",
				fmt.Sprintf("Precipitation of %.1fmm exceeds the %.0fmm threshold", obs.PrecipitationMM, heavyRainMM),
				obs.PrecipitationMM, heavyRainMM, "mm", models.OperatorGT,
				"Check field drainage and postpone spraying"))
		}
		if obs.SoilMoisturePct > 0 && obs.SoilMoisturePct < droughtSoilMoisture {
			out = append(out, weatherCandidate(models.AlertWeatherDrought, models.SeverityMedium, 6,
				"Drought conditions",
				fmt.Sprintf("Soil moisture is %.1f%%, below the %.0f%% drought threshold", obs.SoilMoisturePct, droughtSoilMoisture),
				obs.SoilMoisturePct, droughtSoilMoisture, "%", models.OperatorLT,
				"Prioritize irrigation for moisture-sensitive crops"))
		}
		if obs.WindSpeedKPH > strongWindKPH {
			out = append(out, weatherCandidate(models.AlertWeatherStrongWind, models.SeverityLow, 4,
				"Strong wind",
				fmt.Sprintf("Wind speed is %.1fkm/h, above the %.0fkm/h threshold", obs.WindSpeedKPH, strongWindKPH),
				obs.WindSpeedKPH, strongWindKPH, "km/h", models.OperatorGT,
				"Secure loose equipment and delay aerial spraying"))
		}
	}

	var frostMin float64
	frostForecast := false
	var forecastRain float64
	for _, day := range snap.Forecast {
		forecastRain += day.PrecipitationMM
		if day.MinTempC < frostTempC && (!frostForecast || day.MinTempC < frostMin) {
			frostForecast = true
			frostMin = day.MinTempC
		}
	}

	if frostForecast {
		out = append(out, weatherCandidate(models.AlertWeatherFrost, models.SeverityHigh, 8,
			"Frost forecast",
			fmt.Sprintf("Forecast low of %.1f°C is below the %.0f°C frost threshold", frostMin, frostTempC),
			frostMin, frostTempC, "°C", models.OperatorLT,
			"Protect frost-sensitive crops overnight"))
	}

	if forecastRain > floodRiskForecastMM {
		severity := models.SeverityMedium
		priority := 6
		if forecastRain > floodEmergencyMM {
			severity = models.SeverityEmergency
			priority = 9
		}
		out = append(out, weatherCandidate(models.AlertWeatherFloodRisk, severity, priority,
			"Flood risk",
			fmt.Sprintf("Forecast precipitation of %.1fmm over 3 days exceeds the %.0fmm flood threshold",
				forecastRain, floodRiskForecastMM),
			forecastRain, floodRiskForecastMM, "mm", models.OperatorGT,
			"Move equipment and livestock away from low-lying areas"))
	}

	return out
}

func weatherCandidate(alertType models.AlertType, severity models.AlertSeverity, priority int,
	title, message string, current, threshold float64, unit string, op models.Operator,
	action string) Candidate {
	return Candidate{
		Type:               alertType,
		Severity:           severity,
		Priority:           priority,
		Title:              title,
		Message:            message,
		CurrentValue:       current,
		ThresholdValue:     threshold,
		Unit:               unit,
		Operator:           op,
		RecommendedActions: []string{action},
		TTL:                weatherAlertLifetime,
	}
}
