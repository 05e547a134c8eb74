package models

import (
	"time"
)

// WeatherObservation is the latest reading for a farm, supplied by the
// external weather provider and stored verbatim.
type WeatherObservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FarmID          string    `gorm:"index;not null" json:"farm_id"`
	ObservedAt      time.Time `json:"observed_at"`
	TemperatureC    float64   `json:"temperature_c"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	SoilMoisturePct float64   `json:"soil_moisture_pct"`
	WindSpeedKPH    float64   `json:"wind_speed_kph"`
	HumidityPct     float64   `json:"humidity_pct"`
}

// DailyForecast is one day of the provider's forecast for a farm.
type DailyForecast struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FarmID          string    `gorm:"index;not null" json:"farm_id"`
	Date            time.Time `json:"date"`
	MinTempC        float64   `json:"min_temp_c"`
	MaxTempC        float64   `json:"max_temp_c"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	WindSpeedKPH    float64   `json:"wind_speed_kph"`
}
