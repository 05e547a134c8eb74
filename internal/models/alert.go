package models

import (
	"time"
)

type AlertSeverity string

const (
	SeverityInfo      AlertSeverity = "info"
	SeverityLow       AlertSeverity = "low"
	SeverityMedium    AlertSeverity = "medium"
	SeverityHigh      AlertSeverity = "high"
	SeverityCritical  AlertSeverity = "critical"
	SeverityEmergency AlertSeverity = "emergency"
)

type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusInProgress   AlertStatus = "in_progress"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusDismissed    AlertStatus = "dismissed"
	AlertStatusExpired      AlertStatus = "expired"
)

// IsTerminal reports whether no further lifecycle transitions are legal.
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusResolved || s == AlertStatusDismissed || s == AlertStatusExpired
}

// IsOpen reports whether the status counts toward the active-alert
// uniqueness check during admission.
func (s AlertStatus) IsOpen() bool {
	return s == AlertStatusActive || s == AlertStatusAcknowledged || s == AlertStatusInProgress
}

type AlertType string

const (
	// Weather
	AlertWeatherExtremeHeat AlertType = "weather_extreme_heat"
	AlertWeatherHeavyRain   AlertType = "weather_heavy_rain"
	AlertWeatherDrought     AlertType = "weather_drought"
	AlertWeatherFrost       AlertType = "weather_frost"
	AlertWeatherStrongWind  AlertType = "weather_strong_wind"
	AlertWeatherFloodRisk   AlertType = "weather_flood_risk"
	AlertWeatherStorm       AlertType = "weather_storm"
	AlertWeatherHail        AlertType = "weather_hail"

	// Crop
	AlertCropHarvestReady     AlertType = "crop_harvest_ready"
	AlertCropHarvestOverdue   AlertType = "crop_harvest_overdue"
	AlertCropGrowthAnomaly    AlertType = "crop_growth_anomaly"
	AlertCropDiseaseDetected  AlertType = "crop_disease_detected"
	AlertCropPestDetected     AlertType = "crop_pest_detected"
	AlertCropIrrigationNeeded AlertType = "crop_irrigation_needed"
	AlertCropFertilizationDue AlertType = "crop_fertilization_due"

	// Livestock
	AlertLivestockVaccinationDue AlertType = "livestock_vaccination_due"
	AlertLivestockHealthIssue    AlertType = "livestock_health_issue"
	AlertLivestockProductionDrop AlertType = "livestock_production_drop"
	AlertLivestockBreedingDue    AlertType = "livestock_breeding_due"
	AlertLivestockFeedLow        AlertType = "livestock_feed_low"

	// Equipment
	AlertEquipmentMaintenanceDue AlertType = "equipment_maintenance_due"
	AlertEquipmentFailure        AlertType = "equipment_failure"

	// Input inventory
	AlertInputLowStock     AlertType = "input_low_stock"
	AlertInputExpired      AlertType = "input_expired"
	AlertInputExpiringSoon AlertType = "input_expiring_soon"
	AlertInputReorder      AlertType = "input_reorder"

	// Worker
	AlertWorkerAttendanceLow         AlertType = "worker_attendance_low"
	AlertWorkerPerformanceIssue      AlertType = "worker_performance_issue"
	AlertWorkerSafetyIncident        AlertType = "worker_safety_incident"
	AlertWorkerCertificationExpiring AlertType = "worker_certification_expiring"

	// Cost
	AlertCostBudgetExceeded AlertType = "cost_budget_exceeded"
	AlertCostPriceSpike     AlertType = "cost_price_spike"

	// System
	AlertSystemSyncFailed  AlertType = "system_sync_failed"
	AlertSystemDataQuality AlertType = "system_data_quality"

	// Task
	AlertTaskOverdue      AlertType = "task_overdue"
	AlertTaskHighWorkload AlertType = "task_high_workload"
	AlertTaskUnassigned   AlertType = "task_unassigned"
)

type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="
	OperatorEQ  Operator = "=="
)

type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
)

// Alert is a persisted record of a detected condition requiring attention.
// Status is transition-driven only: detectors create alerts, lifecycle
// operations move them, and nothing infers status from other field writes.
type Alert struct {
	ID     string    `gorm:"primaryKey" json:"id"`
	FarmID string    `gorm:"index;not null" json:"farm_id"`
	UserID string    `gorm:"index" json:"user_id"`
	Type   AlertType `gorm:"index;not null" json:"type"`

	Severity AlertSeverity `gorm:"index" json:"severity"`
	Priority int           `json:"priority"` // 1..10
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Data     JSONMap       `gorm:"type:text" json:"data,omitempty"`

	// Threshold snapshot at detection time.
	CurrentValue   float64  `json:"current_value"`
	ThresholdValue float64  `json:"threshold_value"`
	Unit           string   `json:"unit,omitempty"`
	Operator       Operator `json:"operator,omitempty"`

	// Shared references to the affected entities. The alert never owns
	// these records, only points at them.
	RelatedCrops     StringSlice `gorm:"type:text" json:"related_crops,omitempty"`
	RelatedLivestock StringSlice `gorm:"type:text" json:"related_livestock,omitempty"`
	RelatedWorkers   StringSlice `gorm:"type:text" json:"related_workers,omitempty"`
	RelatedInputs    StringSlice `gorm:"type:text" json:"related_inputs,omitempty"`
	RelatedTasks     StringSlice `gorm:"type:text" json:"related_tasks,omitempty"`

	RecommendedActions StringSlice `gorm:"type:text" json:"recommended_actions,omitempty"`

	Status   AlertStatus `gorm:"index" json:"status"`
	IsActive bool        `gorm:"index" json:"is_active"`

	AcknowledgedAt      *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy      string     `json:"acknowledged_by,omitempty"`
	AcknowledgmentNotes string     `json:"acknowledgment_notes,omitempty"`

	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`
	ResolvedBy       string      `json:"resolved_by,omitempty"`
	Resolution       string      `json:"resolution,omitempty"`
	ActionsTaken     StringSlice `gorm:"type:text" json:"actions_taken,omitempty"`
	Effectiveness    string      `json:"effectiveness,omitempty"`
	ResolutionCost   float64     `json:"resolution_cost,omitempty"`
	TimeSpentMinutes int         `json:"time_spent_minutes,omitempty"`

	Escalated        bool       `json:"escalated"`
	EscalatedAt      *time.Time `json:"escalated_at,omitempty"`
	EscalatedBy      string     `json:"escalated_by,omitempty"`
	EscalatedTo      string     `json:"escalated_to,omitempty"`
	EscalationReason string     `json:"escalation_reason,omitempty"`

	// Lifecycle metrics, in minutes from creation.
	ResponseTimeMinutes   *float64 `json:"response_time_minutes,omitempty"`
	ResolutionTimeMinutes *float64 `json:"resolution_time_minutes,omitempty"`

	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	IsRecurring        bool                `gorm:"index" json:"is_recurring"`
	Frequency          RecurrenceFrequency `json:"frequency,omitempty"`
	RecurrenceInterval int                 `json:"recurrence_interval,omitempty"`
	NextOccurrence     *time.Time          `json:"next_occurrence,omitempty"`
	RecurrenceEnd      *time.Time          `json:"recurrence_end,omitempty"`

	Notifications []NotificationRecord `gorm:"foreignKey:AlertID" json:"notifications,omitempty"`

	// Version is the optimistic-concurrency token. Lifecycle writes
	// compare-and-swap on it; the losing writer sees a stale-state error.
	Version uint `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimeSinceCreation returns the alert's age in minutes at the given instant.
func (a *Alert) TimeSinceCreation(now time.Time) float64 {
	return now.Sub(a.CreatedAt).Minutes()
}

// RelatedEntityIDs returns all related-entity references across domains,
// used as the dedup key during admission.
func (a *Alert) RelatedEntityIDs() []string {
	ids := make([]string, 0,
		len(a.RelatedCrops)+len(a.RelatedLivestock)+len(a.RelatedWorkers)+len(a.RelatedInputs)+len(a.RelatedTasks))
	ids = append(ids, a.RelatedCrops...)
	ids = append(ids, a.RelatedLivestock...)
	ids = append(ids, a.RelatedWorkers...)
	ids = append(ids, a.RelatedInputs...)
	ids = append(ids, a.RelatedTasks...)
	return ids
}

// IsExpiredAt is a read-time helper; the expiry sweeper remains the
// authority for the actual status transition.
func (a *Alert) IsExpiredAt(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// NotificationRecord is one entry in an alert's append-only delivery log.
// Entries are recorded for failed attempts too.
type NotificationRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlertID   string    `gorm:"index;not null" json:"alert_id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	SentAt    time.Time `json:"sent_at"`
	Delivered bool      `json:"delivered"`
	Error     string    `json:"error,omitempty"`
}
