package models

import (
	"time"
)

// Farm is the aggregate root every alert belongs to.
type Farm struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	OwnerID      string    `gorm:"index" json:"owner_id"`
	Location     string    `json:"location"`
	SizeHectares float64   `json:"size_hectares"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CropStage string

const (
	StageSeedling   CropStage = "seedling"
	StageVegetative CropStage = "vegetative"
	StageFlowering  CropStage = "flowering"
	StageFruiting   CropStage = "fruiting"
	StageMature     CropStage = "mature"
	StageHarvested  CropStage = "harvested"
)

type Crop struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	FarmID            string     `gorm:"index;not null" json:"farm_id"`
	Name              string     `json:"name"`
	Variety           string     `json:"variety"`
	PlantedAt         time.Time  `json:"planted_at"`
	ExpectedHarvestAt *time.Time `json:"expected_harvest_at,omitempty"`
	Stage             CropStage  `json:"stage"`
	StageChangedAt    time.Time  `json:"stage_changed_at"`
	AreaHectares      float64    `json:"area_hectares"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DaysToHarvest returns the whole days until the expected harvest date.
// Negative values mean the harvest is overdue. Returns false when no
// harvest date is set.
func (c *Crop) DaysToHarvest(now time.Time) (int, bool) {
	if c.ExpectedHarvestAt == nil {
		return 0, false
	}
	return int(c.ExpectedHarvestAt.Sub(now).Hours() / 24), true
}

type Livestock struct {
	ID                string        `gorm:"primaryKey" json:"id"`
	FarmID            string        `gorm:"index;not null" json:"farm_id"`
	Tag               string        `json:"tag"`
	Species           string        `json:"species"`
	Breed             string        `json:"breed"`
	ProductionGoal    float64       `json:"production_goal"`
	CurrentProduction float64       `json:"current_production"`
	ProductionUnit    string        `json:"production_unit"`
	Vaccinations      []Vaccination `gorm:"foreignKey:LivestockID" json:"vaccinations,omitempty"`
	HealthIssues      []HealthIssue `gorm:"foreignKey:LivestockID" json:"health_issues,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type Vaccination struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	LivestockID    string     `gorm:"index;not null" json:"livestock_id"`
	Name           string     `json:"name"`
	DueAt          time.Time  `json:"due_at"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
}

type HealthIssue struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	LivestockID string    `gorm:"index;not null" json:"livestock_id"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Active      bool      `gorm:"index" json:"active"`
	ReportedAt  time.Time `json:"reported_at"`
}

type Worker struct {
	ID                string             `gorm:"primaryKey" json:"id"`
	FarmID            string             `gorm:"index;not null" json:"farm_id"`
	Name              string             `json:"name"`
	RoleTitle         string             `json:"role_title"`
	PerformanceRating float64            `json:"performance_rating"` // 0..5
	Attendance        []AttendanceRecord `gorm:"foreignKey:WorkerID" json:"attendance,omitempty"`
	SafetyIncidents   []SafetyIncident   `gorm:"foreignKey:WorkerID" json:"safety_incidents,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type AttendanceRecord struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	WorkerID string    `gorm:"index;not null" json:"worker_id"`
	Date     time.Time `json:"date"`
	Present  bool      `json:"present"`
}

type SafetyIncident struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	WorkerID    string    `gorm:"index;not null" json:"worker_id"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"` // minor, moderate, severe, critical
	OccurredAt  time.Time `json:"occurred_at"`
}

// AttendanceRate returns the fraction of days present over the trailing
// window ending at now. Returns false when no records fall inside it.
func (w *Worker) AttendanceRate(now time.Time, window time.Duration) (float64, bool) {
	cutoff := now.Add(-window)
	var present, total int
	for _, rec := range w.Attendance {
		if rec.Date.Before(cutoff) || rec.Date.After(now) {
			continue
		}
		total++
		if rec.Present {
			present++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(present) / float64(total), true
}

type Input struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	FarmID       string     `gorm:"index;not null" json:"farm_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"` // seed, fertilizer, pesticide, feed, fuel
	CurrentStock float64    `json:"current_stock"`
	MinimumStock float64    `json:"minimum_stock"`
	Unit         string     `json:"unit"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsLowStock is a read-time helper; the low-stock alert itself is owned
// by the input detector.
func (i *Input) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

type Task struct {
	ID         string       `gorm:"primaryKey" json:"id"`
	FarmID     string       `gorm:"index;not null" json:"farm_id"`
	Title      string       `json:"title"`
	Status     TaskStatus   `gorm:"index" json:"status"`
	Priority   TaskPriority `json:"priority"`
	DueAt      *time.Time   `json:"due_at,omitempty"`
	AssignedTo string       `json:"assigned_to,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
