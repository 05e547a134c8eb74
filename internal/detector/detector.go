package detector

import (
	"time"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

// Candidate is an ephemeral alert proposal produced by a detector. It
// becomes a persisted alert only if admission does not absorb it into
// an existing open alert.
type Candidate struct {
	Type     models.AlertType
	Severity models.AlertSeverity
	Priority int
	Title    string
	Message  string
	Data     models.JSONMap

	CurrentValue   float64
	ThresholdValue float64
	Unit           string
	Operator       models.Operator

	RelatedCrops     []string
	RelatedLivestock []string
	RelatedWorkers   []string
	RelatedInputs    []string
	RelatedTasks     []string

	RecommendedActions []string

	// TTL is how long the resulting alert stays eligible before the
	// expiry sweeper picks it up. Zero means the admission default.
	TTL time.Duration
}

// Detector evaluates one domain's entities against its fixed rule set.
// Implementations are pure: same snapshot and clock in, same candidates
// out, no I/O and no stored state.
type Detector interface {
	Name() string
	Detect(snap *gateway.Snapshot, now time.Time) []Candidate
}

// All returns the full detector set run by the orchestrator.
func All() []Detector {
	return []Detector{
		InputDetector{},
		WorkerDetector{},
		CropDetector{},
		LivestockDetector{},
		TaskDetector{},
		WeatherDetector{},
	}
}
