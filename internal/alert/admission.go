package alert

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmwatch/internal/detector"
	"github.com/farmwatch/internal/models"
)

// defaultAlertTTL is how long a new alert stays eligible before the
// expiry sweeper claims it, unless the candidate asked for less.
const defaultAlertTTL = 7 * 24 * time.Hour

// Admitter turns detector candidates into persisted alerts, absorbing
// duplicates of an open alert. The check-then-insert sequence is
// serialized per (farm, type) key so concurrent sweeps for the same
// farm cannot double-insert.
type Admitter struct {
	store  *Store
	logger *zap.Logger

	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

func NewAdmitter(store *Store, logger *zap.Logger) *Admitter {
	return &Admitter{
		store:  store,
		logger: logger,
		keys:   make(map[string]*sync.Mutex),
	}
}

// Admit decides whether the candidate becomes a new alert. It returns
// the persisted alert and true when created, or the absorbing open
// alert and false when the candidate is a duplicate.
func (a *Admitter) Admit(ctx context.Context, farmID, userID string, cand detector.Candidate, now time.Time) (*models.Alert, bool, error) {
	unlock := a.lock(farmID + "|" + string(cand.Type))
	defer unlock()

	open, err := a.store.FindOpen(ctx, farmID, cand.Type)
	if err != nil {
		return nil, false, err
	}

	candidate := buildAlert(farmID, userID, cand, now)
	candidateIDs := models.StringSlice(candidate.RelatedEntityIDs())

	for i := range open {
		existing := &open[i]
		if relatedOverlap(models.StringSlice(existing.RelatedEntityIDs()), candidateIDs) {
			a.logger.Debug("candidate absorbed by open alert",
				zap.String("farm_id", farmID),
				zap.String("type", string(cand.Type)),
				zap.String("alert_id", existing.ID))
			return existing, false, nil
		}
	}

	if err := a.store.Create(ctx, candidate); err != nil {
		return nil, false, err
	}

	a.logger.Info("alert created",
		zap.String("alert_id", candidate.ID),
		zap.String("farm_id", farmID),
		zap.String("type", string(cand.Type)),
		zap.String("severity", string(cand.Severity)),
		zap.Int("urgency", UrgencyScore(candidate, now)))

	return candidate, true, nil
}

// relatedOverlap implements the dedup comparison. Two empty sets count
// as overlapping: an alert with no entity references covers the whole
// farm for its type.
func relatedOverlap(existing, candidate models.StringSlice) bool {
	if len(existing) == 0 && len(candidate) == 0 {
		return true
	}
	return existing.Intersects(candidate)
}

func (a *Admitter) lock(key string) func() {
	a.mu.Lock()
	m, ok := a.keys[key]
	if !ok {
		m = &sync.Mutex{}
		a.keys[key] = m
	}
	a.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func buildAlert(farmID, userID string, cand detector.Candidate, now time.Time) *models.Alert {
	ttl := cand.TTL
	if ttl <= 0 {
		ttl = defaultAlertTTL
	}
	expiresAt := now.Add(ttl)

	return &models.Alert{
		ID:                 uuid.New().String(),
		FarmID:             farmID,
		UserID:             userID,
		Type:               cand.Type,
		Severity:           cand.Severity,
		Priority:           clampPriority(cand.Priority),
		Title:              cand.Title,
		Message:            cand.Message,
		Data:               cand.Data,
		CurrentValue:       cand.CurrentValue,
		ThresholdValue:     cand.ThresholdValue,
		Unit:               cand.Unit,
		Operator:           cand.Operator,
		RelatedCrops:       cand.RelatedCrops,
		RelatedLivestock:   cand.RelatedLivestock,
		RelatedWorkers:     cand.RelatedWorkers,
		RelatedInputs:      cand.RelatedInputs,
		RelatedTasks:       cand.RelatedTasks,
		RecommendedActions: cand.RecommendedActions,
		Status:             models.AlertStatusActive,
		IsActive:           true,
		ExpiresAt:          &expiresAt,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 10 {
		return 10
	}
	return p
}
