package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/detector"
	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
	"github.com/farmwatch/internal/notify"
)

// Orchestrator drives one sweep: fetch the farm snapshot, run every
// detector concurrently, admit the candidates, and dispatch
// notifications for the severities that warrant immediate fan-out.
type Orchestrator struct {
	data       gateway.FarmData
	detectors  []detector.Detector
	admitter   *alert.Admitter
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func NewOrchestrator(data gateway.FarmData, admitter *alert.Admitter, dispatcher *notify.Dispatcher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		data:       data,
		detectors:  detector.All(),
		admitter:   admitter,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// autoDispatch reports whether a newly created alert is fanned out
// immediately. Lower severities stay dispatch-eligible but caller-driven.
func autoDispatch(severity models.AlertSeverity) bool {
	return severity == models.SeverityCritical || severity == models.SeverityEmergency
}

// RunSweep evaluates all detectors for one farm and returns the alerts
// created this cycle. A failing detector is isolated: it contributes no
// candidates and the sweep continues with the rest.
func (o *Orchestrator) RunSweep(ctx context.Context, farmID string) ([]models.Alert, error) {
	snap, err := o.data.Snapshot(ctx, farmID)
	if err != nil {
		return nil, err
	}

	now := o.now()
	results := make(chan []detector.Candidate, len(o.detectors))

	for _, det := range o.detectors {
		det := det
		go func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("detector failed",
						zap.String("detector", det.Name()),
						zap.String("farm_id", farmID),
						zap.Any("panic", r))
					results <- nil
				}
			}()
			results <- det.Detect(snap, now)
		}()
	}

	var candidates []detector.Candidate
	for range o.detectors {
		candidates = append(candidates, <-results...)
	}

	var created []models.Alert
	for _, cand := range candidates {
		persisted, isNew, err := o.admitter.Admit(ctx, farmID, snap.Farm.OwnerID, cand, now)
		if err != nil {
			o.logger.Error("admission failed",
				zap.String("farm_id", farmID),
				zap.String("type", string(cand.Type)),
				zap.Error(err))
			continue
		}
		if !isNew {
			continue
		}
		created = append(created, *persisted)

		// The alert is durably created first; delivery failure can
		// never roll it back.
		if autoDispatch(persisted.Severity) {
			o.dispatcher.Dispatch(ctx, persisted)
		}
	}

	o.logger.Info("sweep complete",
		zap.String("farm_id", farmID),
		zap.Int("candidates", len(candidates)),
		zap.Int("created", len(created)))

	return created, nil
}
