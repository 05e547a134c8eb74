package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/farmwatch/internal/alert"
)

// ExpirySweeper batch-transitions alerts whose expiry has passed from
// active/acknowledged to expired. An alert past its expiry stays
// readable until the next run claims it.
type ExpirySweeper struct {
	store  *alert.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewExpirySweeper(store *alert.Store, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{store: store, logger: logger, now: time.Now}
}

// Run performs one sweep. Rerunning on already-expired alerts changes
// nothing.
func (s *ExpirySweeper) Run(ctx context.Context) {
	expired, err := s.store.ExpireDue(ctx, s.now())
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired stale alerts", zap.Int64("count", expired))
	}
}
