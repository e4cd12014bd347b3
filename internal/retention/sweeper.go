// Package retention removes aged audit and conversation rows on a schedule.
package retention

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/config"
)

// sweepTimeout bounds one sweep run; a stuck database must not pile up
// overlapping deletes.
const sweepTimeout = 5 * time.Minute

type Store interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically deletes rows older than the retention window from
// the registered stores.
type Sweeper struct {
	cfg    config.RetentionConfig
	stores map[string]Store
	cron   *cron.Cron
	logger *zap.Logger
}

func NewSweeper(cfg config.RetentionConfig, auditStore, conversationStore Store, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cfg: cfg,
		stores: map[string]Store{
			"audit_records":      auditStore,
			"conversation_turns": conversationStore,
		},
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the sweep. A disabled sweeper is a no-op, so callers can
// always Start and Stop unconditionally.
func (s *Sweeper) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("retention sweep disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.Sweep); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("retention sweep scheduled",
		zap.String("schedule", s.cfg.Schedule),
		zap.Duration("max_age", s.cfg.MaxAge),
	)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep deletes everything older than the retention window. Failures are
// logged per store; one failing store does not stop the others.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.cfg.MaxAge)

	for name, store := range s.stores {
		deleted, err := store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			s.logger.Error("retention sweep failed",
				zap.String("store", name),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("retention sweep completed",
			zap.String("store", name),
			zap.Time("cutoff", cutoff),
			zap.Int64("deleted", deleted),
		)
	}
}
