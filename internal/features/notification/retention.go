package notification

import (
	"context"
	"time"

	"opscrm/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const pushTokenMaxIdle = 90 * 24 * time.Hour

// Retention sweeps read inbox rows past the configured horizon and push
// tokens nothing has touched in months. Events are never swept; they are
// the immutable record.
type Retention struct {
	repo      NotificationRepository
	pushRepo  PushTokenRepository
	cfg       *config.Config
	logger    *zap.Logger
	scheduler *cron.Cron
}

func NewRetention(repo NotificationRepository, pushRepo PushTokenRepository, cfg *config.Config, logger *zap.Logger) *Retention {
	return &Retention{
		repo:      repo,
		pushRepo:  pushRepo,
		cfg:       cfg,
		logger:    logger,
		scheduler: cron.New(),
	}
}

func (r *Retention) Start() error {
	// Nightly, off-peak
	if _, err := r.scheduler.AddFunc("0 3 * * *", r.sweep); err != nil {
		return err
	}
	r.scheduler.Start()
	return nil
}

func (r *Retention) Stop() {
	r.scheduler.Stop()
}

func (r *Retention) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -r.cfg.RetentionDays)
	removed, err := r.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		r.logger.Warn("notification retention sweep failed", zap.Error(err))
	} else if removed > 0 {
		r.logger.Info("notification retention sweep", zap.Int64("removed", removed))
	}

	stale, err := r.pushRepo.DeleteUnusedBefore(ctx, time.Now().Add(-pushTokenMaxIdle))
	if err != nil {
		r.logger.Warn("push token sweep failed", zap.Error(err))
	} else if stale > 0 {
		r.logger.Info("push token sweep", zap.Int64("removed", stale))
	}
}
