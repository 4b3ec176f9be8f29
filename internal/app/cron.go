package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dwellio/core/internal/config"
	"github.com/dwellio/core/internal/modules/appearance/history"
	pkgcron "github.com/dwellio/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, hist *history.Store, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")
	retention := time.Duration(cfg.Appearance.HistoryRetentionDays) * 24 * time.Hour

	sched.Register(pkgcron.Job{
		Name:        "prune_config_history",
		Description: fmt.Sprintf("drop configuration history older than %d days", cfg.Appearance.HistoryRetentionDays),
		Interval:    time.Duration(cfg.Appearance.HistoryPruneHours) * time.Hour,
		Fn: func(ctx context.Context) error {
			pruned, err := hist.PruneOlderThan(ctx, retention)
			if err != nil {
				cronLogger.Warn("history prune failed", zap.Error(err))
				return err
			}
			cronLogger.Info("history pruned", zap.Int64("rows", pruned))
			return nil
		},
	})
}
