package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/webshopkit/webshop-backend/pkg/logger"
	"github.com/webshopkit/webshop-backend/pkg/metrics"
)

const cartRetentionDays = 30

type cartSweeper interface {
	SweepStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartCleanupJobParams configure the cart expiry sweep.
type CartCleanupJobParams struct {
	Logger    *logger.Logger
	Carts     cartSweeper
	Metrics   *metrics.CronJobMetrics
	Retention int
}

// NewCartCleanupJob builds the job that expires abandoned carts. A cart is
// abandoned when none of its items were touched within the retention window;
// one recent item keeps the owner's whole cart.
func NewCartCleanupJob(params CartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart sweeper required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = cartRetentionDays
	}
	return &cartCleanupJob{
		logg:      params.Logger,
		carts:     params.Carts,
		metrics:   params.Metrics,
		retention: retention,
		now:       time.Now,
	}, nil
}

type cartCleanupJob struct {
	logg      *logger.Logger
	carts     cartSweeper
	metrics   *metrics.CronJobMetrics
	retention int
	now       func() time.Time
}

func (j *cartCleanupJob) Name() string { return "cart-cleanup" }

func (j *cartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.carts.SweepStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cart cleanup: %w", err)
	}
	j.metrics.AddRowsSwept(j.Name(), deleted)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "cart cleanup complete")
	return nil
}
