package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
	"github.com/webshopkit/webshop-backend/pkg/logger"
	"github.com/webshopkit/webshop-backend/pkg/metrics"
)

const customerRetentionDays = 365

type dormantCustomerFinder interface {
	FindWithoutOrders(ctx context.Context) ([]models.Customer, error)
}

type customerRemover interface {
	Delete(ctx context.Context, access auth.Access, id uuid.UUID) error
}

// CustomerCleanupJobParams configure the dormant account sweep.
type CustomerCleanupJobParams struct {
	Logger    *logger.Logger
	Finder    dormantCustomerFinder
	Remover   customerRemover
	Metrics   *metrics.CronJobMetrics
	Retention int
}

// NewCustomerCleanupJob builds the job that removes customer accounts that
// never placed an order and have existed longer than the retention window.
// Staff accounts are never touched.
func NewCustomerCleanupJob(params CustomerCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Finder == nil {
		return nil, fmt.Errorf("customer finder required")
	}
	if params.Remover == nil {
		return nil, fmt.Errorf("customer remover required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = customerRetentionDays
	}
	return &customerCleanupJob{
		logg:      params.Logger,
		finder:    params.Finder,
		remover:   params.Remover,
		metrics:   params.Metrics,
		retention: retention,
		now:       time.Now,
	}, nil
}

type customerCleanupJob struct {
	logg      *logger.Logger
	finder    dormantCustomerFinder
	remover   customerRemover
	metrics   *metrics.CronJobMetrics
	retention int
	now       func() time.Time
}

func (j *customerCleanupJob) Name() string { return "customer-cleanup" }

func (j *customerCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)

	candidates, err := j.finder.FindWithoutOrders(ctx)
	if err != nil {
		return fmt.Errorf("customer cleanup: %w", err)
	}

	var deleted, skipped int64
	var errs []error
	for _, customer := range candidates {
		if !customer.CreatedAt.Before(cutoff) {
			continue
		}
		err := j.remover.Delete(ctx, auth.System(), customer.ID)
		if err != nil {
			// the account placed an order between the read and the delete;
			// the next run re-evaluates it
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeHasOrders {
				skipped++
				continue
			}
			errs = append(errs, fmt.Errorf("delete %s: %w", customer.ID, err))
			continue
		}
		deleted++
	}

	j.metrics.AddRowsSwept(j.Name(), deleted)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":           cutoff,
		"retention_days":   j.retention,
		"accounts_deleted": deleted,
		"accounts_skipped": skipped,
	})
	j.logg.Info(logCtx, "customer cleanup complete")
	if len(errs) > 0 {
		return fmt.Errorf("customer cleanup: %w", multierr.Combine(errs...))
	}
	return nil
}
