package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/webshopkit/webshop-backend/pkg/logger"
	"github.com/webshopkit/webshop-backend/pkg/metrics"
)

type fakeCartSweeper struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeCartSweeper) SweepStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func newCartCleanupJob(t *testing.T, sweeper *fakeCartSweeper, retention int) *cartCleanupJob {
	t.Helper()
	jobIface, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Carts:     sweeper,
		Retention: retention,
	})
	if err != nil {
		t.Fatalf("NewCartCleanupJob: %v", err)
	}
	job, ok := jobIface.(*cartCleanupJob)
	if !ok {
		t.Fatalf("expected cartCleanupJob, got %T", jobIface)
	}
	return job
}

func TestCartCleanupJobSweepsWithRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	sweeper := &fakeCartSweeper{deletedRows: 12}
	job := newCartCleanupJob(t, sweeper, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-cartRetentionDays * 24 * time.Hour)
	if !sweeper.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, sweeper.lastCutoff)
	}
	if sweeper.called != 1 {
		t.Fatalf("expected sweeper called once, got %d", sweeper.called)
	}
}

func TestCartCleanupJobHonorsConfiguredRetention(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	sweeper := &fakeCartSweeper{}
	job := newCartCleanupJob(t, sweeper, 7)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-7 * 24 * time.Hour)
	if !sweeper.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, sweeper.lastCutoff)
	}
}

func TestCartCleanupJobPropagatesErrors(t *testing.T) {
	sweeper := &fakeCartSweeper{err: errors.New("boom")}
	job := newCartCleanupJob(t, sweeper, 0)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCartCleanupJobRecordsRowsSwept(t *testing.T) {
	reg := prometheus.NewRegistry()
	sweeper := &fakeCartSweeper{deletedRows: 9}
	jobIface, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Carts:   sweeper,
		Metrics: metrics.NewCronJobMetrics(reg),
	})
	if err != nil {
		t.Fatalf("NewCartCleanupJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := sweptRowsValue(reg, "cart-cleanup")
	if err != nil {
		t.Fatal(err)
	}
	if got != 9 {
		t.Fatalf("expected 9 swept rows recorded, got %f", got)
	}
}

func sweptRowsValue(reg *prometheus.Registry, job string) (float64, error) {
	mfs, err := reg.Gather()
	if err != nil {
		return 0, fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "webshop_cron_rows_swept_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "job" && label.GetValue() == job {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("no swept rows recorded for job %q", job)
}
