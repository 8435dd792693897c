package cron

import (
	"context"
	"fmt"

	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
)

// ExpirySweepJobName labels the job in logs and metrics.
const ExpirySweepJobName = "medicine-expiry-sweep"

type expirySweeper interface {
	Sweep(ctx context.Context, scope visibility.Scope) (obat.SweepResult, error)
}

// ExpirySweepJobParams configures the nightly expiry sweep.
type ExpirySweepJobParams struct {
	Logger  *logger.Logger
	Sweeper expirySweeper
}

// NewExpirySweepJob zeroes the stock of every expired medicine across all
// locations.
func NewExpirySweepJob(params ExpirySweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("obat service required")
	}
	return &expirySweepJob{logg: params.Logger, sweeper: params.Sweeper}, nil
}

type expirySweepJob struct {
	logg    *logger.Logger
	sweeper expirySweeper
}

func (j *expirySweepJob) Name() string { return ExpirySweepJobName }

func (j *expirySweepJob) Run(ctx context.Context) error {
	result, err := j.sweeper.Sweep(ctx, visibility.All())
	if err != nil {
		return fmt.Errorf("sweep expired medicine: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"processed":     result.Processed,
		"units_removed": result.UnitsRemoved,
	})
	j.logg.Info(logCtx, "expiry sweep loop complete")
	return nil
}
