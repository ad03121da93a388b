package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/angelmondragon/kurvfo/pkg/logger"
)

const catalogRefreshJobName = "catalog_refresh"

type catalogLoader interface {
	Refresh(ctx context.Context) (catalog.Snapshot, bool)
}

// CatalogRefreshJob re-issues the catalog load, dropping cached snapshots
// first. A load overtaken by a newer one is not a failure; a load cut short by
// shutdown is discarded and reported as the context error.
type CatalogRefreshJob struct {
	loader catalogLoader
	logg   *logger.Logger
}

func NewCatalogRefreshJob(loader catalogLoader, logg *logger.Logger) (*CatalogRefreshJob, error) {
	if loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &CatalogRefreshJob{loader: loader, logg: logg}, nil
}

func (j *CatalogRefreshJob) Name() string { return catalogRefreshJobName }

func (j *CatalogRefreshJob) Run(ctx context.Context) error {
	snap, applied := j.loader.Refresh(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"applied": applied,
		"seq":     snap.Seq,
		"deals":   len(snap.Deals),
		"stores":  len(snap.Stores),
	})
	j.logg.Debug(ctx, "catalog refreshed")
	return nil
}
