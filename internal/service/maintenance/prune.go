package maintenance

import (
	"context"
	"sync/atomic"

	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/metrics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// AssetStore lists and forgets mirrored-asset ownership rows.
type AssetStore interface {
	ListOrphans(ctx context.Context) ([]*domain.MirroredAsset, error)
	Delete(ctx context.Context, path string) error
}

// ObjectDeleter removes objects from owned storage.
type ObjectDeleter interface {
	Delete(ctx context.Context, path string) error
}

// Pruner is the companion job to the asset mirror: repeated syncs rotate
// photo filenames, so storage accumulates objects nothing references. This
// runs outside the sync pipelines and deletes those orphans.
type Pruner struct {
	assets      AssetStore
	storage     ObjectDeleter
	logger      *zap.Logger
	concurrency int
}

func NewPruner(assets AssetStore, storage ObjectDeleter, logger *zap.Logger) *Pruner {
	return &Pruner{
		assets:      assets,
		storage:     storage,
		logger:      logger,
		concurrency: constants.PruneConfig.Concurrency,
	}
}

// Run deletes every orphaned asset from storage and then from the ownership
// table. Per-asset failures are counted, not fatal.
func (p *Pruner) Run(ctx context.Context) (pruned, failed int, err error) {
	orphans, err := p.assets.ListOrphans(ctx)
	if err != nil {
		return 0, 0, err
	}

	if len(orphans) == 0 {
		return 0, 0, nil
	}

	var prunedCount, failedCount atomic.Int64

	workers := pool.New().WithMaxGoroutines(p.concurrency)
	for _, orphan := range orphans {
		orphan := orphan
		workers.Go(func() {
			if err := p.storage.Delete(ctx, orphan.Path); err != nil {
				failedCount.Add(1)
				p.logger.Warn("Failed to delete orphan object",
					zap.String("path", orphan.Path),
					zap.Error(err))
				return
			}

			if err := p.assets.Delete(ctx, orphan.Path); err != nil {
				failedCount.Add(1)
				p.logger.Warn("Failed to delete asset row",
					zap.String("path", orphan.Path),
					zap.Error(err))
				return
			}

			prunedCount.Add(1)
			metrics.AssetsPruned.Inc()
		})
	}
	workers.Wait()

	p.logger.Info("Asset prune completed",
		zap.Int("orphans", len(orphans)),
		zap.Int64("pruned", prunedCount.Load()),
		zap.Int64("failed", failedCount.Load()))

	return int(prunedCount.Load()), int(failedCount.Load()), nil
}
