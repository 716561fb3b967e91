package store

import (
	"context"
	"database/sql"

	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/service/database"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// AssetRepository tracks mirrored-asset ownership. The sync pipelines only
// append here; the prune job is the sole deleter.
type AssetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewAssetRepository(postgres *database.PostgresService, logger *zap.Logger) *AssetRepository {
	return &AssetRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *AssetRepository) Record(ctx context.Context, asset *domain.MirroredAsset) error {
	query := `
		INSERT INTO mirrored_assets (path, cast_id, public_url, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (path) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query,
		asset.Path, asset.CastID, asset.PublicURL, asset.ContentType, asset.CreatedAt); err != nil {
		return errors.NewPersistError("failed to record mirrored asset", "mirrored_assets", "insert", err)
	}

	return nil
}

// ListOrphans returns assets no cast references anymore, either because the
// owning cast is gone or because re-syncs rotated its photo set.
func (r *AssetRepository) ListOrphans(ctx context.Context) ([]*domain.MirroredAsset, error) {
	query := `
		SELECT a.path, a.cast_id, a.public_url, a.content_type, a.created_at
		FROM mirrored_assets a
		WHERE NOT EXISTS (
			SELECT 1 FROM casts c
			WHERE c.photo = a.public_url
			   OR a.public_url = ANY(c.photos)
		)
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewPersistError("failed to query orphan assets", "mirrored_assets", "select", err)
	}
	defer rows.Close()

	var orphans []*domain.MirroredAsset
	for rows.Next() {
		asset := &domain.MirroredAsset{}
		if err := rows.Scan(&asset.Path, &asset.CastID, &asset.PublicURL,
			&asset.ContentType, &asset.CreatedAt); err != nil {
			r.logger.Warn("Failed to scan asset row", zap.Error(err))
			continue
		}
		orphans = append(orphans, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistError("asset row iteration failed", "mirrored_assets", "select", err)
	}

	return orphans, nil
}

func (r *AssetRepository) Delete(ctx context.Context, path string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM mirrored_assets WHERE path = $1`, path); err != nil {
		return errors.NewPersistError("failed to delete asset row", "mirrored_assets", "delete", err)
	}
	return nil
}
