package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/service/database"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// CastRepository owns reads/writes on the casts table.
type CastRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewCastRepository(postgres *database.PostgresService, logger *zap.Logger) *CastRepository {
	return &CastRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// GetAll loads the entity set once per sync for reconciliation.
func (r *CastRepository) GetAll(ctx context.Context) ([]*domain.Cast, error) {
	query := `
		SELECT id, name, COALESCE(photo, ''), COALESCE(external_id, '')
		FROM casts
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewPersistError("failed to query casts", "casts", "select", err)
	}
	defer rows.Close()

	var casts []*domain.Cast
	for rows.Next() {
		cast := &domain.Cast{}
		if err := rows.Scan(&cast.ID, &cast.Name, &cast.Photo, &cast.ExternalID); err != nil {
			r.logger.Warn("Failed to scan cast row", zap.Error(err))
			continue
		}
		casts = append(casts, cast)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistError("cast row iteration failed", "casts", "select", err)
	}

	return casts, nil
}

// Insert creates a new cast from an external profile patch and returns the
// generated id.
func (r *CastRepository) Insert(ctx context.Context, patch *domain.CastPatch) (int64, error) {
	query := `
		INSERT INTO casts (
			name, photo, photos, external_id, age, tags,
			height, bust, cup_size, waist, hip, body_type,
			experience_years, specialties, blood_type, favorite_food,
			ideal_type, celebrity_lookalike, day_off_activities, hobbies,
			message, x_account, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, NOW(), NOW()
		)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		patch.Name,
		patch.Photo,
		pq.Array(patch.Photos),
		patch.ExternalID,
		patch.Age,
		pq.Array(patch.Tags),
		patch.Height,
		patch.Bust,
		patch.CupSize,
		patch.Waist,
		patch.Hip,
		patch.BodyType,
		patch.ExperienceYears,
		patch.Specialties,
		patch.BloodType,
		patch.FavoriteFood,
		patch.IdealType,
		patch.CelebrityLookalike,
		patch.DayOffActivities,
		patch.Hobbies,
		patch.Message,
		patch.XAccount,
	).Scan(&id)
	if err != nil {
		return 0, errors.NewPersistError("failed to insert cast", "casts", "insert", err)
	}

	return id, nil
}

// UpdateFields overwrites only the fields the incoming patch actually
// carries. Nil pointers and nil slices are left untouched in the row, so a
// sparse portal profile never blanks existing data.
func (r *CastRepository) UpdateFields(ctx context.Context, id int64, patch *domain.CastPatch) error {
	sets := make([]string, 0, 24)
	args := make([]any, 0, 24)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Photo != nil {
		add("photo", *patch.Photo)
	}
	if patch.Photos != nil {
		add("photos", pq.Array(patch.Photos))
	}
	if patch.ExternalID != nil {
		add("external_id", *patch.ExternalID)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Tags != nil {
		add("tags", pq.Array(patch.Tags))
	}
	if patch.Height != nil {
		add("height", *patch.Height)
	}
	if patch.Bust != nil {
		add("bust", *patch.Bust)
	}
	if patch.CupSize != nil {
		add("cup_size", *patch.CupSize)
	}
	if patch.Waist != nil {
		add("waist", *patch.Waist)
	}
	if patch.Hip != nil {
		add("hip", *patch.Hip)
	}
	if patch.BodyType != nil {
		add("body_type", *patch.BodyType)
	}
	if patch.ExperienceYears != nil {
		add("experience_years", *patch.ExperienceYears)
	}
	if patch.Specialties != nil {
		add("specialties", *patch.Specialties)
	}
	if patch.BloodType != nil {
		add("blood_type", *patch.BloodType)
	}
	if patch.FavoriteFood != nil {
		add("favorite_food", *patch.FavoriteFood)
	}
	if patch.IdealType != nil {
		add("ideal_type", *patch.IdealType)
	}
	if patch.CelebrityLookalike != nil {
		add("celebrity_lookalike", *patch.CelebrityLookalike)
	}
	if patch.DayOffActivities != nil {
		add("day_off_activities", *patch.DayOffActivities)
	}
	if patch.Hobbies != nil {
		add("hobbies", *patch.Hobbies)
	}
	if patch.Message != nil {
		add("message", *patch.Message)
	}
	if patch.XAccount != nil {
		add("x_account", *patch.XAccount)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE casts SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.NewPersistError("failed to update cast", "casts", "update", err)
	}

	return nil
}

// UpdatePhotos sets the photo columns after mirroring completes for a newly
// created cast.
func (r *CastRepository) UpdatePhotos(ctx context.Context, id int64, photo string, photos []string) error {
	query := `
		UPDATE casts
		SET photo = $1, photos = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := r.db.ExecContext(ctx, query, photo, pq.Array(photos), id); err != nil {
		return errors.NewPersistError("failed to update cast photos", "casts", "update", err)
	}

	return nil
}
