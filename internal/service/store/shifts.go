package store

import (
	"context"
	"database/sql"

	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/service/database"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// ShiftRepository owns writes on the shifts table.
type ShiftRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewShiftRepository(postgres *database.PostgresService, logger *zap.Logger) *ShiftRepository {
	return &ShiftRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// ReplaceWindow deletes every shift dated fromDate or later and inserts the
// replacement batch, all inside one transaction. The sync is authoritative
// for the future window; a crash mid-replace must not leave it empty.
func (r *ShiftRepository) ReplaceWindow(ctx context.Context, fromDate string, shifts []*domain.Shift) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewPersistError("failed to begin transaction", "shifts", "replace", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shifts WHERE shift_date >= $1`, fromDate); err != nil {
		return errors.NewPersistError("failed to clear shift window", "shifts", "delete", err)
	}

	insert := `
		INSERT INTO shifts (cast_id, shift_date, start_time, end_time, status, room, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NOW())
	`

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return errors.NewPersistError("failed to prepare shift insert", "shifts", "insert", err)
	}
	defer stmt.Close()

	for _, shift := range shifts {
		if _, err := stmt.ExecContext(ctx,
			shift.CastID, shift.ShiftDate, shift.StartTime, shift.EndTime,
			shift.Status, shift.Room, shift.CreatedBy); err != nil {
			return errors.NewPersistError("failed to insert shift", "shifts", "insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewPersistError("failed to commit shift window", "shifts", "replace", err)
	}

	r.logger.Info("Shift window replaced",
		zap.String("from_date", fromDate),
		zap.Int("inserted", len(shifts)))

	return nil
}
