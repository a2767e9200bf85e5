package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core/roster"
)

type rosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *sqlx.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

func (repo rosterRepository) CreateSyncLog(ctx context.Context, l roster.SyncLog) (roster.SyncLog, error) {
	l.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO sheet_sync_log (id, sync_started_at, status)
		VALUES (:id, :sync_started_at, :status)`, l)
	if err != nil {
		return roster.SyncLog{}, errors.Wrap(err, "inserting sync log")
	}
	return l, nil
}

func (repo rosterRepository) CompleteSyncLog(ctx context.Context, l roster.SyncLog) error {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE sheet_sync_log
		SET sync_completed_at = :sync_completed_at, status = :status, error_message = :error_message,
			students_added = :students_added, students_updated = :students_updated,
			students_deleted = :students_deleted
		WHERE id = :id`, l)
	return errors.Wrap(err, "completing sync log")
}

func (repo rosterRepository) QuerySyncLogs(ctx context.Context, limit int) ([]roster.SyncLog, error) {
	logs := make([]roster.SyncLog, 0, limit)
	err := repo.db.SelectContext(ctx, &logs, `
		SELECT id, sync_started_at, sync_completed_at, status, error_message,
			students_added, students_updated, students_deleted
		FROM sheet_sync_log
		ORDER BY sync_started_at DESC
		LIMIT $1`, limit)
	return logs, errors.Wrap(err, "querying sync logs")
}
