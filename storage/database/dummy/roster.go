package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/attendancr/attendancr/core/roster"
)

type rosterRepository struct {
	db *rosterTable
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{db: db.roster}
}

func (repo *rosterRepository) CreateSyncLog(ctx context.Context, l roster.SyncLog) (roster.SyncLog, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l.ID = uuid.New().String()
	repo.db.logs[l.ID] = &l
	return l, nil
}

func (repo *rosterRepository) CompleteSyncLog(ctx context.Context, l roster.SyncLog) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.logs[l.ID] = &l
	return nil
}

func (repo *rosterRepository) QuerySyncLogs(ctx context.Context, limit int) ([]roster.SyncLog, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	logs := make([]roster.SyncLog, 0, len(repo.db.logs))
	for _, l := range repo.db.logs {
		logs = append(logs, *l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].StartedAt.After(logs[j].StartedAt) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
