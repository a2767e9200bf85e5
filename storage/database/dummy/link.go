package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/attendancr/attendancr/core/link"
)

type linkRepository struct {
	db *linkTable
}

var _ link.Repository = (*linkRepository)(nil) // interface compliance check

func NewLinkRepository(db *DB) *linkRepository {
	return &linkRepository{db: db.link}
}

func (repo *linkRepository) CreateCode(ctx context.Context, c link.Code) (link.Code, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.codes[c.ID] = &c
	return c, nil
}

func (repo *linkRepository) GetUnusedCode(ctx context.Context, code string) (link.Code, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var latest *link.Code
	for _, c := range repo.db.codes {
		if c.Code != code || c.Used {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return link.Code{}, link.ErrCodeNotFound
	}
	return *latest, nil
}

func (repo *linkRepository) MarkUsed(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.codes[id]
	if !ok {
		return link.ErrCodeNotFound
	}
	c.Used = true
	return nil
}
