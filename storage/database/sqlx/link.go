package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core/link"
)

type linkRepository struct {
	db *sqlx.DB
}

var _ link.Repository = (*linkRepository)(nil) // interface compliance check

func NewLinkRepository(db *sqlx.DB) *linkRepository {
	return &linkRepository{db: db}
}

func (repo linkRepository) CreateCode(ctx context.Context, c link.Code) (link.Code, error) {
	c.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO link_codes (id, code, parent_id, created_at, expires_at, used)
		VALUES (:id, :code, :parent_id, :created_at, :expires_at, :used)`, c)
	if err != nil {
		return link.Code{}, errors.Wrap(err, "inserting link code")
	}
	return c, nil
}

func (repo linkRepository) GetUnusedCode(ctx context.Context, code string) (link.Code, error) {
	var c link.Code
	err := repo.db.GetContext(ctx, &c, `
		SELECT id, code, parent_id, created_at, expires_at, used
		FROM link_codes
		WHERE code = $1 AND NOT used
		ORDER BY created_at DESC
		LIMIT 1`, code)
	if err != nil {
		return link.Code{}, trapNoRows(err, link.ErrCodeNotFound, "getting link code")
	}
	return c, nil
}

func (repo linkRepository) MarkUsed(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE link_codes SET used = true WHERE id = $1`, id)
	return errors.Wrap(err, "marking link code used")
}
