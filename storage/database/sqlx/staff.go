package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

func (repo staffRepository) CreateStaff(ctx context.Context, st staff.Staff) (staff.Staff, error) {
	st.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO staff (id, name, pin_hash, is_active, created_at)
		VALUES (:id, :name, :pin_hash, :is_active, :created_at)`, st)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return st, nil
}

func (repo staffRepository) QueryAllStaff(ctx context.Context) ([]staff.Staff, error) {
	members := make([]staff.Staff, 0)
	err := repo.db.SelectContext(ctx, &members,
		`SELECT id, name, pin_hash, is_active, created_at FROM staff ORDER BY name`)
	return members, errors.Wrap(err, "querying staff")
}

func (repo staffRepository) QueryActiveStaff(ctx context.Context) ([]staff.Staff, error) {
	members := make([]staff.Staff, 0)
	err := repo.db.SelectContext(ctx, &members,
		`SELECT id, name, pin_hash, is_active, created_at FROM staff WHERE is_active ORDER BY name`)
	return members, errors.Wrap(err, "querying active staff")
}

func (repo staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	var st staff.Staff
	err := repo.db.GetContext(ctx, &st,
		`SELECT id, name, pin_hash, is_active, created_at FROM staff WHERE id = $1`, id)
	if err != nil {
		return staff.Staff{}, trapNoRows(err, staff.ErrNotFound, "getting staff")
	}
	return st, nil
}

func (repo staffRepository) SetStaffActive(ctx context.Context, id string, isActive bool) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE staff SET is_active = $2 WHERE id = $1`, id, isActive)
	if err != nil {
		return errors.Wrap(err, "updating staff")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (repo staffRepository) CreateAdmin(ctx context.Context, adm staff.Admin) (staff.Admin, error) {
	adm.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash, created_at)
		VALUES (:id, :email, :password_hash, :created_at)`, adm)
	if err != nil {
		return staff.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return adm, nil
}

func (repo staffRepository) GetAdminByEmail(ctx context.Context, email string) (staff.Admin, error) {
	var adm staff.Admin
	err := repo.db.GetContext(ctx, &adm,
		`SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`, email)
	if err != nil {
		return staff.Admin{}, trapNoRows(err, staff.ErrAdminNotFound, "getting admin")
	}
	return adm, nil
}
