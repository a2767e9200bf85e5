package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/attendancr/attendancr/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) CreateStaff(ctx context.Context, st staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.ID = uuid.New().String()
	repo.db.staff[st.ID] = &st
	return st, nil
}

func (repo *staffRepository) query() []staff.Staff {
	members := make([]staff.Staff, 0, len(repo.db.staff))
	for _, st := range repo.db.staff {
		members = append(members, *st)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

func (repo *staffRepository) QueryAllStaff(ctx context.Context) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *staffRepository) QueryActiveStaff(ctx context.Context) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var active []staff.Staff
	for _, st := range repo.query() {
		if st.IsActive {
			active = append(active, st)
		}
	}
	return active, nil
}

func (repo *staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.staff[id]; ok {
		return *st, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) SetStaffActive(ctx context.Context, id string, isActive bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	st, ok := repo.db.staff[id]
	if !ok {
		return staff.ErrNotFound
	}
	st.IsActive = isActive
	return nil
}

func (repo *staffRepository) CreateAdmin(ctx context.Context, adm staff.Admin) (staff.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	adm.ID = uuid.New().String()
	repo.db.admins[adm.ID] = &adm
	return adm, nil
}

func (repo *staffRepository) GetAdminByEmail(ctx context.Context, email string) (staff.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, adm := range repo.db.admins {
		if adm.Email == email {
			return *adm, nil
		}
	}
	return staff.Admin{}, staff.ErrAdminNotFound
}
