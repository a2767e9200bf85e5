package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/attendancr/attendancr/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.ID = uuid.New().String()
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.students[st.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	st.CreatedAt = orig.CreatedAt
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) DeactivateStudent(ctx context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	st, ok := repo.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	st.IsActive = false
	st.UpdatedAt = at
	return nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudentRefs(ctx context.Context) ([]student.Ref, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	refs := make([]student.Ref, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		refs = append(refs, student.Ref{ID: st.ID, StudentID: st.StudentID})
	}
	return refs, nil
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	search := strings.ToLower(filter.Search)
	for _, st := range repo.db.students {
		if filter.ActiveOnly && !st.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.Name), search) &&
			!strings.Contains(strings.ToLower(st.StudentID), search) {
			continue
		}
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) QueryActiveStudentsByParent(ctx context.Context, parentID string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var students []student.Student
	for _, st := range repo.db.students {
		if !st.IsActive {
			continue
		}
		if st.PrimaryParentID.String == parentID || st.SecondaryParentID.String == parentID {
			students = append(students, *st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) UpsertParentByPhone(ctx context.Context, name, phone string) (student.Parent, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, p := range repo.db.parents {
		if p.Phone == phone {
			p.Name = name
			return *p, nil
		}
	}
	parent := student.Parent{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	repo.db.parents[parent.ID] = &parent
	return parent, nil
}

func (repo *studentRepository) GetParentByPhone(ctx context.Context, phone string) (student.Parent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.parents {
		if p.Phone == phone {
			return *p, nil
		}
	}
	return student.Parent{}, student.ErrParentNotFound
}

func (repo *studentRepository) GetParentByID(ctx context.Context, id string) (student.Parent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.parents[id]; ok {
		return *p, nil
	}
	return student.Parent{}, student.ErrParentNotFound
}

func (repo *studentRepository) GetParentsByID(ctx context.Context, ids []string) ([]student.Parent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	parents := make([]student.Parent, 0, len(ids))
	for _, id := range ids {
		if p, ok := repo.db.parents[id]; ok {
			parents = append(parents, *p)
		}
	}
	return parents, nil
}

func (repo *studentRepository) QueryAllParents(ctx context.Context) ([]student.Parent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	parents := make([]student.Parent, 0, len(repo.db.parents))
	for _, p := range repo.db.parents {
		parents = append(parents, *p)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i].Name < parents[j].Name })
	return parents, nil
}

func (repo *studentRepository) SetParentChatID(ctx context.Context, parentID, chatID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.parents[parentID]
	if !ok {
		return student.ErrParentNotFound
	}
	p.TelegramChatID.SetValid(chatID)
	return nil
}
