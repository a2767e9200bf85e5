package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core/student"
)

const studentColumns = `id, student_id, name, school, date_of_birth, emergency_contact, notes,
	primary_parent_id, secondary_parent_id, is_active, created_at, updated_at`

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO students (id, student_id, name, school, date_of_birth, emergency_contact, notes,
			primary_parent_id, secondary_parent_id, is_active, created_at, updated_at)
		VALUES (:id, :student_id, :name, :school, :date_of_birth, :emergency_contact, :notes,
			:primary_parent_id, :secondary_parent_id, :is_active, :created_at, :updated_at)`, st)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		UPDATE students
		SET student_id = :student_id, name = :name, school = :school, date_of_birth = :date_of_birth,
			emergency_contact = :emergency_contact, notes = :notes, primary_parent_id = :primary_parent_id,
			secondary_parent_id = :secondary_parent_id, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`, st)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return st, nil
}

func (repo studentRepository) DeactivateStudent(ctx context.Context, id string, at time.Time) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE students SET is_active = false, updated_at = $2 WHERE id = $1`, id, at)
	return errors.Wrap(err, "deactivating student")
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var st student.Student
	err := repo.db.GetContext(ctx, &st, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	if err != nil {
		return student.Student{}, trapNoRows(err, student.ErrNotFound, "getting student")
	}
	return st, nil
}

func (repo studentRepository) QueryStudentRefs(ctx context.Context) ([]student.Ref, error) {
	refs := make([]student.Ref, 0)
	err := repo.db.SelectContext(ctx, &refs, `SELECT id, student_id FROM students`)
	return refs, errors.Wrap(err, "querying student refs")
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE true`
	args := make([]interface{}, 0, 2)
	if filter.ActiveOnly {
		query += ` AND is_active`
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += ` AND (name ILIKE $1 OR student_id ILIKE $1)`
	}
	query += ` ORDER BY name`

	students := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &students, query, args...)
	return students, errors.Wrap(err, "filtering students")
}

func (repo studentRepository) QueryActiveStudentsByParent(ctx context.Context, parentID string) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &students, `
		SELECT `+studentColumns+` FROM students
		WHERE is_active AND (primary_parent_id = $1 OR secondary_parent_id = $1)
		ORDER BY name`, parentID)
	return students, errors.Wrap(err, "querying students by parent")
}

func (repo studentRepository) UpsertParentByPhone(ctx context.Context, name, phone string) (student.Parent, error) {
	var parent student.Parent
	err := repo.db.GetContext(ctx, &parent, `
		INSERT INTO parents (id, name, phone, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, phone, telegram_chat_id, created_at`,
		uuid.New().String(), name, phone, time.Now().UTC())
	if err != nil {
		return student.Parent{}, errors.Wrap(err, "upserting parent")
	}
	return parent, nil
}

func (repo studentRepository) GetParentByPhone(ctx context.Context, phone string) (student.Parent, error) {
	var parent student.Parent
	err := repo.db.GetContext(ctx, &parent,
		`SELECT id, name, phone, telegram_chat_id, created_at FROM parents WHERE phone = $1`, phone)
	if err != nil {
		return student.Parent{}, trapNoRows(err, student.ErrParentNotFound, "getting parent by phone")
	}
	return parent, nil
}

func (repo studentRepository) GetParentByID(ctx context.Context, id string) (student.Parent, error) {
	var parent student.Parent
	err := repo.db.GetContext(ctx, &parent,
		`SELECT id, name, phone, telegram_chat_id, created_at FROM parents WHERE id = $1`, id)
	if err != nil {
		return student.Parent{}, trapNoRows(err, student.ErrParentNotFound, "getting parent")
	}
	return parent, nil
}

func (repo studentRepository) GetParentsByID(ctx context.Context, ids []string) ([]student.Parent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT id, name, phone, telegram_chat_id, created_at FROM parents WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building parents query")
	}

	parents := make([]student.Parent, 0, len(ids))
	err = repo.db.SelectContext(ctx, &parents, repo.db.Rebind(query), args...)
	return parents, errors.Wrap(err, "querying parents")
}

func (repo studentRepository) QueryAllParents(ctx context.Context) ([]student.Parent, error) {
	parents := make([]student.Parent, 0)
	err := repo.db.SelectContext(ctx, &parents,
		`SELECT id, name, phone, telegram_chat_id, created_at FROM parents ORDER BY name`)
	return parents, errors.Wrap(err, "querying parents")
}

func (repo studentRepository) SetParentChatID(ctx context.Context, parentID, chatID string) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE parents SET telegram_chat_id = $2 WHERE id = $1`, parentID, chatID)
	if err != nil {
		return errors.Wrap(err, "linking parent chat")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrParentNotFound
	}
	return nil
}
