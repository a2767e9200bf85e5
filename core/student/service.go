package student

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrParentNotFound = errors.New("parent not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
		// DeactivateStudent soft-deletes: is_active=false, other fields untouched.
		DeactivateStudent(ctx context.Context, id string, at time.Time) error
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// QueryStudentRefs returns (id, student_id) for every student,
		// active or not. This is the reconciliation diff baseline.
		QueryStudentRefs(ctx context.Context) ([]Ref, error)
		// FilterStudents does a case-insensitive match on name or student_id.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		QueryActiveStudentsByParent(ctx context.Context, parentID string) ([]Student, error)

		// UpsertParentByPhone creates or updates a parent keyed on phone.
		// Two differently-named guardians sharing a phone collapse to one
		// record, last write wins on name.
		UpsertParentByPhone(ctx context.Context, name, phone string) (Parent, error)
		GetParentByPhone(ctx context.Context, phone string) (Parent, error)
		GetParentByID(ctx context.Context, id string) (Parent, error)
		GetParentsByID(ctx context.Context, ids []string) ([]Parent, error)
		QueryAllParents(ctx context.Context) ([]Parent, error)
		SetParentChatID(ctx context.Context, parentID, chatID string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search finds active students for the kiosk search widget.
func (svc *Service) Search(ctx context.Context, search string) ([]Student, error) {
	filter := QueryFilter{Search: search, ActiveOnly: true}
	filter.Clean()
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) QueryParents(ctx context.Context) ([]Parent, error) {
	return svc.repo.QueryAllParents(ctx)
}

func (svc *Service) GetParent(ctx context.Context, id string) (Parent, error) {
	return svc.repo.GetParentByID(ctx, id)
}
