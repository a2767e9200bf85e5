package staff

import (
	"context"
	"errors"
	"time"

	"github.com/attendancr/attendancr/core"
)

var (
	// errors
	ErrNotFound             = errors.New("staff not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAuthenticationFailed = errors.New("invalid PIN")
	ErrInvalidPINFormat     = errors.New("PIN must be exactly 6 digits")
)

type (
	Repository interface {
		CreateStaff(ctx context.Context, st Staff) (Staff, error)
		QueryAllStaff(ctx context.Context) ([]Staff, error)
		QueryActiveStaff(ctx context.Context) ([]Staff, error)
		GetStaffByID(ctx context.Context, id string) (Staff, error)
		SetStaffActive(ctx context.Context, id string, isActive bool) error

		CreateAdmin(ctx context.Context, adm Admin) (Admin, error)
		GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	st := Staff{
		Name:      ns.Name,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.SetPIN(ns.PIN); err != nil {
		return Staff{}, err
	}
	return svc.repo.CreateStaff(ctx, st)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Staff, error) {
	return svc.repo.QueryAllStaff(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaffByID(ctx, id)
}

func (svc *Service) SetActive(ctx context.Context, id string, isActive bool) error {
	return svc.repo.SetStaffActive(ctx, id, isActive)
}

// Authenticate checks the PIN against every active staff member, first match
// wins. The linear probe is deliberate: hashes are salted, so there is no
// way to look a PIN up by index without weakening the scheme.
func (svc *Service) Authenticate(ctx context.Context, pin string) (Staff, error) {
	if !core.PINRegex.MatchString(pin) {
		return Staff{}, core.NewValidationError(ErrInvalidPINFormat, core.FieldError{Field: "pin", Error: ErrInvalidPINFormat.Error()})
	}

	active, err := svc.repo.QueryActiveStaff(ctx)
	if err != nil {
		return Staff{}, err
	}
	for _, st := range active {
		if st.CheckPIN(pin) == nil {
			return st, nil
		}
	}
	return Staff{}, ErrAuthenticationFailed
}

func (svc *Service) CreateAdmin(ctx context.Context, email, password string) (Admin, error) {
	adm := Admin{
		Email:     core.CleanString(email, true /* lower */),
		CreatedAt: time.Now().UTC(),
	}
	if err := adm.SetPassword(password); err != nil {
		return Admin{}, err
	}
	return svc.repo.CreateAdmin(ctx, adm)
}

// AuthenticateAdmin verifies admin console credentials.
func (svc *Service) AuthenticateAdmin(ctx context.Context, email, password string) (Admin, error) {
	adm, err := svc.repo.GetAdminByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return Admin{}, ErrAuthenticationFailed
		}
		return Admin{}, err
	}
	if err = adm.CheckPassword(password); err != nil {
		return Admin{}, ErrAuthenticationFailed
	}
	return adm, nil
}
