package staff

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendancr/attendancr/core"
)

type Staff struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	PINHash   string    `json:"-" db:"pin_hash"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (s *Staff) SetPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PINHash = string(hash)
	return nil
}

func (s *Staff) CheckPIN(pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PINHash), []byte(pin))
}

type Admin struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(pwd))
}

// NewStaff contains information needed to create a new Staff member.
type NewStaff struct {
	Name string `json:"name" validate:"required"`
	PIN  string `json:"pin" validate:"required,pin"`
}

func (ns *NewStaff) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.PIN = core.CleanString(ns.PIN)
	return validate.Struct(ns)
}
