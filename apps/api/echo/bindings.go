package echoapi

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/attendance"
)

type StaffLoginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

func (r *StaffLoginRequest) Validate(validate *validator.Validate) error {
	r.PIN = core.CleanString(r.PIN)
	return validate.Struct(r)
}

type StaffLoginResponse struct {
	Success   bool         `json:"success"`
	Staff     SessionStaff `json:"staff"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// SessionStaff is the staff identity echoed back to the kiosk client.
type SessionStaff struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *AdminLoginRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

type TokenResponse struct {
	Token string `json:"token"`
}

type StaffActiveRequest struct {
	ID       string `json:"id" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

func (r *StaffActiveRequest) Validate(validate *validator.Validate) error {
	r.ID = core.CleanString(r.ID)
	return validate.Struct(r)
}

// CheckInResponse is the kiosk check-in reply. Error is only set when the
// attendance write itself failed; notification problems ride along in
// NotificationErrors with Success still true.
type CheckInResponse struct {
	Success            bool     `json:"success"`
	AttendanceID       string   `json:"attendance_id,omitempty"`
	NotificationSent   bool     `json:"notification_sent"`
	NotificationErrors []string `json:"notification_errors,omitempty"`
	Error              string   `json:"error,omitempty"`
}

type LinkResponse struct {
	Success bool   `json:"success"`
	Link    string `json:"link"`
	Code    string `json:"code"`
}

// ParentListItem is one row of the admin parents listing.
type ParentListItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Linked bool   `json:"linked"`
}

// FailedNotificationItem is an audit row joined with the guardian's
// identity. Name and phone are empty when the parent record is gone.
type FailedNotificationItem struct {
	attendance.FailedNotification
	ParentName  string `json:"parent_name,omitempty"`
	ParentPhone string `json:"parent_phone,omitempty"`
}
