package attendance

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Attendance struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	CheckInTime  time.Time `json:"check_in_time" db:"check_in_time"`
	CheckOutTime null.Time `json:"check_out_time" db:"check_out_time"` // null = open session
	CheckedInBy  string    `json:"checked_in_by" db:"checked_in_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

// Open reports whether the session has not been checked out yet.
func (a Attendance) Open() bool {
	return !a.CheckOutTime.Valid
}

// FailedNotification is an append-only audit row for every delivery that
// could not reach a guardian. Rows are expired after 7 days by external
// housekeeping.
type FailedNotification struct {
	ID           string      `json:"id" db:"id"`
	StudentID    string      `json:"student_id" db:"student_id"`
	ParentID     string      `json:"parent_id" db:"parent_id"`
	ErrorMessage null.String `json:"error_message" db:"error_message"`
	AttemptedAt  time.Time   `json:"attempted_at" db:"attempted_at"` // UTC
}

// CheckInInput is the kiosk check-in request. All fields are required and
// rejected before any store access when missing.
type CheckInInput struct {
	StudentID   string    `json:"student_id" validate:"required"`
	StaffID     string    `json:"staff_id" validate:"required"`
	CheckInTime time.Time `json:"check_in_time" validate:"required"`
}

// CheckInOutcome aggregates the result of one check-in. NotificationSent is
// sticky: any one guardian reached makes it true. NotificationErrors never
// affect the success of the attendance write itself.
type CheckInOutcome struct {
	AttendanceID       string   `json:"attendance_id"`
	NotificationSent   bool     `json:"notification_sent"`
	NotificationErrors []string `json:"notification_errors,omitempty"`
}

type QueryFilter struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.From.IsZero() && qf.To.IsZero()
}
