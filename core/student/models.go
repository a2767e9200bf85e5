package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/attendancr/attendancr/core"
)

type Student struct {
	ID                string      `json:"id" db:"id"`
	StudentID         string      `json:"student_id" db:"student_id"` // roster source key
	Name              string      `json:"name" db:"name"`
	School            null.String `json:"school" db:"school"`
	DateOfBirth       null.String `json:"date_of_birth" db:"date_of_birth"`
	EmergencyContact  null.String `json:"emergency_contact" db:"emergency_contact"`
	Notes             null.String `json:"notes" db:"notes"`
	PrimaryParentID   null.String `json:"primary_parent_id" db:"primary_parent_id"`
	SecondaryParentID null.String `json:"secondary_parent_id" db:"secondary_parent_id"`
	IsActive          bool        `json:"is_active" db:"is_active"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// ParentIDs returns the guardian references set on the student, primary first.
func (s Student) ParentIDs() []string {
	ids := make([]string, 0, 2)
	if s.PrimaryParentID.Valid {
		ids = append(ids, s.PrimaryParentID.String)
	}
	if s.SecondaryParentID.Valid {
		ids = append(ids, s.SecondaryParentID.String)
	}
	return ids
}

type Parent struct {
	ID             string      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Phone          string      `json:"phone" db:"phone"` // natural matching key
	TelegramChatID null.String `json:"telegram_chat_id" db:"telegram_chat_id"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"` // UTC
}

// Linked reports whether the parent has completed the Telegram link flow.
func (p Parent) Linked() bool {
	return p.TelegramChatID.Valid && p.TelegramChatID.String != ""
}

// Ref is the id pair the reconciliation engine diffs against.
type Ref struct {
	ID        string `db:"id"`
	StudentID string `db:"student_id"`
}

type QueryFilter struct {
	Search     string `query:"search"`
	ActiveOnly bool   `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
