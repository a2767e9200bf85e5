package roster

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Sync run statuses. A row stuck in StatusInProgress means the run crashed
// mid-way; the admin sync-log listing surfaces it for a manual re-run.
const (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// Required roster columns, matched by exact header text.
const (
	ColStudentID          = "Student ID"
	ColStudentName        = "Student Name"
	ColSchool             = "School"
	ColDateOfBirth        = "Date of Birth"
	ColEmergencyContact   = "Emergency Contact"
	ColNotes              = "Notes"
	ColPrimaryParentName  = "Primary Parent Name"
	ColPrimaryParentPhone = "Primary Parent Phone"
	ColSecondParentName   = "Secondary Parent Name"
	ColSecondParentPhone  = "Secondary Parent Phone"
)

var requiredColumns = []string{ColStudentID, ColStudentName, ColPrimaryParentName, ColPrimaryParentPhone}

// Row is one strictly-validated roster source record. Optional columns
// degrade to null; required fields are guaranteed non-empty after parsing.
type Row struct {
	StudentID          string
	StudentName        string
	School             null.String
	DateOfBirth        null.String
	EmergencyContact   null.String
	Notes              null.String
	PrimaryParentName  string
	PrimaryParentPhone string
	SecondParentName   null.String
	SecondParentPhone  null.String
}

type SyncLog struct {
	ID           string      `json:"id" db:"id"`
	StartedAt    time.Time   `json:"sync_started_at" db:"sync_started_at"`
	CompletedAt  null.Time   `json:"sync_completed_at" db:"sync_completed_at"`
	Status       string      `json:"status" db:"status"`
	ErrorMessage null.String `json:"error_message" db:"error_message"`
	Added        int         `json:"students_added" db:"students_added"`
	Updated      int         `json:"students_updated" db:"students_updated"`
	Deleted      int         `json:"students_deleted" db:"students_deleted"`
}

// Outcome is the result of one reconciliation run, also the admin-facing
// HTTP response shape.
type Outcome struct {
	Success bool     `json:"success"`
	Added   int      `json:"students_added"`
	Updated int      `json:"students_updated"`
	Deleted int      `json:"students_deleted"`
	Errors  []string `json:"errors,omitempty"`
}
