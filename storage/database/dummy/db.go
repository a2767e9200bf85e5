// Package dummydb is an in-memory store used by tests and local dev runs.
package dummydb

import (
	"sync"

	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/link"
	"github.com/attendancr/attendancr/core/roster"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
)

type (
	DB struct {
		student    *studentTable
		staff      *staffTable
		attendance *attendanceTable
		roster     *rosterTable
		link       *linkTable
	}

	studentTable struct {
		sync.RWMutex
		students map[string]*student.Student
		parents  map[string]*student.Parent
	}

	staffTable struct {
		sync.RWMutex
		staff  map[string]*staff.Staff
		admins map[string]*staff.Admin
	}

	attendanceTable struct {
		sync.RWMutex
		records  map[string]*attendance.Attendance
		failures []attendance.FailedNotification
	}

	rosterTable struct {
		sync.RWMutex
		logs map[string]*roster.SyncLog
	}

	linkTable struct {
		sync.RWMutex
		codes map[string]*link.Code
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{
			students: make(map[string]*student.Student),
			parents:  make(map[string]*student.Parent),
		},
		staff: &staffTable{
			staff:  make(map[string]*staff.Staff),
			admins: make(map[string]*staff.Admin),
		},
		attendance: &attendanceTable{records: make(map[string]*attendance.Attendance)},
		roster:     &rosterTable{logs: make(map[string]*roster.SyncLog)},
		link:       &linkTable{codes: make(map[string]*link.Code)},
	}
	return db, nil
}
