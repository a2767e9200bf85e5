package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/attendancr/attendancr/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) GetOpenAttendance(ctx context.Context, studentID string) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var open *attendance.Attendance
	for _, att := range repo.db.records {
		if att.StudentID != studentID || !att.Open() {
			continue
		}
		if open == nil || att.CheckInTime.After(open.CheckInTime) {
			open = att
		}
	}
	if open == nil {
		return attendance.Attendance{}, attendance.ErrNoOpenSession
	}
	return *open, nil
}

func (repo *attendanceRepository) CloseAttendance(ctx context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	att, ok := repo.db.records[id]
	if !ok {
		return attendance.ErrNoOpenSession
	}
	att.CheckOutTime.SetValid(at)
	return nil
}

func (repo *attendanceRepository) CreateAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	att.ID = uuid.New().String()
	repo.db.records[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) QueryAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Attendance, 0, len(repo.db.records))
	for _, att := range repo.db.records {
		if !filter.From.IsZero() && att.CheckInTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && att.CheckInTime.After(filter.To) {
			continue
		}
		records = append(records, *att)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CheckInTime.After(records[j].CheckInTime) })
	return records, nil
}

func (repo *attendanceRepository) CreateFailedNotification(ctx context.Context, fn attendance.FailedNotification) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	fn.ID = uuid.New().String()
	repo.db.failures = append(repo.db.failures, fn)
	return nil
}

func (repo *attendanceRepository) QueryFailedNotifications(ctx context.Context) ([]attendance.FailedNotification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	failures := make([]attendance.FailedNotification, len(repo.db.failures))
	copy(failures, repo.db.failures)
	sort.Slice(failures, func(i, j int) bool { return failures[i].AttemptedAt.After(failures[j].AttemptedAt) })
	return failures, nil
}
