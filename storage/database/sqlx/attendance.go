package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) GetOpenAttendance(ctx context.Context, studentID string) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := repo.db.GetContext(ctx, &att, `
		SELECT id, student_id, check_in_time, check_out_time, checked_in_by, created_at
		FROM attendance
		WHERE student_id = $1 AND check_out_time IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1`, studentID)
	if err != nil {
		return attendance.Attendance{}, trapNoRows(err, attendance.ErrNoOpenSession, "getting open attendance")
	}
	return att, nil
}

func (repo attendanceRepository) CloseAttendance(ctx context.Context, id string, at time.Time) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE attendance SET check_out_time = $2 WHERE id = $1`, id, at)
	return errors.Wrap(err, "closing attendance")
}

func (repo attendanceRepository) CreateAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	att.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO attendance (id, student_id, check_in_time, check_out_time, checked_in_by, created_at)
		VALUES (:id, :student_id, :check_in_time, :check_out_time, :checked_in_by, :created_at)`, att)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo attendanceRepository) QueryAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Attendance, error) {
	query := `SELECT id, student_id, check_in_time, check_out_time, checked_in_by, created_at
		FROM attendance WHERE true`
	args := make([]interface{}, 0, 2)
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND check_in_time >= $1`
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		if len(args) == 1 {
			query += ` AND check_in_time <= $1`
		} else {
			query += ` AND check_in_time <= $2`
		}
	}
	query += ` ORDER BY check_in_time DESC`

	records := make([]attendance.Attendance, 0)
	err := repo.db.SelectContext(ctx, &records, query, args...)
	return records, errors.Wrap(err, "querying attendance")
}

func (repo attendanceRepository) CreateFailedNotification(ctx context.Context, fn attendance.FailedNotification) error {
	fn.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO failed_notifications (id, student_id, parent_id, error_message, attempted_at)
		VALUES (:id, :student_id, :parent_id, :error_message, :attempted_at)`, fn)
	return errors.Wrap(err, "inserting failed notification")
}

func (repo attendanceRepository) QueryFailedNotifications(ctx context.Context) ([]attendance.FailedNotification, error) {
	failures := make([]attendance.FailedNotification, 0)
	err := repo.db.SelectContext(ctx, &failures, `
		SELECT id, student_id, parent_id, error_message, attempted_at
		FROM failed_notifications
		ORDER BY attempted_at DESC`)
	return failures, errors.Wrap(err, "querying failed notifications")
}
