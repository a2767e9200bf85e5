package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/student"
)

var (
	// errors
	ErrNoOpenSession = errors.New("no open session")

	errNotLinked = "parent has not linked Telegram account"
)

type (
	Repository interface {
		// GetOpenAttendance returns the most recent attendance row for the
		// student with a null check-out time, or ErrNoOpenSession.
		GetOpenAttendance(ctx context.Context, studentID string) (Attendance, error)
		CloseAttendance(ctx context.Context, id string, at time.Time) error
		CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		QueryAttendance(ctx context.Context, filter QueryFilter) ([]Attendance, error)

		CreateFailedNotification(ctx context.Context, fn FailedNotification) error
		QueryFailedNotifications(ctx context.Context) ([]FailedNotification, error)
	}

	Service struct {
		repo     Repository
		students student.Repository
		notifier core.NotificationService
		conf     *core.Config
		logger   core.Logger
	}
)

func NewService(repo Repository, students student.Repository, notifier core.NotificationService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		students: students,
		notifier: notifier,
		conf:     conf,
		logger:   logger,
	}
}

// CheckIn records a kiosk check-in and fans notifications out to the
// student's guardians. The returned error reflects the attendance write
// only; notification failures land in the outcome and in the
// failed_notifications audit trail, never in the error.
func (svc *Service) CheckIn(ctx context.Context, in CheckInInput) (CheckInOutcome, error) {
	// auto check-out a dangling session from a previous day / double tap
	if open, err := svc.repo.GetOpenAttendance(ctx, in.StudentID); err == nil {
		if err = svc.repo.CloseAttendance(ctx, open.ID, in.CheckInTime); err != nil {
			return CheckInOutcome{}, errors.Wrap(err, "closing open session")
		}
	} else if !errors.Is(err, ErrNoOpenSession) {
		svc.logger.Warn(fmt.Sprintf("looking up open session for %s: %v", in.StudentID, err))
	}

	att, err := svc.repo.CreateAttendance(ctx, Attendance{
		StudentID:   in.StudentID,
		CheckInTime: in.CheckInTime,
		CheckedInBy: in.StaffID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return CheckInOutcome{}, errors.Wrap(err, "recording attendance")
	}

	outcome := CheckInOutcome{AttendanceID: att.ID}
	outcome.NotificationSent, outcome.NotificationErrors = svc.notifyParents(ctx, in)
	return outcome, nil
}

func (svc *Service) notifyParents(ctx context.Context, in CheckInInput) (sent bool, notifErrs []string) {
	st, err := svc.students.GetStudentByID(ctx, in.StudentID)
	if err != nil {
		return false, []string{"student not found for notification"}
	}

	parentIDs := st.ParentIDs()
	if len(parentIDs) == 0 {
		return false, []string{"no parents linked to student"}
	}

	parents, err := svc.students.GetParentsByID(ctx, parentIDs)
	if err != nil || len(parents) == 0 {
		return false, []string{"no parent records found"}
	}

	message := core.FormatCheckInMessage(st.Name, svc.conf.CentreName, in.CheckInTime)

	for _, parent := range parents {
		if !parent.Linked() {
			// not counted as an attempt; audit trail only
			svc.logFailure(ctx, in.StudentID, parent.ID, errNotLinked)
			continue
		}

		if err = svc.notifier.Send(ctx, parent.TelegramChatID.String, message); err != nil {
			notifErrs = append(notifErrs, err.Error())
			svc.logFailure(ctx, in.StudentID, parent.ID, err.Error())
			continue
		}
		sent = true
	}
	return sent, notifErrs
}

func (svc *Service) logFailure(ctx context.Context, studentID, parentID, msg string) {
	fn := FailedNotification{
		StudentID:    studentID,
		ParentID:     parentID,
		ErrorMessage: null.StringFrom(msg),
		AttemptedAt:  time.Now().UTC(),
	}
	if err := svc.repo.CreateFailedNotification(ctx, fn); err != nil {
		svc.logger.Error(fmt.Sprintf("recording failed notification: %v", err), err)
	}
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Attendance, error) {
	return svc.repo.QueryAttendance(ctx, filter)
}

func (svc *Service) QueryFailedNotifications(ctx context.Context) ([]FailedNotification, error) {
	return svc.repo.QueryFailedNotifications(ctx)
}
