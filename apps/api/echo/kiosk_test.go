package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
)

func createStaff(t *testing.T, app *testApp, name, pin string) staff.Staff {
	t.Helper()

	st, err := app.staffSvc.Create(context.Background(), staff.NewStaff{Name: name, PIN: pin})
	require.NoError(t, err)
	return st
}

func createStudentWithGuardian(t *testing.T, app *testApp, name, phone, chatID string) student.Student {
	t.Helper()
	ctx := context.Background()

	parent, err := app.students.UpsertParentByPhone(ctx, "Parent of "+name, phone)
	require.NoError(t, err)
	if chatID != "" {
		require.NoError(t, app.students.SetParentChatID(ctx, parent.ID, chatID))
	}
	st, err := app.students.CreateStudent(ctx, student.Student{
		StudentID:       "S-" + name,
		Name:            name,
		IsActive:        true,
		PrimaryParentID: null.StringFrom(parent.ID),
	})
	require.NoError(t, err)
	return st
}

func Test_kioskApi_login(t *testing.T) {
	app := setupApp(t, nil)
	alice := createStaff(t, app, "Alice", "111111")

	rec := app.request(t, http.MethodPost, "/v1/auth/staff", "", map[string]interface{}{"pin": "111111"})
	checkCode(t, rec, http.StatusOK)

	var resp StaffLoginResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, alice.ID, resp.Staff.ID)
	assert.Equal(t, "Alice", resp.Staff.Name)
	assert.WithinDuration(t, time.Now().Add(app.conf.StaffSessionTTL), resp.ExpiresAt, time.Minute)

	// wrong PIN
	rec = app.request(t, http.MethodPost, "/v1/auth/staff", "", map[string]interface{}{"pin": "999999"})
	checkCode(t, rec, http.StatusUnauthorized)
	var errResp map[string]string
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "invalid PIN", errResp["error"])

	// malformed PIN never reaches the store
	rec = app.request(t, http.MethodPost, "/v1/auth/staff", "", map[string]interface{}{"pin": "12345"})
	checkCode(t, rec, http.StatusBadRequest)
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "PIN must be exactly 6 digits", errResp["pin"])

	// missing PIN
	rec = app.request(t, http.MethodPost, "/v1/auth/staff", "", map[string]interface{}{})
	checkCode(t, rec, http.StatusBadRequest)
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "this field is required", errResp["pin"])
}

func Test_kioskApi_searchStudents(t *testing.T) {
	app := setupApp(t, nil)
	ctx := context.Background()

	ann := createStudentWithGuardian(t, app, "Ann Tan", "91234567", "")
	createStudentWithGuardian(t, app, "Ben Lim", "98765432", "")
	gone := createStudentWithGuardian(t, app, "Anneliese Wong", "91112222", "")
	require.NoError(t, app.students.DeactivateStudent(ctx, gone.ID, time.Now().UTC()))

	rec := app.request(t, http.MethodGet, "/v1/students?search=ann", "", nil)
	checkCode(t, rec, http.StatusOK)

	var students []student.Student
	decodeBody(t, rec, &students)
	require.Len(t, students, 1) // deactivated students are invisible to the kiosk
	assert.Equal(t, ann.ID, students[0].ID)

	rec = app.request(t, http.MethodGet, "/v1/students", "", nil)
	decodeBody(t, rec, &students)
	assert.Len(t, students, 2)
}

func Test_kioskApi_checkIn(t *testing.T) {
	app := setupApp(t, nil)
	ctx := context.Background()

	alice := createStaff(t, app, "Alice", "111111")
	ann := createStudentWithGuardian(t, app, "Ann Tan", "91234567", "100")

	rec := app.request(t, http.MethodPost, "/v1/attendance/check-in", "", attendance.CheckInInput{
		StudentID:   ann.ID,
		StaffID:     alice.ID,
		CheckInTime: time.Now().UTC(),
	})
	checkCode(t, rec, http.StatusOK)

	var resp CheckInResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AttendanceID)
	assert.True(t, resp.NotificationSent)
	assert.Empty(t, resp.NotificationErrors)

	records, err := app.attendanceRepo.QueryAttendance(ctx, attendance.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, alice.ID, records[0].CheckedInBy)
}

func Test_kioskApi_checkIn_missingFields(t *testing.T) {
	app := setupApp(t, nil)

	rec := app.request(t, http.MethodPost, "/v1/attendance/check-in", "", map[string]interface{}{"student_id": "s1"})
	checkCode(t, rec, http.StatusBadRequest)

	var errResp map[string]string
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "this field is required", errResp["staff_id"])
	assert.Equal(t, "this field is required", errResp["check_in_time"])

	records, err := app.attendanceRepo.QueryAttendance(context.Background(), attendance.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, records) // rejected before any store write
}

func Test_kioskApi_checkIn_notificationFailureStillSucceeds(t *testing.T) {
	app := setupApp(t, map[string]string{"100": "Forbidden: bot was blocked by the user"})

	alice := createStaff(t, app, "Alice", "111111")
	ann := createStudentWithGuardian(t, app, "Ann Tan", "91234567", "100")

	rec := app.request(t, http.MethodPost, "/v1/attendance/check-in", "", attendance.CheckInInput{
		StudentID:   ann.ID,
		StaffID:     alice.ID,
		CheckInTime: time.Now().UTC(),
	})
	checkCode(t, rec, http.StatusOK)

	var resp CheckInResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.False(t, resp.NotificationSent)
	assert.Equal(t, []string{"Forbidden: bot was blocked by the user"}, resp.NotificationErrors)
}
