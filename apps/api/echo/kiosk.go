package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
)

type kioskApi struct {
	staffSvc      *staff.Service
	studentSvc    *student.Service
	attendanceSvc *attendance.Service
	conf          *core.Config
	logger        core.Logger
	validate      *validator.Validate
}

func registerKioskAPI(g *echo.Group, deps ServerDeps) {
	api := kioskApi{
		staffSvc:      deps.StaffSvc,
		studentSvc:    deps.StudentSvc,
		attendanceSvc: deps.AttendanceSvc,
		conf:          deps.Conf,
		logger:        deps.Logger,
		validate:      deps.Validate,
	}

	g.POST("/auth/staff", api.login)
	g.GET("/students", api.searchStudents)
	g.POST("/attendance/check-in", api.checkIn)
}

// Handlers

func (api *kioskApi) login(ctx echo.Context) error {
	var data StaffLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffLoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.staffSvc.Authenticate(ctx.Request().Context(), data.PIN)
	if err != nil {
		if errors.Is(err, staff.ErrAuthenticationFailed) {
			return errInvalidPIN
		}
		return err
	}

	session := core.NewSession(st.ID, st.Name, api.conf.StaffSessionTTL)
	return ctx.JSON(http.StatusOK, StaffLoginResponse{
		Success:   true,
		Staff:     SessionStaff{ID: st.ID, Name: st.Name},
		ExpiresAt: session.ExpiresAt,
	})
}

func (api *kioskApi) searchStudents(ctx echo.Context) error {
	students, err := api.studentSvc.Search(ctx.Request().Context(), ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "searching students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *kioskApi) checkIn(ctx echo.Context) error {
	var data attendance.CheckInInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckInInput")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	outcome, err := api.attendanceSvc.CheckIn(ctx.Request().Context(), data)
	if err != nil {
		api.logger.Error(fmt.Sprintf("check-in for student %s: %v", data.StudentID, err), err)
		return ctx.JSON(http.StatusInternalServerError, CheckInResponse{
			Success: false,
			Error:   "failed to record attendance",
		})
	}

	return ctx.JSON(http.StatusOK, CheckInResponse{
		Success:            true,
		AttendanceID:       outcome.AttendanceID,
		NotificationSent:   outcome.NotificationSent,
		NotificationErrors: outcome.NotificationErrors,
	})
}
