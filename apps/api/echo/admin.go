package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/link"
	"github.com/attendancr/attendancr/core/roster"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
)

const syncLogLimit = 20

type adminApi struct {
	staffSvc      *staff.Service
	studentSvc    *student.Service
	attendanceSvc *attendance.Service
	rosterSvc     *roster.Service
	linkSvc       *link.Service
	conf          *core.Config
	validate      *validator.Validate
}

func registerAdminAPI(g *echo.Group, admin echo.MiddlewareFunc, deps ServerDeps) {
	api := adminApi{
		staffSvc:      deps.StaffSvc,
		studentSvc:    deps.StudentSvc,
		attendanceSvc: deps.AttendanceSvc,
		rosterSvc:     deps.RosterSvc,
		linkSvc:       deps.LinkSvc,
		conf:          deps.Conf,
		validate:      deps.Validate,
	}

	ag := g.Group("/admin")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	authed := ag.Group("", admin)
	authed.POST("/staff", api.createStaff)
	authed.GET("/staff", api.queryStaff)
	authed.PATCH("/staff", api.setStaffActive)
	authed.POST("/sync", api.sync)
	authed.GET("/sync/logs", api.querySyncLogs)
	authed.GET("/attendance", api.queryAttendance)
	authed.GET("/notifications/failed", api.queryFailedNotifications)
	authed.GET("/parents", api.queryParents)
	authed.POST("/parents/:id/link", api.issueParentLink)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data AdminLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminLoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	adm, err := api.staffSvc.AuthenticateAdmin(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Is(err, staff.ErrAuthenticationFailed) {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating admin")
	}

	token, err := GenerateToken(GetAdminClaims(adm, api.conf), api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *adminApi) createStaff(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.staffSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating staff")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *adminApi) queryStaff(ctx echo.Context) error {
	members, err := api.staffSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *adminApi) setStaffActive(ctx echo.Context) error {
	var data StaffActiveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffActiveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.staffSvc.SetActive(ctx.Request().Context(), data.ID, *data.IsActive); err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating staff")
	}

	st, err := api.staffSvc.GetByID(ctx.Request().Context(), data.ID)
	if err != nil {
		return errors.Wrap(err, "getting staff")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *adminApi) sync(ctx echo.Context) error {
	outcome := api.rosterSvc.Synchronize(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, outcome)
}

func (api *adminApi) querySyncLogs(ctx echo.Context) error {
	logs, err := api.rosterSvc.QueryLogs(ctx.Request().Context(), syncLogLimit)
	if err != nil {
		return errors.Wrap(err, "querying sync logs")
	}
	return ctx.JSON(http.StatusOK, logs)
}

func (api *adminApi) queryAttendance(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Attendance{})
	}

	records, err := api.attendanceSvc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *adminApi) queryFailedNotifications(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	failures, err := api.attendanceSvc.QueryFailedNotifications(rctx)
	if err != nil {
		return errors.Wrap(err, "querying failed notifications")
	}

	// join in the guardian's identity so the operator can follow up
	items := make([]FailedNotificationItem, 0, len(failures))
	for _, fn := range failures {
		item := FailedNotificationItem{FailedNotification: fn}
		if parent, perr := api.studentSvc.GetParent(rctx, fn.ParentID); perr == nil {
			item.ParentName = parent.Name
			item.ParentPhone = parent.Phone
		}
		items = append(items, item)
	}
	return ctx.JSON(http.StatusOK, items)
}

// queryParents lists every guardian with their link status; the admin UI
// issues link codes against the ids returned here.
func (api *adminApi) queryParents(ctx echo.Context) error {
	parents, err := api.studentSvc.QueryParents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying parents")
	}

	items := make([]ParentListItem, 0, len(parents))
	for _, p := range parents {
		items = append(items, ParentListItem{
			ID:     p.ID,
			Name:   p.Name,
			Phone:  p.Phone,
			Linked: p.Linked(),
		})
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *adminApi) issueParentLink(ctx echo.Context) error {
	lnk, err := api.linkSvc.IssueLink(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, student.ErrParentNotFound) {
			return errHttpNotFound
		}
		return errors.Wrap(err, "issuing parent link")
	}
	return ctx.JSON(http.StatusOK, LinkResponse{Success: true, Link: lnk.Link, Code: lnk.Code})
}
