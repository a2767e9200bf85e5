package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/link"
	"github.com/attendancr/attendancr/core/roster"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		StaffSvc      *staff.Service
		StudentSvc    *student.Service
		AttendanceSvc *attendance.Service
		RosterSvc     *roster.Service
		LinkSvc       *link.Service
		Notifier      core.NotificationService
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps         ServerDeps
		app          *echo.Echo
		errChan      chan error
		shutdownChan chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:         deps,
		app:          echo.New(),
		errChan:      make(chan error, 1),
		shutdownChan: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownChan, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.GET("/health", s.health)
	s.app.HEAD("/health", s.health)

	v1 := s.app.Group("/v1")
	admin := adminMiddleware(conf)

	registerKioskAPI(v1, s.deps)
	registerAdminAPI(v1, admin, s.deps)
	registerTelegramAPI(v1, s.deps)
}

func (s *server) Start() {
	s.errChan <- s.app.Start(s.deps.Conf.Server.Addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errChan
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownChan
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Attendancr API!")
}

func (s *server) health(ctx echo.Context) error {
	if ctx.Request().Method == http.MethodHead {
		return ctx.NoContent(http.StatusOK)
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   s.deps.Conf.Build,
	})
}
