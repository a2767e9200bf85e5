package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/attendancr/attendancr/apps/api/echo"
	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/link"
	"github.com/attendancr/attendancr/core/roster"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
	logsvc "github.com/attendancr/attendancr/services/logger"
	sheetsvc "github.com/attendancr/attendancr/services/sheets"
	telegramsvc "github.com/attendancr/attendancr/services/telegram"
	"github.com/attendancr/attendancr/storage/database"
	sqlxrepos "github.com/attendancr/attendancr/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up repositories
	studentRepo := sqlxrepos.NewStudentRepository(db)
	staffRepo := sqlxrepos.NewStaffRepository(db)
	attendanceRepo := sqlxrepos.NewAttendanceRepository(db)
	rosterRepo := sqlxrepos.NewRosterRepository(db)
	linkRepo := sqlxrepos.NewLinkRepository(db)

	// set up services
	var notifier core.NotificationService
	if conf.Debug {
		notifier = telegramsvc.NewConsoleService()
	} else {
		if notifier, err = telegramsvc.NewService(conf, logger); err != nil {
			logger.Fatal(fmt.Sprintf("setting up telegram service: %v", err), err)
		}
	}

	staffSvc := staff.NewService(staffRepo)
	studentSvc := student.NewService(studentRepo)
	attendanceSvc := attendance.NewService(attendanceRepo, studentRepo, notifier, conf, logger)
	rosterSvc := roster.NewService(rosterRepo, studentRepo, sheetsvc.NewService(conf), logger)
	linkSvc := link.NewService(linkRepo, studentRepo, notifier, conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			StaffSvc:      staffSvc,
			StudentSvc:    studentSvc,
			AttendanceSvc: attendanceSvc,
			RosterSvc:     rosterSvc,
			LinkSvc:       linkSvc,
			Notifier:      notifier,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
