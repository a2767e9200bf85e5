package main

import (
	"fmt"
	"log"
	"os"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/staff"
	logsvc "github.com/attendancr/attendancr/services/logger"
	"github.com/attendancr/attendancr/storage/database"
	sqlxrepos "github.com/attendancr/attendancr/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = db.Close() }()

	// start CLI
	cli := commandLine{
		db:       db,
		staffSvc: staff.NewService(sqlxrepos.NewStaffRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("command failed: %v", err), err)
		}
		os.Exit(1)
	}
}
