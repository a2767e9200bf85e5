package main

import "github.com/attendancr/attendancr/storage/database"

func (cli *commandLine) migrate() error {
	return database.Migrate(cli.db.DB)
}
