package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/attendancr/attendancr/core/staff"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sqlx.DB
	staffSvc *staff.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate                  - apply pending database migrations")
	fmt.Println("  addstaff -name NAME      - create a staff member; the PIN will be prompted")
	fmt.Println("  createadmin -email EMAIL - create an admin account; the password will be prompted")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStaffCmd := flag.NewFlagSet("addstaff", flag.ExitOnError)
	addStaffName := addStaffCmd.String("name", "", "The staff member's display name. The 6-digit PIN will be prompted next.")

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ExitOnError)
	createAdminEmail := createAdminCmd.String("email", "", "The admin's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "addstaff":
		if err := addStaffCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStaffName == "" {
			addStaffCmd.Usage()
			return errHelp
		}
		pin, err := prompt("Enter PIN:")
		if err != nil {
			return err
		}
		return cli.addStaff(*addStaffName, pin)
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAdminEmail == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		pwd, err := prompt("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		return cli.createAdmin(*createAdminEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	val, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(val), nil
}
