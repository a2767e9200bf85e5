package main

import (
	"context"
	"fmt"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/staff"
)

func (cli *commandLine) addStaff(name, pin string) error {
	if !core.PINRegex.MatchString(pin) {
		return staff.ErrInvalidPINFormat
	}

	st, err := cli.staffSvc.Create(context.Background(), staff.NewStaff{Name: name, PIN: pin})
	if err != nil {
		return err
	}
	fmt.Printf("staff %q created (id %s)\n", st.Name, st.ID)
	return nil
}
