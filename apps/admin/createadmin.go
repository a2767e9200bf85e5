package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) createAdmin(email, pwd string) error {
	adm, err := cli.staffSvc.CreateAdmin(context.Background(), email, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("admin %q created (id %s)\n", adm.Email, adm.ID)
	return nil
}
