package main

import (
	"github.com/trezcool/maoni/core/user"
)

// addAdmin creates an admin account going through the same validation
// pipeline as the signup endpoint.
func (cli *commandLine) addAdmin(email, first, last, pwd string) error {
	nu := user.NewUser{
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := nu.Validate(cli.validate, cli.usrSvc); err != nil {
		return err
	}
	if _, err := cli.usrSvc.CreateAdmin(nu); err != nil {
		return err
	}
	return nil
}
