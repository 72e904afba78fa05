package main

func (cli *commandLine) resetPassword(email, pwd string) error {
	if _, err := cli.usrSvc.ResetPassword(email, pwd); err != nil {
		return err
	}
	return nil
}
