package cli

import (
	"context"
	"fmt"

	"github.com/mergington/signup/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login runs the teacher login dialog. The dialog stays open and asks
// again after a failed attempt; an empty username closes it.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already logged in as %s.\n", a.getStatus())
		return nil
	}

	a.ctrl.OpenLoginDialog()
	for a.ctrl.View().LoginDialogOpen {
		username, err := getSimpleText(a.reader, "Enter username (empty to cancel)", a.out)
		if err != nil {
			a.ctrl.CloseLoginDialog()
			return err
		}
		if username == "" {
			a.ctrl.CloseLoginDialog()
			fmt.Fprintln(a.out, "Login cancelled.")
			return nil
		}

		if err := a.attemptLogin(ctx, username); err != nil {
			a.ctrl.CloseLoginDialog()
			return err
		}
		a.showStatus()
	}
	return nil
}

func (a *App) attemptLogin(ctx context.Context, username string) error {
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		a.log.Warn(ctx, "read password", "err", err)
		fmt.Fprintln(a.out, "Login failed: could not read the password.")
		return err
	}
	defer common.WipeByteArray(password)

	a.ctrl.HandleLogin(ctx, username, string(password))
	return nil
}

// Logout ends the teacher session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.ctrl.HandleLogout(ctx)
	a.showStatus()
	return nil
}
