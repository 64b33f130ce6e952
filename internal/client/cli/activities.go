package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mergington/signup/internal/client/controller"
	"github.com/mergington/signup/internal/client/render"
)

var (
	errNoActivity = errors.New("no activity selected")
	errNoEmail    = errors.New("student email is required")
	errBadRef     = errors.New("no such removal control")
)

// Signup is the signup form: pick an activity, enter the student's email,
// submit.
func (a *App) Signup(ctx context.Context) error {
	v := a.ctrl.View()
	if !v.SignupSubmitEnabled {
		// Submitting without a session is refused by the controller
		// before any request is made.
		a.ctrl.HandleSignup(ctx, "", "")
		a.showStatus()
		return nil
	}

	if err := render.Options(a.out, v); err != nil {
		return err
	}
	choice, err := getSimpleText(a.reader, "Select an activity (number or name)", a.out)
	if err != nil {
		return err
	}
	activity, ok := selectActivity(v.ActivityOptions, choice)
	if !ok {
		fmt.Fprintln(a.out, "Please select an activity.")
		return errNoActivity
	}

	email, err := getSimpleText(a.reader, "Enter student email", a.out)
	if err != nil {
		return err
	}
	if email == "" {
		fmt.Fprintln(a.out, "Student email is required.")
		return errNoEmail
	}

	a.ctrl.HandleSignup(ctx, activity, email)
	a.showStatus()
	return nil
}

// Unregister acts on the removal control named by ref ("2.1"), or asks for
// the activity and email when ref is empty.
func (a *App) Unregister(ctx context.Context, ref string) error {
	var activity, email string

	if ref != "" {
		rc, ok := findRemoveControl(a.ctrl.View().Activities, ref)
		if !ok {
			fmt.Fprintf(a.out, "No removal control %s. Run 'list' to see them.\n", ref)
			return errBadRef
		}
		activity, email = rc.Activity, rc.Email
	} else {
		var err error
		if activity, err = getSimpleText(a.reader, "Enter activity name", a.out); err != nil {
			return err
		}
		if activity == "" {
			fmt.Fprintln(a.out, "Please select an activity.")
			return errNoActivity
		}
		if email, err = getSimpleText(a.reader, "Enter student email", a.out); err != nil {
			return err
		}
		if email == "" {
			fmt.Fprintln(a.out, "Student email is required.")
			return errNoEmail
		}
	}

	a.ctrl.HandleUnregister(ctx, activity, email)
	a.showStatus()
	return nil
}

// selectActivity resolves a 1-based option number or an exact activity
// name against the selector. The placeholder is never selectable.
func selectActivity(opts []controller.SelectOption, choice string) (string, bool) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return "", false
	}

	names := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Value != "" {
			names = append(names, o.Value)
		}
	}

	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(names) {
			return "", false
		}
		return names[n-1], true
	}
	for _, name := range names {
		if name == choice {
			return name, true
		}
	}
	return "", false
}

// findRemoveControl looks up the control rendered as [x card.row].
func findRemoveControl(cards []controller.ActivityCard, ref string) (controller.RemoveControl, bool) {
	c, r, ok := strings.Cut(ref, ".")
	if !ok {
		return controller.RemoveControl{}, false
	}
	card, err1 := strconv.Atoi(c)
	row, err2 := strconv.Atoi(r)
	if err1 != nil || err2 != nil || card < 1 || card > len(cards) {
		return controller.RemoveControl{}, false
	}
	rows := cards[card-1].Participants
	if row < 1 || row > len(rows) || rows[row-1].Remove == nil {
		return controller.RemoveControl{}, false
	}
	return *rows[row-1].Remove, true
}
