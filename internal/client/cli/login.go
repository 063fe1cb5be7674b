package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/repositories/localstate"
	"github.com/fist-o/expoadmin/internal/client/session"
)

// passwordMinLen mirrors the server's password policy.
const passwordMinLen = 6

func (a *App) loginCommand(ctx context.Context) error {
	if a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Already logged in.")
		return nil
	}

	username, err := GetSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		// Expected failures carry the user-facing message.
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	u := a.session.User()
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)

	a.selection.Initialize(ctx)
	if a.selection.Current() == nil {
		fmt.Fprintln(a.out, "No expo selected yet. Use 'expo' to pick one.")
	}
	return nil
}

func (a *App) logoutCommand(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) whoamiCommand(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		return session.ErrNotAuthenticated
	}

	fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(a.out, "Role: %s\n", u.Role)
	if u.Department != "" {
		fmt.Fprintf(a.out, "Department: %s\n", u.Department)
	}

	if stamp, err := a.state.Get(ctx, localstate.KeyLoginTime); err == nil && stamp != "" {
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			fmt.Fprintf(a.out, "Logged in %s\n", humanize.Time(t))
		}
	}
	return nil
}

func (a *App) passwdCommand(ctx context.Context) error {
	current, err := GetPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := GetPassword("New password", a.out)
	if err != nil {
		return err
	}
	if len(next) < passwordMinLen {
		fmt.Fprintln(a.out, session.ErrPasswordTooShort.Error())
		return nil
	}
	confirm, err := GetPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	if next != confirm {
		fmt.Fprintln(a.out, "Passwords do not match.")
		return nil
	}

	env, err := a.client.ChangePassword(ctx, current, next)
	if err != nil {
		if api.IsTransport(err) {
			fmt.Fprintln(a.out, "Server unreachable, please try again later.")
			return nil
		}
		return err
	}
	if !env.Success {
		fmt.Fprintln(a.out, env.FirstFieldError())
		return nil
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
