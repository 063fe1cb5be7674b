package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/session"
)

// sessionState is the slice of the session store the guard reads.
type sessionState interface {
	State() session.State
	IsAuthenticated() bool
	User() *models.User
}

// guardCommand runs cmd only with a live session of the required role.
//
// An anonymous operator is sent through the login flow and, when it
// succeeds, continues straight into cmd. While the startup revalidation is
// still in flight nothing runs. A role mismatch is terminal for the command:
// it prints an access-denied notice and never redirects into login, since
// the operator is already signed in as someone else. Role comparison is
// exact string equality.
func guardCommand(ctx context.Context, sess sessionState, login func(ctx context.Context) error, requiredRole string, w io.Writer, cmd func(ctx context.Context) error) error {
	if sess.State() == session.StateChecking || sess.State() == session.StateUnknown {
		fmt.Fprintln(w, "Checking session, please retry in a moment.")
		return nil
	}

	if !sess.IsAuthenticated() {
		fmt.Fprintln(w, "You need to log in first.")
		if err := login(ctx); err != nil {
			return err
		}
		if !sess.IsAuthenticated() {
			return nil
		}
	}

	if requiredRole != "" {
		u := sess.User()
		if u == nil || u.Role != requiredRole {
			fmt.Fprintf(w, "Access denied: this area requires the %s role.\n", requiredRole)
			return nil
		}
	}

	return cmd(ctx)
}

// requireAuth adapts guardCommand to a REPL handler.
func (a *App) requireAuth(requiredRole string, cmd func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return guardCommand(ctx, a.session, a.loginCommand, requiredRole, a.out, cmd)
	}
}
