package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/session"
)

type fakeSession struct {
	state session.State
	user  *models.User
}

func (f *fakeSession) State() session.State { return f.state }
func (f *fakeSession) IsAuthenticated() bool {
	return f.state == session.StateAuthenticated && f.user != nil
}
func (f *fakeSession) User() *models.User { return f.user }

func TestGuard_AuthenticatedRunsCommand(t *testing.T) {
	sess := &fakeSession{state: session.StateAuthenticated, user: &models.User{Name: "Priya", Role: models.RoleEmployee}}
	var out bytes.Buffer

	ran := false
	err := guardCommand(context.Background(), sess, nil, "", &out, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
}

func TestGuard_CheckingBlocksWithoutLogin(t *testing.T) {
	sess := &fakeSession{state: session.StateChecking}
	var out bytes.Buffer

	loginCalled := false
	err := guardCommand(context.Background(), sess, func(ctx context.Context) error {
		loginCalled = true
		return nil
	}, "", &out, func(ctx context.Context) error {
		t.Fatal("command should not run")
		return nil
	})
	require.NoError(t, err)
	require.False(t, loginCalled)
	require.Contains(t, out.String(), "Checking session")
}

func TestGuard_AnonymousRedirectsThroughLogin(t *testing.T) {
	sess := &fakeSession{state: session.StateAnonymous}
	var out bytes.Buffer

	ran := false
	err := guardCommand(context.Background(), sess, func(ctx context.Context) error {
		// Successful login flips the session state.
		sess.state = session.StateAuthenticated
		sess.user = &models.User{Name: "Priya", Role: models.RoleEmployee}
		return nil
	}, "", &out, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran, "command should continue after a successful login")
}

func TestGuard_FailedLoginDoesNotRunCommand(t *testing.T) {
	sess := &fakeSession{state: session.StateAnonymous}
	var out bytes.Buffer

	err := guardCommand(context.Background(), sess, func(ctx context.Context) error {
		// Login flow completed but the operator did not authenticate.
		return nil
	}, "", &out, func(ctx context.Context) error {
		t.Fatal("command should not run")
		return nil
	})
	require.NoError(t, err)
}

func TestGuard_LoginErrorPropagates(t *testing.T) {
	sess := &fakeSession{state: session.StateAnonymous}
	var out bytes.Buffer

	boom := errors.New("boom")
	err := guardCommand(context.Background(), sess, func(ctx context.Context) error {
		return boom
	}, "", &out, func(ctx context.Context) error {
		t.Fatal("command should not run")
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestGuard_RoleMismatchIsTerminal(t *testing.T) {
	sess := &fakeSession{state: session.StateAuthenticated, user: &models.User{Name: "Priya", Role: models.RoleEmployee}}
	var out bytes.Buffer

	loginCalled := false
	err := guardCommand(context.Background(), sess, func(ctx context.Context) error {
		loginCalled = true
		return nil
	}, models.RoleAdmin, &out, func(ctx context.Context) error {
		t.Fatal("command should not run")
		return nil
	})
	require.NoError(t, err)
	require.False(t, loginCalled, "a signed-in operator must not be redirected to login")
	require.Contains(t, out.String(), "Access denied")
}

func TestGuard_RoleComparisonIsExact(t *testing.T) {
	sess := &fakeSession{state: session.StateAuthenticated, user: &models.User{Name: "Priya", Role: "admin"}}
	var out bytes.Buffer

	err := guardCommand(context.Background(), sess, nil, models.RoleAdmin, &out, func(ctx context.Context) error {
		t.Fatal("command should not run")
		return nil
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Access denied")
}

func TestGuard_AdminPassesAdminGate(t *testing.T) {
	sess := &fakeSession{state: session.StateAuthenticated, user: &models.User{Name: "Asha", Role: models.RoleAdmin}}
	var out bytes.Buffer

	ran := false
	err := guardCommand(context.Background(), sess, nil, models.RoleAdmin, &out, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
}
