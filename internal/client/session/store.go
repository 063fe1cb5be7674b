// Package session owns the authenticated operator identity: a small state
// machine over the auth endpoints and the durable local state.
//
// States move Unknown → Checking → Authenticated | Anonymous. The persisted
// identity is rehydrated at start and revalidated against the server; if the
// server is unreachable the cached identity is kept (availability over strict
// freshness), while an explicit rejection clears everything.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/repositories/localstate"
	"github.com/fist-o/expoadmin/internal/logging"
)

// State is the session lifecycle phase.
type State string

const (
	StateUnknown       State = "unknown"
	StateChecking      State = "checking"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Client-side login validation failures. These never reach the network.
var (
	ErrUsernameRequired = errors.New("Please enter your username or email")
	ErrPasswordRequired = errors.New("Please enter your password")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// AuthAPI is the slice of the gateway client the store needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.Envelope, error)
	Logout(ctx context.Context) (*api.Envelope, error)
	Me(ctx context.Context) (*api.Envelope, error)
}

// now is a test seam.
var now = time.Now

// Store is the session store. It exclusively owns the Session; other
// components get read-only copies.
type Store struct {
	api   AuthAPI
	state localstate.Repository
	log   logging.Logger

	mu    sync.Mutex
	st    State
	user  *models.User
	token string
}

// NewStore builds a Store in the Unknown state.
func NewStore(a AuthAPI, repo localstate.Repository, log logging.Logger) *Store {
	return &Store{api: a, state: repo, log: log, st: StateUnknown}
}

// Check rehydrates any persisted identity and revalidates it with the
// server. It is called once at process start.
//
//   - no persisted token+user pair: Anonymous.
//   - server confirms: Authenticated with the server's copy of the record,
//     persisted copy refreshed.
//   - transport error: Authenticated with the persisted record.
//   - server rejects: persisted identity cleared, Anonymous.
func (s *Store) Check(ctx context.Context) {
	s.mu.Lock()
	s.st = StateChecking
	s.mu.Unlock()

	token, terr := s.state.Get(ctx, localstate.KeyAuthToken)
	stored, uerr := s.state.Get(ctx, localstate.KeyUser)
	if terr != nil || uerr != nil || token == "" || stored == "" {
		s.become(StateAnonymous, nil, "")
		return
	}

	var cached models.User
	if err := json.Unmarshal([]byte(stored), &cached); err != nil {
		s.log.Warn(ctx, "corrupt persisted user record, discarding", "err", err)
		s.clearPersisted(ctx)
		s.become(StateAnonymous, nil, "")
		return
	}

	// The token must be visible before calling /auth/me so the request
	// carries the bearer header.
	s.become(StateChecking, &cached, token)

	env, err := s.api.Me(ctx)
	if err != nil {
		// Server unreachable: continue with the cached identity.
		s.log.Warn(ctx, "session revalidation unreachable, using cached identity", "err", err)
		s.become(StateAuthenticated, &cached, token)
		return
	}

	if !env.Success || len(env.Data) == 0 {
		s.log.Info(ctx, "stored token rejected by server", "status", env.Status)
		s.clearPersisted(ctx)
		s.become(StateAnonymous, nil, "")
		return
	}

	var fresh models.User
	if err := json.Unmarshal(env.Data, &fresh); err != nil {
		s.log.Warn(ctx, "malformed /auth/me payload, using cached identity", "err", err)
		s.become(StateAuthenticated, &cached, token)
		return
	}

	s.persistUser(ctx, &fresh)
	s.become(StateAuthenticated, &fresh, token)
}

// Login performs the credential exchange. Expected failures (bad input, bad
// credentials, unreachable server) come back as error values carrying the
// user-facing message; the store's state is unchanged on failure.
func (s *Store) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	env, err := s.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !env.Success {
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return errors.New("Login failed")
	}

	var data models.LoginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("malformed login response: %w", err)
	}
	if data.Token == "" {
		return errors.New("malformed login response: missing token")
	}

	if err := s.state.Set(ctx, localstate.KeyAuthToken, data.Token); err != nil {
		s.log.Error(ctx, "persisting token", "err", err)
	}
	if err := s.state.Set(ctx, localstate.KeyLoginTime, now().UTC().Format(time.RFC3339)); err != nil {
		s.log.Error(ctx, "persisting login time", "err", err)
	}
	s.persistUser(ctx, &data.User)
	s.become(StateAuthenticated, &data.User, data.Token)
	return nil
}

// Logout invalidates the token server-side on a best-effort basis, then
// unconditionally clears all persisted identity state.
func (s *Store) Logout(ctx context.Context) {
	if _, err := s.api.Logout(ctx); err != nil {
		s.log.Warn(ctx, "server-side logout failed", "err", err)
	}
	s.clearPersisted(ctx)
	s.become(StateAnonymous, nil, "")
}

// UpdateUser merges the given fields into the current operator record and
// re-persists it. It does not contact the server and is only valid while
// authenticated.
func (s *Store) UpdateUser(ctx context.Context, fields map[string]string) error {
	s.mu.Lock()
	if s.st != StateAuthenticated || s.user == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	u := *s.user
	s.mu.Unlock()

	if v, ok := fields["name"]; ok {
		u.Name = v
	}
	if v, ok := fields["email"]; ok {
		u.Email = v
	}
	if v, ok := fields["role"]; ok {
		u.Role = v
	}
	if v, ok := fields["department"]; ok {
		u.Department = v
	}

	s.persistUser(ctx, &u)

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// IsAuthenticated is true iff the state is Authenticated AND a user record
// AND a token are all present. The three are checked independently as a
// defense against partial in-memory corruption.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st == StateAuthenticated && s.user != nil && s.token != ""
}

// IsAdmin reports whether the operator's role is exactly Admin.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

// State returns the current lifecycle phase.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// User returns a copy of the operator record, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer credential, or "". It satisfies
// api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) become(st State, u *models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
	s.user = u
	s.token = token
}

func (s *Store) persistUser(ctx context.Context, u *models.User) {
	b, err := json.Marshal(u)
	if err != nil {
		s.log.Error(ctx, "encoding user record", "err", err)
		return
	}
	pairs := map[string]string{
		localstate.KeyUser:           string(b),
		localstate.KeyUserID:         strconv.FormatInt(u.ID, 10),
		localstate.KeyUserName:       u.Name,
		localstate.KeyUserRole:       u.Role,
		localstate.KeyUserEmail:      u.Email,
		localstate.KeyUserDepartment: u.Department,
	}
	for k, v := range pairs {
		if err := s.state.Set(ctx, k, v); err != nil {
			s.log.Error(ctx, "persisting identity field", "key", k, "err", err)
		}
	}
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.state.Clear(ctx); err != nil {
		s.log.Error(ctx, "clearing persisted state", "err", err)
	}
}
