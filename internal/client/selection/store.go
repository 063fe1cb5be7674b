// Package selection owns the cross-screen "current expo" context: which
// event the operator is entering data for. The selection lives server-side;
// this store mirrors it with a local cached fallback for when the server
// cannot be reached at startup.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/repositories/localstate"
	"github.com/fist-o/expoadmin/internal/logging"
)

// expoListLimit matches the original screen: the expo directory is small and
// is fetched in one page.
const expoListLimit = 100

// SettingsAPI is the slice of the gateway client the store needs.
type SettingsAPI interface {
	CurrentExpo(ctx context.Context) (*api.Envelope, error)
	SetCurrentExpo(ctx context.Context, expoID int64) (*api.Envelope, error)
}

// ExpoLister fetches pages of the expo directory; *api.Resource satisfies it.
type ExpoLister interface {
	List(ctx context.Context, page, limit int, search string) (*api.Envelope, error)
}

// Store holds the active expo selection and the last-fetched expo directory.
type Store struct {
	settings SettingsAPI
	expos    ExpoLister
	cache    localstate.Repository
	log      logging.Logger

	mu      sync.Mutex
	current models.Record
	all     []models.Record
}

// NewStore builds an empty Store.
func NewStore(settings SettingsAPI, expos ExpoLister, cache localstate.Repository, log logging.Logger) *Store {
	return &Store{settings: settings, expos: expos, cache: cache, log: log}
}

// Initialize fetches the expo directory and then the server's current
// selection, in that order. A transport failure on the current-selection
// fetch falls back to the locally cached copy before leaving the selection
// empty. List failures are logged, not fatal.
func (s *Store) Initialize(ctx context.Context) {
	s.fetchAll(ctx)
	s.fetchCurrent(ctx)
}

// Refresh re-runs both fetches; call it after any mutation that could have
// invalidated the cached directory (e.g. an expo deleted on the master
// screen).
func (s *Store) Refresh(ctx context.Context) {
	s.Initialize(ctx)
}

// Select asks the server to change the global selection and applies it
// locally only after the server confirms. On rejection the prior selection
// stays in place and the server's message is returned.
func (s *Store) Select(ctx context.Context, expo models.Record) error {
	env, err := s.settings.SetCurrentExpo(ctx, expo.ID())
	if err != nil {
		return err
	}
	if !env.Success {
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return errors.New("Failed to update expo")
	}

	updated := expo
	if len(env.Data) > 0 {
		var rec models.Record
		if err := json.Unmarshal(env.Data, &rec); err == nil && rec != nil {
			updated = rec
		}
	}

	s.mu.Lock()
	s.current = updated
	s.mu.Unlock()
	s.writeCache(ctx, updated)
	return nil
}

// Current returns a copy of the selected expo record, or nil when no
// selection is active.
func (s *Store) Current() models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Expos returns the last-fetched expo directory.
func (s *Store) Expos() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Record, len(s.all))
	copy(out, s.all)
	return out
}

// IsStale reports whether the active selection's identifier is missing from
// the last-fetched directory — the expo was deleted by another operator. The
// selection is deliberately kept in place; callers may surface a hint.
func (s *Store) IsStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || len(s.all) == 0 {
		return false
	}
	id := s.current.ID()
	for _, e := range s.all {
		if e.ID() == id {
			return false
		}
	}
	return true
}

func (s *Store) fetchAll(ctx context.Context) {
	env, err := s.expos.List(ctx, 1, expoListLimit, "")
	if err != nil {
		s.log.Warn(ctx, "fetching expo directory failed", "err", err)
		return
	}
	if !env.Success {
		s.log.Warn(ctx, "expo directory rejected", "message", env.Message)
		return
	}
	page, err := models.DecodeListPage(env.Data)
	if err != nil {
		s.log.Warn(ctx, "malformed expo directory payload", "err", err)
		return
	}
	s.mu.Lock()
	s.all = page.Items
	s.mu.Unlock()
}

func (s *Store) fetchCurrent(ctx context.Context) {
	env, err := s.settings.CurrentExpo(ctx)
	if err != nil {
		s.log.Warn(ctx, "fetching current expo failed, trying cache", "err", err)
		s.loadCache(ctx)
		return
	}
	if !env.Success || len(env.Data) == 0 {
		// An explicit "no current expo" leaves the selection empty.
		return
	}

	var rec models.Record
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		s.log.Warn(ctx, "malformed current expo payload", "err", err)
		return
	}

	s.mu.Lock()
	s.current = rec
	s.mu.Unlock()
	s.writeCache(ctx, rec)
}

func (s *Store) loadCache(ctx context.Context) {
	stored, err := s.cache.Get(ctx, localstate.KeyCurrentExpo)
	if err != nil || stored == "" {
		return
	}
	var rec models.Record
	if err := json.Unmarshal([]byte(stored), &rec); err != nil {
		s.log.Warn(ctx, "corrupt cached current expo", "err", err)
		return
	}
	s.mu.Lock()
	s.current = rec
	s.mu.Unlock()
}

func (s *Store) writeCache(ctx context.Context, rec models.Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, localstate.KeyCurrentExpo, string(b)); err != nil {
		s.log.Warn(ctx, "caching current expo failed", "err", err)
	}
}
