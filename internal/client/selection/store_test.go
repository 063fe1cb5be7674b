package selection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/repositories/localstate"
	"github.com/fist-o/expoadmin/internal/logging"
)

// ---- fakes ----

type fakeSettings struct {
	currentEnv *api.Envelope
	currentErr error

	setEnv    *api.Envelope
	setErr    error
	setCalls  int
	lastSetID int64
}

func (f *fakeSettings) CurrentExpo(ctx context.Context) (*api.Envelope, error) {
	return f.currentEnv, f.currentErr
}

func (f *fakeSettings) SetCurrentExpo(ctx context.Context, expoID int64) (*api.Envelope, error) {
	f.setCalls++
	f.lastSetID = expoID
	return f.setEnv, f.setErr
}

type fakeLister struct {
	env *api.Envelope
	err error
}

func (f *fakeLister) List(ctx context.Context, page, limit int, search string) (*api.Envelope, error) {
	return f.env, f.err
}

type memRepo struct {
	data map[string]string
}

func newMemRepo() *memRepo { return &memRepo{data: map[string]string{}} }

func (m *memRepo) Get(ctx context.Context, key string) (string, error) { return m.data[key], nil }
func (m *memRepo) Set(ctx context.Context, key, value string) error    { m.data[key] = value; return nil }
func (m *memRepo) Delete(ctx context.Context, key string) error        { delete(m.data, key); return nil }
func (m *memRepo) Clear(ctx context.Context) error                     { m.data = map[string]string{}; return nil }
func (m *memRepo) List(ctx context.Context) (map[string]string, error) { return m.data, nil }

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func expoListEnv(ids ...int64) *api.Envelope {
	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{"id": id, "name": "Expo"})
	}
	payload := map[string]any{
		"data": items,
		"pagination": map[string]any{
			"current_page": 1, "per_page": 100, "total_items": len(ids), "total_pages": 1,
		},
	}
	b, _ := json.Marshal(payload)
	return &api.Envelope{Success: true, Data: b}
}

// ---- initialize ----

func TestInitializeLoadsDirectoryAndCurrent(t *testing.T) {
	settings := &fakeSettings{currentEnv: &api.Envelope{
		Success: true,
		Data:    json.RawMessage(`{"id":2,"name":"Autumn Expo"}`),
	}}
	repo := newMemRepo()
	s := NewStore(settings, &fakeLister{env: expoListEnv(1, 2, 3)}, repo, testLogger())

	s.Initialize(context.Background())

	assert.Len(t, s.Expos(), 3)
	require.NotNil(t, s.Current())
	assert.Equal(t, int64(2), s.Current().ID())
	assert.Contains(t, repo.data[localstate.KeyCurrentExpo], "Autumn Expo")
	assert.False(t, s.IsStale())
}

func TestInitializeTransportErrorFallsBackToCache(t *testing.T) {
	settings := &fakeSettings{currentErr: &api.TransportError{Err: errors.New("timeout")}}
	repo := newMemRepo()
	repo.data[localstate.KeyCurrentExpo] = `{"id":5,"name":"Cached Expo"}`

	s := NewStore(settings, &fakeLister{env: expoListEnv(5)}, repo, testLogger())
	s.Initialize(context.Background())

	require.NotNil(t, s.Current())
	assert.Equal(t, int64(5), s.Current().ID())
}

func TestInitializeTransportErrorNoCacheLeavesEmpty(t *testing.T) {
	settings := &fakeSettings{currentErr: &api.TransportError{Err: errors.New("timeout")}}
	s := NewStore(settings, &fakeLister{env: expoListEnv()}, newMemRepo(), testLogger())
	s.Initialize(context.Background())
	assert.Nil(t, s.Current())
}

func TestInitializeExplicitNoCurrentLeavesEmpty(t *testing.T) {
	settings := &fakeSettings{currentEnv: &api.Envelope{Success: false, Message: "No current expo"}}
	repo := newMemRepo()
	repo.data[localstate.KeyCurrentExpo] = `{"id":5}`

	s := NewStore(settings, &fakeLister{env: expoListEnv(1)}, repo, testLogger())
	s.Initialize(context.Background())

	assert.Nil(t, s.Current(), "explicit rejection must not fall back to cache")
}

// ---- select ----

func TestSelectAppliesOnlyAfterServerConfirms(t *testing.T) {
	settings := &fakeSettings{setEnv: &api.Envelope{
		Success: true,
		Data:    json.RawMessage(`{"id":3,"name":"Confirmed Name"}`),
	}}
	repo := newMemRepo()
	s := NewStore(settings, &fakeLister{env: expoListEnv(1, 3)}, repo, testLogger())

	err := s.Select(context.Background(), models.Record{"id": float64(3), "name": "Local Name"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), settings.lastSetID)
	assert.Equal(t, "Confirmed Name", s.Current().String("name"), "server copy wins")
	assert.Contains(t, repo.data[localstate.KeyCurrentExpo], "Confirmed Name")
}

func TestSelectRejectionKeepsPriorSelection(t *testing.T) {
	settings := &fakeSettings{
		currentEnv: &api.Envelope{Success: true, Data: json.RawMessage(`{"id":1,"name":"Old"}`)},
		setEnv:     &api.Envelope{Success: false, Message: "Expo not found"},
	}
	s := NewStore(settings, &fakeLister{env: expoListEnv(1)}, newMemRepo(), testLogger())
	s.Initialize(context.Background())

	err := s.Select(context.Background(), models.Record{"id": float64(9)})
	require.EqualError(t, err, "Expo not found")
	assert.Equal(t, int64(1), s.Current().ID())
}

func TestSelectTransportErrorKeepsPriorSelection(t *testing.T) {
	settings := &fakeSettings{
		currentEnv: &api.Envelope{Success: true, Data: json.RawMessage(`{"id":1}`)},
		setErr:     &api.TransportError{Err: errors.New("refused")},
	}
	s := NewStore(settings, &fakeLister{env: expoListEnv(1)}, newMemRepo(), testLogger())
	s.Initialize(context.Background())

	err := s.Select(context.Background(), models.Record{"id": float64(2)})
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.Equal(t, int64(1), s.Current().ID())
}

// ---- staleness ----

func TestStaleSelectionPersistsAndIsReported(t *testing.T) {
	settings := &fakeSettings{currentEnv: &api.Envelope{
		Success: true,
		Data:    json.RawMessage(`{"id":2,"name":"Deleted Elsewhere"}`),
	}}
	lister := &fakeLister{env: expoListEnv(1, 2, 3)}
	s := NewStore(settings, lister, newMemRepo(), testLogger())
	s.Initialize(context.Background())
	require.False(t, s.IsStale())

	// Expo 2 disappears from a fresh directory fetch.
	lister.env = expoListEnv(1, 3)
	s.Refresh(context.Background())

	require.NotNil(t, s.Current(), "stale selection is kept, not auto-cleared")
	assert.Equal(t, int64(2), s.Current().ID())
	assert.True(t, s.IsStale())
}

func TestCurrentReturnsCopy(t *testing.T) {
	settings := &fakeSettings{currentEnv: &api.Envelope{
		Success: true,
		Data:    json.RawMessage(`{"id":1,"name":"Original"}`),
	}}
	s := NewStore(settings, &fakeLister{env: expoListEnv(1)}, newMemRepo(), testLogger())
	s.Initialize(context.Background())

	c := s.Current()
	c["name"] = "mutated"
	assert.Equal(t, "Original", s.Current().String("name"))
}
