// Package crud implements the generic master-data list controller: one
// instance drives the full list/create/update/delete lifecycle of whichever
// entity kind is active, against that kind's API binding.
package crud

import (
	"context"
	"errors"
	"sync"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/schema"
	"github.com/fist-o/expoadmin/internal/logging"
)

// Phase is the list-view lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseErrored Phase = "errored"
)

// ErrSubmitInFlight is returned when a mutation is attempted while another
// one has not resolved yet. The UI disables its trigger controls, so hitting
// this is a programming error rather than a user-visible condition.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ErrUnknownKind is returned when no API binding exists for the active kind.
var ErrUnknownKind = errors.New("unknown entity kind")

// SubmitError is a well-formed server rejection of a create or update. The
// caller keeps the entered values and surfaces the first field error.
type SubmitError struct {
	Message string
	Fields  map[string]string
}

func (e *SubmitError) Error() string {
	return (&api.Envelope{Message: e.Message, Errors: e.Fields}).FirstFieldError()
}

// ResourceAPI is the per-kind endpoint surface; *api.Resource satisfies it.
type ResourceAPI interface {
	List(ctx context.Context, page, limit int, search string) (*api.Envelope, error)
	Create(ctx context.Context, fields map[string]any) (*api.Envelope, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*api.Envelope, error)
	Delete(ctx context.Context, id int64) (*api.Envelope, error)
}

// Controller manages the list state of the active entity kind. List state
// (items + pagination) is always replaced atomically; every response carries
// the request sequence number it was issued under, and responses that are no
// longer the latest are dropped (last write wins).
type Controller struct {
	bindings map[schema.EntityKind]ResourceAPI
	pageSize int
	log      logging.Logger

	mu         sync.Mutex
	kind       schema.EntityKind
	phase      Phase
	items      []models.Record
	pagination models.Pagination
	search     string
	errMsg     string
	submitting bool
	seq        uint64
}

// NewController builds a Controller over the given kind→binding table.
// No fetch happens until SwitchKind is called.
func NewController(bindings map[schema.EntityKind]ResourceAPI, pageSize int, log logging.Logger) *Controller {
	return &Controller{
		bindings: bindings,
		pageSize: pageSize,
		log:      log,
		phase:    PhaseIdle,
	}
}

// SwitchKind makes kind active and loads its first page. Pagination, the
// visible list, the search term and any error are reset first, so rows of
// the previous kind are never shown — and any fetch still in flight for the
// old kind is invalidated.
func (c *Controller) SwitchKind(ctx context.Context, kind schema.EntityKind) error {
	c.mu.Lock()
	c.kind = kind
	c.seq++
	c.items = nil
	c.pagination = models.Pagination{CurrentPage: 1, PerPage: c.pageSize}
	c.search = ""
	c.errMsg = ""
	c.phase = PhaseIdle
	c.mu.Unlock()

	return c.FetchPage(ctx, 1)
}

// Search applies a new search term, resetting to page 1.
func (c *Controller) Search(ctx context.Context, term string) error {
	c.mu.Lock()
	if term == c.search {
		c.mu.Unlock()
		return nil
	}
	c.search = term
	c.mu.Unlock()
	return c.FetchPage(ctx, 1)
}

// FetchPage loads the given page of the active kind. On success the list and
// pagination state are replaced together; on failure the visible list is
// emptied rather than left stale under an error banner.
func (c *Controller) FetchPage(ctx context.Context, page int) error {
	c.mu.Lock()
	binding, ok := c.bindings[c.kind]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownKind
	}
	c.phase = PhaseLoading
	c.seq++
	token := c.seq
	kind := c.kind
	search := c.search
	c.mu.Unlock()

	env, err := binding.List(ctx, page, c.pageSize, search)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq || kind != c.kind {
		// A later fetch or kind switch superseded this response.
		return nil
	}

	if err != nil {
		c.fail(err.Error())
		return err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Failed to fetch data"
		}
		c.fail(msg)
		return errors.New(msg)
	}

	listPage, err := models.DecodeListPage(env.Data)
	if err != nil {
		c.fail("malformed list payload")
		return err
	}

	p := listPage.Pagination
	if p.CurrentPage == 0 {
		p.CurrentPage = page
	}
	if p.PerPage == 0 {
		p.PerPage = c.pageSize
	}

	c.items = listPage.Items
	c.pagination = p.Normalize()
	c.errMsg = ""
	c.phase = PhaseLoaded
	return nil
}

// Create validates values client-side, submits them, and on success closes
// the interaction by re-fetching the current page — the new record is never
// spliced in locally, to avoid drift from server-side ordering.
func (c *Controller) Create(ctx context.Context, values map[string]any) error {
	return c.submit(ctx, values, func(ctx context.Context, b ResourceAPI, v map[string]any) (*api.Envelope, error) {
		return b.Create(ctx, v)
	})
}

// Update behaves like Create, keyed by the existing identifier.
func (c *Controller) Update(ctx context.Context, id int64, values map[string]any) error {
	return c.submit(ctx, values, func(ctx context.Context, b ResourceAPI, v map[string]any) (*api.Envelope, error) {
		return b.Update(ctx, id, v)
	})
}

func (c *Controller) submit(ctx context.Context, values map[string]any, op func(context.Context, ResourceAPI, map[string]any) (*api.Envelope, error)) error {
	c.mu.Lock()
	binding, ok := c.bindings[c.kind]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownKind
	}
	kind := c.kind
	c.mu.Unlock()

	// Client-side validation happens before the submitting gate engages:
	// a rejected form is not an in-flight mutation.
	values = schema.ApplyDefaults(kind, values)
	if err := schema.Validate(kind, values); err != nil {
		return err
	}

	if err := c.beginSubmit(); err != nil {
		return err
	}
	defer c.endSubmit()

	env, err := op(ctx, binding, values)
	if err != nil {
		return err
	}
	if !env.Success {
		return &SubmitError{Message: env.Message, Fields: env.Errors}
	}

	// The mutation itself succeeded; a failed re-fetch surfaces through the
	// list's error banner, not as a submit failure.
	_ = c.FetchPage(ctx, c.currentPage())
	return nil
}

// Delete removes the record and re-fetches. When the deleted item was the
// last one on a page beyond the first, the controller steps back one page
// instead of showing an empty page. Confirmation is the caller's job; by the
// time Delete runs the operator has already confirmed.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	binding, ok := c.bindings[c.kind]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownKind
	}
	lastOnPage := len(c.items) == 1
	page := c.pagination.CurrentPage
	c.mu.Unlock()

	if err := c.beginSubmit(); err != nil {
		return err
	}
	defer c.endSubmit()

	env, err := binding.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !env.Success {
		return &SubmitError{Message: env.Message, Fields: env.Errors}
	}

	if lastOnPage && page > 1 {
		page--
	}
	_ = c.FetchPage(ctx, page)
	return nil
}

func (c *Controller) beginSubmit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitInFlight
	}
	c.submitting = true
	return nil
}

func (c *Controller) endSubmit() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

func (c *Controller) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pagination.CurrentPage < 1 {
		return 1
	}
	return c.pagination.CurrentPage
}

// fail must be called with c.mu held.
func (c *Controller) fail(msg string) {
	c.items = nil
	c.errMsg = msg
	c.phase = PhaseErrored
}

// Kind returns the active entity kind.
func (c *Controller) Kind() schema.EntityKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// Phase returns the list lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Items returns a copy of the visible rows.
func (c *Controller) Items() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Record, len(c.items))
	copy(out, c.items)
	return out
}

// Pagination returns the current pagination state.
func (c *Controller) Pagination() models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Err returns the current error banner text, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Submitting reports whether a mutation is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Binding returns the API binding registered for the given kind. The
// bindings table is immutable after construction, so no lock is needed.
func (c *Controller) Binding(kind schema.EntityKind) (ResourceAPI, bool) {
	b, ok := c.bindings[kind]
	return b, ok
}
