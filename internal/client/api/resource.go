package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Resource binds the client to one entity endpoint family. All four
// master-data kinds, plus customers and employees, share this surface:
// list-with-pagination-and-search, get-by-id, create, update, delete.
type Resource struct {
	c    *Client
	path string
}

// NewResource binds path (e.g. "/expos") to the given client.
func NewResource(c *Client, path string) *Resource {
	return &Resource{c: c, path: path}
}

// Path returns the bound path segment.
func (r *Resource) Path() string {
	return r.path
}

// List fetches one page of records.
func (r *Resource) List(ctx context.Context, page, limit int, search string) (*Envelope, error) {
	return r.ListWith(ctx, page, limit, search, nil)
}

// ListWith fetches one page with additional filter parameters (e.g. expo_id
// for customers, department/role/status for employees).
func (r *Resource) ListWith(ctx context.Context, page, limit int, search string, extra url.Values) (*Envelope, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("search", search)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return r.c.Get(ctx, r.path, q)
}

// Get fetches one record by its server-assigned identifier.
func (r *Resource) Get(ctx context.Context, id int64) (*Envelope, error) {
	return r.c.Get(ctx, fmt.Sprintf("%s/%d", r.path, id), nil)
}

// Create submits a new record; the server assigns the identifier.
func (r *Resource) Create(ctx context.Context, fields map[string]any) (*Envelope, error) {
	return r.c.Post(ctx, r.path, fields)
}

// Update replaces the named record's fields, preserving its identifier.
func (r *Resource) Update(ctx context.Context, id int64, fields map[string]any) (*Envelope, error) {
	return r.c.Put(ctx, fmt.Sprintf("%s/%d", r.path, id), fields)
}

// Delete removes the named record.
func (r *Resource) Delete(ctx context.Context, id int64) (*Envelope, error) {
	return r.c.Delete(ctx, fmt.Sprintf("%s/%d", r.path, id))
}

// Toggle issues a PATCH against the named record. The employees endpoint
// uses this to flip active/inactive status.
func (r *Resource) Toggle(ctx context.Context, id int64) (*Envelope, error) {
	return r.c.Do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", r.path, id), nil)
}
