package models

import "encoding/json"

// Pagination mirrors the data.pagination block of paginated list responses.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// Normalize recomputes TotalPages from TotalItems and PerPage and clamps
// CurrentPage into [1, max(1, TotalPages)]. TotalPages is derived state and
// is never trusted from the wire as-is.
func (p Pagination) Normalize() Pagination {
	if p.PerPage > 0 {
		p.TotalPages = (p.TotalItems + p.PerPage - 1) / p.PerPage
	} else {
		// Without a page size there is nothing to derive from; a wire-supplied
		// total_pages is discarded rather than trusted.
		p.TotalPages = 0
	}
	upper := p.TotalPages
	if upper < 1 {
		upper = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.CurrentPage > upper {
		p.CurrentPage = upper
	}
	return p
}

// ListPage is the data payload of a paginated list endpoint.
type ListPage struct {
	Items      []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// DecodeListPage decodes an envelope data payload that is either the
// paginated {data, pagination} shape or, for a few non-paginated endpoints,
// a bare array of records.
func DecodeListPage(raw json.RawMessage) (ListPage, error) {
	var page ListPage
	if err := json.Unmarshal(raw, &page); err == nil && (page.Items != nil || page.Pagination.PerPage != 0) {
		return page, nil
	}

	var items []Record
	if err := json.Unmarshal(raw, &items); err != nil {
		return ListPage{}, err
	}
	page = ListPage{
		Items: items,
		Pagination: Pagination{
			CurrentPage: 1,
			PerPage:     len(items),
			TotalItems:  len(items),
			TotalPages:  1,
		},
	}
	return page, nil
}
