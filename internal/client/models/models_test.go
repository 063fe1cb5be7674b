package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want int64
	}{
		{"float64", Record{"id": float64(42)}, 42},
		{"string", Record{"id": "17"}, 17},
		{"json number", Record{"id": json.Number("5")}, 5},
		{"missing", Record{"name": "x"}, 0},
		{"garbage", Record{"id": []any{}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.ID())
		})
	}
}

func TestRecordStrings(t *testing.T) {
	rec := Record{"dates": []any{"2025-03-01", "2025-03-02"}}
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, rec.Strings("dates"))
	assert.Nil(t, rec.Strings("missing"))
}

func TestRecordRecords(t *testing.T) {
	rec := Record{"attachments": []any{
		map[string]any{"file_name": "card.jpg", "file_path": "uploads/card.jpg"},
		"not an object",
	}}
	got := rec.Records("attachments")
	require.Len(t, got, 1)
	assert.Equal(t, "card.jpg", got[0].String("file_name"))
	assert.Nil(t, rec.Records("missing"))
}

func TestRecordCloneIsIndependent(t *testing.T) {
	rec := Record{"name": "Expo"}
	cp := rec.Clone()
	cp["name"] = "changed"
	assert.Equal(t, "Expo", rec.String("name"))
}

func TestPaginationNormalizeClamps(t *testing.T) {
	tests := []struct {
		name     string
		in       Pagination
		wantPage int
		wantTP   int
	}{
		{"within range", Pagination{CurrentPage: 2, PerPage: 5, TotalItems: 12}, 2, 3},
		{"past end", Pagination{CurrentPage: 9, PerPage: 5, TotalItems: 12}, 3, 3},
		{"below one", Pagination{CurrentPage: 0, PerPage: 5, TotalItems: 12}, 1, 3},
		{"empty list", Pagination{CurrentPage: 4, PerPage: 5, TotalItems: 0}, 1, 0},
		{"wire total_pages discarded without a page size", Pagination{CurrentPage: 3, PerPage: 0, TotalItems: 40, TotalPages: 8}, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			assert.Equal(t, tc.wantPage, got.CurrentPage)
			assert.Equal(t, tc.wantTP, got.TotalPages)
		})
	}
}

func TestDecodeListPagePaginated(t *testing.T) {
	raw := json.RawMessage(`{"data":[{"id":1,"name":"a"}],"pagination":{"current_page":1,"per_page":5,"total_items":1,"total_pages":1}}`)
	page, err := DecodeListPage(raw)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].ID())
	assert.Equal(t, 5, page.Pagination.PerPage)
}

func TestDecodeListPageBareArray(t *testing.T) {
	raw := json.RawMessage(`[{"id":1},{"id":2}]`)
	page, err := DecodeListPage(raw)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Pagination.TotalItems)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestDecodeListPageInvalid(t *testing.T) {
	_, err := DecodeListPage(json.RawMessage(`"nope"`))
	require.Error(t, err)
}
