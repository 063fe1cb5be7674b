package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fist-o/expoadmin/internal/client/schema"
)

func TestPromptForm_ExpoHappyPath(t *testing.T) {
	in := rdr("Spring Expo\nChennai\n2026-03-01, 2026-03-02\n2\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindExpo, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Spring Expo", values["name"])
	require.Equal(t, "Chennai", values["location"])
	require.Equal(t, []string{"2026-03-01", "2026-03-02"}, values["dates"])
	require.Equal(t, "upcoming", values["status"])
}

func TestPromptForm_CancelAborts(t *testing.T) {
	in := rdr("/cancel\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindExpo, nil, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, values)
}

func TestPromptForm_BlankKeepsCurrentValues(t *testing.T) {
	initial := map[string]any{
		"name":     "Spring Expo",
		"location": "Chennai",
		"dates":    []string{"2026-03-01"},
		"status":   "active",
	}
	// Blank every prompt: all current values survive.
	in := rdr("\n\n\n\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindExpo, initial, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Spring Expo", values["name"])
	require.Equal(t, "Chennai", values["location"])
	require.Equal(t, []string{"2026-03-01"}, values["dates"])
	require.Equal(t, "active", values["status"])
}

func TestPromptForm_SelectDefaultsToFirstOption(t *testing.T) {
	in := rdr("Spring Expo\nChennai\n2026-03-01\n\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindExpo, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "active", values["status"])
}

func TestPromptForm_InvalidDateReprompts(t *testing.T) {
	in := rdr("Spring Expo\nChennai\nnot-a-date\n2026-03-01\n1\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindExpo, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"2026-03-01"}, values["dates"])
	require.Contains(t, out.String(), "not a valid date")
}

func TestPromptForm_AutocompleteMatchesCanonicalSpelling(t *testing.T) {
	in := rdr("steel\n\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindProduct, nil, []string{"Steel", "Timber"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Steel", values["category"])
	_, hasSize := values["size"]
	require.False(t, hasSize)
}

func TestPromptForm_AutocompleteCreateNewConfirmed(t *testing.T) {
	in := rdr("Glass\ny\n\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindProduct, nil, []string{"Steel"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Glass", values["category"])
}

func TestPromptForm_AutocompleteCreateNewDeclinedReprompts(t *testing.T) {
	in := rdr("Glass\nn\ntimber\n\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindProduct, nil, []string{"Steel", "Timber"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Timber", values["category"])
}

func TestPromptForm_TextareaMultiline(t *testing.T) {
	in := rdr("Welcome\nhello\nworld\n\n")
	var out bytes.Buffer

	values, ok, err := promptForm(in, &out, schema.KindMessageTemplate, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Welcome", values["title"])
	require.Equal(t, "hello\nworld", values["message"])
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"single", "2026-03-01", []string{"2026-03-01"}, false},
		{"deduped preserving order", "2026-03-02, 2026-03-01, 2026-03-02", []string{"2026-03-02", "2026-03-01"}, false},
		{"trailing comma ignored", "2026-03-01,", []string{"2026-03-01"}, false},
		{"bad format", "01/03/2026", nil, true},
		{"not a calendar date", "2026-02-30", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDates(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilterOptions(t *testing.T) {
	opts := []string{"Steel", "Stainless Steel", "Timber"}
	require.Equal(t, []string{"Steel", "Stainless Steel"}, filterOptions(opts, "steel"))
	require.Nil(t, filterOptions(opts, "glass"))
}
