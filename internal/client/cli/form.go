package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fist-o/expoadmin/internal/client/schema"
)

// cancelToken aborts a form from any single-line prompt.
const cancelToken = "/cancel"

// promptForm walks the kind's field schema and collects a flat value map,
// rendering each field according to its render kind. initial carries current
// values when editing (blank input keeps them). categoryOptions feeds
// autocomplete fields.
//
// The second return value is false when the operator cancelled.
func promptForm(reader *bufio.Reader, w io.Writer, kind schema.EntityKind, initial map[string]any, categoryOptions []string) (map[string]any, bool, error) {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}

	for _, f := range schema.Fields(kind) {
		var (
			err       error
			cancelled bool
		)
		switch f.Kind {
		case schema.FieldText:
			cancelled, err = promptText(reader, w, f, values)
		case schema.FieldTextarea:
			err = promptTextarea(reader, w, f, values)
		case schema.FieldSelect:
			cancelled, err = promptSelect(reader, w, f, values)
		case schema.FieldMultiDate:
			cancelled, err = promptMultiDate(reader, w, f, values)
		case schema.FieldAutocomplete:
			cancelled, err = promptAutocomplete(reader, w, f, values, categoryOptions)
		}
		if err != nil {
			return nil, false, err
		}
		if cancelled {
			return nil, false, nil
		}
	}
	return values, true, nil
}

func currentString(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}

func promptText(reader *bufio.Reader, w io.Writer, f schema.Field, values map[string]any) (bool, error) {
	prompt := f.Label
	if cur := currentString(values, f.Key); cur != "" {
		prompt = fmt.Sprintf("%s [%s]", f.Label, cur)
	} else if f.Placeholder != "" {
		prompt = fmt.Sprintf("%s (%s)", f.Label, f.Placeholder)
	}

	input, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return false, err
	}
	if input == cancelToken {
		return true, nil
	}
	if input == "" {
		// Blank keeps the current value when editing.
		return false, nil
	}
	values[f.Key] = input
	return false, nil
}

func promptTextarea(reader *bufio.Reader, w io.Writer, f schema.Field, values map[string]any) error {
	prompt := f.Label
	if cur := currentString(values, f.Key); cur != "" {
		fmt.Fprintf(w, "Current %s:\n%s\n", strings.ToLower(f.Label), cur)
		prompt = f.Label + " (leave empty to keep current)"
	} else if f.Placeholder != "" {
		prompt = fmt.Sprintf("%s (%s)", f.Label, f.Placeholder)
	}

	input, err := GetMultiline(reader, prompt, w)
	if err != nil {
		return err
	}
	if input == "" {
		return nil
	}
	values[f.Key] = input
	return nil
}

func promptSelect(reader *bufio.Reader, w io.Writer, f schema.Field, values map[string]any) (bool, error) {
	def := currentString(values, f.Key)
	if def == "" && len(f.Options) > 0 {
		def = f.Options[0]
	}

	fmt.Fprintf(w, "%s:\n", f.Label)
	for i, opt := range f.Options {
		marker := " "
		if opt == def {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %d) %s\n", marker, i+1, opt)
	}

	for {
		input, err := GetSimpleText(reader, fmt.Sprintf("Choose 1-%d (Enter keeps %s)", len(f.Options), def), w)
		if err != nil {
			return false, err
		}
		if input == cancelToken {
			return true, nil
		}
		if input == "" {
			values[f.Key] = def
			return false, nil
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(f.Options) {
			fmt.Fprintln(w, "Please enter a number from the list.")
			continue
		}
		values[f.Key] = f.Options[n-1]
		return false, nil
	}
}

func promptMultiDate(reader *bufio.Reader, w io.Writer, f schema.Field, values map[string]any) (bool, error) {
	current := dateValues(values[f.Key])
	prompt := fmt.Sprintf("%s (comma-separated, YYYY-MM-DD)", f.Label)
	if len(current) > 0 {
		prompt = fmt.Sprintf("%s (comma-separated, YYYY-MM-DD) [%s]", f.Label, strings.Join(current, ", "))
	}

	for {
		input, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return false, err
		}
		if input == cancelToken {
			return true, nil
		}
		if input == "" {
			values[f.Key] = current
			return false, nil
		}
		dates, err := parseDates(input)
		if err != nil {
			fmt.Fprintln(w, err.Error())
			continue
		}
		values[f.Key] = dates
		return false, nil
	}
}

// parseDates splits a comma-separated date list, validates each entry as a
// calendar date, and removes duplicates while preserving order.
func parseDates(input string) ([]string, error) {
	parts := strings.Split(input, ",")
	seen := make(map[string]bool, len(parts))
	dates := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", p); err != nil {
			return nil, fmt.Errorf("%q is not a valid date (expected YYYY-MM-DD)", p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		dates = append(dates, p)
	}
	return dates, nil
}

func dateValues(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// promptAutocomplete offers live-filtered suggestions from options. Input
// matching an existing option (case-insensitively) resolves to the option's
// canonical spelling; anything else requires an explicit create-new
// confirmation, so a typo cannot silently become a near-duplicate value.
func promptAutocomplete(reader *bufio.Reader, w io.Writer, f schema.Field, values map[string]any, options []string) (bool, error) {
	prompt := f.Label
	if cur := currentString(values, f.Key); cur != "" {
		prompt = fmt.Sprintf("%s [%s]", f.Label, cur)
	} else if f.Placeholder != "" {
		prompt = fmt.Sprintf("%s (%s)", f.Label, f.Placeholder)
	}

	for {
		input, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return false, err
		}
		if input == cancelToken {
			return true, nil
		}
		if input == "" {
			return false, nil
		}

		if canonical, ok := matchOption(options, input); ok {
			values[f.Key] = canonical
			return false, nil
		}

		if suggestions := filterOptions(options, input); len(suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(suggestions, ", "))
		}
		if Confirm(reader, fmt.Sprintf("Create new: %q?", input), w) {
			values[f.Key] = input
			return false, nil
		}
	}
}

// matchOption finds a case-insensitive exact match and returns its canonical
// spelling.
func matchOption(options []string, input string) (string, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, true
		}
	}
	return "", false
}

// filterOptions returns options containing input as a case-insensitive
// substring.
func filterOptions(options []string, input string) []string {
	q := strings.ToLower(input)
	var out []string
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), q) {
			out = append(out, opt)
		}
	}
	return out
}
