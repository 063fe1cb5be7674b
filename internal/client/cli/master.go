package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/crud"
	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/schema"
)

// masterCommand drives the master-data screen: a tab per entity kind, a
// paginated list, and the add/edit/delete loop on top of the list
// controller.
func (a *App) masterCommand(ctx context.Context) error {
	kind := schema.KindExpo
	if err := a.fetchList(a.master.SwitchKind(ctx, kind)); err != nil {
		return err
	}

	for {
		a.renderTabs(kind)
		a.renderList()

		line, err := GetSimpleText(a.reader, "master> (help for commands)", a.out)
		if err != nil {
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Commands: tab <1-4>, next, prev, page <n>, search <term>, add, edit <id>, del <id>, back")

		case "tab":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: tab <1-4>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > len(schema.Kinds) {
				fmt.Fprintf(a.out, "Pick a tab from 1 to %d.\n", len(schema.Kinds))
				continue
			}
			kind = schema.Kinds[n-1]
			if err := a.fetchList(a.master.SwitchKind(ctx, kind)); err != nil {
				return err
			}

		case "next":
			p := a.master.Pagination()
			if p.CurrentPage < p.TotalPages {
				if err := a.fetchList(a.master.FetchPage(ctx, p.CurrentPage+1)); err != nil {
					return err
				}
			}

		case "prev":
			p := a.master.Pagination()
			if p.CurrentPage > 1 {
				if err := a.fetchList(a.master.FetchPage(ctx, p.CurrentPage-1)); err != nil {
					return err
				}
			}

		case "page":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: page <n>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				fmt.Fprintln(a.out, "Page must be a positive number.")
				continue
			}
			if err := a.fetchList(a.master.FetchPage(ctx, n)); err != nil {
				return err
			}

		case "search":
			if err := a.fetchList(a.master.Search(ctx, strings.Join(args, " "))); err != nil {
				return err
			}

		case "add":
			if err := a.addRecord(ctx, kind); err != nil {
				return err
			}

		case "edit":
			id, ok := parseID(a.out, args, "edit")
			if !ok {
				continue
			}
			if err := a.editRecord(ctx, kind, id); err != nil {
				return err
			}

		case "del":
			id, ok := parseID(a.out, args, "del")
			if !ok {
				continue
			}
			if err := a.deleteRecord(ctx, kind, id); err != nil {
				return err
			}

		case "back":
			return nil

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// fetchList absorbs list-load failures: they land in the controller's error
// banner and the screen renders them on the next pass. Only a missing kind
// binding is a real fault.
func (a *App) fetchList(err error) error {
	if err != nil && errors.Is(err, crud.ErrUnknownKind) {
		return err
	}
	return nil
}

func parseID(w io.Writer, args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(w, "Usage: %s <id>\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintln(w, "ID must be a positive number.")
		return 0, false
	}
	return id, true
}

func (a *App) renderTabs(active schema.EntityKind) {
	labels := make([]string, 0, len(schema.Kinds))
	for i, k := range schema.Kinds {
		label := fmt.Sprintf("%d. %s", i+1, k.Label())
		if k == active {
			label = "[" + label + "]"
		}
		labels = append(labels, label)
	}
	fmt.Fprintln(a.out, strings.Join(labels, "  "))
}

func (a *App) renderList() {
	switch a.master.Phase() {
	case crud.PhaseLoading:
		fmt.Fprintln(a.out, "Loading...")
		return
	case crud.PhaseErrored:
		fmt.Fprintln(a.out, "Could not load the list:", a.master.Err())
		return
	}

	items := a.master.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No records found.")
		return
	}

	fields := schema.Fields(a.master.Kind())
	for _, rec := range items {
		cols := make([]string, 0, len(fields)+1)
		cols = append(cols, fmt.Sprintf("#%d", rec.ID()))
		for _, f := range fields {
			if f.Kind == schema.FieldMultiDate {
				cols = append(cols, strings.Join(rec.Strings(f.Key), ", "))
				continue
			}
			cols = append(cols, rec.String(f.Key))
		}
		fmt.Fprintln(a.out, strings.Join(cols, " | "))
	}

	p := a.master.Pagination()
	fmt.Fprintf(a.out, "Page %d of %d, %s records total\n",
		p.CurrentPage, p.TotalPages, humanize.Comma(int64(p.TotalItems)))
}

func (a *App) addRecord(ctx context.Context, kind schema.EntityKind) error {
	return a.recordForm(ctx, kind, nil, func(values map[string]any) error {
		return a.master.Create(ctx, values)
	}, "Created.")
}

func (a *App) editRecord(ctx context.Context, kind schema.EntityKind, id int64) error {
	var initial models.Record
	for _, rec := range a.master.Items() {
		if rec.ID() == id {
			initial = rec.Clone()
			break
		}
	}
	if initial == nil {
		fmt.Fprintf(a.out, "No record #%d on this page.\n", id)
		return nil
	}

	return a.recordForm(ctx, kind, initial, func(values map[string]any) error {
		return a.master.Update(ctx, id, values)
	}, "Updated.")
}

// recordForm renders the kind's form and submits through op, looping so the
// operator can correct a rejected submission without retyping everything.
func (a *App) recordForm(ctx context.Context, kind schema.EntityKind, initial map[string]any, op func(map[string]any) error, done string) error {
	var options []string
	if kind == schema.KindProduct {
		options = a.fetchCategoryOptions(ctx)
	}

	values := initial
	for {
		entered, ok, err := promptForm(a.reader, a.out, kind, values, options)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}

		err = op(entered)
		if err == nil {
			fmt.Fprintln(a.out, done)
			return nil
		}

		var verr *schema.ValidationError
		var serr *crud.SubmitError
		switch {
		case errors.As(err, &verr):
			fmt.Fprintln(a.out, verr.Message)
		case errors.As(err, &serr):
			fmt.Fprintln(a.out, serr.Error())
		case api.IsTransport(err):
			fmt.Fprintln(a.out, "Server unreachable, nothing was saved.")
		default:
			return err
		}

		// Keep what was entered and go around again.
		values = entered
		if !Confirm(a.reader, "Try again?", a.out) {
			return nil
		}
	}
}

func (a *App) deleteRecord(ctx context.Context, kind schema.EntityKind, id int64) error {
	if !Confirm(a.reader, fmt.Sprintf("Delete %s #%d?", kind.Label(), id), a.out) {
		return nil
	}

	err := a.master.Delete(ctx, id)
	if err == nil {
		fmt.Fprintln(a.out, "Deleted.")
		return nil
	}

	var serr *crud.SubmitError
	switch {
	case errors.As(err, &serr):
		fmt.Fprintln(a.out, serr.Error())
	case api.IsTransport(err):
		fmt.Fprintln(a.out, "Server unreachable, nothing was deleted.")
	default:
		return err
	}
	return nil
}

// fetchCategoryOptions collects the distinct product categories already in
// use, feeding the category autocomplete. Failures degrade to an empty
// suggestion list.
func (a *App) fetchCategoryOptions(ctx context.Context) []string {
	binding, ok := a.master.Binding(schema.KindProduct)
	if !ok {
		return nil
	}
	env, err := binding.List(ctx, 1, 1000, "")
	if err != nil || !env.Success {
		a.log.Warn(ctx, "category options unavailable", "err", err)
		return nil
	}
	page, err := models.DecodeListPage(env.Data)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var options []string
	for _, rec := range page.Items {
		c := strings.TrimSpace(rec.String("category"))
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		options = append(options, c)
	}
	sort.Strings(options)
	return options
}
