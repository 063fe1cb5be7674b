package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
)

// reportPageSize matches the original reports screen.
const reportPageSize = 10

// reportFilters is the active filter set of the reports screen. Zero ids and
// the "All" priority disable their dimension.
type reportFilters struct {
	expoID   int64
	typeID   int64
	priority string
}

func (f reportFilters) query() url.Values {
	extra := url.Values{}
	if f.expoID != 0 {
		extra.Set("expo_id", strconv.FormatInt(f.expoID, 10))
	}
	if f.typeID != 0 {
		extra.Set("type_of_enquiry_id", strconv.FormatInt(f.typeID, 10))
	}
	if f.priority != filterAll {
		extra.Set("priority", f.priority)
	}
	return extra
}

// reportsCommand is the customer-enquiry reporting screen: a searchable,
// filtered list of registered enquiries with their attachments. Filters ride
// along as query parameters, like the employees screen.
func (a *App) reportsCommand(ctx context.Context) error {
	page := 1
	search := ""
	filters := reportFilters{priority: filterAll}

	for {
		items, pagination, err := a.renderReports(ctx, page, search, filters)
		if err != nil {
			return err
		}

		line, err := GetSimpleText(a.reader, "reports> (help for commands)", a.out)
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
			fmt.Fprintln(a.out, "Commands: next, prev, search <term>, expo <id|All>, type <id|All>, priority <high|medium|low|All>, show <id>, clear, back")

		case "next":
			if page < pagination.TotalPages {
				page++
			}

		case "prev":
			if page > 1 {
				page--
			}

		case "search":
			search = strings.Join(args, " ")
			page = 1

		case "expo":
			if id, ok := parseFilterID(a.out, args, "expo"); ok {
				filters.expoID = id
				page = 1
			}

		case "type":
			if id, ok := parseFilterID(a.out, args, "type"); ok {
				filters.typeID = id
				page = 1
			}

		case "priority":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: priority <high|medium|low|All>")
				continue
			}
			filters.priority = args[0]
			page = 1

		case "show":
			id, ok := parseID(a.out, args, "show")
			if !ok {
				continue
			}
			a.showEnquiry(items, id)

		case "clear":
			search = ""
			filters = reportFilters{priority: filterAll}
			page = 1

		case "back":
			return nil

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// parseFilterID reads an id argument where "All" clears the filter.
func parseFilterID(w io.Writer, args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(w, "Usage: %s <id|All>\n", usage)
		return 0, false
	}
	if strings.EqualFold(args[0], filterAll) {
		return 0, true
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(w, "Usage: %s <id|All>\n", usage)
		return 0, false
	}
	return id, true
}

func (a *App) renderReports(ctx context.Context, page int, search string, filters reportFilters) ([]models.Record, models.Pagination, error) {
	env, err := a.customers.ListWith(ctx, page, reportPageSize, search, filters.query())
	if err != nil {
		if api.IsTransport(err) {
			fmt.Fprintln(a.out, "Server unreachable.")
			return nil, models.Pagination{CurrentPage: 1, TotalPages: 1}, nil
		}
		return nil, models.Pagination{}, err
	}
	if !env.Success {
		fmt.Fprintln(a.out, "Could not load enquiries:", env.FirstFieldError())
		return nil, models.Pagination{CurrentPage: 1, TotalPages: 1}, nil
	}

	listPage, err := models.DecodeListPage(env.Data)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load enquiries: malformed response.")
		return nil, models.Pagination{CurrentPage: 1, TotalPages: 1}, nil
	}

	if len(listPage.Items) == 0 {
		fmt.Fprintln(a.out, "No enquiries match the current filters.")
	}
	for _, c := range listPage.Items {
		line := fmt.Sprintf("#%d | %s | %s | %s | %s | %s",
			c.ID(), c.String("customer_name"), c.String("contact_number"),
			c.String("expo_name"), c.String("enquiry_type_name"), c.String("priority"))
		if n := len(c.Records("attachments")); n > 0 {
			line = fmt.Sprintf("%s | %d file(s)", line, n)
		}
		fmt.Fprintln(a.out, line)
	}

	p := listPage.Pagination
	if p.CurrentPage == 0 {
		p.CurrentPage = page
	}
	if p.PerPage == 0 {
		p.PerPage = reportPageSize
	}
	p = p.Normalize()
	fmt.Fprintf(a.out, "Page %d of %d, %d enquiries\n", p.CurrentPage, p.TotalPages, p.TotalItems)
	return listPage.Items, p, nil
}

// showEnquiry prints the full detail of one enquiry from the rows already on
// screen, including its attachment paths.
func (a *App) showEnquiry(items []models.Record, id int64) {
	var rec models.Record
	for _, c := range items {
		if c.ID() == id {
			rec = c
			break
		}
	}
	if rec == nil {
		fmt.Fprintf(a.out, "No enquiry #%d on this page.\n", id)
		return
	}

	fmt.Fprintf(a.out, "Enquiry #%d\n", rec.ID())
	for _, kv := range [][2]string{
		{"Customer", "customer_name"},
		{"Contact", "contact_number"},
		{"Company", "company_name"},
		{"Email", "email"},
		{"Expo", "expo_name"},
		{"Enquiry type", "enquiry_type_name"},
		{"Priority", "priority"},
		{"Entered by", "employee_name"},
		{"Remarks", "remarks"},
	} {
		if v := rec.String(kv[1]); v != "" {
			fmt.Fprintf(a.out, "  %s: %s\n", kv[0], v)
		}
	}

	attachments := rec.Records("attachments")
	if len(attachments) == 0 {
		return
	}
	fmt.Fprintf(a.out, "  Attachments (%d):\n", len(attachments))
	for _, f := range attachments {
		name := f.String("file_name")
		if name == "" {
			name = f.String("file_path")
		}
		fmt.Fprintf(a.out, "    %s (%s)\n", name, f.String("file_path"))
	}
}
