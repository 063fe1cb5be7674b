package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
)

// employeePageSize matches the original admin screen.
const employeePageSize = 10

// filterAll is the neutral filter value the backend expects.
const filterAll = "All"

// employeesCommand is the admin-only staff screen: a filtered, paginated
// employee list with an activate/deactivate toggle. Filters ride along as
// query parameters; "All" disables a dimension.
func (a *App) employeesCommand(ctx context.Context) error {
	page := 1
	search := ""
	filters := map[string]string{
		"department": filterAll,
		"role":       filterAll,
		"status":     filterAll,
	}

	for {
		pagination, err := a.renderEmployees(ctx, page, search, filters)
		if err != nil {
			return err
		}

		line, err := GetSimpleText(a.reader, "employees> (help for commands)", a.out)
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
			fmt.Fprintln(a.out, "Commands: next, prev, search <term>, department <name|All>, role <Admin|Employee|All>, status <active|inactive|All>, toggle <id>, clear, back")

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

		case "department", "role", "status":
			if len(args) == 0 {
				fmt.Fprintf(a.out, "Usage: %s <value|All>\n", cmd)
				continue
			}
			filters[cmd] = strings.Join(args, " ")
			page = 1

		case "clear":
			search = ""
			for k := range filters {
				filters[k] = filterAll
			}
			page = 1

		case "toggle":
			id, ok := parseID(a.out, args, "toggle")
			if !ok {
				continue
			}
			env, err := a.employees.Toggle(ctx, id)
			if err != nil {
				if api.IsTransport(err) {
					fmt.Fprintln(a.out, "Server unreachable.")
					continue
				}
				return err
			}
			if !env.Success {
				fmt.Fprintln(a.out, env.FirstFieldError())
				continue
			}
			fmt.Fprintln(a.out, "Status updated.")

		case "back":
			return nil

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) renderEmployees(ctx context.Context, page int, search string, filters map[string]string) (models.Pagination, error) {
	extra := url.Values{}
	for k, v := range filters {
		extra.Set(k, v)
	}

	env, err := a.employees.ListWith(ctx, page, employeePageSize, search, extra)
	if err != nil {
		if api.IsTransport(err) {
			fmt.Fprintln(a.out, "Server unreachable.")
			return models.Pagination{CurrentPage: 1, TotalPages: 1}, nil
		}
		return models.Pagination{}, err
	}
	if !env.Success {
		fmt.Fprintln(a.out, "Could not load employees:", env.FirstFieldError())
		return models.Pagination{CurrentPage: 1, TotalPages: 1}, nil
	}

	listPage, err := models.DecodeListPage(env.Data)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load employees: malformed response.")
		return models.Pagination{CurrentPage: 1, TotalPages: 1}, nil
	}

	if len(listPage.Items) == 0 {
		fmt.Fprintln(a.out, "No employees match the current filters.")
	}
	for _, e := range listPage.Items {
		fmt.Fprintf(a.out, "#%d | %s | %s | %s | %s | %s\n",
			e.ID(), e.String("name"), e.String("email"),
			e.String("department"), e.String("role"), e.String("status"))
	}

	p := listPage.Pagination
	if p.CurrentPage == 0 {
		p.CurrentPage = page
	}
	if p.PerPage == 0 {
		p.PerPage = employeePageSize
	}
	p = p.Normalize()
	fmt.Fprintf(a.out, "Page %d of %d, %d employees\n", p.CurrentPage, p.TotalPages, p.TotalItems)
	return p, nil
}
