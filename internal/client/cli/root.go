package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fist-o/expoadmin/internal/client/models"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil {
		s = u.Name
	}
	if cur := a.selection.Current(); cur != nil {
		if name := cur.String("name"); name != "" {
			s = s + " @ " + name
		}
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

// Root runs the command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to the expo admin console (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "expo %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.session.IsAuthenticated() {
				fmt.Fprintln(a.out, "Available commands: master, expo, enquiry, reports, employees, whoami, passwd, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: login, exit")
			}

		case "login":
			a.run(ctx, a.loginCommand)
		case "logout":
			a.run(ctx, a.logoutCommand)
		case "whoami":
			a.run(ctx, a.requireAuth("", a.whoamiCommand))
		case "passwd":
			a.run(ctx, a.requireAuth("", a.passwdCommand))
		case "master":
			a.run(ctx, a.requireAuth("", a.masterCommand))
		case "expo":
			a.run(ctx, a.requireAuth("", a.expoCommand))
		case "enquiry":
			a.run(ctx, a.requireAuth("", a.enquiryCommand))
		case "reports":
			a.run(ctx, a.requireAuth("", a.reportsCommand))
		case "employees":
			a.run(ctx, a.requireAuth(models.RoleAdmin, a.employeesCommand))
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// run executes a handler and reports any unexpected failure. Handlers print
// their own expected outcomes.
func (a *App) run(ctx context.Context, cmd func(ctx context.Context) error) {
	if err := cmd(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
}
