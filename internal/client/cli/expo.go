package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// expoCommand shows the expo directory and lets the operator switch the
// active expo. The switch is server-confirmed: nothing changes locally until
// the backend accepts it.
func (a *App) expoCommand(ctx context.Context) error {
	a.selection.Refresh(ctx)

	expos := a.selection.Expos()
	current := a.selection.Current()

	if current != nil {
		fmt.Fprintf(a.out, "Current expo: %s (%s)\n", current.String("name"), current.String("location"))
		if a.selection.IsStale() {
			fmt.Fprintln(a.out, "Note: this expo is no longer in the directory. Data entry continues against it until you pick another.")
		}
	} else {
		fmt.Fprintln(a.out, "No expo selected.")
	}

	if len(expos) == 0 {
		fmt.Fprintln(a.out, "The expo directory is empty. Create one on the master screen first.")
		return nil
	}

	fmt.Fprintln(a.out, "Available expos:")
	for i, e := range expos {
		marker := " "
		if current != nil && e.ID() == current.ID() {
			marker = "*"
		}
		dates := strings.Join(e.Strings("dates"), ", ")
		fmt.Fprintf(a.out, " %s %d) %s, %s [%s] %s\n", marker, i+1, e.String("name"), e.String("location"), e.String("status"), dates)
	}

	input, err := GetSimpleText(a.reader, fmt.Sprintf("Select 1-%d (Enter keeps current)", len(expos)), a.out)
	if err != nil {
		return err
	}
	if input == "" {
		return nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(expos) {
		fmt.Fprintln(a.out, "Please enter a number from the list.")
		return nil
	}

	chosen := expos[n-1]
	if err := a.selection.Select(ctx, chosen); err != nil {
		fmt.Fprintln(a.out, "Could not switch expo:", err.Error())
		return nil
	}
	fmt.Fprintf(a.out, "Now working in %s.\n", a.selection.Current().String("name"))
	return nil
}
