package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/models"
	"github.com/fist-o/expoadmin/internal/client/schema"
)

// enquiryCommand records a customer enquiry against the active expo, with an
// optional file attachment. The attachment is uploaded after the enquiry is
// created; an upload failure does not undo the enquiry and is reported as a
// partial success.
func (a *App) enquiryCommand(ctx context.Context) error {
	expo := a.selection.Current()
	if expo == nil {
		fmt.Fprintln(a.out, "Select an expo first ('expo' command).")
		return nil
	}
	fmt.Fprintf(a.out, "New enquiry for %s\n", expo.String("name"))

	name, err := GetSimpleText(a.reader, "Customer name", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(a.out, "Customer name is required")
		return nil
	}
	contact, err := GetSimpleText(a.reader, "Contact number", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(contact) == "" {
		fmt.Fprintln(a.out, "Contact number is required")
		return nil
	}
	company, err := GetSimpleText(a.reader, "Company name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}

	enquiryTypeID, err := a.pickEnquiryType(ctx)
	if err != nil {
		return err
	}

	remarks, err := GetMultiline(a.reader, "Remarks (optional)", a.out)
	if err != nil {
		return err
	}

	fields := map[string]any{
		"expo_id":        expo.ID(),
		"customer_name":  strings.TrimSpace(name),
		"contact_number": strings.TrimSpace(contact),
	}
	if company != "" {
		fields["company_name"] = company
	}
	if email != "" {
		fields["email"] = email
	}
	if enquiryTypeID != 0 {
		fields["type_of_enquiry_id"] = enquiryTypeID
	}
	if remarks != "" {
		fields["remarks"] = remarks
	}
	if u := a.session.User(); u != nil {
		fields["employee_id"] = u.ID
		fields["employee_name"] = u.Name
	}

	env, err := a.customers.Create(ctx, fields)
	if err != nil {
		if api.IsTransport(err) {
			fmt.Fprintln(a.out, "Server unreachable, enquiry not saved.")
			return nil
		}
		return err
	}
	if !env.Success {
		fmt.Fprintln(a.out, env.FirstFieldError())
		return nil
	}

	var created models.Record
	if len(env.Data) == 0 || json.Unmarshal(env.Data, &created) != nil || created.ID() == 0 {
		fmt.Fprintln(a.out, "Enquiry saved.")
		return nil
	}
	fmt.Fprintf(a.out, "Enquiry #%d saved.\n", created.ID())

	path, err := GetSimpleText(a.reader, "Attachment file path (Enter to skip)", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	a.uploadAttachment(ctx, created.ID(), path)
	return nil
}

// uploadAttachment sends one file for an already-created enquiry. The
// enquiry stands regardless of the outcome here.
func (a *App) uploadAttachment(ctx context.Context, customerID int64, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.out, "Enquiry saved, but the attachment could not be read: %s\n", err.Error())
		return
	}
	defer f.Close()

	env, err := a.client.Upload(ctx, customerID, filepath.Base(path), f)
	if err != nil || !env.Success {
		msg := "server rejected the file"
		if err != nil {
			msg = "server unreachable"
		} else if m := env.FirstFieldError(); m != "" {
			msg = m
		}
		fmt.Fprintf(a.out, "Enquiry saved, but the attachment upload failed: %s\n", msg)
		return
	}
	fmt.Fprintln(a.out, "Attachment uploaded.")
}

// pickEnquiryType lists the configured enquiry types and returns the chosen
// id, or 0 when skipped or when the list cannot be fetched.
func (a *App) pickEnquiryType(ctx context.Context) (int64, error) {
	binding, ok := a.master.Binding(schema.KindEnquiryType)
	if !ok {
		return 0, nil
	}
	env, err := binding.List(ctx, 1, 100, "")
	if err != nil || !env.Success {
		return 0, nil
	}
	page, err := models.DecodeListPage(env.Data)
	if err != nil || len(page.Items) == 0 {
		return 0, nil
	}

	fmt.Fprintln(a.out, "Type of enquiry:")
	for i, t := range page.Items {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, t.String("name"))
	}
	input, err := GetSimpleText(a.reader, fmt.Sprintf("Choose 1-%d (Enter to skip)", len(page.Items)), a.out)
	if err != nil {
		return 0, err
	}
	if input == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(page.Items) {
		fmt.Fprintln(a.out, "Skipping enquiry type.")
		return 0, nil
	}
	return page.Items[n-1].ID(), nil
}
