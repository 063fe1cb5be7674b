// Package schema declares the editable fields of each master-data entity
// kind and the client-side validation applied before anything reaches the
// network.
package schema

// EntityKind names one of the reference-data categories managed on the
// master-data screen.
type EntityKind string

const (
	KindExpo            EntityKind = "expo"
	KindProduct         EntityKind = "product"
	KindEnquiryType     EntityKind = "entry"
	KindMessageTemplate EntityKind = "whatsapp"
)

// Kinds lists the entity kinds in tab order.
var Kinds = []EntityKind{KindExpo, KindProduct, KindEnquiryType, KindMessageTemplate}

// Path returns the API path segment serving this kind.
func (k EntityKind) Path() string {
	switch k {
	case KindExpo:
		return "/expos"
	case KindProduct:
		return "/products"
	case KindEnquiryType:
		return "/entry-types"
	case KindMessageTemplate:
		return "/whatsapp-messages"
	}
	return ""
}

// Label returns the user-facing tab title.
func (k EntityKind) Label() string {
	switch k {
	case KindExpo:
		return "Expo Creation"
	case KindProduct:
		return "Product Details"
	case KindEnquiryType:
		return "Type of Enquiry"
	case KindMessageTemplate:
		return "WhatsApp Message"
	}
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k EntityKind) Valid() bool {
	return k.Path() != ""
}

// FieldKind selects how a field is rendered and validated.
type FieldKind string

const (
	FieldText         FieldKind = "text"
	FieldSelect       FieldKind = "select"
	FieldMultiDate    FieldKind = "multidate"
	FieldAutocomplete FieldKind = "autocomplete"
	FieldTextarea     FieldKind = "textarea"
)

// Field describes one editable form field. Only the parameters belonging to
// the field's kind are populated: Options for FieldSelect, Placeholder for
// free-text kinds.
type Field struct {
	Key         string
	Label       string
	Kind        FieldKind
	Placeholder string
	Options     []string
	Required    bool
}

var fieldsByKind = map[EntityKind][]Field{
	KindExpo: {
		{Key: "name", Label: "Expo Name", Kind: FieldText, Placeholder: "Enter expo name", Required: true},
		{Key: "location", Label: "Location", Kind: FieldText, Placeholder: "Enter location", Required: true},
		{Key: "dates", Label: "Event Dates", Kind: FieldMultiDate, Required: true},
		{Key: "status", Label: "Status", Kind: FieldSelect, Options: []string{"active", "upcoming", "completed"}, Required: true},
	},
	KindProduct: {
		{Key: "category", Label: "Product Category", Kind: FieldAutocomplete, Placeholder: "Search or add category...", Required: true},
		{Key: "size", Label: "Product Size", Kind: FieldText, Placeholder: "Enter product size"},
	},
	KindEnquiryType: {
		{Key: "name", Label: "Type of Enquiry", Kind: FieldText, Placeholder: "Enter enquiry type", Required: true},
	},
	KindMessageTemplate: {
		{Key: "title", Label: "Title", Kind: FieldText, Placeholder: "Enter message title", Required: true},
		{Key: "message", Label: "Message", Kind: FieldTextarea, Placeholder: "Enter your WhatsApp message template...", Required: true},
	},
}

// Fields returns the field schema for the given kind. Schemas are static;
// callers must not mutate the returned slice.
func Fields(k EntityKind) []Field {
	return fieldsByKind[k]
}
