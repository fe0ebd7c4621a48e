package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldKind defines the input type of a form field.
type FieldKind string

const (
	FieldKindText       FieldKind = "text"
	FieldKindTextarea   FieldKind = "textarea"
	FieldKindDropdown   FieldKind = "dropdown"
	FieldKindCheckbox   FieldKind = "checkbox"
	FieldKindDate       FieldKind = "date"
	FieldKindFileUpload FieldKind = "fileUpload"
)

// KnownFieldKind reports whether k is one of the supported field kinds.
func KnownFieldKind(k FieldKind) bool {
	switch k {
	case FieldKindText, FieldKindTextarea, FieldKindDropdown,
		FieldKindCheckbox, FieldKindDate, FieldKindFileUpload:
		return true
	}
	return false
}

// DropdownOption is one selectable entry of a dropdown field.
type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Validation holds the optional per-field validation rules.
// MinLength/MaxLength apply to text and textarea, Pattern to text only.
type Validation struct {
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// Clone returns an independent copy of the validation record.
func (v Validation) Clone() Validation {
	out := Validation{Pattern: v.Pattern}
	if v.MinLength != nil {
		n := *v.MinLength
		out.MinLength = &n
	}
	if v.MaxLength != nil {
		n := *v.MaxLength
		out.MaxLength = &n
	}
	return out
}

// Field is a single input element of a form. ID and Kind are immutable
// after creation; Order is the field's position in the globally sorted
// field list, renumbered on reorder.
type Field struct {
	ID          string     `json:"id"`
	Kind        FieldKind  `json:"kind"`
	Label       string     `json:"label"`
	Placeholder string     `json:"placeholder,omitempty"`
	Required    bool       `json:"required"`
	HelpText    string     `json:"helpText,omitempty"`
	Order       int        `json:"order"`
	Validation  Validation `json:"validation"`

	// Dropdown only.
	Options []DropdownOption `json:"options,omitempty"`

	// FileUpload only.
	Accept   string `json:"accept,omitempty"`
	Multiple bool   `json:"multiple,omitempty"`
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	out.Validation = f.Validation.Clone()
	if f.Options != nil {
		out.Options = make([]DropdownOption, len(f.Options))
		copy(out.Options, f.Options)
	}
	return out
}

var defaultLabels = map[FieldKind]string{
	FieldKindText:       "New Text Field",
	FieldKindTextarea:   "New Text Area",
	FieldKindDropdown:   "New Dropdown",
	FieldKindCheckbox:   "New Checkbox",
	FieldKindDate:       "New Date Field",
	FieldKindFileUpload: "New File Upload",
}

// NewField creates a field of the given kind with a fresh id and
// kind-specific defaults. An unknown kind is a programming error and panics.
func NewField(kind FieldKind, order int) Field {
	label, ok := defaultLabels[kind]
	if !ok {
		panic(fmt.Sprintf("domain: unknown field kind %q", kind))
	}
	f := Field{
		ID:    uuid.New().String(),
		Kind:  kind,
		Label: label,
		Order: order,
	}
	switch kind {
	case FieldKindDropdown:
		f.Options = []DropdownOption{{Label: "Option 1", Value: "option-1"}}
	case FieldKindFileUpload:
		f.Accept = ""
		f.Multiple = false
	}
	return f
}

// FieldPatch is a partial update merged into an existing field.
// Nil pointers leave the current value untouched. Options replaces
// the full option list when non-nil.
type FieldPatch struct {
	Label       *string          `json:"label,omitempty"`
	Placeholder *string          `json:"placeholder,omitempty"`
	Required    *bool            `json:"required,omitempty"`
	HelpText    *string          `json:"helpText,omitempty"`
	Validation  *Validation      `json:"validation,omitempty"`
	Options     []DropdownOption `json:"options,omitempty"`
	Accept      *string          `json:"accept,omitempty"`
	Multiple    *bool            `json:"multiple,omitempty"`
}

// Apply merges the patch into f.
func (p FieldPatch) Apply(f *Field) {
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Placeholder != nil {
		f.Placeholder = *p.Placeholder
	}
	if p.Required != nil {
		f.Required = *p.Required
	}
	if p.HelpText != nil {
		f.HelpText = *p.HelpText
	}
	if p.Validation != nil {
		f.Validation = p.Validation.Clone()
	}
	if p.Options != nil {
		f.Options = make([]DropdownOption, len(p.Options))
		copy(f.Options, p.Options)
	}
	if p.Accept != nil {
		f.Accept = *p.Accept
	}
	if p.Multiple != nil {
		f.Multiple = *p.Multiple
	}
}
