package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Theme is the builder's color scheme preference. It rides along in the
// document but is not part of undoable content.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultFormName is the name given to new and cleared forms.
const DefaultFormName = "Untitled Form"

// Document is the aggregate describing one form under edit: all fields,
// all steps, the builder's view state, and metadata. It has exactly one
// editor at a time and is the sole unit of undo/redo snapshotting.
type Document struct {
	FormName        string  `json:"formName"`
	Fields          []Field `json:"fields"`
	Steps           []Step  `json:"steps"`
	ActiveStepID    string  `json:"activeStepId"`
	SelectedFieldID string  `json:"selectedFieldId"`
	Theme           Theme   `json:"theme"`
}

// NewDocument creates an empty document with defaults.
func NewDocument() *Document {
	return &Document{
		FormName: DefaultFormName,
		Fields:   []Field{},
		Steps:    []Step{},
		Theme:    ThemeLight,
	}
}

// Clone returns a deep copy of the document. Snapshots and the live
// document must never share mutable storage, so every nested slice and
// pointer is copied.
func (d *Document) Clone() *Document {
	out := &Document{
		FormName:        d.FormName,
		ActiveStepID:    d.ActiveStepID,
		SelectedFieldID: d.SelectedFieldID,
		Theme:           d.Theme,
		Fields:          make([]Field, len(d.Fields)),
		Steps:           make([]Step, len(d.Steps)),
	}
	for i, f := range d.Fields {
		out.Fields[i] = f.Clone()
	}
	for i, s := range d.Steps {
		out.Steps[i] = s.Clone()
	}
	return out
}

// FieldByID returns the field with the given id, or nil.
func (d *Document) FieldByID(id string) *Field {
	for i := range d.Fields {
		if d.Fields[i].ID == id {
			return &d.Fields[i]
		}
	}
	return nil
}

// StepByID returns the step with the given id, or nil.
func (d *Document) StepByID(id string) *Step {
	for i := range d.Steps {
		if d.Steps[i].ID == id {
			return &d.Steps[i]
		}
	}
	return nil
}

// Snapshot is the persisted and shared shape of a form. Field kinds stay
// explicit tag strings so external consumers can round-trip the document.
type Snapshot struct {
	FormName string  `json:"formName"`
	Fields   []Field `json:"fields"`
	Steps    []Step  `json:"steps"`
}

// Snapshot extracts the persistable shape of the document.
func (d *Document) Snapshot() Snapshot {
	c := d.Clone()
	return Snapshot{FormName: c.FormName, Fields: c.Fields, Steps: c.Steps}
}

// DocumentFromSnapshot rebuilds a document from a persisted snapshot.
// View state starts fresh: the first step is active, nothing selected.
func DocumentFromSnapshot(snap Snapshot, theme Theme) *Document {
	d := NewDocument()
	d.FormName = snap.FormName
	if d.FormName == "" {
		d.FormName = DefaultFormName
	}
	for _, f := range snap.Fields {
		d.Fields = append(d.Fields, f.Clone())
	}
	for _, s := range snap.Steps {
		d.Steps = append(d.Steps, s.Clone())
	}
	if len(d.Steps) > 0 {
		d.ActiveStepID = d.Steps[0].ID
	}
	if theme != "" {
		d.Theme = theme
	}
	return d
}

// FormMeta is the listing row for a saved form.
type FormMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FieldCount int       `json:"fieldCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FormStore is the persistence boundary for form documents, keyed by an
// opaque form identifier. The in-memory document stays authoritative;
// a failed save never invalidates the editing session.
type FormStore interface {
	SaveForm(id string, snap Snapshot) error
	LoadForm(id string) (*Snapshot, error)
	ListForms() ([]FormMeta, error)
	DeleteForm(id string) error
}
