package editor

import (
	"errors"
	"fmt"
	"sort"

	"formdesk/internal/domain"
)

// Sentinel errors for mutators referencing stale ids. Callers can
// distinguish "nothing needed to happen" from "the reference was stale".
var (
	ErrFieldNotFound = errors.New("field not found")
	ErrStepNotFound  = errors.New("step not found")
	ErrBadIndex      = errors.New("index out of range")
)

// Store is the single source of truth for the form under edit. All
// structural mutators snapshot the document into history before applying
// and preserve the cross-referential invariants between fields and steps:
// every field id lives in at most one step's list, empty steps left behind
// by a removal are dropped, and active step / selection always reference
// existing records.
//
// The store is single-writer and not safe for concurrent use; the app
// layer serializes access.
type Store struct {
	doc     *domain.Document
	history *History
}

// NewStore creates a store over an empty document.
func NewStore() *Store {
	return &Store{
		doc:     domain.NewDocument(),
		history: NewHistory(DefaultHistoryLimit),
	}
}

// NewStoreFromSnapshot creates a store over a loaded form snapshot.
func NewStoreFromSnapshot(snap domain.Snapshot, theme domain.Theme) *Store {
	return &Store{
		doc:     domain.DocumentFromSnapshot(snap, theme),
		history: NewHistory(DefaultHistoryLimit),
	}
}

// Document returns the live document. Callers must treat it as read-only;
// all mutation goes through the store.
func (s *Store) Document() *domain.Document {
	return s.doc
}

// ── Fields ─────────────────────────────────────────────────

// AddField creates a field of the given kind, appends it to the document,
// and assigns it to the active step. If no step exists yet, "Step 1" is
// created and made active.
func (s *Store) AddField(kind domain.FieldKind) *domain.Field {
	s.history.Record(s.doc)

	f := domain.NewField(kind, len(s.doc.Fields))
	s.doc.Fields = append(s.doc.Fields, f)

	if len(s.doc.Steps) == 0 {
		step := domain.NewStep("Step 1")
		s.doc.Steps = append(s.doc.Steps, step)
		s.doc.ActiveStepID = step.ID
	}
	step := s.doc.StepByID(s.doc.ActiveStepID)
	if step == nil {
		// Active step id should always reference an existing step; fall
		// back to the first one rather than orphan the field.
		step = &s.doc.Steps[0]
		s.doc.ActiveStepID = step.ID
	}
	step.FieldIDs = append(step.FieldIDs, f.ID)

	return s.doc.FieldByID(f.ID)
}

// UpdateField merges a partial patch into the field with the given id.
// Dropdown option values must stay unique within the field.
func (s *Store) UpdateField(id string, patch domain.FieldPatch) error {
	f := s.doc.FieldByID(id)
	if f == nil {
		return fmt.Errorf("update field %s: %w", id, ErrFieldNotFound)
	}
	if patch.Options != nil {
		seen := make(map[string]bool, len(patch.Options))
		for _, opt := range patch.Options {
			if seen[opt.Value] {
				return fmt.Errorf("update field %s: duplicate option value %q", id, opt.Value)
			}
			seen[opt.Value] = true
		}
	}

	s.history.Record(s.doc)
	patch.Apply(f)
	return nil
}

// RemoveField deletes the field, drops its id from whichever step lists
// it, removes any step left empty, and clears selection if the field was
// selected.
func (s *Store) RemoveField(id string) error {
	idx := -1
	for i := range s.doc.Fields {
		if s.doc.Fields[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("remove field %s: %w", id, ErrFieldNotFound)
	}

	s.history.Record(s.doc)

	s.doc.Fields = append(s.doc.Fields[:idx], s.doc.Fields[idx+1:]...)

	kept := s.doc.Steps[:0]
	for i := range s.doc.Steps {
		step := s.doc.Steps[i]
		step.Remove(id)
		if len(step.FieldIDs) == 0 {
			if s.doc.ActiveStepID == step.ID {
				s.doc.ActiveStepID = ""
			}
			continue
		}
		kept = append(kept, step)
	}
	s.doc.Steps = kept

	if s.doc.ActiveStepID == "" && len(s.doc.Steps) > 0 {
		s.doc.ActiveStepID = s.doc.Steps[0].ID
	}
	if s.doc.SelectedFieldID == id {
		s.doc.SelectedFieldID = ""
	}
	return nil
}

// ReorderFields moves the field at fromIndex to toIndex in the globally
// sorted field list and renumbers every field's order to its new position.
// Reordering never changes step membership.
func (s *Store) ReorderFields(fromIndex, toIndex int) error {
	n := len(s.doc.Fields)
	if fromIndex < 0 || fromIndex >= n {
		return fmt.Errorf("reorder fields: from %d: %w", fromIndex, ErrBadIndex)
	}
	if toIndex < 0 || toIndex >= n {
		return fmt.Errorf("reorder fields: to %d: %w", toIndex, ErrBadIndex)
	}

	s.history.Record(s.doc)

	sorted := make([]*domain.Field, n)
	for i := range s.doc.Fields {
		sorted[i] = &s.doc.Fields[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	moved := sorted[fromIndex]
	sorted = append(sorted[:fromIndex], sorted[fromIndex+1:]...)
	sorted = append(sorted[:toIndex], append([]*domain.Field{moved}, sorted[toIndex:]...)...)

	for i, f := range sorted {
		f.Order = i
	}
	return nil
}

// ── Steps ──────────────────────────────────────────────────

// AddStep appends a new empty step with a generated name and makes it
// the active step.
func (s *Store) AddStep() *domain.Step {
	s.history.Record(s.doc)

	step := domain.NewStep(fmt.Sprintf("Step %d", len(s.doc.Steps)+1))
	s.doc.Steps = append(s.doc.Steps, step)
	s.doc.ActiveStepID = step.ID
	return s.doc.StepByID(step.ID)
}

// UpdateStepName renames the step with the given id.
func (s *Store) UpdateStepName(stepID, name string) error {
	step := s.doc.StepByID(stepID)
	if step == nil {
		return fmt.Errorf("rename step %s: %w", stepID, ErrStepNotFound)
	}
	s.history.Record(s.doc)
	step.Name = name
	return nil
}

// RemoveStep deletes the step and reassigns every field it held to the
// new first remaining step, so fields are never orphaned while any step
// exists. Removing the last step leaves the document with zero steps and
// no active step; remaining fields are then unreferenced until a step is
// created again.
func (s *Store) RemoveStep(stepID string) error {
	idx := -1
	for i := range s.doc.Steps {
		if s.doc.Steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("remove step %s: %w", stepID, ErrStepNotFound)
	}

	s.history.Record(s.doc)

	orphaned := s.doc.Steps[idx].FieldIDs
	s.doc.Steps = append(s.doc.Steps[:idx], s.doc.Steps[idx+1:]...)

	if len(s.doc.Steps) == 0 {
		s.doc.ActiveStepID = ""
		return nil
	}

	first := &s.doc.Steps[0]
	first.FieldIDs = append(first.FieldIDs, orphaned...)
	if s.doc.ActiveStepID == stepID {
		s.doc.ActiveStepID = first.ID
	}
	return nil
}

// MoveFieldToStep removes the field id from every step's list and appends
// it to the target step. Idempotent when the field already sits last in
// the target.
func (s *Store) MoveFieldToStep(fieldID, targetStepID string) error {
	if s.doc.FieldByID(fieldID) == nil {
		return fmt.Errorf("move field %s: %w", fieldID, ErrFieldNotFound)
	}
	target := s.doc.StepByID(targetStepID)
	if target == nil {
		return fmt.Errorf("move field to step %s: %w", targetStepID, ErrStepNotFound)
	}

	s.history.Record(s.doc)

	for i := range s.doc.Steps {
		s.doc.Steps[i].Remove(fieldID)
	}
	// Re-resolve: the slice header may have changed while removing.
	target = s.doc.StepByID(targetStepID)
	target.FieldIDs = append(target.FieldIDs, fieldID)
	return nil
}

// ── View state ─────────────────────────────────────────────

// SetActiveStep changes the step shown in the builder. Pure view state,
// not snapshotted.
func (s *Store) SetActiveStep(stepID string) error {
	if s.doc.StepByID(stepID) == nil {
		return fmt.Errorf("activate step %s: %w", stepID, ErrStepNotFound)
	}
	s.doc.ActiveStepID = stepID
	return nil
}

// SetSelectedField changes the field edited in the side panel. An empty
// id clears the selection. Pure view state, not snapshotted.
func (s *Store) SetSelectedField(fieldID string) error {
	if fieldID != "" && s.doc.FieldByID(fieldID) == nil {
		return fmt.Errorf("select field %s: %w", fieldID, ErrFieldNotFound)
	}
	s.doc.SelectedFieldID = fieldID
	return nil
}

// ── Metadata ───────────────────────────────────────────────

// SetFormName renames the form. Snapshotted.
func (s *Store) SetFormName(name string) {
	s.history.Record(s.doc)
	s.doc.FormName = name
}

// ToggleTheme flips the color scheme. A user preference is not undoable
// document content, so no snapshot is taken.
func (s *Store) ToggleTheme() domain.Theme {
	if s.doc.Theme == domain.ThemeDark {
		s.doc.Theme = domain.ThemeLight
	} else {
		s.doc.Theme = domain.ThemeDark
	}
	return s.doc.Theme
}

// ClearForm resets the document to its empty state. The theme preference
// survives; the cleared state is undoable.
func (s *Store) ClearForm() {
	s.history.Record(s.doc)
	s.doc.FormName = domain.DefaultFormName
	s.doc.Fields = []domain.Field{}
	s.doc.Steps = []domain.Step{}
	s.doc.ActiveStepID = ""
	s.doc.SelectedFieldID = ""
}

// ── History ────────────────────────────────────────────────

// Undo restores the most recent snapshot. Returns false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	return s.history.Undo(s.doc)
}

// Redo re-applies the most recently undone state. Returns false when
// there is nothing to redo.
func (s *Store) Redo() bool {
	return s.history.Redo(s.doc)
}

// CanUndo reports whether an undo step is available.
func (s *Store) CanUndo() bool { return s.history.PastLen() > 0 }

// CanRedo reports whether a redo step is available.
func (s *Store) CanRedo() bool { return s.history.FutureLen() > 0 }
