package editor_test

import (
	"errors"
	"testing"

	"formdesk/internal/domain"
	"formdesk/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// Structural mutators
// ─────────────────────────────────────────────────────────────

// checkIntegrity asserts that every field id in every step references an
// existing field and that no field id appears in two steps.
func checkIntegrity(t *testing.T, doc *domain.Document) {
	t.Helper()
	seen := map[string]string{} // field id → step id
	for _, step := range doc.Steps {
		for _, fid := range step.FieldIDs {
			if doc.FieldByID(fid) == nil {
				t.Fatalf("step %s references missing field %s", step.ID, fid)
			}
			if prev, ok := seen[fid]; ok {
				t.Fatalf("field %s appears in steps %s and %s", fid, prev, step.ID)
			}
			seen[fid] = step.ID
		}
	}
	if doc.ActiveStepID != "" && doc.StepByID(doc.ActiveStepID) == nil {
		t.Fatalf("active step %s does not exist", doc.ActiveStepID)
	}
	if doc.ActiveStepID == "" && len(doc.Steps) > 0 {
		t.Fatal("active step is empty while steps exist")
	}
	if doc.SelectedFieldID != "" && doc.FieldByID(doc.SelectedFieldID) == nil {
		t.Fatalf("selected field %s does not exist", doc.SelectedFieldID)
	}
}

func TestStore_AddField_CreatesFirstStep(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)

	doc := s.Document()
	if len(doc.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(doc.Steps))
	}
	if doc.Steps[0].Name != "Step 1" {
		t.Errorf("expected step name 'Step 1', got %q", doc.Steps[0].Name)
	}
	if len(doc.Steps[0].FieldIDs) != 1 || doc.Steps[0].FieldIDs[0] != f.ID {
		t.Errorf("expected step to hold field %s, got %v", f.ID, doc.Steps[0].FieldIDs)
	}
	if doc.ActiveStepID != doc.Steps[0].ID {
		t.Errorf("expected active step %s, got %s", doc.Steps[0].ID, doc.ActiveStepID)
	}
	if f.Label != "New Text Field" {
		t.Errorf("expected default label, got %q", f.Label)
	}
	if f.Order != 0 {
		t.Errorf("expected order 0, got %d", f.Order)
	}
	checkIntegrity(t, doc)
}

func TestStore_AddField_AssignsToActiveStep(t *testing.T) {
	s := editor.NewStore()
	s.AddField(domain.FieldKindText)
	step2 := s.AddStep()
	f := s.AddField(domain.FieldKindDate)

	if !s.Document().StepByID(step2.ID).Contains(f.ID) {
		t.Errorf("expected new field in active step %s", step2.ID)
	}
	checkIntegrity(t, s.Document())
}

func TestStore_AddField_VariantDefaults(t *testing.T) {
	s := editor.NewStore()
	dd := s.AddField(domain.FieldKindDropdown)
	if len(dd.Options) != 1 {
		t.Fatalf("expected dropdown to get one default option, got %d", len(dd.Options))
	}
	fu := s.AddField(domain.FieldKindFileUpload)
	if fu.Accept != "" || fu.Multiple {
		t.Errorf("expected empty accept filter and multiple=false, got %q/%v", fu.Accept, fu.Multiple)
	}
}

func TestStore_UpdateField(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)

	label := "Email"
	required := true
	min := 3
	if err := s.UpdateField(f.ID, domain.FieldPatch{
		Label:      &label,
		Required:   &required,
		Validation: &domain.Validation{MinLength: &min},
	}); err != nil {
		t.Fatalf("update field: %v", err)
	}

	got := s.Document().FieldByID(f.ID)
	if got.Label != "Email" || !got.Required {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Validation.MinLength == nil || *got.Validation.MinLength != 3 {
		t.Errorf("validation not applied: %+v", got.Validation)
	}
}

func TestStore_UpdateField_NotFound(t *testing.T) {
	s := editor.NewStore()
	err := s.UpdateField("nope", domain.FieldPatch{})
	if !errors.Is(err, editor.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if s.CanUndo() {
		t.Error("failed update must not record a history entry")
	}
}

func TestStore_UpdateField_RejectsDuplicateOptionValues(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindDropdown)

	err := s.UpdateField(f.ID, domain.FieldPatch{
		Options: []domain.DropdownOption{
			{Label: "A", Value: "same"},
			{Label: "B", Value: "same"},
		},
	})
	if err == nil {
		t.Fatal("expected duplicate option value to be rejected")
	}
	if len(s.Document().FieldByID(f.ID).Options) != 1 {
		t.Error("rejected update must leave options untouched")
	}
}

func TestStore_RemoveField_DropsEmptyStep(t *testing.T) {
	// Two steps: step 1 holds f1/f2, step 2 holds only f3 and is active.
	s := editor.NewStore()
	s.AddField(domain.FieldKindText)
	s.AddField(domain.FieldKindText)
	step2 := s.AddStep()
	f3 := s.AddField(domain.FieldKindCheckbox)

	if err := s.RemoveField(f3.ID); err != nil {
		t.Fatalf("remove field: %v", err)
	}

	doc := s.Document()
	if len(doc.Steps) != 1 {
		t.Fatalf("expected empty step 2 to be dropped, got %d steps", len(doc.Steps))
	}
	if doc.StepByID(step2.ID) != nil {
		t.Error("step 2 still exists after losing its last field")
	}
	if doc.ActiveStepID != doc.Steps[0].ID {
		t.Errorf("expected active step to move to remaining step, got %s", doc.ActiveStepID)
	}
	checkIntegrity(t, doc)
}

func TestStore_RemoveField_ClearsSelection(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)
	s.AddField(domain.FieldKindText)
	if err := s.SetSelectedField(f.ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := s.RemoveField(f.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Document().SelectedFieldID != "" {
		t.Error("selection must be cleared when the selected field is removed")
	}
}

func TestStore_RemoveField_LastFieldLastStep(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)

	if err := s.RemoveField(f.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	doc := s.Document()
	if len(doc.Fields) != 0 || len(doc.Steps) != 0 {
		t.Fatalf("expected empty document, got %d fields / %d steps", len(doc.Fields), len(doc.Steps))
	}
	if doc.ActiveStepID != "" {
		t.Error("active step must be cleared when no steps remain")
	}
}

func TestStore_RemoveField_NotFound(t *testing.T) {
	s := editor.NewStore()
	if err := s.RemoveField("nope"); !errors.Is(err, editor.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestStore_ReorderFields_RenumbersGlobally(t *testing.T) {
	s := editor.NewStore()
	f1 := s.AddField(domain.FieldKindText)
	f2 := s.AddField(domain.FieldKindDate)
	f3 := s.AddField(domain.FieldKindCheckbox)

	if err := s.ReorderFields(0, 2); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	doc := s.Document()
	wantOrder := map[string]int{f2.ID: 0, f3.ID: 1, f1.ID: 2}
	for id, want := range wantOrder {
		if got := doc.FieldByID(id).Order; got != want {
			t.Errorf("field %s: expected order %d, got %d", id, want, got)
		}
	}
	checkIntegrity(t, doc)
}

func TestStore_ReorderFields_KeepsStepMembership(t *testing.T) {
	s := editor.NewStore()
	f1 := s.AddField(domain.FieldKindText)
	step2 := s.AddStep()
	f2 := s.AddField(domain.FieldKindText)

	if err := s.ReorderFields(1, 0); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	doc := s.Document()
	if !doc.Steps[0].Contains(f1.ID) {
		t.Error("f1 left its step during reorder")
	}
	if !doc.StepByID(step2.ID).Contains(f2.ID) {
		t.Error("f2 left its step during reorder")
	}
}

func TestStore_ReorderFields_BadIndex(t *testing.T) {
	s := editor.NewStore()
	s.AddField(domain.FieldKindText)
	if err := s.ReorderFields(0, 5); !errors.Is(err, editor.ErrBadIndex) {
		t.Fatalf("expected ErrBadIndex, got %v", err)
	}
	if err := s.ReorderFields(-1, 0); !errors.Is(err, editor.ErrBadIndex) {
		t.Fatalf("expected ErrBadIndex, got %v", err)
	}
}

func TestStore_AddStep_GeneratedNames(t *testing.T) {
	s := editor.NewStore()
	s.AddField(domain.FieldKindText) // creates "Step 1"
	step2 := s.AddStep()

	if step2.Name != "Step 2" {
		t.Errorf("expected 'Step 2', got %q", step2.Name)
	}
	if s.Document().ActiveStepID != step2.ID {
		t.Error("new step must become active")
	}
}

func TestStore_UpdateStepName(t *testing.T) {
	s := editor.NewStore()
	step := s.AddStep()
	if err := s.UpdateStepName(step.ID, "Contact details"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := s.Document().StepByID(step.ID).Name; got != "Contact details" {
		t.Errorf("expected renamed step, got %q", got)
	}
	if err := s.UpdateStepName("nope", "x"); !errors.Is(err, editor.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestStore_RemoveStep_ReassignsFields(t *testing.T) {
	// Three steps, active = step 2; removing step 2 appends its fields to
	// step 1 and activates step 1.
	s := editor.NewStore()
	f1 := s.AddField(domain.FieldKindText)
	step2 := s.AddStep()
	f2 := s.AddField(domain.FieldKindDate)
	f3 := s.AddField(domain.FieldKindText)
	s.AddStep()
	s.AddField(domain.FieldKindCheckbox)
	if err := s.SetActiveStep(step2.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := s.RemoveStep(step2.ID); err != nil {
		t.Fatalf("remove step: %v", err)
	}

	doc := s.Document()
	if len(doc.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(doc.Steps))
	}
	first := doc.Steps[0]
	for _, fid := range []string{f1.ID, f2.ID, f3.ID} {
		if !first.Contains(fid) {
			t.Errorf("expected field %s in first step after reassignment", fid)
		}
	}
	if doc.ActiveStepID != first.ID {
		t.Errorf("expected first step active, got %s", doc.ActiveStepID)
	}
	checkIntegrity(t, doc)
}

func TestStore_RemoveStep_LastStep(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)
	stepID := s.Document().Steps[0].ID

	if err := s.RemoveStep(stepID); err != nil {
		t.Fatalf("remove step: %v", err)
	}

	doc := s.Document()
	if len(doc.Steps) != 0 {
		t.Fatalf("expected zero steps, got %d", len(doc.Steps))
	}
	if doc.ActiveStepID != "" {
		t.Error("active step must be cleared with the last step")
	}
	// The field survives unassigned until a step exists again.
	if doc.FieldByID(f.ID) == nil {
		t.Error("fields must survive removal of the last step")
	}
}

func TestStore_MoveFieldToStep(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)
	step1 := s.Document().Steps[0]
	step2 := s.AddStep()

	if err := s.MoveFieldToStep(f.ID, step2.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	doc := s.Document()
	if doc.StepByID(step1.ID) != nil && doc.StepByID(step1.ID).Contains(f.ID) {
		t.Error("field still referenced by source step")
	}
	if !doc.StepByID(step2.ID).Contains(f.ID) {
		t.Error("field not referenced by target step")
	}
	checkIntegrity(t, doc)

	// Idempotent: moving again leaves a single reference.
	if err := s.MoveFieldToStep(f.ID, step2.ID); err != nil {
		t.Fatalf("second move: %v", err)
	}
	if n := len(s.Document().StepByID(step2.ID).FieldIDs); n != 1 {
		t.Errorf("expected exactly one reference, got %d", n)
	}
}

func TestStore_MoveFieldToStep_NotFound(t *testing.T) {
	s := editor.NewStore()
	f := s.AddField(domain.FieldKindText)
	if err := s.MoveFieldToStep("nope", s.Document().Steps[0].ID); !errors.Is(err, editor.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if err := s.MoveFieldToStep(f.ID, "nope"); !errors.Is(err, editor.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestStore_ClearForm_PreservesTheme(t *testing.T) {
	s := editor.NewStore()
	s.AddField(domain.FieldKindText)
	s.SetFormName("Survey")
	theme := s.ToggleTheme()

	s.ClearForm()

	doc := s.Document()
	if doc.FormName != domain.DefaultFormName {
		t.Errorf("expected default form name, got %q", doc.FormName)
	}
	if len(doc.Fields) != 0 || len(doc.Steps) != 0 || doc.ActiveStepID != "" || doc.SelectedFieldID != "" {
		t.Error("clear must reset fields, steps, active step, and selection")
	}
	if doc.Theme != theme {
		t.Errorf("theme must survive clear, expected %s got %s", theme, doc.Theme)
	}
}

// TestStore_Integrity_RandomishSequence drives a longer mixed sequence of
// mutations and checks referential integrity after every operation.
func TestStore_Integrity_RandomishSequence(t *testing.T) {
	s := editor.NewStore()
	kinds := []domain.FieldKind{
		domain.FieldKindText, domain.FieldKindDropdown, domain.FieldKindDate,
		domain.FieldKindCheckbox, domain.FieldKindTextarea, domain.FieldKindFileUpload,
	}
	for i, kind := range kinds {
		s.AddField(kind)
		if i%2 == 1 {
			s.AddStep()
		}
		checkIntegrity(t, s.Document())
	}

	doc := s.Document()
	// Move every other field to the last step, remove the rest.
	last := doc.Steps[len(doc.Steps)-1].ID
	var ids []string
	for _, f := range doc.Fields {
		ids = append(ids, f.ID)
	}
	for i, id := range ids {
		if i%2 == 0 {
			if err := s.MoveFieldToStep(id, last); err != nil {
				t.Fatalf("move %s: %v", id, err)
			}
		} else {
			if err := s.RemoveField(id); err != nil {
				t.Fatalf("remove %s: %v", id, err)
			}
		}
		checkIntegrity(t, s.Document())
	}
	for s.CanUndo() {
		s.Undo()
		checkIntegrity(t, s.Document())
	}
}
