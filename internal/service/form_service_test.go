package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"formdesk/internal/domain"
	"formdesk/internal/service"
)

// ─────────────────────────────────────────────────────────────
// FormService tests
// ─────────────────────────────────────────────────────────────

func TestFormService_CreateAndOpen(t *testing.T) {
	store := newMemFormStore()
	emitter := &service.MockEmitter{}
	svc := service.NewFormService(store, &memSubmissionStore{}, emitter)

	id, ed, err := svc.CreateForm(context.Background(), "Feedback", domain.ThemeDark)
	if err != nil {
		t.Fatalf("create form: %v", err)
	}
	if ed.Document().FormName != "Feedback" {
		t.Errorf("expected form name on editor, got %q", ed.Document().FormName)
	}
	if len(emitter.Events) == 0 || emitter.Events[0].Event != "forms:changed" {
		t.Error("create must emit forms:changed")
	}

	opened, err := svc.OpenForm(id, domain.ThemeDark)
	if err != nil {
		t.Fatalf("open form: %v", err)
	}
	if opened.Document().FormName != "Feedback" {
		t.Errorf("expected persisted name, got %q", opened.Document().FormName)
	}
}

func TestFormService_OpenMissingForm(t *testing.T) {
	svc := service.NewFormService(newMemFormStore(), &memSubmissionStore{}, &service.MockEmitter{})
	if _, err := svc.OpenForm("nope", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFormService_SaveRoundTrip(t *testing.T) {
	store := newMemFormStore()
	svc := service.NewFormService(store, &memSubmissionStore{}, &service.MockEmitter{})

	id, ed, err := svc.CreateForm(context.Background(), "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ed.AddField(domain.FieldKindText)
	ed.AddField(domain.FieldKindDropdown)

	if err := svc.SaveForm(context.Background(), id, ed.Document()); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := svc.OpenForm(id, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := ed.Document().Snapshot()
	got := reopened.Document().Snapshot()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("save/open round trip changed the snapshot:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestShareLink_RoundTrip(t *testing.T) {
	min := 2
	snap := &domain.Snapshot{
		FormName: "Contact",
		Fields: []domain.Field{
			{
				ID: "f1", Kind: domain.FieldKindText, Label: "Name", Required: true,
				Validation: domain.Validation{MinLength: &min, Pattern: `^\w+$`},
			},
			{
				ID: "f2", Kind: domain.FieldKindDropdown, Label: "Topic",
				Options: []domain.DropdownOption{{Label: "Sales", Value: "sales"}},
			},
		},
		Steps: []domain.Step{{ID: "s1", Name: "Step 1", FieldIDs: []string{"f1", "f2"}}},
	}

	link, err := service.EncodeShareLink(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := service.DecodeShareLink(link)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(snap, decoded) {
		t.Errorf("share link round trip changed the snapshot:\nwant %+v\ngot  %+v", snap, decoded)
	}
}

func TestFormService_ImportShareLink(t *testing.T) {
	store := newMemFormStore()
	svc := service.NewFormService(store, &memSubmissionStore{}, &service.MockEmitter{})

	snap := &domain.Snapshot{
		FormName: "Imported",
		Fields:   []domain.Field{{ID: "f1", Kind: domain.FieldKindText, Label: "Q1"}},
		Steps:    []domain.Step{{ID: "s1", Name: "Step 1", FieldIDs: []string{"f1"}}},
	}
	link, err := service.EncodeShareLink(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	id, err := svc.ImportShareLink(context.Background(), link)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	loaded, err := store.LoadForm(id)
	if err != nil {
		t.Fatalf("load imported: %v", err)
	}
	if loaded.FormName != "Imported" {
		t.Errorf("expected imported form, got %q", loaded.FormName)
	}
}

func TestFormService_ImportRejectsGarbage(t *testing.T) {
	svc := service.NewFormService(newMemFormStore(), &memSubmissionStore{}, &service.MockEmitter{})
	if _, err := svc.ImportShareLink(context.Background(), "%%%not-base64%%%"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidateSnapshot(t *testing.T) {
	valid := &domain.Snapshot{
		Fields: []domain.Field{{ID: "a", Kind: domain.FieldKindText}},
		Steps:  []domain.Step{{ID: "s", FieldIDs: []string{"a"}}},
	}
	if err := service.ValidateSnapshot(valid); err != nil {
		t.Errorf("valid snapshot rejected: %v", err)
	}

	unknownKind := &domain.Snapshot{Fields: []domain.Field{{ID: "a", Kind: "mystery"}}}
	if err := service.ValidateSnapshot(unknownKind); err == nil {
		t.Error("unknown field kind accepted")
	}

	danglingRef := &domain.Snapshot{
		Fields: []domain.Field{{ID: "a", Kind: domain.FieldKindText}},
		Steps:  []domain.Step{{ID: "s", FieldIDs: []string{"ghost"}}},
	}
	if err := service.ValidateSnapshot(danglingRef); err == nil {
		t.Error("dangling field reference accepted")
	}

	doubleClaim := &domain.Snapshot{
		Fields: []domain.Field{{ID: "a", Kind: domain.FieldKindText}},
		Steps: []domain.Step{
			{ID: "s1", FieldIDs: []string{"a"}},
			{ID: "s2", FieldIDs: []string{"a"}},
		},
	}
	if err := service.ValidateSnapshot(doubleClaim); err == nil {
		t.Error("field claimed by two steps accepted")
	}
}
