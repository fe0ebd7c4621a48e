package service_test

import (
	"context"
	"testing"

	"formdesk/internal/dbclient"
	"formdesk/internal/domain"
	"formdesk/internal/service"
)

// ─────────────────────────────────────────────────────────────
// ExportService tests
// ─────────────────────────────────────────────────────────────

func newExportFixture(t *testing.T) (*service.ExportService, *memTargetStore, *memSecretStore, *fakeExporter, *service.MockEmitter) {
	t.Helper()
	forms := newMemFormStore()
	if err := forms.SaveForm("form-1", domain.Snapshot{
		FormName: "Survey",
		Fields:   []domain.Field{{ID: "q1", Kind: domain.FieldKindText, Label: "Question"}},
		Steps:    []domain.Step{{ID: "s1", Name: "Step 1", FieldIDs: []string{"q1"}}},
	}); err != nil {
		t.Fatalf("seed form: %v", err)
	}
	subs := &memSubmissionStore{}
	for _, v := range []string{"one", "two"} {
		subs.CreateSubmission(&domain.Submission{ID: "sub-" + v, FormID: "form-1", Values: map[string]string{"q1": v}})
	}

	targets := newMemTargetStore()
	secrets := newMemSecretStore()
	emitter := &service.MockEmitter{}
	svc := service.NewExportService(targets, forms, subs, secrets, emitter)

	exp := &fakeExporter{}
	svc.SetExporterFactory(func(_ *domain.ExportTarget, password string) (dbclient.Exporter, error) {
		exp.password = password
		return exp, nil
	})
	return svc, targets, secrets, exp, emitter
}

func TestCreateTarget_StoresPasswordInSecrets(t *testing.T) {
	svc, targets, secrets, _, _ := newExportFixture(t)

	target, err := svc.CreateTarget(service.CreateExportTargetInput{
		Name:     "warehouse",
		Driver:   domain.ExportDriverPostgres,
		Host:     "db.internal",
		Port:     5432,
		Database: "analytics",
		Username: "etl",
		FormID:   "form-1",
	}, "hunter2")
	if err != nil {
		t.Fatalf("create target: %v", err)
	}
	if _, err := targets.GetTarget(target.ID); err != nil {
		t.Fatalf("target not persisted: %v", err)
	}
	pw, _ := secrets.Get("export:" + target.ID)
	if string(pw) != "hunter2" {
		t.Errorf("password not in secret store, got %q", pw)
	}
}

func TestCreateTarget_RejectsBadSchedule(t *testing.T) {
	svc, _, _, _, _ := newExportFixture(t)
	_, err := svc.CreateTarget(service.CreateExportTargetInput{
		Name:     "bad",
		Driver:   domain.ExportDriverMySQL,
		FormID:   "form-1",
		Schedule: "not a cron line",
	}, "")
	if err == nil {
		t.Fatal("expected schedule validation error")
	}
}

func TestRunExport_PushesSubmissions(t *testing.T) {
	svc, _, _, exp, emitter := newExportFixture(t)
	target, err := svc.CreateTarget(service.CreateExportTargetInput{
		Name:   "warehouse",
		Driver: domain.ExportDriverMySQL,
		FormID: "form-1",
	}, "s3cret")
	if err != nil {
		t.Fatalf("create target: %v", err)
	}

	result, err := svc.RunExport(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("run export: %v", err)
	}
	if result.Exported != 2 {
		t.Errorf("exported = %d, want 2", result.Exported)
	}
	if len(exp.exported) != 2 {
		t.Errorf("exporter saw %d submissions, want 2", len(exp.exported))
	}
	if exp.password != "s3cret" {
		t.Errorf("exporter got password %q, want the stored secret", exp.password)
	}
	if !exp.closed {
		t.Error("exporter must be closed after the run")
	}

	var sawCompleted bool
	for _, ev := range emitter.Events {
		if ev.Event == "export:completed" {
			sawCompleted = true
		}
	}
	if !sawCompleted {
		t.Error("expected export:completed event")
	}
}

func TestRunExport_UnknownTarget(t *testing.T) {
	svc, _, _, _, _ := newExportFixture(t)
	if _, err := svc.RunExport(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestTestTarget_Pings(t *testing.T) {
	svc, _, _, exp, _ := newExportFixture(t)
	target, err := svc.CreateTarget(service.CreateExportTargetInput{
		Name:   "warehouse",
		Driver: domain.ExportDriverMongoDB,
		FormID: "form-1",
	}, "")
	if err != nil {
		t.Fatalf("create target: %v", err)
	}
	if err := svc.TestTarget(context.Background(), target.ID); err != nil {
		t.Fatalf("test target: %v", err)
	}
	if !exp.pinged {
		t.Error("expected Ping on the exporter")
	}
	if !exp.closed {
		t.Error("exporter must be closed after the test")
	}
}

func TestDeleteTarget_RemovesSecret(t *testing.T) {
	svc, targets, secrets, _, _ := newExportFixture(t)
	target, err := svc.CreateTarget(service.CreateExportTargetInput{
		Name:   "warehouse",
		Driver: domain.ExportDriverSQLite,
		FormID: "form-1",
	}, "topsecret")
	if err != nil {
		t.Fatalf("create target: %v", err)
	}

	if err := svc.DeleteTarget(target.ID); err != nil {
		t.Fatalf("delete target: %v", err)
	}
	if _, err := targets.GetTarget(target.ID); err == nil {
		t.Error("target still present after delete")
	}
	if pw, _ := secrets.Get("export:" + target.ID); len(pw) != 0 {
		t.Error("password still present after delete")
	}
}
