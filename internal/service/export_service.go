package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"formdesk/internal/dbclient"
	"formdesk/internal/domain"
	"formdesk/internal/secret"
)

// ─────────────────────────────────────────────────────────────
// Export Service — submissions → external databases
// ─────────────────────────────────────────────────────────────

// ExportService manages export targets and pushes a form's submissions
// to external databases, either on demand or on a cron schedule.
// Passwords go to the SecretStore, never to SQLite.
type ExportService struct {
	targets domain.ExportTargetStore
	forms   domain.FormStore
	subs    domain.SubmissionStore
	secrets secret.SecretStore
	emitter EventEmitter

	runningExports runningJobsGuard

	// newExporter is swappable in tests.
	newExporter func(*domain.ExportTarget, string) (dbclient.Exporter, error)

	cronSched *cron.Cron
}

// NewExportService creates an ExportService ready for use.
func NewExportService(
	targets domain.ExportTargetStore,
	forms domain.FormStore,
	subs domain.SubmissionStore,
	secrets secret.SecretStore,
	emitter EventEmitter,
) *ExportService {
	return &ExportService{
		targets:     targets,
		forms:       forms,
		subs:        subs,
		secrets:     secrets,
		emitter:     emitter,
		newExporter: dbclient.NewExporter,
	}
}

// SetExporterFactory overrides how exporters are built, so tests can
// substitute a recording fake for a real database connection.
func (s *ExportService) SetExporterFactory(fn func(*domain.ExportTarget, string) (dbclient.Exporter, error)) {
	s.newExporter = fn
}

// ── Target CRUD ────────────────────────────────────────────

// CreateExportTargetInput is the payload for creating or updating a target.
type CreateExportTargetInput struct {
	Name     string              `json:"name"`
	Driver   domain.ExportDriver `json:"driver"`
	Host     string              `json:"host"`
	Port     int                 `json:"port"`
	Database string              `json:"database"`
	Username string              `json:"username"`
	SSLMode  string              `json:"sslMode"`
	FormID   string              `json:"formId"`
	Schedule string              `json:"schedule"`
}

// CreateTarget stores a new export target. A non-empty schedule must be
// a valid cron expression.
func (s *ExportService) CreateTarget(input CreateExportTargetInput, password string) (*domain.ExportTarget, error) {
	if input.Schedule != "" {
		if _, err := cron.ParseStandard(input.Schedule); err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", input.Schedule, err)
		}
	}
	t := &domain.ExportTarget{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Driver:   input.Driver,
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
		FormID:   input.FormID,
		Schedule: input.Schedule,
	}
	if err := s.targets.CreateTarget(t); err != nil {
		return nil, err
	}
	if password != "" {
		if err := s.secrets.Set(secretKey(t.ID), []byte(password)); err != nil {
			return nil, fmt.Errorf("store target password: %w", err)
		}
	}
	return t, nil
}

// ListTargets returns every configured export target.
func (s *ExportService) ListTargets() ([]domain.ExportTarget, error) {
	return s.targets.ListTargets()
}

// DeleteTarget removes the target and its stored password.
func (s *ExportService) DeleteTarget(id string) error {
	if err := s.targets.DeleteTarget(id); err != nil {
		return err
	}
	return s.secrets.Delete(secretKey(id))
}

// TestTarget opens a connection to the target and pings it.
func (s *ExportService) TestTarget(ctx context.Context, id string) error {
	target, err := s.targets.GetTarget(id)
	if err != nil {
		return err
	}
	password, _ := s.secrets.Get(secretKey(id))
	exp, err := s.newExporter(target, string(password))
	if err != nil {
		return err
	}
	defer exp.Close()
	return exp.Ping(ctx)
}

// ── Export runs ────────────────────────────────────────────

// RunExport pushes all submissions of the target's form to the external
// database. Concurrent runs of the same target are rejected.
func (s *ExportService) RunExport(ctx context.Context, targetID string) (*dbclient.ExportResult, error) {
	target, err := s.targets.GetTarget(targetID)
	if err != nil {
		return nil, err
	}
	if !s.runningExports.TryLock(targetID) {
		return nil, fmt.Errorf("export %s already running", target.Name)
	}
	defer s.runningExports.Unlock(targetID)

	form, err := s.forms.LoadForm(target.FormID)
	if err != nil {
		return nil, fmt.Errorf("load form for export: %w", err)
	}
	subs, err := s.subs.ListSubmissions(target.FormID)
	if err != nil {
		return nil, fmt.Errorf("load submissions for export: %w", err)
	}

	password, _ := s.secrets.Get(secretKey(targetID))
	exp, err := s.newExporter(target, string(password))
	if err != nil {
		return nil, err
	}
	defer exp.Close()

	result, err := exp.Export(ctx, form, subs)
	if err != nil {
		return nil, fmt.Errorf("export to %s: %w", target.Name, err)
	}

	s.emitter.Emit(ctx, "export:completed", map[string]any{
		"targetId": targetID,
		"table":    result.Table,
		"exported": result.Exported,
	})
	return result, nil
}

// StartSchedules registers a cron entry for every target with a
// schedule. Invalid expressions are logged and skipped.
func (s *ExportService) StartSchedules(ctx context.Context) {
	targets, err := s.targets.ListTargets()
	if err != nil {
		log.Printf("export cron: list targets: %v", err)
		return
	}

	c := cron.New()
	scheduled := 0
	for _, t := range targets {
		if t.Schedule == "" {
			continue
		}
		tid := t.ID
		if _, err := c.AddFunc(t.Schedule, func() {
			log.Printf("export cron: running target %s", tid)
			if _, err := s.RunExport(ctx, tid); err != nil {
				log.Printf("export cron: target %s failed: %v", tid, err)
			}
		}); err != nil {
			log.Printf("export cron: invalid expression %q for target %s: %v", t.Schedule, t.ID, err)
			continue
		}
		scheduled++
	}
	if scheduled == 0 {
		return
	}
	c.Start()
	s.cronSched = c
	log.Printf("export cron: scheduled %d target(s)", scheduled)
}

// StopSchedules stops the cron scheduler and waits for running exports.
func (s *ExportService) StopSchedules(ctx context.Context) {
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
	s.runningExports.WaitAll(ctx)
}

func secretKey(targetID string) string {
	return "export:" + targetID
}
