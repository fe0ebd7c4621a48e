package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"formdesk/internal/domain"
	"formdesk/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// Form Service — business logic for saved forms
// ─────────────────────────────────────────────────────────────

// FormService manages the catalog of saved forms: creating, opening,
// saving, deleting, and exchanging them as share links or dropped files.
// The editor session itself lives in the app layer; this service only
// crosses the persistence boundary.
type FormService struct {
	store   domain.FormStore
	subs    domain.SubmissionStore
	emitter EventEmitter
}

// NewFormService creates a FormService.
func NewFormService(store domain.FormStore, subs domain.SubmissionStore, emitter EventEmitter) *FormService {
	return &FormService{store: store, subs: subs, emitter: emitter}
}

// ListForms returns metadata for every saved form.
func (s *FormService) ListForms() ([]domain.FormMeta, error) {
	return s.store.ListForms()
}

// CreateForm persists a fresh empty form and returns its id together
// with an editor session over it.
func (s *FormService) CreateForm(ctx context.Context, name string, theme domain.Theme) (string, *editor.Store, error) {
	if name == "" {
		name = domain.DefaultFormName
	}
	id := uuid.New().String()

	store := editor.NewStore()
	store.Document().FormName = name
	if theme != "" {
		store.Document().Theme = theme
	}

	if err := s.store.SaveForm(id, store.Document().Snapshot()); err != nil {
		return "", nil, fmt.Errorf("create form: %w", err)
	}
	s.emitter.Emit(ctx, "forms:changed", id)
	return id, store, nil
}

// OpenForm loads the saved snapshot and returns an editor session over it.
func (s *FormService) OpenForm(id string, theme domain.Theme) (*editor.Store, error) {
	snap, err := s.store.LoadForm(id)
	if err != nil {
		return nil, err
	}
	return editor.NewStoreFromSnapshot(*snap, theme), nil
}

// Snapshot returns the saved snapshot for id.
func (s *FormService) Snapshot(id string) (*domain.Snapshot, error) {
	return s.store.LoadForm(id)
}

// SaveForm persists the document's current snapshot under id. The
// in-memory document stays authoritative: a failed save leaves the
// editing session untouched and is surfaced to the caller.
func (s *FormService) SaveForm(ctx context.Context, id string, doc *domain.Document) error {
	if err := s.store.SaveForm(id, doc.Snapshot()); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "forms:changed", id)
	return nil
}

// DeleteForm removes the form and everything stored under it.
func (s *FormService) DeleteForm(ctx context.Context, id string) error {
	if err := s.store.DeleteForm(id); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "forms:changed", id)
	return nil
}

// ── Share links ────────────────────────────────────────────

// ShareLink encodes the form's snapshot as a URL-safe base64 string.
func (s *FormService) ShareLink(id string) (string, error) {
	snap, err := s.store.LoadForm(id)
	if err != nil {
		return "", err
	}
	return EncodeShareLink(snap)
}

// ImportShareLink decodes a share link and saves its snapshot as a new
// form, returning the new form id.
func (s *FormService) ImportShareLink(ctx context.Context, encoded string) (string, error) {
	snap, err := DecodeShareLink(encoded)
	if err != nil {
		return "", err
	}
	return s.importSnapshot(ctx, snap)
}

// ImportSnapshotFile reads a dropped *.form.json file and saves it as a
// new form.
func (s *FormService) ImportSnapshotFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read form file: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return "", fmt.Errorf("decode form file %s: %w", filepath.Base(path), err)
	}
	return s.importSnapshot(ctx, &snap)
}

func (s *FormService) importSnapshot(ctx context.Context, snap *domain.Snapshot) (string, error) {
	if err := ValidateSnapshot(snap); err != nil {
		return "", err
	}
	id := uuid.New().String()
	if err := s.store.SaveForm(id, *snap); err != nil {
		return "", fmt.Errorf("import form: %w", err)
	}
	s.emitter.Emit(ctx, "forms:changed", id)
	return id, nil
}

// EncodeShareLink serializes a snapshot to its URL-safe base64 wire form.
func EncodeShareLink(snap *domain.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode share link: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeShareLink parses a share link back into a snapshot.
func DecodeShareLink(encoded string) (*domain.Snapshot, error) {
	data, err := base64.URLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode share link: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode share link payload: %w", err)
	}
	return &snap, nil
}

// ValidateSnapshot rejects imported documents that break referential
// integrity: unknown field kinds, steps referencing missing fields, or a
// field claimed by two steps.
func ValidateSnapshot(snap *domain.Snapshot) error {
	fields := make(map[string]bool, len(snap.Fields))
	for _, f := range snap.Fields {
		if !domain.KnownFieldKind(f.Kind) {
			return fmt.Errorf("import: unknown field kind %q", f.Kind)
		}
		if fields[f.ID] {
			return fmt.Errorf("import: duplicate field id %s", f.ID)
		}
		fields[f.ID] = true
	}
	owned := make(map[string]string)
	for _, step := range snap.Steps {
		for _, fid := range step.FieldIDs {
			if !fields[fid] {
				return fmt.Errorf("import: step %s references missing field %s", step.ID, fid)
			}
			if prev, ok := owned[fid]; ok {
				return fmt.Errorf("import: field %s claimed by steps %s and %s", fid, prev, step.ID)
			}
			owned[fid] = step.ID
		}
	}
	return nil
}
