package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"formdesk/internal/dbclient"
	"formdesk/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// In-memory fakes for the domain store interfaces
// ─────────────────────────────────────────────────────────────

// memFormStore is locked because the import watcher hits it from its
// own goroutine.
type memFormStore struct {
	mu    sync.Mutex
	forms map[string]domain.Snapshot
}

func newMemFormStore() *memFormStore {
	return &memFormStore{forms: map[string]domain.Snapshot{}}
}

func (m *memFormStore) SaveForm(id string, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[id] = snap
	return nil
}

func (m *memFormStore) LoadForm(id string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.forms[id]
	if !ok {
		return nil, fmt.Errorf("load form %s: %w", id, domain.ErrNotFound)
	}
	return &snap, nil
}

func (m *memFormStore) ListForms() ([]domain.FormMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var metas []domain.FormMeta
	for id, snap := range m.forms {
		metas = append(metas, domain.FormMeta{ID: id, Name: snap.FormName, FieldCount: len(snap.Fields)})
	}
	return metas, nil
}

func (m *memFormStore) DeleteForm(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return fmt.Errorf("delete form %s: %w", id, domain.ErrNotFound)
	}
	delete(m.forms, id)
	return nil
}

type memSubmissionStore struct {
	subs []domain.Submission
}

func (m *memSubmissionStore) CreateSubmission(sub *domain.Submission) error {
	sub.CreatedAt = time.Now()
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *memSubmissionStore) ListSubmissions(formID string) ([]domain.Submission, error) {
	var out []domain.Submission
	for _, s := range m.subs {
		if s.FormID == formID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSubmissionStore) CountSubmissions(formID string) (int, error) {
	subs, _ := m.ListSubmissions(formID)
	return len(subs), nil
}

func (m *memSubmissionStore) DeleteSubmissionsByForm(formID string) error {
	var kept []domain.Submission
	for _, s := range m.subs {
		if s.FormID != formID {
			kept = append(kept, s)
		}
	}
	m.subs = kept
	return nil
}

type memTargetStore struct {
	targets map[string]domain.ExportTarget
}

func newMemTargetStore() *memTargetStore {
	return &memTargetStore{targets: map[string]domain.ExportTarget{}}
}

func (m *memTargetStore) CreateTarget(t *domain.ExportTarget) error {
	m.targets[t.ID] = *t
	return nil
}

func (m *memTargetStore) GetTarget(id string) (*domain.ExportTarget, error) {
	t, ok := m.targets[id]
	if !ok {
		return nil, fmt.Errorf("get target %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

func (m *memTargetStore) ListTargets() ([]domain.ExportTarget, error) {
	var out []domain.ExportTarget
	for _, t := range m.targets {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTargetStore) UpdateTarget(t *domain.ExportTarget) error {
	if _, ok := m.targets[t.ID]; !ok {
		return domain.ErrNotFound
	}
	m.targets[t.ID] = *t
	return nil
}

func (m *memTargetStore) DeleteTarget(id string) error {
	delete(m.targets, id)
	return nil
}

type memSecretStore struct {
	secrets map[string][]byte
}

func newMemSecretStore() *memSecretStore {
	return &memSecretStore{secrets: map[string][]byte{}}
}

func (m *memSecretStore) Set(key string, value []byte) error {
	m.secrets[key] = value
	return nil
}

func (m *memSecretStore) Get(key string) ([]byte, error) {
	return m.secrets[key], nil
}

func (m *memSecretStore) Delete(key string) error {
	delete(m.secrets, key)
	return nil
}

// fakeExporter records exported submissions instead of dialing a database.
type fakeExporter struct {
	pinged   bool
	exported []domain.Submission
	password string
	closed   bool
}

func (f *fakeExporter) Ping(ctx context.Context) error { f.pinged = true; return nil }

func (f *fakeExporter) Export(ctx context.Context, form *domain.Snapshot, subs []domain.Submission) (*dbclient.ExportResult, error) {
	f.exported = append(f.exported, subs...)
	return &dbclient.ExportResult{Table: "fake", Exported: len(subs)}, nil
}

func (f *fakeExporter) Close() error { f.closed = true; return nil }
