package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"formdesk/internal/domain"
)

// FormStore implements domain.FormStore using SQLite. Snapshots are
// stored as JSON so optional and unknown attributes survive round trips.
type FormStore struct {
	db *DB
}

func NewFormStore(db *DB) *FormStore {
	return &FormStore{db: db}
}

// SaveForm inserts or replaces the snapshot stored under id.
func (s *FormStore) SaveForm(id string, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	now := time.Now()
	_, err = s.db.conn.Exec(
		`INSERT INTO forms (id, name, snapshot_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			snapshot_json = excluded.snapshot_json,
			updated_at = excluded.updated_at`,
		id, snap.FormName, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("save form: %w", err)
	}
	return nil
}

// LoadForm returns the snapshot stored under id, or domain.ErrNotFound.
func (s *FormStore) LoadForm(id string) (*domain.Snapshot, error) {
	var raw string
	err := s.db.conn.QueryRow(
		`SELECT snapshot_json FROM forms WHERE id = ?`, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load form %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode form %s: %w", id, err)
	}
	return &snap, nil
}

// ListForms returns metadata for all saved forms, newest first.
func (s *FormStore) ListForms() ([]domain.FormMeta, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, snapshot_json, created_at, updated_at FROM forms ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []domain.FormMeta
	for rows.Next() {
		var m domain.FormMeta
		var raw string
		if err := rows.Scan(&m.ID, &m.Name, &raw, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			m.FieldCount = len(snap.Fields)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// DeleteForm removes the form and its submissions.
func (s *FormStore) DeleteForm(id string) error {
	if _, err := s.db.conn.Exec(`DELETE FROM submissions WHERE form_id = ?`, id); err != nil {
		return fmt.Errorf("delete form submissions: %w", err)
	}
	res, err := s.db.conn.Exec(`DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete form %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
