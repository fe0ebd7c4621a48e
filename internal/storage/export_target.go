package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"formdesk/internal/domain"
)

// ExportTargetStore implements domain.ExportTargetStore using SQLite.
// Passwords never touch this table; they live in the SecretStore.
type ExportTargetStore struct {
	db *DB
}

func NewExportTargetStore(db *DB) *ExportTargetStore {
	return &ExportTargetStore{db: db}
}

func (s *ExportTargetStore) CreateTarget(t *domain.ExportTarget) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO export_targets
		 (id, name, driver, host, port, database_name, username, ssl_mode, form_id, schedule, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Driver, t.Host, t.Port, t.Database, t.Username, t.SSLMode,
		t.FormID, t.Schedule, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create export target: %w", err)
	}
	return nil
}

func (s *ExportTargetStore) GetTarget(id string) (*domain.ExportTarget, error) {
	t := &domain.ExportTarget{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, form_id, schedule, created_at, updated_at
		 FROM export_targets WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Driver, &t.Host, &t.Port, &t.Database, &t.Username,
		&t.SSLMode, &t.FormID, &t.Schedule, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get export target %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get export target: %w", err)
	}
	return t, nil
}

func (s *ExportTargetStore) ListTargets() ([]domain.ExportTarget, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, form_id, schedule, created_at, updated_at
		 FROM export_targets ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []domain.ExportTarget
	for rows.Next() {
		var t domain.ExportTarget
		if err := rows.Scan(&t.ID, &t.Name, &t.Driver, &t.Host, &t.Port, &t.Database,
			&t.Username, &t.SSLMode, &t.FormID, &t.Schedule, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func (s *ExportTargetStore) UpdateTarget(t *domain.ExportTarget) error {
	t.UpdatedAt = time.Now()
	res, err := s.db.conn.Exec(
		`UPDATE export_targets SET name = ?, driver = ?, host = ?, port = ?, database_name = ?,
		 username = ?, ssl_mode = ?, form_id = ?, schedule = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Driver, t.Host, t.Port, t.Database, t.Username, t.SSLMode,
		t.FormID, t.Schedule, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update export target: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update export target %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *ExportTargetStore) DeleteTarget(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM export_targets WHERE id = ?`, id)
	return err
}
