package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"formdesk/internal/domain"
)

// SubmissionStore implements domain.SubmissionStore using SQLite.
type SubmissionStore struct {
	db *DB
}

func NewSubmissionStore(db *DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) CreateSubmission(sub *domain.Submission) error {
	sub.CreatedAt = time.Now()
	data, err := json.Marshal(sub.Values)
	if err != nil {
		return fmt.Errorf("marshal submission values: %w", err)
	}
	_, err = s.db.conn.Exec(
		`INSERT INTO submissions (id, form_id, values_json, created_at) VALUES (?, ?, ?, ?)`,
		sub.ID, sub.FormID, string(data), sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) ListSubmissions(formID string) ([]domain.Submission, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, form_id, values_json, created_at FROM submissions
		 WHERE form_id = ? ORDER BY created_at ASC`, formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		var raw string
		if err := rows.Scan(&sub.ID, &sub.FormID, &raw, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &sub.Values); err != nil {
			return nil, fmt.Errorf("decode submission %s: %w", sub.ID, err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *SubmissionStore) CountSubmissions(formID string) (int, error) {
	var n int
	err := s.db.conn.QueryRow(
		`SELECT COUNT(*) FROM submissions WHERE form_id = ?`, formID,
	).Scan(&n)
	return n, err
}

func (s *SubmissionStore) DeleteSubmissionsByForm(formID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM submissions WHERE form_id = ?`, formID)
	return err
}
