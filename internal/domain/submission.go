package domain

import "time"

// Submission is one filler response to a published form. Values maps
// field id to the submitted string value: checkboxes serialize as the
// literal strings "true"/"false", file uploads as the selected file's
// name only (no binary content is captured).
type Submission struct {
	ID        string            `json:"id"`
	FormID    string            `json:"formId"`
	Values    map[string]string `json:"values"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SubmissionStore manages stored filler responses.
type SubmissionStore interface {
	CreateSubmission(sub *Submission) error
	ListSubmissions(formID string) ([]Submission, error)
	CountSubmissions(formID string) (int, error)
	DeleteSubmissionsByForm(formID string) error
}
