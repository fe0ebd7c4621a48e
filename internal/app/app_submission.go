package app

import (
	"formdesk/internal/domain"
	"formdesk/internal/validate"
)

// ============================================================
// Filler & responses
// ============================================================

// SubmitResult is what the filler gets back: the stored submission on
// success, or per-field errors to render next to the inputs.
type SubmitResult struct {
	Submission  *domain.Submission        `json:"submission,omitempty"`
	FieldErrors map[string]validate.Error `json:"fieldErrors,omitempty"`
}

// PublishedForm returns the snapshot the filler preview renders.
func (a *App) PublishedForm(formID string) (*domain.Snapshot, error) {
	return a.submissions.PublishedForm(formID)
}

// SubmitResponse validates and stores a filler response.
func (a *App) SubmitResponse(formID string, values map[string]string) (*SubmitResult, error) {
	sub, fieldErrs, err := a.submissions.SubmitResponse(a.ctx, formID, values)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Submission: sub, FieldErrors: fieldErrs}, nil
}

// ListResponses returns every stored submission for the form.
func (a *App) ListResponses(formID string) ([]domain.Submission, error) {
	return a.submissions.ListResponses(formID)
}

// CountResponses returns the number of stored submissions for the form.
func (a *App) CountResponses(formID string) (int, error) {
	return a.submissions.CountResponses(formID)
}

// ValidateFieldValue runs the builder-preview validation for one field of
// the open form, so the frontend shows errors as the user types.
func (a *App) ValidateFieldValue(fieldID, value string) (*validate.Error, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	f := s.Document().FieldByID(fieldID)
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return validate.Field(*f, value), nil
}
