package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"formdesk/internal/domain"
	"formdesk/internal/validate"
)

// ─────────────────────────────────────────────────────────────
// Submission Service — filler responses for published forms
// ─────────────────────────────────────────────────────────────

// SubmissionService validates and records filler responses. It runs the
// same predicate set the builder preview uses; a submission with any
// failing field is rejected wholesale.
type SubmissionService struct {
	forms   domain.FormStore
	store   domain.SubmissionStore
	emitter EventEmitter
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(forms domain.FormStore, store domain.SubmissionStore, emitter EventEmitter) *SubmissionService {
	return &SubmissionService{forms: forms, store: store, emitter: emitter}
}

// PublishedForm returns the snapshot the public filler renders.
func (s *SubmissionService) PublishedForm(formID string) (*domain.Snapshot, error) {
	return s.forms.LoadForm(formID)
}

// SubmitResponse validates values against the form and stores the
// submission when everything passes. Field errors are data, not an
// error return: the filler shows them next to the inputs.
func (s *SubmissionService) SubmitResponse(ctx context.Context, formID string, values map[string]string) (*domain.Submission, map[string]validate.Error, error) {
	snap, err := s.forms.LoadForm(formID)
	if err != nil {
		return nil, nil, err
	}

	if fieldErrs := validate.Submission(snap.Fields, values); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	sub := &domain.Submission{
		ID:     uuid.New().String(),
		FormID: formID,
		Values: values,
	}
	if err := s.store.CreateSubmission(sub); err != nil {
		return nil, nil, fmt.Errorf("store submission: %w", err)
	}
	s.emitter.Emit(ctx, "submissions:new", map[string]string{
		"formId":       formID,
		"submissionId": sub.ID,
	})
	return sub, nil, nil
}

// ListResponses returns every stored submission for the form.
func (s *SubmissionService) ListResponses(formID string) ([]domain.Submission, error) {
	return s.store.ListSubmissions(formID)
}

// CountResponses returns the number of stored submissions.
func (s *SubmissionService) CountResponses(formID string) (int, error) {
	return s.store.CountSubmissions(formID)
}
