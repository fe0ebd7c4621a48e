package domain

import "github.com/google/uuid"

// Step is an ordered group of fields shown together as one page of a
// multi-step form. FieldIDs reference fields in the document; every
// field id lives in at most one step's list.
type Step struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	FieldIDs []string `json:"fieldIds"`
}

// NewStep creates an empty step with a fresh id.
func NewStep(name string) Step {
	return Step{
		ID:       uuid.New().String(),
		Name:     name,
		FieldIDs: []string{},
	}
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := s
	out.FieldIDs = make([]string, len(s.FieldIDs))
	copy(out.FieldIDs, s.FieldIDs)
	return out
}

// Contains reports whether the step references the given field id.
func (s Step) Contains(fieldID string) bool {
	for _, id := range s.FieldIDs {
		if id == fieldID {
			return true
		}
	}
	return false
}

// Remove deletes fieldID from the step's list if present.
func (s *Step) Remove(fieldID string) {
	for i, id := range s.FieldIDs {
		if id == fieldID {
			s.FieldIDs = append(s.FieldIDs[:i], s.FieldIDs[i+1:]...)
			return
		}
	}
}
