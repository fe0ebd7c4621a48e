package editor

import "formdesk/internal/domain"

// DefaultHistoryLimit bounds the number of undoable operations kept.
const DefaultHistoryLimit = 10

// History implements linear undo/redo over document snapshots. Every
// entry is an independent deep copy: mutating the live document never
// retroactively alters an archived state. Any new recorded mutation
// discards the redo branch.
type History struct {
	past   []*domain.Document
	future []*domain.Document
	limit  int
}

// NewHistory creates a history bounded to the given number of past
// entries. A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record archives the document's current state before a mutation is
// applied. The oldest entry is silently dropped once the bound is hit,
// and the redo stack is cleared.
func (h *History) Record(doc *domain.Document) {
	h.past = append(h.past, doc.Clone())
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.future = nil
}

// Undo restores doc from the most recent past entry, pushing the current
// state onto the redo stack. Selection is always cleared across a history
// jump: the selected field may not exist in the restored state.
func (h *History) Undo(doc *domain.Document) bool {
	if len(h.past) == 0 {
		return false
	}
	entry := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]

	h.future = append(h.future, doc.Clone())
	restore(doc, entry)
	return true
}

// Redo restores doc from the most recent future entry, pushing the
// current state back onto the past stack under the same bound as Record.
func (h *History) Redo(doc *domain.Document) bool {
	if len(h.future) == 0 {
		return false
	}
	entry := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]

	h.past = append(h.past, doc.Clone())
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	restore(doc, entry)
	return true
}

// PastLen returns the number of undoable entries.
func (h *History) PastLen() int { return len(h.past) }

// FutureLen returns the number of redoable entries.
func (h *History) FutureLen() int { return len(h.future) }

// restore copies the mutable document content from entry into doc.
// The entry is owned by the history and already isolated, so its slices
// can be handed over directly after the stack pop.
func restore(doc, entry *domain.Document) {
	doc.FormName = entry.FormName
	doc.Fields = entry.Fields
	doc.Steps = entry.Steps
	doc.ActiveStepID = entry.ActiveStepID
	doc.Theme = entry.Theme
	doc.SelectedFieldID = ""
}
