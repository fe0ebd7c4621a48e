package app

import (
	"fmt"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"formdesk/internal/domain"
	"formdesk/internal/editor"
)

// ============================================================
// Builder session
// ============================================================

// EditorState is what every builder mutation returns: the document after
// the change plus the undo/redo button states.
type EditorState struct {
	Document *domain.Document `json:"document"`
	CanUndo  bool             `json:"canUndo"`
	CanRedo  bool             `json:"canRedo"`
}

func (a *App) state() *EditorState {
	return &EditorState{
		Document: a.session.Document(),
		CanUndo:  a.session.CanUndo(),
		CanRedo:  a.session.CanRedo(),
	}
}

func (a *App) requireSession() (*editor.Store, error) {
	if a.session == nil {
		return nil, fmt.Errorf("no form open in the builder")
	}
	return a.session, nil
}

// persistSession saves the open form after a mutation. A failed save
// never rolls back the in-memory document; it is logged and the session
// stays authoritative.
func (a *App) persistSession() {
	if a.session == nil || a.sessionFormID == "" {
		return
	}
	if err := a.forms.SaveForm(a.ctx, a.sessionFormID, a.session.Document()); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "autosave form %s: %v", a.sessionFormID, err)
	}
}

// EditorDocument returns the current builder state without mutating it.
func (a *App) EditorDocument() (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	return a.state(), nil
}

// ── Fields ─────────────────────────────────────────────────

func (a *App) AddField(kind string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	k := domain.FieldKind(kind)
	if !domain.KnownFieldKind(k) {
		return nil, fmt.Errorf("unknown field kind %q", kind)
	}
	s.AddField(k)
	a.persistSession()
	return a.state(), nil
}

func (a *App) UpdateField(fieldID string, patch domain.FieldPatch) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.UpdateField(fieldID, patch); err != nil {
		return nil, err
	}
	a.persistSession()
	return a.state(), nil
}

func (a *App) RemoveField(fieldID string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.RemoveField(fieldID); err != nil {
		return nil, err
	}
	a.persistSession()
	return a.state(), nil
}

func (a *App) ReorderFields(fromIndex, toIndex int) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.ReorderFields(fromIndex, toIndex); err != nil {
		return nil, err
	}
	a.persistSession()
	return a.state(), nil
}

// ── Steps ──────────────────────────────────────────────────

func (a *App) AddStep() (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	s.AddStep()
	a.persistSession()
	return a.state(), nil
}

func (a *App) UpdateStepName(stepID, name string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.UpdateStepName(stepID, name); err != nil {
		return nil, err
	}
	a.persistSession()
	return a.state(), nil
}

func (a *App) RemoveStep(stepID string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.RemoveStep(stepID); err != nil {
		return nil, err
	}
	a.persistSession()
	return a.state(), nil
}

func (a *App) MoveFieldToStep(fieldID, stepID string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.MoveFieldToStep(fieldID, stepID); err != nil {
		return nil, err
	}
	a.persistSession()
	return a.state(), nil
}

// ── View state (not undoable, not autosaved) ───────────────

func (a *App) SetActiveStep(stepID string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.SetActiveStep(stepID); err != nil {
		return nil, err
	}
	return a.state(), nil
}

func (a *App) SetSelectedField(fieldID string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if err := s.SetSelectedField(fieldID); err != nil {
		return nil, err
	}
	return a.state(), nil
}

func (a *App) ToggleTheme() (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	theme := s.ToggleTheme()
	if err := a.settings.SaveTheme(theme); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "save theme: %v", err)
	}
	return a.state(), nil
}

// ── Document-level ─────────────────────────────────────────

func (a *App) SetFormName(name string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	s.SetFormName(name)
	a.persistSession()
	return a.state(), nil
}

func (a *App) ClearForm() (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	s.ClearForm()
	a.persistSession()
	return a.state(), nil
}

// ── History ────────────────────────────────────────────────

func (a *App) Undo() (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if s.Undo() {
		a.persistSession()
	}
	return a.state(), nil
}

func (a *App) Redo() (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if s.Redo() {
		a.persistSession()
	}
	return a.state(), nil
}
