package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"formdesk/internal/domain"
)

// ============================================================
// Form catalog
// ============================================================

// ListForms returns metadata for every saved form.
func (a *App) ListForms() ([]domain.FormMeta, error) {
	return a.forms.ListForms()
}

// CreateForm persists a fresh form and opens it in the builder.
func (a *App) CreateForm(name string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, session, err := a.forms.CreateForm(a.ctx, name, a.settings.LoadTheme())
	if err != nil {
		return nil, err
	}
	a.session = session
	a.sessionFormID = id
	return a.state(), nil
}

// OpenForm loads a saved form into the builder, replacing any open session.
func (a *App) OpenForm(id string) (*EditorState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, err := a.forms.OpenForm(id, a.settings.LoadTheme())
	if err != nil {
		return nil, err
	}
	a.session = session
	a.sessionFormID = id
	return a.state(), nil
}

// OpenFormID returns the id of the form currently open in the builder.
func (a *App) OpenFormID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionFormID
}

// SaveForm persists the open session explicitly (autosave already runs
// after every mutation; this backs the manual save shortcut).
func (a *App) SaveForm() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.requireSession(); err != nil {
		return err
	}
	return a.forms.SaveForm(a.ctx, a.sessionFormID, a.session.Document())
}

// DeleteForm removes a form, its submissions, and closes the session if
// it was open.
func (a *App) DeleteForm(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.forms.DeleteForm(a.ctx, id); err != nil {
		return err
	}
	if a.sessionFormID == id {
		a.session = nil
		a.sessionFormID = ""
	}
	return nil
}

// ============================================================
// Sharing
// ============================================================

// ShareLink returns the form's snapshot as a URL-safe string.
func (a *App) ShareLink(id string) (string, error) {
	return a.forms.ShareLink(id)
}

// ImportShareLink imports a pasted share link as a new form.
func (a *App) ImportShareLink(encoded string) (string, error) {
	return a.forms.ImportShareLink(a.ctx, encoded)
}

// ExportFormFile writes the form snapshot to a *.form.json file picked
// by the user, the same format the shared-directory watcher imports.
func (a *App) ExportFormFile(id string) (string, error) {
	snap, err := a.forms.Snapshot(id)
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(snap.FormName)
	if name == "" {
		name = "form"
	}
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export Form",
		DefaultFilename: name + ".form.json",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Form Files", Pattern: "*.form.json"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode form file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	return path, nil
}

// ImportFormFile imports a *.form.json file picked by the user.
func (a *App) ImportFormFile() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Import Form",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Form Files", Pattern: "*.form.json;*.json"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}
	id, err := a.forms.ImportSnapshotFile(a.ctx, path)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	return id, nil
}
