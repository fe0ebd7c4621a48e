package app

import (
	"formdesk/internal/dbclient"
	"formdesk/internal/domain"
	"formdesk/internal/service"
)

// ============================================================
// Submission export
// ============================================================

// ExportTargetView is the frontend-safe view of a target (no password).
type ExportTargetView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	SSLMode  string `json:"sslMode"`
	FormID   string `json:"formId"`
	Schedule string `json:"schedule"`
}

func targetView(t *domain.ExportTarget) ExportTargetView {
	return ExportTargetView{
		ID: t.ID, Name: t.Name, Driver: string(t.Driver),
		Host: t.Host, Port: t.Port, Database: t.Database,
		Username: t.Username, SSLMode: t.SSLMode,
		FormID: t.FormID, Schedule: t.Schedule,
	}
}

// ListExportTargets returns every configured export target.
func (a *App) ListExportTargets() ([]ExportTargetView, error) {
	targets, err := a.exports.ListTargets()
	if err != nil {
		return nil, err
	}
	views := make([]ExportTargetView, len(targets))
	for i := range targets {
		views[i] = targetView(&targets[i])
	}
	return views, nil
}

// CreateExportTarget stores a new target; the password goes to the
// system keychain, never to SQLite.
func (a *App) CreateExportTarget(input service.CreateExportTargetInput, password string) (*ExportTargetView, error) {
	t, err := a.exports.CreateTarget(input, password)
	if err != nil {
		return nil, err
	}
	v := targetView(t)
	return &v, nil
}

// DeleteExportTarget removes the target and its stored password.
func (a *App) DeleteExportTarget(id string) error {
	return a.exports.DeleteTarget(id)
}

// TestExportTarget opens a connection to the target and pings it.
func (a *App) TestExportTarget(id string) error {
	return a.exports.TestTarget(a.ctx, id)
}

// RunExport pushes the target form's submissions to its database now.
func (a *App) RunExport(targetID string) (*dbclient.ExportResult, error) {
	return a.exports.RunExport(a.ctx, targetID)
}
