package app

import (
	"formdesk/internal/domain"
	"formdesk/internal/service"
)

// ============================================================
// Preferences
// ============================================================

// Theme returns the saved theme preference.
func (a *App) Theme() string {
	return string(a.settings.LoadTheme())
}

// SaveTheme persists the theme preference outside of a builder session
// (the session's ToggleTheme already saves it).
func (a *App) SaveTheme(theme string) error {
	return a.settings.SaveTheme(domain.Theme(theme))
}

// WindowSize returns the saved window dimensions.
func (a *App) WindowSize() service.WindowSize {
	return a.settings.LoadWindowSize()
}
