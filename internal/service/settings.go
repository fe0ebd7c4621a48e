package service

import (
	"database/sql"
	"fmt"

	"formdesk/internal/domain"
	"formdesk/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// App Settings Persistence
// ─────────────────────────────────────────────────────────────
//
// Persists user preferences between sessions: the builder theme and the
// main window size. Stored in SQLite as key-value rows in app_settings.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsService persists app preferences between sessions.
type SettingsService struct {
	db *storage.DB
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(db *storage.DB) *SettingsService {
	return &SettingsService{db: db}
}

const (
	settingTheme        = "theme"
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
)

// LoadTheme returns the saved theme preference, defaulting to light.
func (s *SettingsService) LoadTheme() domain.Theme {
	if s.db == nil {
		return domain.ThemeLight
	}
	var v string
	s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingTheme).Scan(&v)
	if v == string(domain.ThemeDark) {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}

// SaveTheme persists the theme preference.
func (s *SettingsService) SaveTheme(theme domain.Theme) error {
	if s.db == nil {
		return fmt.Errorf("settings: no db")
	}
	return upsertSetting(s.db.Conn(), settingTheme, string(theme))
}

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *SettingsService) LoadWindowSize() WindowSize {
	if s.db == nil {
		return WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	}
	conn := s.db.Conn()
	w := defaultWindowWidth
	h := defaultWindowHeight
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowWidth).Scan(&w)
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowHeight).Scan(&h)

	if w < 800 {
		w = defaultWindowWidth
	}
	if h < 600 {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsService) SaveWindowSize(width, height int) error {
	if s.db == nil {
		return fmt.Errorf("settings: no db")
	}
	conn := s.db.Conn()
	if err := upsertSetting(conn, settingWindowWidth, fmt.Sprint(width)); err != nil {
		return err
	}
	return upsertSetting(conn, settingWindowHeight, fmt.Sprint(height))
}

func upsertSetting(conn *sql.DB, key, value string) error {
	_, err := conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
