package service_test

import (
	"path/filepath"
	"testing"

	"formdesk/internal/domain"
	"formdesk/internal/service"
	"formdesk/internal/storage"
)

func settingsFixture(t *testing.T) *service.SettingsService {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "formdesk.db"), dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return service.NewSettingsService(db)
}

func TestSettings_ThemeRoundTrip(t *testing.T) {
	svc := settingsFixture(t)

	if got := svc.LoadTheme(); got != domain.ThemeLight {
		t.Errorf("default theme = %q, want light", got)
	}
	if err := svc.SaveTheme(domain.ThemeDark); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if got := svc.LoadTheme(); got != domain.ThemeDark {
		t.Errorf("theme after save = %q, want dark", got)
	}
}

func TestSettings_WindowSize(t *testing.T) {
	svc := settingsFixture(t)

	def := svc.LoadWindowSize()
	if def.Width != 1280 || def.Height != 800 {
		t.Errorf("default size = %+v", def)
	}

	if err := svc.SaveWindowSize(1600, 1000); err != nil {
		t.Fatalf("save size: %v", err)
	}
	if got := svc.LoadWindowSize(); got.Width != 1600 || got.Height != 1000 {
		t.Errorf("size after save = %+v", got)
	}

	// Sizes below the window minimum fall back to the defaults.
	if err := svc.SaveWindowSize(100, 100); err != nil {
		t.Fatalf("save tiny size: %v", err)
	}
	if got := svc.LoadWindowSize(); got.Width != 1280 || got.Height != 800 {
		t.Errorf("tiny size not clamped: %+v", got)
	}
}
