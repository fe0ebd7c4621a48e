package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"formdesk/internal/editor"
	"formdesk/internal/secret"
	"formdesk/internal/service"
	"formdesk/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db      *storage.DB
	secrets secret.SecretStore

	forms       *service.FormService
	submissions *service.SubmissionService
	exports     *service.ExportService
	settings    *service.SettingsService
	watcher     *service.ImportWatcher

	// The builder edits exactly one form at a time.
	mu            sync.Mutex
	session       *editor.Store
	sessionFormID string
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Emit implements service.EventEmitter by forwarding to the Wails runtime.
func (a *App) Emit(ctx context.Context, event string, data any) {
	if a.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(a.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "formdesk")
	dbPath := filepath.Join(dataDir, "formdesk.db")

	db, err := storage.New(dbPath, dataDir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db
	a.secrets = secret.NewKeychainStore()

	formStore := storage.NewFormStore(db)
	subStore := storage.NewSubmissionStore(db)
	targetStore := storage.NewExportTargetStore(db)

	a.forms = service.NewFormService(formStore, subStore, a)
	a.submissions = service.NewSubmissionService(formStore, subStore, a)
	a.exports = service.NewExportService(targetStore, formStore, subStore, a.secrets, a)
	a.settings = service.NewSettingsService(db)

	// Forms dropped into the shared directory get imported automatically.
	a.watcher = service.NewImportWatcher(a.forms, a, filepath.Join(dataDir, "shared"))
	if err := a.watcher.Start(); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start import watcher: %v", err)
	}

	a.exports.StartSchedules(ctx)

	size := a.settings.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.exports != nil {
		a.exports.StopSchedules(ctx)
	}

	if a.ctx != nil && a.settings != nil {
		w, h := wailsRuntime.WindowGetSize(a.ctx)
		a.settings.SaveWindowSize(w, h)
	}

	if a.db != nil {
		a.db.Close()
	}
}
