package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ─────────────────────────────────────────────────────────────
// Import Watcher — shared-directory form drop-in
// ─────────────────────────────────────────────────────────────

// ImportWatcher watches the shared directory for dropped *.form.json
// files and imports each one as a new form, so forms can be exchanged
// by copying a file. Events are debounced per path because editors and
// file syncers write in bursts.
type ImportWatcher struct {
	forms   *FormService
	emitter EventEmitter
	dir     string

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewImportWatcher creates a watcher over dir.
func NewImportWatcher(forms *FormService, emitter EventEmitter, dir string) *ImportWatcher {
	return &ImportWatcher{forms: forms, emitter: emitter, dir: dir}
}

// Start creates the directory if needed and begins watching it.
func (w *ImportWatcher) Start() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go w.loop(ctx)
	return nil
}

// Stop terminates the watch loop.
func (w *ImportWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *ImportWatcher) loop(ctx context.Context) {
	timers := make(map[string]*time.Timer)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := event.Name
			if !strings.HasSuffix(path, ".form.json") {
				continue
			}
			// Debounce: imports fire 500ms after the last write.
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(500*time.Millisecond, func() {
				w.importFile(ctx, path)
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("import watcher: %v", err)
		}
	}
}

func (w *ImportWatcher) importFile(ctx context.Context, path string) {
	id, err := w.forms.ImportSnapshotFile(ctx, path)
	if err != nil {
		log.Printf("import watcher: %s: %v", filepath.Base(path), err)
		w.emitter.Emit(ctx, "forms:import-failed", map[string]string{
			"file":  filepath.Base(path),
			"error": err.Error(),
		})
		return
	}
	log.Printf("import watcher: imported %s as form %s", filepath.Base(path), id)
	w.emitter.Emit(ctx, "forms:imported", map[string]string{
		"file":   filepath.Base(path),
		"formId": id,
	})
}
