package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "formdesk/internal/mcp"
	"formdesk/internal/secret"
	"formdesk/internal/service"
	"formdesk/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "formdesk")
	dbPath := filepath.Join(dataDir, "formdesk.db")

	db, err := storage.New(dbPath, dataDir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	formStore := storage.NewFormStore(db)
	subStore := storage.NewSubmissionStore(db)
	targetStore := storage.NewExportTargetStore(db)
	secrets := secret.NewKeychainStore()
	emitter := noopEmitter{}

	forms := service.NewFormService(formStore, subStore, emitter)
	submissions := service.NewSubmissionService(formStore, subStore, emitter)
	exports := service.NewExportService(targetStore, formStore, subStore, secrets, emitter)

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:     emitter,
		Forms:       forms,
		Submissions: submissions,
		Exports:     exports,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
