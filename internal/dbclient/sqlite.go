package dbclient

import (
	"formdesk/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteExporter creates an exporter for an external SQLite file.
// Opens in WAL mode with busy timeout for concurrent access.
func newSQLiteExporter(target *domain.ExportTarget) (*sqlExporter, error) {
	dsn := target.Host + "?_journal_mode=WAL&_busy_timeout=5000"
	return newSQLExporter("sqlite", dsn)
}
