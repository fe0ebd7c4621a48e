// Package dbclient exports form submissions to external databases.
// Each driver appends submission rows to a per-form table or collection;
// nothing is ever read back, so the interface stays write-only.
package dbclient

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"formdesk/internal/domain"
)

// ExportResult summarizes one export run.
type ExportResult struct {
	Table    string `json:"table"`
	Exported int    `json:"exported"`
}

// Exporter abstracts the external database a form's submissions are
// appended to.
type Exporter interface {
	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Export ensures the destination table/collection for the form exists
	// and appends one row per submission.
	Export(ctx context.Context, form *domain.Snapshot, subs []domain.Submission) (*ExportResult, error)

	// Close closes the connection.
	Close() error
}

// NewExporter creates an Exporter for the given export target.
// The password must be provided separately (from SecretStore).
func NewExporter(target *domain.ExportTarget, password string) (Exporter, error) {
	switch target.Driver {
	case domain.ExportDriverSQLite:
		return newSQLiteExporter(target)
	case domain.ExportDriverMySQL:
		return newSQLExporter("mysql", buildMySQLDSN(target, password))
	case domain.ExportDriverPostgres:
		return newSQLExporter("postgres", buildPostgresDSN(target, password))
	case domain.ExportDriverMongoDB:
		return newMongoExporter(target, password)
	default:
		return nil, fmt.Errorf("unsupported export driver: %s", target.Driver)
	}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeIdent lowercases s and replaces every non-alphanumeric run
// with a single underscore.
func sanitizeIdent(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

// columnName derives a safe SQL column name from a field label, falling
// back to the field id when nothing survives sanitization or the name
// would not start with a letter.
func columnName(f domain.Field) string {
	name := sanitizeIdent(f.Label)
	if name == "" || name[0] >= '0' && name[0] <= '9' {
		name = "field_" + sanitizeIdent(f.ID)
	}
	return name
}

// tableName derives the destination table/collection name from the form
// name ("Customer Survey" → "formdesk_customer_survey").
func tableName(form *domain.Snapshot) string {
	name := sanitizeIdent(form.FormName)
	if name == "" {
		name = "responses"
	}
	return "formdesk_" + name
}

// exportColumns returns the destination columns for the form's fields in
// global order, deduplicating collisions with a numeric suffix.
func exportColumns(form *domain.Snapshot) []exportColumn {
	cols := make([]exportColumn, 0, len(form.Fields))
	used := map[string]int{}
	for _, f := range form.Fields {
		name := columnName(f)
		if n := used[name]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		used[columnName(f)]++
		cols = append(cols, exportColumn{FieldID: f.ID, Name: name})
	}
	return cols
}

type exportColumn struct {
	FieldID string
	Name    string
}
