package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"formdesk/internal/domain"
)

// sqlExporter is the shared implementation for MySQL, Postgres, and SQLite.
type sqlExporter struct {
	driverName string
	db         *sql.DB
}

// newSQLExporter creates a generic SQL exporter.
func newSQLExporter(driverName, dsn string) (*sqlExporter, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlExporter{driverName: driverName, db: db}, nil
}

func (e *sqlExporter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.db.PingContext(ctx)
}

// placeholder returns the parameter marker for position i (1-based).
// lib/pq uses $n, the other drivers use ?.
func (e *sqlExporter) placeholder(i int) string {
	if e.driverName == "postgres" {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// quoteIdent quotes a table or column identifier for the driver.
func (e *sqlExporter) quoteIdent(name string) string {
	if e.driverName == "mysql" {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

func (e *sqlExporter) Export(ctx context.Context, form *domain.Snapshot, subs []domain.Submission) (*ExportResult, error) {
	table := tableName(form)
	cols := exportColumns(form)

	if err := e.ensureTable(ctx, table, cols); err != nil {
		return nil, err
	}

	colNames := []string{e.quoteIdent("submission_id"), e.quoteIdent("submitted_at")}
	for _, c := range cols {
		colNames = append(colNames, e.quoteIdent(c.Name))
	}
	marks := make([]string, len(colNames))
	for i := range marks {
		marks[i] = e.placeholder(i + 1)
	}
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		e.quoteIdent(table), strings.Join(colNames, ", "), strings.Join(marks, ", "),
	)

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin export tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sub := range subs {
		args := make([]any, 0, len(cols)+2)
		args = append(args, sub.ID, sub.CreatedAt)
		for _, c := range cols {
			args = append(args, sub.Values[c.FieldID])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, fmt.Errorf("insert submission %s: %w", sub.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit export: %w", err)
	}
	return &ExportResult{Table: table, Exported: len(subs)}, nil
}

// ensureTable creates the destination table if missing. All submission
// values are strings on the wire, so every column is TEXT.
func (e *sqlExporter) ensureTable(ctx context.Context, table string, cols []exportColumn) error {
	defs := []string{
		e.quoteIdent("submission_id") + " TEXT NOT NULL",
		e.quoteIdent("submitted_at") + " TIMESTAMP",
	}
	if e.driverName == "sqlite" {
		defs[1] = e.quoteIdent("submitted_at") + " DATETIME"
	}
	for _, c := range cols {
		defs = append(defs, e.quoteIdent(c.Name)+" TEXT")
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", e.quoteIdent(table), strings.Join(defs, ", "))
	if _, err := e.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

func (e *sqlExporter) Close() error {
	return e.db.Close()
}
