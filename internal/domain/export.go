package domain

import "time"

// ExportDriver identifies the external database engine submissions are
// exported to.
type ExportDriver string

const (
	ExportDriverMySQL    ExportDriver = "mysql"
	ExportDriverPostgres ExportDriver = "postgres"
	ExportDriverMongoDB  ExportDriver = "mongodb"
	ExportDriverSQLite   ExportDriver = "sqlite"
)

// ExportTarget holds the metadata for exporting submissions to an external
// database. The password is stored separately in the SecretStore.
type ExportTarget struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Driver    ExportDriver `json:"driver"`
	Host      string       `json:"host"`     // hostname or file path (sqlite)
	Port      int          `json:"port"`     // 0 for sqlite
	Database  string       `json:"database"` // db name, empty for sqlite
	Username  string       `json:"username"`
	SSLMode   string       `json:"sslMode"`
	FormID    string       `json:"formId"`   // form whose submissions are exported
	Schedule  string       `json:"schedule"` // cron expression, empty = manual only
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ExportTargetStore manages CRUD operations for export targets.
type ExportTargetStore interface {
	CreateTarget(t *ExportTarget) error
	GetTarget(id string) (*ExportTarget, error)
	ListTargets() ([]ExportTarget, error)
	UpdateTarget(t *ExportTarget) error
	DeleteTarget(id string) error
}
