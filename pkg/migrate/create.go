package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// SQLiteSubdir holds the SQLite twin of every Postgres migration.
const SQLiteSubdir = "sqlite"

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s (%[2]s)
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s (%[2]s)
-- +goose StatementEnd
`

// CreateSQLMigration writes a goose migration pair sharing one version:
//
//	<dir>/<YYYYMMDDHHMMSS>_<name>.sql
//	<dir>/sqlite/<YYYYMMDDHHMMSS>_<name>.sql
//
// It returns the Postgres path.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigrationAt(dir, name, time.Now().UTC())
}

func createSQLMigrationAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := sanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	filename := fmt.Sprintf("%s_%s.sql", now.Format("20060102150405"), safe)
	targets := map[string]string{
		DialectPostgres: filepath.Join(dir, filename),
		DialectSQLite:   filepath.Join(dir, SQLiteSubdir, filename),
	}

	for _, path := range targets {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("migration already exists: %s", path)
		}
	}

	for dialect, path := range targets {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)
		}
		body := fmt.Sprintf(migrationTemplate, safe, dialect)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return "", fmt.Errorf("write migration %q: %w", path, err)
		}
	}

	return targets[DialectPostgres], nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
