package db

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/vantahq/pulseboard/migrations"
	"gorm.io/gorm"
)

// A migration script lives in the embedded migrations directory as
// <version>_<label>.sql. Versions are numeric and applied in order,
// each script inside its own transaction.
type migrationScript struct {
	version    int
	file       string
	statements []string
}

func runMigrations(database *gorm.DB) error {
	if err := database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	scripts, err := loadMigrationScripts()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(database)
	if err != nil {
		return err
	}

	for _, script := range scripts {
		if applied[strconv.Itoa(script.version)] {
			continue
		}
		if err := runMigrationScript(database, script); err != nil {
			return err
		}
	}
	return nil
}

func loadMigrationScripts() ([]migrationScript, error) {
	entries, err := fs.ReadDir(migrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	scripts := make([]migrationScript, 0, len(entries))
	byVersion := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		version, ok := scriptVersion(name)
		if !ok {
			continue
		}
		if other, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("migration version %d claimed by both %s and %s", version, other, name)
		}
		byVersion[version] = name

		raw, err := fs.ReadFile(migrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitStatements(string(raw))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s contains no statements", name)
		}
		scripts = append(scripts, migrationScript{version: version, file: name, statements: statements})
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].version < scripts[j].version })
	return scripts, nil
}

// scriptVersion extracts the numeric prefix of <version>_<label>.sql.
func scriptVersion(name string) (int, bool) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, false
	}
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version < 0 {
		return 0, false
	}
	return version, true
}

func appliedVersions(database *gorm.DB) (map[string]bool, error) {
	versions := make([]string, 0)
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied versions: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

func runMigrationScript(database *gorm.DB, script migrationScript) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range script.statements {
			// Re-running an ADD COLUMN against an existing column is the
			// one migration error sqlite gives us no IF NOT EXISTS for.
			if table, column, ok := parseAddColumn(statement); ok {
				exists, err := columnExists(tx, table, column)
				if err != nil {
					return fmt.Errorf("inspect %s before %s: %w", table, script.file, err)
				}
				if exists {
					continue
				}
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: %q: %w", script.file, statement, err)
			}
		}
		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			strconv.Itoa(script.version), script.file,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", script.file, err)
		}
		return nil
	})
}

func splitStatements(text string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(text, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}

// parseAddColumn recognizes "ALTER TABLE <t> ADD COLUMN <c> ..." and
// returns the bare table and column identifiers.
func parseAddColumn(statement string) (string, string, bool) {
	fields := strings.Fields(statement)
	if len(fields) < 6 {
		return "", "", false
	}
	if !strings.EqualFold(fields[0], "ALTER") || !strings.EqualFold(fields[1], "TABLE") ||
		!strings.EqualFold(fields[3], "ADD") || !strings.EqualFold(fields[4], "COLUMN") {
		return "", "", false
	}
	return trimIdentifier(fields[2]), trimIdentifier(fields[5]), true
}

func trimIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}

func columnExists(database *gorm.DB, table string, column string) (bool, error) {
	escaped := strings.ReplaceAll(table, `"`, `""`)
	columns := make([]struct {
		Name string `gorm:"column:name"`
	}, 0)
	if err := database.Raw(fmt.Sprintf(`PRAGMA table_info("%s")`, escaped)).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("table_info for %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(strings.TrimSpace(existing.Name), column) {
			return true, nil
		}
	}
	return false, nil
}
