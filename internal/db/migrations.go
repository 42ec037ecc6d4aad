package db

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	embeddedmigrations "github.com/terraincognita07/tsukimi/migrations"
	"gorm.io/gorm"
)

type embeddedMigration struct {
	Version string
	Name    string
	SQL     string
}

// applyEmbeddedMigrations runs every forward-only migration that is not
// yet recorded in schema_migrations, in filename order. Each migration
// runs inside its own transaction.
func applyEmbeddedMigrations(database *gorm.DB) error {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return err
	}

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		return err
	}

	applied, err := loadAppliedVersions(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if _, done := applied[migration.Version]; done {
			continue
		}
		if err := applyMigration(database, migration); err != nil {
			return fmt.Errorf("migration %s: %w", migration.Name, err)
		}
	}

	return nil
}

func ensureSchemaMigrationsTable(database *gorm.DB) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	return database.Exec(createTableSQL).Error
}

func loadEmbeddedMigrations() ([]embeddedMigration, error) {
	entries, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]embeddedMigration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		version, _, found := strings.Cut(name, "_")
		if !found || version == "" {
			return nil, fmt.Errorf("migration %q does not match <version>_<name>.sql", name)
		}

		content, err := fs.ReadFile(embeddedmigrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}

		migrations = append(migrations, embeddedMigration{
			Version: version,
			Name:    name,
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

func loadAppliedVersions(database *gorm.DB) (map[string]struct{}, error) {
	versions := make([]string, 0)
	if err := database.Table("schema_migrations").Pluck("version", &versions).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]struct{}, len(versions))
	for _, version := range versions {
		applied[version] = struct{}{}
	}
	return applied, nil
}

func applyMigration(database *gorm.DB, migration embeddedMigration) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range splitStatements(migration.SQL) {
			if err := tx.Exec(statement).Error; err != nil {
				return err
			}
		}
		return tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name,
		).Error
	})
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		statements = append(statements, trimmed)
	}
	return statements
}
