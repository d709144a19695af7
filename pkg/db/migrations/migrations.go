package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
)

//go:embed sql/*.sql
var embedded embed.FS

// Migration represents a database migration
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// Migrator handles database migrations
type Migrator struct {
	db     *sql.DB
	source fs.FS
	dir    string // on-disk directory for CreateMigration, empty for the embedded set
	logger *logging.Logger
}

// NewMigrator creates a migrator that applies the schema compiled into the binary
func NewMigrator(db *sql.DB) *Migrator {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}
	return &Migrator{
		db:     db,
		source: sub,
		logger: logging.Default,
	}
}

// NewDirMigrator creates a migrator that reads and writes .sql files in dir
func NewDirMigrator(db *sql.DB, dir string) *Migrator {
	return &Migrator{
		db:     db,
		source: os.DirFS(dir),
		dir:    dir,
		logger: logging.Default,
	}
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			version TEXT NOT NULL,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// GetAppliedMigrations returns a map of already applied migrations
func (m *Migrator) GetAppliedMigrations() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migration files, ordered by version
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(m.source, entry.Name())
		if err != nil {
			return nil, err
		}

		// Parse version and description from filename (e.g., "001_round_records.sql")
		parts := strings.SplitN(strings.TrimSuffix(entry.Name(), ".sql"), "_", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid migration filename: %s", entry.Name())
		}

		migrations = append(migrations, Migration{
			Version:     parts[0],
			Description: strings.ReplaceAll(parts[1], "_", " "),
			SQL:         string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// ApplyMigration applies a single migration
func (m *Migrator) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("error applying migration %s: %w", migration.Version, err)
	}

	_, err = tx.Exec(
		"INSERT INTO migrations (version, description) VALUES (?, ?)",
		migration.Version,
		migration.Description,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error recording migration %s: %w", migration.Version, err)
	}

	return tx.Commit()
}

// MigrateUp applies all pending migrations
func (m *Migrator) MigrateUp() error {
	if err := m.Initialize(); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}

	migrations, err := m.LoadMigrations()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			m.logger.Debug("Migration %s already applied, skipping", migration.Version)
			continue
		}

		m.logger.Info("Applying migration %s: %s", migration.Version, migration.Description)
		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	return nil
}

// CreateMigration writes the next numbered migration file into the
// migrator's directory. Only a NewDirMigrator can create migrations.
func (m *Migrator) CreateMigration(description string) (string, error) {
	if m.dir == "" {
		return "", fmt.Errorf("embedded migrations are read-only")
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", err
	}

	migrations, err := m.LoadMigrations()
	if err != nil {
		return "", err
	}

	nextVersion := fmt.Sprintf("%03d", len(migrations)+1)
	fileName := fmt.Sprintf("%s_%s.sql", nextVersion, strings.ReplaceAll(description, " ", "_"))
	filePath := filepath.Join(m.dir, fileName)

	content := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", description, time.Now().Format(time.RFC3339))
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", err
	}

	return filePath, nil
}
