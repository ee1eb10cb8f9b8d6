package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial usage schema",
		SQL: `
CREATE TABLE IF NOT EXISTS usage (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    hour INTEGER NOT NULL,
    weather INTEGER NOT NULL,
    working_day BOOLEAN NOT NULL,
    holiday BOOLEAN NOT NULL,
    yr INTEGER NOT NULL,
    cnt INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_date ON usage(date);
`,
	},
	{
		Version:     2,
		Description: "Add day_type column for partition queries",
		SQL: `
ALTER TABLE usage ADD COLUMN day_type TEXT NOT NULL DEFAULT 'working_day';
CREATE INDEX IF NOT EXISTS idx_usage_day_type ON usage(day_type);
`,
	},
}

// Migrate applies every pending migration, each in its own transaction.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaVersionDDL); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := s.MigrationVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		s.logger.Debug("applied migration", slog.Int("version", m.Version), slog.String("description", m.Description))
	}
	return nil
}

const schemaVersionDDL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at TEXT NOT NULL
)`

func (s *Store) apply(m migration) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err = tx.Exec(
		"INSERT INTO schema_version (version, description, applied_at) VALUES (?, ?, ?)",
		m.Version, m.Description, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// MigrationVersion is the highest applied migration, 0 on a fresh database.
func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}
