package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a schema migration step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is the ordered list of all schema migrations.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema: blobs and files tables and indexes",
		SQL: `
CREATE TABLE IF NOT EXISTS blobs (
  content_hash TEXT PRIMARY KEY,
  size_bytes INTEGER NOT NULL,
  blob_key TEXT NOT NULL,
  ref_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
  id TEXT PRIMARY KEY,
  original_filename TEXT NOT NULL,
  file_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  uploaded_at TEXT NOT NULL,
  content_hash TEXT NOT NULL,
  is_duplicate INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY (content_hash) REFERENCES blobs(content_hash)
);

CREATE INDEX IF NOT EXISTS idx_files_content_hash ON files(content_hash);
CREATE INDEX IF NOT EXISTS idx_files_uploaded_at_desc ON files(uploaded_at DESC);
CREATE INDEX IF NOT EXISTS idx_files_file_type ON files(file_type);
`,
	},
	{
		Version:     2,
		Description: "list query index tuning: size and duplicate-flag scans",
		SQL: `
CREATE INDEX IF NOT EXISTS idx_files_size_bytes ON files(size_bytes);
CREATE INDEX IF NOT EXISTS idx_files_is_duplicate ON files(is_duplicate);
CREATE INDEX IF NOT EXISTS idx_blobs_ref_count ON blobs(ref_count);
`,
	},
}

const migrationsTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at TEXT NOT NULL
);
`

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	return currentVersion(s.db)
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(migrationsTableSQL)
	return err
}

func currentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func runMigrations(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	applied, err := currentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= applied {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("migration %d (%s): %w", migration.Version, migration.Description, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, migration Migration) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(migration.SQL); err != nil {
		return err
	}
	if _, err = tx.Exec(
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		migration.Version, formatTime(time.Now().UTC()),
	); err != nil {
		return err
	}
	return tx.Commit()
}
