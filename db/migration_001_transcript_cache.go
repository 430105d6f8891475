package db

import "database/sql"

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "Create transcript_cache table",
		Up:          migration001_transcriptCache,
	})
}

func migration001_transcriptCache(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS transcript_cache (
			source_path TEXT PRIMARY KEY,
			version     TEXT NOT NULL,
			mtime_ns    INTEGER NOT NULL,
			size_bytes  INTEGER NOT NULL,
			entry_count INTEGER NOT NULL,
			entries     BLOB NOT NULL,
			saved_at    TEXT NOT NULL
		)
	`)
	return err
}
