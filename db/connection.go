package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/maxdata/claude-code-log/log"
)

var logger = log.GetLogger("db")

// DB wraps a sqlite connection scoped to one database file. Unlike a
// package singleton, the handle is constructed with an explicit path
// and passed to its owner.
type DB struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the sqlite database at path and runs
// pending migrations.
func Open(path string) (*DB, error) {
	if err := ensureDirectory(path); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode, foreign keys, and a busy timeout for concurrent readers
	dsn := path + "?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug().Str("path", path).Msg("database initialized")
	return &DB{DB: conn, path: path}, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Transaction executes fn within a database transaction.
func (d *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func ensureDirectory(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
