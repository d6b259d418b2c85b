// Package sqlite implements the store interfaces on top of a local SQLite
// database file. SQLite fits the single-device, single-writer model: the
// whole store lives in one file next to the application and every write is
// a transaction, so an interrupted save never leaves a partial record.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/phrazzld/birdstudy/internal/store"
)

// Open opens (creating if necessary) the SQLite database at the given path
// and verifies it is usable. Repeated calls against the same path are
// idempotent. Failures are wrapped in store.ErrStorageUnavailable so callers
// can treat them as fatal initialization errors.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: failed to create data directory: %v", store.ErrStorageUnavailable, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", store.ErrStorageUnavailable, err)
	}

	// SQLite supports a single writer; funnel everything through one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", store.ErrStorageUnavailable, err)
	}

	return db, nil
}
