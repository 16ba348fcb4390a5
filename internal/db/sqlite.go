/**
 * @description
 * SQLite connection manager.
 * Backs the sqlite record store driver with a single local database file.
 *
 * @dependencies
 * - modernc.org/sqlite: pure Go driver, registered as "sqlite"
 */

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhrone-predicts/backend/internal/logger"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the database file at path
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; sqlite serialises writes anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Info("✅ Opened SQLite database at %s", path)
	return db, nil
}
