package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens (creating if necessary) a SQLite database file through
// mattn/go-sqlite3 and hands the connection to gorm. ":memory:" is accepted
// for tests.
func Open(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?cache=shared&mode=rwc&_fk=1", path)
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each pool connection would otherwise see its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}

	db, err := gorm.Open(&gormsqlite.Dialector{Conn: sqlDB}, gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return db, nil
}
