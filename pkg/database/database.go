package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/alimgiray/langscope/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var DB *sql.DB

// Init opens the application database at path and runs migrations
func Init(path string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open opens a SQLite database at path, tunes it and runs migrations
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = optimizeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	if err = RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithField("path", path).Debug("Database connected successfully with WAL mode")
	return db, nil
}

// optimizeDatabase configures SQLite for concurrent access
func optimizeDatabase(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to run %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunMigrations executes the embedded SQL scripts in name order
func RunMigrations(db *sql.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}

		if _, err = db.Exec(string(script)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", name, err)
		}

		logger.WithField("script", name).Debug("Executed SQL script")
	}

	return nil
}
