package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/vytor/flashstudy/internal/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Drivers accepted by Open. Both speak the same SQLite dialect.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

type DB struct {
	*sql.DB
	log *logger.Logger
}

func dsn(driver, path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	memory := strings.Contains(path, ":memory:")
	switch driver {
	case DriverPureGo:
		if memory {
			return path + "?_pragma=busy_timeout(5000)"
		}
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	default:
		if memory {
			return path + "?_busy_timeout=5000"
		}
		return path + "?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL"
	}
}

// Open connects to the leaderboard database with the given driver and
// applies pending migrations.
func Open(driver, path string) (*DB, error) {
	log := logger.Default().WithPrefix("db")

	if driver != DriverCGO && driver != DriverPureGo {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}
	log.Info("opening database: driver=%s path=%s", driver, path)

	sqlDB, err := sql.Open(driver, dsn(driver, path))
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	// One connection: SQLite has a single writer, and an in-memory
	// database only lives as long as its connection.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		log.Error("failed to ping database: %v", err)
		_ = sqlDB.Close()
		return nil, err
	}

	db := &DB{DB: sqlDB, log: log}

	log.Debug("applying migrations")
	if err := Migrate(sqlDB, log); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Migrate brings the schema up to date.
func Migrate(sqlDB *sql.DB, log *logger.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(log)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Ping checks the connection. Used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
