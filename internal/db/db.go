// Package db owns the SQLite connection shared by the repositories and
// applies the embedded schema migrations.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/emilianohg/weeksheet/internal/config"
	"github.com/emilianohg/weeksheet/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const busyTimeoutMillis = 5000

var (
	db *sql.DB

	ErrNotOpen = errors.New("database not open")
)

// MigrationStatus describes how far the schema is from the embedded
// migrations.
type MigrationStatus struct {
	CurrentVersion uint
	LatestVersion  uint
	Dirty          bool
	Pending        bool
}

// Open opens the database under the weeksheet directory. Migrations are not
// applied.
func Open() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}
	if err := config.EnsureDirectories(); err != nil {
		return nil, err
	}
	path, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath opens the database file at path as the shared connection.
func OpenPath(path string) (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	logging.Component("db").Debug("database opened", "path", path)
	db = conn
	return db, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", fmt.Sprint(busyTimeoutMillis))
	return "file:" + path + "?" + q.Encode()
}

// OpenAndMigrate opens the database and brings the schema up to date.
func OpenAndMigrate() (*sql.DB, error) {
	conn, err := Open()
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(); err != nil {
		return nil, err
	}
	return conn, nil
}

func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

func GetMigrationStatus() (*MigrationStatus, error) {
	if db == nil {
		return nil, ErrNotOpen
	}

	m, err := migrator()
	if err != nil {
		return nil, err
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, err
	}

	latest, err := latestVersion()
	if err != nil {
		return nil, err
	}

	return &MigrationStatus{
		CurrentVersion: version,
		LatestVersion:  latest,
		Dirty:          dirty,
		Pending:        version < latest,
	}, nil
}

// RunMigrations applies every pending migration. It is a no-op on an up to
// date schema.
func RunMigrations() error {
	if db == nil {
		return ErrNotOpen
	}

	m, err := migrator()
	if err != nil {
		return err
	}
	from, _, _ := m.Version()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("running migrations: %w", err)
	}

	to, _, _ := m.Version()
	logging.Component("db").Info("schema migrated", "from", from, "to", to)
	return nil
}

func migrator() (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "sqlite3", driver)
}

// latestVersion walks the embedded migrations to their last version.
func latestVersion() (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return lastVersion(src)
}

func lastVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, nil
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			return v, nil
		}
		v = next
	}
}

// Get returns the shared connection, or nil when none is open.
func Get() *sql.DB {
	return db
}
