// Package sqlstore implements the repository interfaces on top of database/sql.
//
// TWO BACKENDS, ONE CODE PATH:
// The same queries run against either
//   - SQLite (modernc.org/sqlite, pure Go, no CGo): the default, a single file
//     on disk, perfect for a small single-tenant dataset and for tests
//   - PostgreSQL (github.com/jackc/pgx/v5 through its database/sql adapter),
//     for a managed database
//
// Queries are written once with "?" placeholders. Postgres wants "$1, $2, ...",
// so every statement goes through rebind() before it hits the driver.
//
// SCHEMA MIGRATIONS:
// The schema lives in migrations/<dialect>/*.sql and is embedded into the
// binary with go:embed. goose tracks which files have run in its own
// goose_db_version table, so New() is safe to call against an existing database.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	// Driver registration (side-effect imports):
	//   modernc.org/sqlite  registers "sqlite"
	//   pgx/v5/stdlib       registers "pgx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// Driver selects the SQL backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// sqlName is the database/sql driver name registered by the blank imports.
func (d Driver) sqlName() string {
	if d == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

// gooseDialect is the dialect name goose expects.
func (d Driver) gooseDialect() string {
	if d == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// DB wraps a sql.DB connection pool. Per-table repositories hang off it
// (db.BucketItems(), db.Events(), ...) and share the pool.
type DB struct {
	conn   *sql.DB
	driver Driver
	logger *slog.Logger
}

// New opens the database, verifies the connection and runs migrations.
//
// dsn examples:
//   - sqlite:   "data/memories.db"
//   - postgres: "postgres://app:secret@db:5432/memories?sslmode=disable"
func New(ctx context.Context, driver Driver, dsn string, logger *slog.Logger) (*DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("sqlstore: unknown driver %q", driver)
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver.sqlName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening database: %w", err)
	}

	// sql.Open doesn't connect; Ping surfaces a bad DSN now instead of on the first request.
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: pinging database: %w", err)
	}

	db := &DB{conn: conn, driver: driver, logger: logger}

	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: running migrations: %w", err)
	}

	return db, nil
}

// sqliteDSN appends the pragmas every pooled connection needs. They go in
// the DSN because database/sql opens connections on demand, and a PRAGMA run
// through conn.Exec only reaches whichever connection served it.
//
//   - busy_timeout: a writer that finds the file locked waits up to 5s
//     instead of failing at once with SQLITE_BUSY. SQLite allows one writer
//     at a time, so concurrent writes queue and the last one wins.
//   - journal_mode(WAL): readers proceed while a write is in flight.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) BucketItems() *BucketItemDB { return &BucketItemDB{db: db} }
func (db *DB) Events() *EventDB           { return &EventDB{db: db} }
func (db *DB) Memories() *MemoryDB        { return &MemoryDB{db: db} }
func (db *DB) Poems() *PoemDB             { return &PoemDB{db: db} }

// migrate applies every pending migration for the current driver.
//
// goose keeps its settings in package globals, so callers must not run two
// migrations concurrently in one process. New is only called at startup (and
// sequentially in tests), which satisfies that.
func (db *DB) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: db.logger})

	if err := goose.SetDialect(db.driver.gooseDialect()); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	dir := path.Join("migrations", string(db.driver))
	if err := goose.UpContext(ctx, db.conn, dir); err != nil {
		return fmt.Errorf("applying %s: %w", dir, err)
	}
	return nil
}

// rebind rewrites "?" placeholders to "$n" for Postgres.
// None of our queries contain a literal '?', so a plain scan is enough.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.rebind(query), args...)
}

// gooseLogger routes goose's printf-style output into slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	l.logger.Error(msg, slog.String("component", "goose"))
	panic(msg)
}
