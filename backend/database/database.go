package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DB owns the prompts table. It is opened once at startup and closed at shutdown.
type DB struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

// Open connects to the database named by url and verifies the connection.
// postgres:// and postgresql:// URLs use pgx; anything else is a SQLite path.
func Open(ctx context.Context, url string, logger *zap.Logger) (*DB, error) {
	d, dsn, err := resolve(url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.name, err)
	}

	// A single SQLite connection keeps :memory: databases shared and
	// serializes writers.
	if d.name == sqliteDialect.name {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", d.name, err)
	}

	logger.Info("Database connected", zap.String("dialect", d.name))
	return newDB(db, d, logger), nil
}

func newDB(db *sql.DB, d dialect, logger *zap.Logger) *DB {
	return &DB{
		db:      db,
		dialect: d,
		logger:  logger,
	}
}

// Initialize creates the prompts table if it does not already exist.
func (s *DB) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return s.storageError("initialize", "Error creating prompts table", err)
	}
	return nil
}

// Dialect reports "sqlite" or "postgres".
func (s *DB) Dialect() string {
	return s.dialect.name
}

func (s *DB) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}
