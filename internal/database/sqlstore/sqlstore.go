package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"shopapi/pkg/config"
	"shopapi/pkg/lib/logger/sl"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

// Driver names double as the database/sql driver names registered above.
const (
	DriverPostgres = config.DriverPostgres
	DriverSQLite   = config.DriverSQLite
)

//go:embed migrations
var migrations embed.FS

type Storage struct {
	log     *slog.Logger
	db      *sqlx.DB
	dialect goose.Dialect
}

// New connects to the database behind driver and applies pending migrations.
func New(ctx context.Context, log *slog.Logger, driver, dsn string) (*Storage, error) {
	const op = "database.sqlstore.New"
	l := log.With("op", op, "driver", driver)

	dialect, err := dialectFor(driver)
	if err != nil {
		l.Error("Unsupported driver", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		l.Error("Error connect to database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		log:     log,
		db:      db,
		dialect: dialect,
	}

	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	return s, nil
}

func NewWithParams(log *slog.Logger, db *sqlx.DB) *Storage {
	return &Storage{
		log: log,
		db:  db,
	}
}

func (s *Storage) Migrate(ctx context.Context) error {
	const op = "database.sqlstore.Migrate"
	log := s.log.With("op", op)

	dir := "migrations/postgres"
	if s.dialect == goose.DialectSQLite3 {
		dir = "migrations/sqlite"
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		log.Error("Error opening migrations", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	provider, err := goose.NewProvider(s.dialect, s.db.DB, fsys)
	if err != nil {
		log.Error("Error creating migration provider", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		log.Error("Error applying migrations", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Migrations applied", "count", len(results))

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func dialectFor(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unknown driver %q", driver)
	}
}

func checkContext(ctx context.Context, log *slog.Logger) error {
	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return ctx.Err()
	default:
		return nil
	}
}
