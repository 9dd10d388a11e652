package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// ErrDirty is returned by Up when a previous run failed half way and the
// schema version needs to be forced before anything else is applied
var ErrDirty = errors.New("database schema is dirty")

// Status is the schema version recorded in schema_migrations
type Status struct {
	Version uint
	Dirty   bool
}

// Migrator applies the SQL files under migrations/ to a postgres database
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// SourceURL turns a migrations directory into a golang-migrate source URL.
// Values that already carry a scheme are kept.
func SourceURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}

// New wraps db. Closing the Migrator also closes db.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(SourceURL(migrationsPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", migrationsPath, err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Status reports the applied version; zero means nothing applied yet
func (r *Migrator) Status() (Status, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: v, Dirty: dirty}, nil
}

// Up applies every pending migration. It refuses to run on a dirty schema.
func (r *Migrator) Up() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("%w at version %d, run: migrate force <version>", ErrDirty, st.Version)
	}
	return r.apply("up", r.m.Up)
}

// Down rolls back every migration
func (r *Migrator) Down() error {
	return r.apply("down", r.m.Down)
}

// Steps moves n migrations forward, or back when n is negative
func (r *Migrator) Steps(n int) error {
	return r.apply(fmt.Sprintf("step %d", n), func() error { return r.m.Steps(n) })
}

// GoTo migrates up or down to version
func (r *Migrator) GoTo(version uint) error {
	return r.apply(fmt.Sprintf("goto %d", version), func() error { return r.m.Migrate(version) })
}

// Force records version as applied and clears the dirty flag without
// running any SQL
func (r *Migrator) Force(version int) error {
	r.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// apply runs op, treating "no change" as success, and logs where the schema
// ended up
func (r *Migrator) apply(name string, op func() error) error {
	err := op()
	if errors.Is(err, migrate.ErrNoChange) {
		r.logger.Info("Schema already up to date", zap.String("op", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	st, err := r.Status()
	if err != nil {
		return err
	}
	r.logger.Info("Migrations applied",
		zap.String("op", name),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
	)
	return nil
}

// Close releases the migration source and the database driver
func (r *Migrator) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}
