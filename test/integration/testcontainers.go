package integration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/voterlist/db"
	pkgdb "github.com/doodlesbykumbi/voterlist/pkg/db"
)

// PostgresContext holds a migrated PostgreSQL testcontainer
type PostgresContext struct {
	Container   testcontainers.Container
	DatabaseURL string
	DB          *gorm.DB
}

// NewPostgresContext starts PostgreSQL in a container and applies the
// embedded migrations.
func NewPostgresContext(ctx context.Context) (*PostgresContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("voterlist_test"),
		tcpostgres.WithUsername("voterlist"),
		tcpostgres.WithPassword("voterlist"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := pkgdb.Connect(pkgdb.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	return &PostgresContext{
		Container:   pgContainer,
		DatabaseURL: connStr,
		DB:          database,
	}, nil
}

func runMigrations(dbURL string) error {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return err
	}
	source, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Reset empties every registry table so a scenario can deploy afresh.
func (pg *PostgresContext) Reset() error {
	return pg.DB.Exec(`TRUNCATE deployments, role_members, role_admins, voters, contract_events, messages RESTART IDENTITY`).Error
}

// Close terminates the container
func (pg *PostgresContext) Close(ctx context.Context) {
	if sqlDB, err := pg.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if pg.Container != nil {
		_ = pg.Container.Terminate(ctx)
	}
}
