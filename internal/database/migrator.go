package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// versionTable records the applied schema version on both backends.
const versionTable = "schema_version"

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema of db up to date.
//
// PostgreSQL runs through tern on a dedicated pgx connection. The embedded
// backend applies its own migration set, discovered the same way, on the
// pool.
func Migrate(ctx context.Context, logger *zerolog.Logger, db *Database) error {
	if db.conn.IsSQLite() {
		return migrateSQLite(ctx, logger, db)
	}
	return migratePostgres(ctx, logger, db.conn)
}

func migratePostgres(ctx context.Context, logger *zerolog.Logger, cs *ConnectionString) error {
	conn, err := pgx.Connect(ctx, cs.DriverDSN())
	if err != nil {
		return wrapConnErr(fmt.Errorf("connecting for migrations: %w", err))
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	logMigration(logger, int(from), len(m.Migrations))
	return nil
}

// migrateSQLite applies every file newer than the recorded version, each in
// its own transaction together with the version bump.
func migrateSQLite(ctx context.Context, logger *zerolog.Logger, db *Database) error {
	subtree, err := fs.Sub(migrations, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	names, err := tern.FindMigrations(subtree)
	if err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	if _, err := db.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+versionTable+` (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating %s table: %w", versionTable, err)
	}

	var from int
	if err := db.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM `+versionTable).Scan(&from); err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	for i := from; i < len(names); i++ {
		body, err := fs.ReadFile(subtree, names[i])
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", names[i], err)
		}

		err = db.Sessions.WithSession(ctx, func(ctx context.Context, s *Session) error {
			if _, err := s.ExecContext(ctx, string(body)); err != nil {
				return fmt.Errorf("applying migration %s: %w", names[i], err)
			}
			if _, err := s.ExecContext(ctx, `DELETE FROM `+versionTable); err != nil {
				return err
			}
			if _, err := s.ExecContext(ctx, `INSERT INTO `+versionTable+` (version) VALUES ($1)`, i+1); err != nil {
				return err
			}
			return s.Commit(ctx)
		})
		if err != nil {
			return err
		}
	}

	logMigration(logger, from, len(names))
	return nil
}

func logMigration(logger *zerolog.Logger, from, to int) {
	if from == to {
		logger.Info().Msgf("database schema up to date, version %d", to)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}
}
