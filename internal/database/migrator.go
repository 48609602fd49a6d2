package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/qa-service/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Embed all SQL files under migrations/ at compile time so the binary
// carries its own schema.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

const (
	// ternVersionTable stores the tern schema version in PostgreSQL.
	ternVersionTable = "schema_version"

	// sqliteMigrationTable records applied SQLite migration files.
	sqliteMigrationTable = "schema_migrations"
)

// Migrate brings the configured backend up to the latest schema.
//
// For PostgreSQL it connects with a single pgx connection and runs tern.
// SQLite files are migrated every time they are opened, so there is
// nothing to do here.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	if cfg.Database.Driver == config.DriverSQLite {
		logger.Info().Msg("sqlite schema is applied when the database is opened")
		return nil
	}

	// Using a single connection avoids pool complexity for a one-time action.
	conn, err := pgx.Connect(ctx, DSN(cfg.Database))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	from, to, err := ApplyMigrations(ctx, conn)
	if err != nil {
		return err
	}

	if from == to {
		logger.Info().Msgf("database schema up to date, version %d", to)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}
	return nil
}

// ApplyMigrations runs the embedded PostgreSQL migrations on conn and
// reports the schema version before and after.
func ApplyMigrations(ctx context.Context, conn *pgx.Conn) (int32, int32, error) {
	m, err := tern.NewMigrator(ctx, conn, ternVersionTable)
	if err != nil {
		return 0, 0, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return 0, 0, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return 0, 0, fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return from, from, fmt.Errorf("migrating database schema: %w", err)
	}

	return from, int32(len(m.Migrations)), nil
}

// OpenSQLite opens the SQLite database at path and applies the embedded
// schema. The handle allows a single connection so writers never contend
// for the file lock.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applySQLiteMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run sqlite migrations: %w", err)
	}

	return sqlDB, nil
}

// sqlitePragmas are applied to every SQLite connection.
var sqlitePragmas = []string{"busy_timeout(5000)", "journal_mode(WAL)", "foreign_keys(1)"}

// sqliteDSN appends the connection pragmas to path, keeping any query
// parameters the path already carries.
func sqliteDSN(path string) (string, error) {
	name, rawQuery, _ := strings.Cut(path, "?")

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("parse sqlite path query: %w", err)
	}
	for _, pragma := range sqlitePragmas {
		query.Add("_pragma", pragma)
	}

	return name + "?" + query.Encode(), nil
}

// applySQLiteMigrations executes every embedded SQLite migration at most
// once, each inside its own transaction.
func applySQLiteMigrations(ctx context.Context, sqlDB *sql.DB) error {
	const root = "migrations/sqlite"

	entries, err := fs.ReadDir(migrations, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`, sqliteMigrationTable)
	if _, err := sqlDB.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var applied int
		err := sqlDB.QueryRowContext(ctx,
			fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE name = ?", sqliteMigrationTable), file,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrations, root+"/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		upSQL := upMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		tx, err := sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, ?)", sqliteMigrationTable),
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}

	return nil
}

// upMigration returns the SQL between the Up and Down markers.
func upMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"

	start := strings.Index(content, up)
	if start == -1 {
		return content
	}
	content = content[start+len(up):]

	if end := strings.Index(content, down); end != -1 {
		content = content[:end]
	}
	return content
}
