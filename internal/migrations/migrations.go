package migrations

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour of a database
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

// DriverName returns the database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	return d.String()
}

// DialectFor picks the dialect from a DSN. postgres:// and postgresql:// URLs
// use PostgreSQL; everything else is a SQLite file path.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// Rebind rewrites ? placeholders to $1, $2... for PostgreSQL
func Rebind(d Dialect, query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Component is a versioned group of tables
type Component struct {
	Name       string
	Schema     func(Dialect) string
	Migrations []Migration
}

// Activity holds the local repository-call log
var Activity = Component{
	Name:   "activity",
	Schema: activitySchema,
	Migrations: []Migration{
		{
			Version: 1,
			Name:    "Add profile index on activity",
			Up:      `CREATE INDEX IF NOT EXISTS idx_activity_profile ON activity(profile_name);`,
			Down:    `DROP INDEX IF EXISTS idx_activity_profile;`,
		},
		{
			Version: 2,
			Name:    "Add operation/status index on activity",
			Up:      `CREATE INDEX IF NOT EXISTS idx_activity_operation ON activity(operation, status);`,
			Down:    `DROP INDEX IF EXISTS idx_activity_operation;`,
		},
	},
}

// Posts holds the mock backend's collection
var Posts = Component{
	Name:   "posts",
	Schema: postsSchema,
	Migrations: []Migration{
		{
			Version: 1,
			Name:    "Add date index for newest-first listing",
			Up:      `CREATE INDEX IF NOT EXISTS idx_posts_date ON posts(date DESC);`,
			Down:    `DROP INDEX IF EXISTS idx_posts_date;`,
		},
		{
			Version: 2,
			Name:    "Add author index",
			Up:      `CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author);`,
			Down:    `DROP INDEX IF EXISTS idx_posts_author;`,
		},
	},
}

func activitySchema(d Dialect) string {
	return `
	CREATE TABLE IF NOT EXISTS activity (
		id ` + serialKey(d) + `,
		timestamp ` + timestampType(d) + ` NOT NULL,
		request_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		method TEXT NOT NULL,
		url TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		request_size INTEGER,
		response_size INTEGER,
		error TEXT,
		profile_name TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity(timestamp DESC);
	`
}

func postsSchema(d Dialect) string {
	return `
	CREATE TABLE IF NOT EXISTS posts (
		id ` + serialKey(d) + `,
		title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		avatar TEXT,
		date TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		created_at ` + timestampType(d) + ` NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at ` + timestampType(d) + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
}

func serialKey(d Dialect) string {
	if d == Postgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func timestampType(d Dialect) string {
	if d == Postgres {
		return "TIMESTAMP"
	}
	return "DATETIME"
}

// InitSchema creates the component's tables.
// This must be called before running migrations to ensure all tables exist
func InitSchema(db *sql.DB, d Dialect, c Component) error {
	if _, err := db.Exec(c.Schema(d)); err != nil {
		return fmt.Errorf("failed to initialize %s schema: %w", c.Name, err)
	}
	return nil
}

// Run executes all pending migrations of a component
func Run(db *sql.DB, d Dialect, c Component) error {
	if err := InitSchema(db, d, c); err != nil {
		return err
	}

	// Create migrations tracking table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			component TEXT NOT NULL,
			version INTEGER NOT NULL,
			name TEXT NOT NULL,
			applied_at ` + timestampType(d) + ` NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (component, version)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db, d, c)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range c.Migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("failed to apply %s migration %d (%s): %w", c.Name, migration.Version, migration.Name, err)
		}

		_, err = db.Exec(
			Rebind(d, "INSERT INTO schema_migrations (component, version, name) VALUES (?, ?, ?)"),
			c.Name,
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record %s migration %d: %w", c.Name, migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the applied schema version of a component
func GetCurrentVersion(db *sql.DB, d Dialect, c Component) (int, error) {
	var version int
	err := db.QueryRow(
		Rebind(d, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations WHERE component = ?"),
		c.Name,
	).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
