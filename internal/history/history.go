package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/blogdesk/internal/migrations"
	"github.com/studiowebux/blogdesk/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

// Manager stores the activity log in SQLite
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db, migrations.SQLite, migrations.Activity); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record implements client.Recorder
func (m *Manager) Record(entry types.ActivityEntry) error {
	return m.Save(entry)
}

func (m *Manager) Save(entry types.ActivityEntry) error {
	query := `
		INSERT INTO activity (
			timestamp, request_id, operation, method, url, status,
			duration_ms, request_size, response_size, error, profile_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := entry.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Local().Format(timestampLayout)
	}

	_, err := m.db.Exec(query,
		timestamp,
		entry.RequestID,
		entry.Operation,
		entry.Method,
		entry.URL,
		entry.Status,
		entry.Duration,
		entry.RequestSize,
		entry.ResponseSize,
		entry.Error,
		entry.Profile,
	)
	if err != nil {
		return fmt.Errorf("failed to save activity entry: %w", err)
	}
	return nil
}

// Load returns the newest entries first. A limit of 0 or less returns all.
func (m *Manager) Load(limit int) ([]types.ActivityEntry, error) {
	query := `
		SELECT id, timestamp, request_id, operation, method, url, status,
		       duration_ms, request_size, response_size, error, COALESCE(profile_name, '')
		FROM activity
		ORDER BY timestamp DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.ActivityEntry, error) {
	var entries []types.ActivityEntry

	for rows.Next() {
		var entry types.ActivityEntry
		var timestamp string
		var requestSize sql.NullInt64
		var responseSize sql.NullInt64
		var errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.RequestID,
			&entry.Operation,
			&entry.Method,
			&entry.URL,
			&entry.Status,
			&entry.Duration,
			&requestSize,
			&responseSize,
			&errorMsg,
			&entry.Profile,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}

		entry.Timestamp = normalizeTimestamp(timestamp)
		entry.RequestSize = int(requestSize.Int64)
		entry.ResponseSize = int(responseSize.Int64)
		entry.Error = errorMsg.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// normalizeTimestamp undoes go-sqlite3 handing DATETIME columns back as
// RFC 3339 with the stored wall clock
func normalizeTimestamp(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(timestampLayout)
	}
	return s
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM activity")
	if err != nil {
		return fmt.Errorf("failed to clear activity: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM activity").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get activity count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
