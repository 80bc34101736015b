package history

import (
	"fmt"
	"sort"
)

// Stats aggregates the activity log for one operation
type Stats struct {
	Operation     string      `json:"operation" yaml:"operation"`
	TotalCalls    int         `json:"totalCalls" yaml:"totalCalls"`
	SuccessCount  int         `json:"successCount" yaml:"successCount"`
	ErrorCount    int         `json:"errorCount" yaml:"errorCount"`
	NetworkErrors int         `json:"networkErrors" yaml:"networkErrors"` // status 0
	AvgDurationMs float64     `json:"avgDurationMs" yaml:"avgDurationMs"`
	MinDurationMs int64       `json:"minDurationMs" yaml:"minDurationMs"`
	MaxDurationMs int64       `json:"maxDurationMs" yaml:"maxDurationMs"`
	StatusCodes   map[int]int `json:"statusCodes" yaml:"statusCodes"`
	LastCalled    string      `json:"lastCalled" yaml:"lastCalled"`
}

// StatsPerOperation returns one row per repository operation, most called first.
// An empty profile covers every profile.
func (m *Manager) StatsPerOperation(profile string) ([]Stats, error) {
	query := `
		SELECT
			operation,
			COUNT(*),
			SUM(CASE WHEN status >= 200 AND status < 300 THEN 1 ELSE 0 END),
			SUM(CASE WHEN status >= 400 THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 0 THEN 1 ELSE 0 END),
			AVG(duration_ms),
			MIN(duration_ms),
			MAX(duration_ms),
			MAX(timestamp)
		FROM activity
		WHERE ? = '' OR profile_name = ?
		GROUP BY operation
	`

	rows, err := m.db.Query(query, profile, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity stats: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		var lastCalled string
		if err := rows.Scan(
			&s.Operation,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&lastCalled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity stats: %w", err)
		}
		s.LastCalled = normalizeTimestamp(lastCalled)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range stats {
		codes, err := m.statusCodes(stats[i].Operation, profile)
		if err != nil {
			return nil, err
		}
		stats[i].StatusCodes = codes
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalCalls != stats[j].TotalCalls {
			return stats[i].TotalCalls > stats[j].TotalCalls
		}
		return stats[i].Operation < stats[j].Operation
	})
	return stats, nil
}

func (m *Manager) statusCodes(operation, profile string) (map[int]int, error) {
	rows, err := m.db.Query(`
		SELECT status, COUNT(*)
		FROM activity
		WHERE operation = ? AND (? = '' OR profile_name = ?)
		GROUP BY status
	`, operation, profile, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to get status codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[int]int)
	for rows.Next() {
		var code, count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status code: %w", err)
		}
		codes[code] = count
	}
	return codes, rows.Err()
}
