package history

import (
	"testing"

	"github.com/studiowebux/blogdesk/internal/types"
)

func TestManager_StatsPerOperation(t *testing.T) {
	m := newTestManager(t)

	entries := []types.ActivityEntry{
		{Timestamp: "2024-05-01 10:00:00", RequestID: "a", Operation: "list", Method: "GET", URL: "http://x/posts", Status: 200, Duration: 10, Profile: "default"},
		{Timestamp: "2024-05-01 10:00:01", RequestID: "b", Operation: "list", Method: "GET", URL: "http://x/posts", Status: 200, Duration: 30, Profile: "default"},
		{Timestamp: "2024-05-01 10:00:02", RequestID: "c", Operation: "list", Method: "GET", URL: "http://x/posts", Status: 0, Duration: 5, Error: "connection refused", Profile: "default"},
		{Timestamp: "2024-05-01 10:00:03", RequestID: "d", Operation: "get", Method: "GET", URL: "http://x/posts/9", Status: 404, Duration: 7, Profile: "default"},
		{Timestamp: "2024-05-01 10:00:04", RequestID: "e", Operation: "get", Method: "GET", URL: "http://y/posts/9", Status: 200, Duration: 7, Profile: "staging"},
	}
	for _, e := range entries {
		if err := m.Save(e); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	stats, err := m.StatsPerOperation("default")
	if err != nil {
		t.Fatalf("StatsPerOperation() error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d rows, want 2", len(stats))
	}

	list := stats[0]
	if list.Operation != "list" || list.TotalCalls != 3 {
		t.Fatalf("first row = %+v, want list with 3 calls", list)
	}
	if list.SuccessCount != 2 || list.NetworkErrors != 1 || list.ErrorCount != 0 {
		t.Errorf("list counts = %+v", list)
	}
	if list.MinDurationMs != 5 || list.MaxDurationMs != 30 || list.AvgDurationMs != 15 {
		t.Errorf("list durations = %d/%d/%v", list.MinDurationMs, list.MaxDurationMs, list.AvgDurationMs)
	}
	if list.StatusCodes[200] != 2 || list.StatusCodes[0] != 1 {
		t.Errorf("list status codes = %v", list.StatusCodes)
	}
	if list.LastCalled != "2024-05-01 10:00:02" {
		t.Errorf("list last called = %q", list.LastCalled)
	}

	get := stats[1]
	if get.TotalCalls != 1 || get.ErrorCount != 1 || get.StatusCodes[404] != 1 {
		t.Errorf("get row = %+v", get)
	}

	all, err := m.StatsPerOperation("")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range all {
		if s.Operation == "get" && s.TotalCalls != 2 {
			t.Errorf("get across profiles = %d, want 2", s.TotalCalls)
		}
	}
}

func TestManager_StatsEmpty(t *testing.T) {
	m := newTestManager(t)

	stats, err := m.StatsPerOperation("")
	if err != nil {
		t.Fatalf("StatsPerOperation() error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("got %d rows from an empty log", len(stats))
	}
}
