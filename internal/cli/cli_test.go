package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/history"
	"github.com/studiowebux/blogdesk/internal/mock"
	"github.com/studiowebux/blogdesk/internal/store"
	"github.com/studiowebux/blogdesk/internal/types"
)

type testBackend struct {
	env    *Env
	server *mock.Server
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestBackend(t *testing.T, posts ...mock.SeedPost) *testBackend {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "mock.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	server := mock.NewServer(&mock.Config{Logging: true, Posts: posts}, st, zerolog.Nop())
	if _, err := server.Seed(context.Background()); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	hist, err := history.NewManager(filepath.Join(dir, "blogdesk.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { hist.Close() })

	repo, err := client.New(ts.URL, client.WithRecorder(hist, "test"))
	if err != nil {
		t.Fatal(err)
	}

	b := &testBackend{server: server, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	b.env = &Env{
		Repo:    repo,
		History: hist,
		Logger:  zerolog.Nop(),
		Format:  "text",
		In:      strings.NewReader(""),
		Out:     b.out,
		ErrOut:  b.errOut,
		Now:     func() time.Time { return time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC) },
	}
	return b
}

func (b *testBackend) requests(method string) int {
	n := 0
	for _, l := range b.server.GetLogs() {
		if l.Method == method {
			n++
		}
	}
	return n
}

func samplePosts() []mock.SeedPost {
	return []mock.SeedPost{
		{Title: "Old news", Author: "Ann", Date: "2024-01-01", Content: "first"},
		{Title: "Fresh take", Author: "Bob", Date: "2024-03-01", Content: "second"},
	}
}

func TestList_TextNewestFirst(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)

	if err := List(context.Background(), b.env, ListOptions{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	out := b.out.String()
	if !strings.HasPrefix(out, "2 posts") {
		t.Errorf("missing count header: %q", out)
	}
	if strings.Index(out, "Fresh take") > strings.Index(out, "Old news") {
		t.Errorf("posts not newest first:\n%s", out)
	}
	if !strings.Contains(out, "By Bob • 2024-03-01") {
		t.Errorf("missing byline:\n%s", out)
	}
}

func TestList_JSONAndQuery(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	b.env.Format = "json"

	if err := List(context.Background(), b.env, ListOptions{}); err != nil {
		t.Fatal(err)
	}
	var posts []types.Post
	if err := json.Unmarshal(b.out.Bytes(), &posts); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "Fresh take" {
		t.Errorf("unexpected posts: %+v", posts)
	}

	b.out.Reset()
	if err := List(context.Background(), b.env, ListOptions{Query: "[].title"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(b.out.String()); got != "[\n  \"Fresh take\",\n  \"Old news\"\n]" {
		t.Errorf("query output = %q", got)
	}

	if err := List(context.Background(), b.env, ListOptions{Query: "[?"}); err == nil {
		t.Error("expected an error for a malformed query")
	}
}

func TestList_Filters(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	b.env.Format = "yaml"

	if err := List(context.Background(), b.env, ListOptions{Authors: []string{"ann"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.out.String(), "Old news") || strings.Contains(b.out.String(), "Fresh take") {
		t.Errorf("author filter wrong:\n%s", b.out.String())
	}

	b.out.Reset()
	List(context.Background(), b.env, ListOptions{Search: "frsh"})
	if !strings.Contains(b.out.String(), "Fresh take") || strings.Contains(b.out.String(), "Old news") {
		t.Errorf("fuzzy search wrong:\n%s", b.out.String())
	}
}

func TestShow_PreservesOrder(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	b.env.Format = "json"

	if err := Show(context.Background(), b.env, []string{"2", "1"}, ""); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	var posts []types.Post
	json.Unmarshal(b.out.Bytes(), &posts)
	if len(posts) != 2 || posts[0].ID.String() != "2" || posts[1].ID.String() != "1" {
		t.Errorf("unexpected order: %+v", posts)
	}
}

func TestShow_Missing(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)

	err := Show(context.Background(), b.env, []string{"5"}, "")
	if err == nil || !strings.Contains(err.Error(), "no longer exists") {
		t.Errorf("Show(5) = %v", err)
	}
	if !client.IsNotFound(err) {
		t.Error("failure should stay inspectable")
	}
	if err := Show(context.Background(), b.env, []string{" "}, ""); err == nil {
		t.Error("blank id should be rejected")
	}
}

func TestLatest(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	if err := Latest(context.Background(), b.env); err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if !strings.Contains(b.out.String(), "Fresh take") || !strings.Contains(b.out.String(), "second") {
		t.Errorf("Latest() output:\n%s", b.out.String())
	}

	empty := newTestBackend(t)
	if err := Latest(context.Background(), empty.env); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(empty.errOut.String(), "No posts.") {
		t.Errorf("empty output = %q", empty.errOut.String())
	}
}

func TestCreate_FromStdin(t *testing.T) {
	b := newTestBackend(t)
	b.env.Format = "json"
	b.env.In = strings.NewReader("line one\nline two\n")

	err := Create(context.Background(), b.env, CreateOptions{Title: "A", Author: "B", Avatar: "", Content: "-"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var post map[string]interface{}
	json.Unmarshal(b.out.Bytes(), &post)
	if post["avatar"] != nil || post["date"] != "2024-08-15" || post["content"] != "line one\nline two" {
		t.Errorf("unexpected created post: %v", post)
	}
	if b.requests(http.MethodPost) != 1 {
		t.Errorf("expected one POST")
	}

	if err := Create(context.Background(), b.env, CreateOptions{Title: "  ", Author: "B"}); err == nil || !strings.Contains(err.Error(), "title") {
		t.Errorf("blank title: %v", err)
	}
	if err := Create(context.Background(), b.env, CreateOptions{Title: "A", Author: " "}); err == nil || !strings.Contains(err.Error(), "author") {
		t.Errorf("blank author: %v", err)
	}
	if b.requests(http.MethodPost) != 1 {
		t.Error("rejected drafts reached the server")
	}
}

func TestEdit_KeepsUnchangedField(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	title := "Renamed"

	if err := Edit(context.Background(), b.env, "1", &title, nil); err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if b.requests(http.MethodPatch) != 1 {
		t.Fatalf("expected one PATCH")
	}

	var body map[string]interface{}
	for _, l := range b.server.GetLogs() {
		if l.Method == http.MethodPatch {
			json.Unmarshal([]byte(l.Body), &body)
		}
	}
	if len(body) != 2 || body["title"] != "Renamed" || body["content"] != "first" {
		t.Errorf("PATCH body = %v", body)
	}

	if err := Edit(context.Background(), b.env, "1", nil, nil); err == nil {
		t.Error("edit without fields should fail")
	}
	if err := Edit(context.Background(), b.env, "9", &title, nil); !client.IsNotFound(err) {
		t.Errorf("Edit(9) = %v", err)
	}
}

func TestDelete_Declined(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	b.env.In = strings.NewReader("n\n")

	if err := Delete(context.Background(), b.env, "1", false); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if b.requests(http.MethodDelete) != 0 {
		t.Error("declined delete must not call DELETE")
	}
	if !strings.Contains(b.errOut.String(), "[y/N]") || !strings.Contains(b.errOut.String(), "cancelled") {
		t.Errorf("prompt output = %q", b.errOut.String())
	}
}

func TestDelete_Confirmed(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	b.env.In = strings.NewReader("y\n")

	if err := Delete(context.Background(), b.env, "1", false); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if b.requests(http.MethodDelete) != 1 {
		t.Errorf("expected exactly one DELETE")
	}

	err := Delete(context.Background(), b.env, "1", true)
	if !client.IsNotFound(err) {
		t.Errorf("deleting again = %v, want not found", err)
	}
}

func TestHistory(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	List(context.Background(), b.env, ListOptions{})
	Show(context.Background(), b.env, []string{"7"}, "")
	b.out.Reset()

	if err := History(b.env, 10, false, false); err != nil {
		t.Fatalf("History() error: %v", err)
	}
	out := b.out.String()
	if !strings.Contains(out, "/posts/7") || !strings.Contains(out, "404") {
		t.Errorf("history output:\n%s", out)
	}

	b.out.Reset()
	if err := History(b.env, 0, false, true); err != nil {
		t.Fatalf("History(stats) error: %v", err)
	}
	stats := b.out.String()
	if !strings.Contains(stats, "OPERATION") || !strings.Contains(stats, "list") || !strings.Contains(stats, "404×1") {
		t.Errorf("stats output:\n%s", stats)
	}

	if err := History(b.env, 0, true, false); err != nil {
		t.Fatal(err)
	}
	count, _ := b.env.History.GetCount()
	if count != 0 {
		t.Errorf("count after clear = %d", count)
	}

	b.env.History = nil
	if err := History(b.env, 0, false, false); err == nil {
		t.Error("expected error without activity log")
	}
}

func TestDescribe(t *testing.T) {
	plain := errors.New("plain")
	if describe(plain) != plain {
		t.Error("non-failure errors pass through")
	}
	transport := &client.Failure{Op: "list", Kind: client.KindTransport, Err: errors.New("refused")}
	if !strings.Contains(describe(transport).Error(), "backend running") {
		t.Errorf("describe(transport) = %v", describe(transport))
	}
	if describe(nil) != nil {
		t.Error("describe(nil) should be nil")
	}
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false, "maybe\n": false}
	for input, want := range tests {
		if got := confirm(strings.NewReader(input), &bytes.Buffer{}); got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMock_WriteSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := Mock(context.Background(), MockOptions{WriteSeed: path}, zerolog.Nop()); err != nil {
		t.Fatalf("Mock() error: %v", err)
	}
	cfg, err := mock.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Posts) != len(mock.DefaultConfig().Posts) {
		t.Errorf("seed has %d posts", len(cfg.Posts))
	}
}

func TestPrintRequestLog(t *testing.T) {
	b := newTestBackend(t, samplePosts()...)
	if err := List(context.Background(), b.env, ListOptions{}); err != nil {
		t.Fatal(err)
	}
	Show(context.Background(), b.env, []string{"999"}, "")

	var out bytes.Buffer
	printRequestLog(&out, b.server.GetLogs())
	got := out.String()
	if !strings.Contains(got, "METHOD") || !strings.Contains(got, "/posts/999") || !strings.Contains(got, "404") {
		t.Errorf("request log table missing rows:\n%s", got)
	}

	out.Reset()
	printRequestLog(&out, nil)
	if strings.TrimSpace(out.String()) != "No requests served." {
		t.Errorf("empty log = %q", out.String())
	}
}
