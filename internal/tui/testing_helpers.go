package tui

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/types"
)

// fakeRepo is an in-memory posts backend that records mutations
type fakeRepo struct {
	mu      sync.Mutex
	posts   []types.Post
	nextID  int
	listErr error
	failAll error

	lists   int
	gets    []types.PostID
	patches []types.Patch
	deletes []types.PostID
	creates []types.Draft
}

func newFakeRepo(posts ...types.Post) *fakeRepo {
	return &fakeRepo{posts: posts, nextID: 100}
}

func (r *fakeRepo) ListPosts(ctx context.Context) ([]types.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]types.Post, len(r.posts))
	copy(out, r.posts)
	return out, nil
}

func (r *fakeRepo) GetPost(ctx context.Context, id types.PostID) (types.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets = append(r.gets, id)
	if p, ok := types.Posts(r.posts).Find(id); ok {
		return p, nil
	}
	return types.Post{}, &client.Failure{Op: "get", Kind: client.KindHTTPStatus, Status: 404}
}

func (r *fakeRepo) CreatePost(ctx context.Context, draft types.Draft) (types.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = append(r.creates, draft)
	if r.failAll != nil {
		return types.Post{}, r.failAll
	}
	r.nextID++
	p := types.Post{
		ID:      types.ParseID(strconv.Itoa(r.nextID)),
		Title:   draft.Title,
		Author:  draft.Author,
		Avatar:  draft.Avatar,
		Date:    draft.Date,
		Content: draft.Content,
	}
	r.posts = append(r.posts, p)
	return p, nil
}

func (r *fakeRepo) UpdatePost(ctx context.Context, id types.PostID, patch types.Patch) (types.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, patch)
	if r.failAll != nil {
		return types.Post{}, r.failAll
	}
	i := types.Posts(r.posts).IndexOf(id)
	if i < 0 {
		return types.Post{}, &client.Failure{Op: "update", Kind: client.KindHTTPStatus, Status: 404}
	}
	r.posts[i].Title = patch.Title
	r.posts[i].Content = patch.Content
	return r.posts[i], nil
}

func (r *fakeRepo) DeletePost(ctx context.Context, id types.PostID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, id)
	if r.failAll != nil {
		return r.failAll
	}
	i := types.Posts(r.posts).IndexOf(id)
	if i < 0 {
		return &client.Failure{Op: "delete", Kind: client.KindHTTPStatus, Status: 404}
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

// fakeActivity is an in-memory activity log
type fakeActivity struct {
	entries  []types.ActivityEntry
	loadErr  error
	clearErr error
	cleared  int
}

func (a *fakeActivity) Load(limit int) ([]types.ActivityEntry, error) {
	if a.loadErr != nil {
		return nil, a.loadErr
	}
	if limit > 0 && len(a.entries) > limit {
		return a.entries[:limit], nil
	}
	return a.entries, nil
}

func (a *fakeActivity) Clear() error {
	if a.clearErr != nil {
		return a.clearErr
	}
	a.cleared++
	a.entries = nil
	return nil
}

var errServer = &client.Failure{Op: "mutation", Kind: client.KindHTTPStatus, Status: 500}

var errNoClipboard = errors.New("clipboard unavailable")

func testPost(id, title, date string) types.Post {
	return types.Post{
		ID:      types.ParseID(id),
		Title:   title,
		Author:  "Ada",
		Date:    date,
		Content: "Body of " + title,
	}
}

// CreateTestModel creates a sized Model over repo with default keybindings.
// Messages never expire so tests can read them.
func CreateTestModel(t *testing.T, repo *fakeRepo, activity ActivityLog) *Model {
	t.Helper()

	m := New(repo, activity, keybinds.NewDefaultRegistry(), zerolog.Nop())
	m.profile = "test"
	m.baseURL = "http://localhost:3000"
	m.now = func() time.Time { return time.Date(2024, 5, 6, 22, 30, 0, 0, time.UTC) }
	m.copyText = func(string) error { return nil }
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m
}

// startModel runs Init and every command it triggers
func startModel(t *testing.T, repo *fakeRepo, activity ActivityLog) *Model {
	t.Helper()
	m := CreateTestModel(t, repo, activity)
	drain(t, m, m.Init())
	return m
}

// drain runs cmd and feeds every resulting message back through Update,
// following batches, until nothing is left
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("drain: too many commands")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case effectResultMsg, historyLoadedMsg:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

// press sends a key through Update and drains what it triggers
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		drain(t, m, cmd)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// AssertModelField checks a model field value
func AssertModelField(t *testing.T, fieldName string, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}
