package tui

import (
	"strings"
	"testing"

	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/types"
	"github.com/studiowebux/blogdesk/internal/viewstate"
)

func TestRenderDetail_Placeholders(t *testing.T) {
	keys := keybinds.NewDefaultRegistry()

	idle := renderDetail(viewstate.State{}, keys, 60)
	if !strings.Contains(idle, textNothing) {
		t.Errorf("idle detail = %q", idle)
	}

	loading, _ := viewstate.Transition(viewstate.State{}, viewstate.Select{ID: types.ParseID("7")})
	if got := renderDetail(loading, keys, 60); !strings.Contains(got, textDetailLoading) {
		t.Errorf("loading detail = %q", got)
	}
}

func TestRenderDetail_ImageLine(t *testing.T) {
	avatar := "https://example.com/cat.png"
	withImage := testPost("1", "Cats", "2024-01-01")
	withImage.Avatar = &avatar
	blank := "   "
	noImage := testPost("2", "Dogs", "2024-02-01")
	noImage.Avatar = &blank

	tests := []struct {
		name      string
		post      types.Post
		wantImage bool
	}{
		{"image set", withImage, true},
		{"blank image", noImage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := startModel(t, newFakeRepo(tt.post), nil)
			got := renderDetail(m.state, m.keybinds, 60)

			if strings.Contains(got, "Image:") != tt.wantImage {
				t.Errorf("image line shown = %v, want %v:\n%s", !tt.wantImage, tt.wantImage, got)
			}
			if !strings.Contains(got, "e: edit | d: delete") {
				t.Errorf("missing action hints:\n%s", got)
			}
		})
	}
}

func TestRenderDetail_DetailError(t *testing.T) {
	repo := twoPosts()
	m := startModel(t, repo, nil)

	// post 1 disappears before it is opened
	repo.posts = repo.posts[1:]
	press(t, m, "j", "enter")

	AssertModelField(t, "kind", m.state.Kind(), viewstate.KindDetailError)
	got := renderDetail(m.state, m.keybinds, 60)
	for _, want := range []string{textDetailFailed, "Post no longer exists (404)", "enter: retry"} {
		if !strings.Contains(got, want) {
			t.Errorf("detail error missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "edit") {
		t.Error("edit hint shown on a failed detail")
	}
}

func TestRenderList_Header(t *testing.T) {
	m := startModel(t, newFakeRepo(testPost("1", "Only", "2024-01-01")), nil)
	if got := m.renderList(40); !strings.Contains(got, "1 post\n") {
		t.Errorf("list = %q", got)
	}
	if !strings.Contains(m.renderList(40), "> Only") {
		t.Error("cursor marker missing")
	}

	m = startModel(t, twoPosts(), nil)
	m.setFilter("zzz")
	if got := m.renderList(40); !strings.Contains(got, "No posts match the filter") {
		t.Errorf("filtered list = %q", got)
	}
}

func TestPostCount(t *testing.T) {
	tests := map[int]string{0: "0 posts", 1: "1 post", 2: "2 posts"}
	for n, want := range tests {
		if got := postCount(n); got != want {
			t.Errorf("postCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer title", 8, "a lon..."},
		{"tiny", 3, "tiny"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestNoticeText(t *testing.T) {
	tests := map[string]string{
		"create": "Failed to add new post. Please try again.",
		"update": "Failed to update post. Please try again.",
		"delete": "Failed to delete post. Please try again.",
	}
	for op, want := range tests {
		if got := noticeText(op); got != want {
			t.Errorf("noticeText(%q) = %q, want %q", op, got, want)
		}
	}
}

func TestPostText(t *testing.T) {
	avatar := "https://example.com/a.png"
	p := testPost("1", "Hello", "2024-01-01")
	p.Avatar = &avatar

	want := "Hello\nBy Ada • 2024-01-01\nImage: https://example.com/a.png\n\nBody of Hello"
	if got := postText(p); got != want {
		t.Errorf("postText() = %q, want %q", got, want)
	}
}
