package viewstate

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/types"
)

type patchCall struct {
	ID    types.PostID
	Patch types.Patch
}

// fakeRepo is an in-memory Repository that counts calls
type fakeRepo struct {
	posts   []types.Post
	nextID  int
	listErr error
	getErr  map[string]error
	failAll error

	gets    []types.PostID
	patches []patchCall
	deletes []types.PostID
	creates []types.Draft
}

func newFakeRepo(posts ...types.Post) *fakeRepo {
	return &fakeRepo{posts: posts, nextID: 100, getErr: make(map[string]error)}
}

func (r *fakeRepo) ListPosts(ctx context.Context) ([]types.Post, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]types.Post, len(r.posts))
	copy(out, r.posts)
	return out, nil
}

func (r *fakeRepo) GetPost(ctx context.Context, id types.PostID) (types.Post, error) {
	r.gets = append(r.gets, id)
	if err := r.getErr[id.String()]; err != nil {
		return types.Post{}, err
	}
	if p, ok := types.Posts(r.posts).Find(id); ok {
		return p, nil
	}
	return types.Post{}, &client.Failure{Op: "get", Kind: client.KindHTTPStatus, Status: 404}
}

func (r *fakeRepo) CreatePost(ctx context.Context, draft types.Draft) (types.Post, error) {
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
	r.patches = append(r.patches, patchCall{ID: id, Patch: patch})
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

func post(id, date string) types.Post {
	return types.Post{ID: types.ParseID(id), Title: "post " + id, Author: "author", Date: date, Content: "body " + id}
}

func send(t *testing.T, m *Machine, ev Event) State {
	t.Helper()
	s, err := m.Send(context.Background(), ev)
	if err != nil {
		t.Fatalf("Send(%T) error: %v", ev, err)
	}
	return s
}

func assertKind(t *testing.T, s State, want Kind) {
	t.Helper()
	if got := s.Kind(); got != want {
		t.Fatalf("Kind() = %s, want %s", got, want)
	}
}

func TestStart_SelectsNewestPost(t *testing.T) {
	s, effects := Transition(State{}, Start{})
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %d", len(effects))
	}
	fetch, ok := effects[0].(FetchList)
	if !ok {
		t.Fatalf("expected FetchList, got %T", effects[0])
	}
	assertKind(t, s, KindIdle)

	s, effects = Transition(s, ListLoaded{Seq: fetch.Seq, Posts: []types.Post{post("1", "2024-01-01"), post("2", "2024-03-01")}})
	assertKind(t, s, KindLoading)
	if s.Selected().String() != "2" {
		t.Errorf("Selected() = %s, want 2", s.Selected())
	}
	if got := []string{s.Posts()[0].ID.String(), s.Posts()[1].ID.String()}; got[0] != "2" || got[1] != "1" {
		t.Errorf("order = %v, want [2 1]", got)
	}

	get, ok := effects[0].(FetchPost)
	if !ok || get.ID.String() != "2" {
		t.Fatalf("expected FetchPost(2), got %+v", effects)
	}

	s, _ = Transition(s, PostLoaded{Seq: get.Seq, Post: post("2", "2024-03-01")})
	assertKind(t, s, KindViewing)
	if p, ok := s.Post(); !ok || p.ID.String() != "2" {
		t.Errorf("Post() = %+v, %v", p, ok)
	}
}

func TestStart_EmptyList(t *testing.T) {
	m := NewMachine(newFakeRepo())
	s := send(t, m, Start{})
	assertKind(t, s, KindEmpty)
	if s.CanModify() {
		t.Error("edit/delete must be hidden when empty")
	}
	if !s.Selected().IsZero() {
		t.Error("nothing should be selected")
	}
}

func TestStart_ListFailure(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	repo.listErr = &client.Failure{Op: "list", Kind: client.KindTransport, Err: errors.New("connection refused")}

	s := send(t, NewMachine(repo), Start{})
	assertKind(t, s, KindListError)
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	if !client.IsTransport(s.ListErr()) {
		t.Errorf("ListErr() = %v", s.ListErr())
	}
	if len(repo.gets) != 0 {
		t.Error("no detail fetch expected after a list failure")
	}
}

func TestRenderedOrderIsNonIncreasingAndStable(t *testing.T) {
	repo := newFakeRepo(
		post("a", "2024-01-01"),
		post("b", "2024-05-01"),
		post("c", "2024-01-01"),
		post("d", "2024-05-01"),
		post("e", "2023-12-31"),
	)
	s := send(t, NewMachine(repo), Start{})

	posts := s.Posts()
	dates := make([]string, len(posts))
	for i, p := range posts {
		dates[i] = p.Date
	}
	if !sort.SliceIsSorted(dates, func(i, j int) bool { return dates[i] > dates[j] }) {
		t.Errorf("dates not non-increasing: %v", dates)
	}

	var ids string
	for _, p := range posts {
		ids += p.ID.String()
	}
	if ids != "bdace" {
		t.Errorf("order = %s, want bdace", ids)
	}
}

func TestSelect(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"), post("5", "2024-02-01"))
	m := NewMachine(repo)
	send(t, m, Start{})

	s := send(t, m, Select{ID: types.ParseID("1")})
	assertKind(t, s, KindViewing)
	if s.Selected().String() != "1" {
		t.Errorf("Selected() = %s", s.Selected())
	}

	repo.getErr["5"] = &client.Failure{Op: "get", Kind: client.KindTransport, Err: errors.New("boom")}
	s = send(t, m, Select{ID: types.ParseID("5")})
	assertKind(t, s, KindDetailError)
	if s.Selected().String() != "5" {
		t.Error("selection id must be retained after a detail failure")
	}

	delete(repo.getErr, "5")
	s = send(t, m, Select{ID: s.Selected()})
	assertKind(t, s, KindViewing)
}

func TestSelect_MissingPostIsDetailError(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	send(t, m, Start{})

	s := send(t, m, Select{ID: types.ParseID("5")})
	assertKind(t, s, KindDetailError)
	if !client.IsNotFound(s.DetailErr()) {
		t.Errorf("DetailErr() = %v, want 404 failure", s.DetailErr())
	}
}

func TestStaleDetailIsDiscarded(t *testing.T) {
	s, _ := Transition(State{}, Start{})
	s, _ = Transition(s, ListLoaded{Seq: 1, Posts: []types.Post{post("1", "2024-01-01"), post("2", "2024-02-01")}})

	s, first := Transition(s, Select{ID: types.ParseID("1")})
	s, second := Transition(s, Select{ID: types.ParseID("2")})
	firstSeq := first[0].(FetchPost).Seq
	secondSeq := second[0].(FetchPost).Seq

	s, _ = Transition(s, PostLoaded{Seq: secondSeq, Post: post("2", "2024-02-01")})
	s, _ = Transition(s, PostLoaded{Seq: firstSeq, Post: post("1", "2024-01-01")})

	p, ok := s.Post()
	if !ok || p.ID.String() != "2" {
		t.Fatalf("stale response replaced the detail: %+v", p)
	}

	s, _ = Transition(s, PostFailed{Seq: firstSeq, Err: errors.New("late")})
	assertKind(t, s, KindViewing)
}

func TestStaleListIsDiscarded(t *testing.T) {
	s, _ := Transition(State{}, Start{})
	s, _ = Transition(s, Reload{})

	s, _ = Transition(s, ListLoaded{Seq: 2, Posts: []types.Post{post("1", "2024-01-01")}})
	s, _ = Transition(s, ListLoaded{Seq: 1, Posts: nil})
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
	s, _ = Transition(s, ListFailed{Seq: 1, Err: errors.New("late")})
	if s.ListPhase() != ListReady {
		t.Errorf("stale list failure applied")
	}
}

func TestEditSave(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"), post("2", "2024-02-01"))
	m := NewMachine(repo)
	send(t, m, Start{})

	s := send(t, m, BeginEdit{})
	assertKind(t, s, KindEditing)
	if s.Buffer().Title != "post 2" || s.Buffer().Content != "body 2" {
		t.Errorf("Buffer() = %+v", s.Buffer())
	}

	s = send(t, m, Save{Buffer: EditBuffer{Title: "T", Content: "C"}})
	assertKind(t, s, KindViewing)
	if s.Selected().String() != "2" {
		t.Errorf("Selected() = %s, want 2", s.Selected())
	}
	if p, _ := s.Post(); p.Title != "T" {
		t.Errorf("detail not updated: %+v", p)
	}
	if len(repo.patches) != 1 {
		t.Fatalf("expected exactly one PATCH, got %d", len(repo.patches))
	}
	if got := repo.patches[0]; got.ID.String() != "2" || got.Patch != (types.Patch{Title: "T", Content: "C"}) {
		t.Errorf("PATCH = %+v", got)
	}
	if s.Posts()[0].Title != "T" {
		t.Error("list was not refetched after save")
	}
}

func TestEditSave_FailureKeepsBuffer(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	send(t, m, Start{})
	send(t, m, BeginEdit{})

	repo.failAll = &client.Failure{Op: "update", Kind: client.KindHTTPStatus, Status: 500}
	s := send(t, m, Save{Buffer: EditBuffer{Title: "draft", Content: "kept"}})
	assertKind(t, s, KindEditing)
	if s.Buffer() != (EditBuffer{Title: "draft", Content: "kept"}) {
		t.Errorf("buffer lost: %+v", s.Buffer())
	}
	if s.Notice() == nil || s.Notice().Op != "update" {
		t.Fatalf("expected update notice, got %+v", s.Notice())
	}

	s = send(t, m, DismissNotice{})
	if s.Notice() != nil {
		t.Error("notice not dismissed")
	}
}

func TestCancelEdit(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	send(t, m, Start{})
	send(t, m, BeginEdit{})

	s := send(t, m, CancelEdit{})
	assertKind(t, s, KindViewing)
	if s.Buffer() != (EditBuffer{}) {
		t.Error("buffer should be discarded")
	}
	if len(repo.patches) != 0 {
		t.Error("cancel must not call the repository")
	}
}

func TestBeginEdit_OnlyFromViewing(t *testing.T) {
	s, _ := Transition(State{}, Start{})
	s, _ = Transition(s, BeginEdit{})
	if s.Editing() {
		t.Error("edit opened without a viewed post")
	}
}

func TestDelete_Decline(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	before := send(t, m, Start{})

	s := send(t, m, RequestDelete{})
	assertKind(t, s, KindConfirmingDelete)

	s, err := m.Send(context.Background(), DeclineDelete{})
	if !errors.Is(err, ErrUserCancelled) {
		t.Errorf("expected ErrUserCancelled, got %v", err)
	}
	assertKind(t, s, KindViewing)
	if s.Selected() != before.Selected() {
		t.Error("selection changed")
	}
	if len(repo.deletes) != 0 {
		t.Errorf("expected zero DELETE calls, got %d", len(repo.deletes))
	}
}

func TestDelete_Confirm(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"), post("2", "2024-02-01"))
	m := NewMachine(repo)
	send(t, m, Start{})
	send(t, m, RequestDelete{})

	s := send(t, m, ConfirmDelete{})
	assertKind(t, s, KindDeleted)
	if len(repo.deletes) != 1 || repo.deletes[0].String() != "2" {
		t.Fatalf("DELETE calls = %v", repo.deletes)
	}
	if s.Count() != 1 {
		t.Errorf("list not refetched, Count() = %d", s.Count())
	}
	if s.CanModify() || s.Editing() {
		t.Error("controls must be hidden after delete")
	}
}

func TestDelete_LastPostBecomesEmpty(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	send(t, m, Start{})
	send(t, m, RequestDelete{})
	s := send(t, m, ConfirmDelete{})
	assertKind(t, s, KindEmpty)
}

func TestDelete_FailureStaysViewing(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	send(t, m, Start{})
	send(t, m, RequestDelete{})

	repo.failAll = &client.Failure{Op: "delete", Kind: client.KindHTTPStatus, Status: 404}
	s := send(t, m, ConfirmDelete{})
	assertKind(t, s, KindViewing)
	if s.Notice() == nil || !client.IsNotFound(s.Notice().Err) {
		t.Errorf("Notice() = %+v", s.Notice())
	}
}

func TestDelete_RequiresViewing(t *testing.T) {
	s, _ := Transition(State{}, RequestDelete{})
	if s.Kind() == KindConfirmingDelete {
		t.Error("confirmation opened with nothing selected")
	}
	s, effects := Transition(s, ConfirmDelete{})
	if len(effects) != 0 {
		t.Error("delete issued without confirmation gate")
	}
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	send(t, m, Start{})

	now := time.Now()
	draft := types.NewDraft("A", "B", "", "C", now)
	s := send(t, m, Create{Draft: draft})

	if len(repo.creates) != 1 {
		t.Fatalf("expected one POST, got %d", len(repo.creates))
	}
	got := repo.creates[0]
	if got.Avatar != nil {
		t.Error("empty avatar should be sent as null")
	}
	if got.Date != types.Today(now) {
		t.Errorf("date = %s, want %s", got.Date, types.Today(now))
	}

	assertKind(t, s, KindViewing)
	p, _ := s.Post()
	if s.Selected().String() != "101" || p.Title != "A" {
		t.Errorf("new post not selected: %s %+v", s.Selected(), p)
	}
	if s.Count() != 2 {
		t.Errorf("list not refetched, Count() = %d", s.Count())
	}
}

func TestCreate_Failure(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"))
	m := NewMachine(repo)
	before := send(t, m, Start{})

	repo.failAll = &client.Failure{Op: "create", Kind: client.KindTransport, Err: errors.New("refused")}
	s := send(t, m, Create{Draft: types.NewDraft("A", "B", "", "C", time.Now())})
	if s.Notice() == nil || s.Notice().Op != "create" {
		t.Fatalf("Notice() = %+v", s.Notice())
	}
	if s.Selected() != before.Selected() || s.Creating() {
		t.Error("failed create changed the selection")
	}
}

func TestCreate_ResultWinsOverSelectionMadeMeanwhile(t *testing.T) {
	s, eff := Transition(State{}, Start{})
	list := eff[0].(FetchList)

	s, eff = Transition(s, Create{Draft: types.NewDraft("A", "B", "", "C", time.Now())})
	create := eff[0].(CreatePost)

	s, eff = Transition(s, ListLoaded{Seq: list.Seq, Posts: []types.Post{post("1", "2024-01-01")}})
	fetch := eff[0].(FetchPost)
	s, _ = Transition(s, PostLoaded{Seq: fetch.Seq, Post: post("1", "2024-01-01")})
	if s.Selected().String() != "1" {
		t.Fatalf("Selected() = %s before the create result", s.Selected())
	}

	created := types.Post{ID: types.ParseID("2"), Title: create.Draft.Title, Date: create.Draft.Date}
	s, eff = Transition(s, Created{Post: created})
	assertKind(t, s, KindViewing)
	if s.Selected().String() != "2" {
		t.Errorf("Selected() = %s, want the new post 2", s.Selected())
	}
	if s.Creating() {
		t.Error("Creating() still set")
	}
	if len(eff) != 1 {
		t.Fatalf("expected a list refetch, got %v", eff)
	}
	if _, ok := eff[0].(FetchList); !ok {
		t.Errorf("effect = %T, want FetchList", eff[0])
	}
}

func TestMutationResultAfterReselectOnlyRefreshesList(t *testing.T) {
	s, _ := Transition(State{}, Start{})
	s, _ = Transition(s, ListLoaded{Seq: 1, Posts: []types.Post{post("1", "2024-01-01"), post("2", "2024-02-01")}})
	s, eff := Transition(s, PostLoaded{Seq: 1, Post: post("2", "2024-02-01")})
	if len(eff) != 0 {
		t.Fatalf("unexpected effects %v", eff)
	}
	s, _ = Transition(s, BeginEdit{})
	s, eff = Transition(s, Save{Buffer: EditBuffer{Title: "T", Content: "C"}})
	update := eff[0].(UpdatePost)

	s, eff = Transition(s, Select{ID: types.ParseID("1")})
	fetch := eff[0].(FetchPost)
	s, _ = Transition(s, PostLoaded{Seq: fetch.Seq, Post: post("1", "2024-01-01")})

	s, eff = Transition(s, Updated{Seq: update.Seq, Post: types.Post{ID: types.ParseID("2"), Title: "T"}})
	if s.Selected().String() != "1" {
		t.Errorf("late save stole the selection: %s", s.Selected())
	}
	if len(eff) != 1 {
		t.Fatalf("expected a list refresh, got %v", eff)
	}
	if _, ok := eff[0].(FetchList); !ok {
		t.Errorf("expected FetchList, got %T", eff[0])
	}
	if s.Saving() {
		t.Error("saving flag not cleared")
	}
}

func TestDuplicateMutationsAreIgnored(t *testing.T) {
	s, _ := Transition(State{}, Create{Draft: types.Draft{Title: "x"}})
	_, eff := Transition(s, Create{Draft: types.Draft{Title: "x"}})
	if len(eff) != 0 {
		t.Error("second create issued while the first is in flight")
	}
}

func TestReloadKeepsSelection(t *testing.T) {
	repo := newFakeRepo(post("1", "2024-01-01"), post("2", "2024-02-01"))
	m := NewMachine(repo)
	send(t, m, Start{})
	send(t, m, Select{ID: types.ParseID("1")})

	gets := len(repo.gets)
	s := send(t, m, Reload{})
	if s.Selected().String() != "1" {
		t.Errorf("Selected() = %s, want 1", s.Selected())
	}
	if len(repo.gets) != gets {
		t.Error("reload with a selection must not refetch the detail")
	}
}

func TestSendHonoursContext(t *testing.T) {
	m := NewMachine(newFakeRepo(post("1", "2024-01-01")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Send(ctx, Start{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindConfirmingDelete.String() != "ConfirmingDelete" || Kind(99).String() != "Unknown" {
		t.Error("Kind.String() mismatch")
	}
}
