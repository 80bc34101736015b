package viewstate

import (
	"github.com/studiowebux/blogdesk/internal/types"
)

// Kind is the coarse view the renderer draws
type Kind int

const (
	KindIdle Kind = iota
	KindEmpty
	KindLoading
	KindViewing
	KindEditing
	KindConfirmingDelete
	KindDeleted
	KindDetailError
	KindListError
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "Idle"
	case KindEmpty:
		return "Empty"
	case KindLoading:
		return "Loading"
	case KindViewing:
		return "Viewing"
	case KindEditing:
		return "Editing"
	case KindConfirmingDelete:
		return "ConfirmingDelete"
	case KindDeleted:
		return "Deleted"
	case KindDetailError:
		return "DetailError"
	case KindListError:
		return "ListError"
	default:
		return "Unknown"
	}
}

// ListPhase tracks the list fetch
type ListPhase int

const (
	ListIdle ListPhase = iota
	ListLoading
	ListReady
	ListError
)

// DetailPhase tracks the detail panel
type DetailPhase int

const (
	DetailNone DetailPhase = iota
	DetailLoading
	DetailReady
	DetailFailed
	DetailDeleted
)

// EditBuffer is the title/content draft of the edit panel
type EditBuffer struct {
	Title   string
	Content string
}

// Notice is a blocking failure report for a create, update or delete
type Notice struct {
	Op  string
	Err error
}

// State is the complete selection and list state. The zero value is the
// state before Start.
type State struct {
	list    ListPhase
	posts   types.Posts
	listErr error
	listSeq uint64

	// autoSelect makes the next successful list load select the first post
	autoSelect bool

	selected  types.PostID
	selSeq    uint64
	detail    DetailPhase
	post      types.Post
	detailErr error

	editing    bool
	buffer     EditBuffer
	confirming bool

	saving   bool
	deleting bool
	creating bool

	notice *Notice
}

// Kind derives the renderer view from the phases
func (s State) Kind() Kind {
	switch {
	case s.confirming:
		return KindConfirmingDelete
	case s.editing:
		return KindEditing
	}

	switch s.detail {
	case DetailLoading:
		return KindLoading
	case DetailReady:
		return KindViewing
	case DetailFailed:
		return KindDetailError
	case DetailDeleted:
		return KindDeleted
	}

	switch {
	case s.list == ListError:
		return KindListError
	case s.list == ListReady && len(s.posts) == 0:
		return KindEmpty
	}
	return KindIdle
}

func (s State) ListPhase() ListPhase     { return s.list }
func (s State) DetailPhase() DetailPhase { return s.detail }

// Posts returns the list sorted newest first
func (s State) Posts() types.Posts { return s.posts }

// Count is the number shown in the list header. It is zero after a list failure.
func (s State) Count() int { return len(s.posts) }

func (s State) ListErr() error   { return s.listErr }
func (s State) DetailErr() error { return s.detailErr }

// Selected is the current post id, retained after a detail failure
func (s State) Selected() types.PostID { return s.selected }

// Post returns the loaded detail, if any
func (s State) Post() (types.Post, bool) {
	if s.detail != DetailReady {
		return types.Post{}, false
	}
	return s.post, true
}

func (s State) Editing() bool      { return s.editing }
func (s State) Buffer() EditBuffer { return s.buffer }
func (s State) Saving() bool       { return s.saving }
func (s State) Deleting() bool     { return s.deleting }
func (s State) Creating() bool     { return s.creating }
func (s State) Notice() *Notice    { return s.notice }

// CanModify reports whether edit and delete controls are shown
func (s State) CanModify() bool {
	return s.Kind() == KindViewing && !s.deleting
}

func (s State) clearEdit() State {
	s.editing = false
	s.buffer = EditBuffer{}
	s.confirming = false
	return s
}
