package viewstate

import (
	"github.com/studiowebux/blogdesk/internal/types"
)

// Event is an input to Transition: a user action or the result of an Effect
type Event interface {
	isEvent()
}

// Start performs the initial list load and selects the newest post
type Start struct{}

// Reload refetches the list, selecting the newest post when nothing is selected
type Reload struct{}

type ListLoaded struct {
	Seq   uint64
	Posts []types.Post
}

type ListFailed struct {
	Seq uint64
	Err error
}

// Select makes id the current post. Selecting the current id again retries its fetch.
type Select struct {
	ID types.PostID
}

type PostLoaded struct {
	Seq  uint64
	Post types.Post
}

type PostFailed struct {
	Seq uint64
	Err error
}

type BeginEdit struct{}

type CancelEdit struct{}

// Save submits the edit buffer
type Save struct {
	Buffer EditBuffer
}

type Updated struct {
	Seq  uint64
	Post types.Post
}

type UpdateFailed struct {
	Seq uint64
	Err error
}

// RequestDelete opens the confirmation gate
type RequestDelete struct{}

type ConfirmDelete struct{}

type DeclineDelete struct{}

type DeleteDone struct {
	Seq uint64
	ID  types.PostID
}

type DeleteFailed struct {
	Seq uint64
	Err error
}

// Create submits a new post independently of the selection
type Create struct {
	Draft types.Draft
}

type Created struct {
	Post types.Post
}

type CreateFailed struct {
	Err error
}

type DismissNotice struct{}

func (Start) isEvent()         {}
func (Reload) isEvent()        {}
func (ListLoaded) isEvent()    {}
func (ListFailed) isEvent()    {}
func (Select) isEvent()        {}
func (PostLoaded) isEvent()    {}
func (PostFailed) isEvent()    {}
func (BeginEdit) isEvent()     {}
func (CancelEdit) isEvent()    {}
func (Save) isEvent()          {}
func (Updated) isEvent()       {}
func (UpdateFailed) isEvent()  {}
func (RequestDelete) isEvent() {}
func (ConfirmDelete) isEvent() {}
func (DeclineDelete) isEvent() {}
func (DeleteDone) isEvent()    {}
func (DeleteFailed) isEvent()  {}
func (Create) isEvent()        {}
func (Created) isEvent()       {}
func (CreateFailed) isEvent()  {}
func (DismissNotice) isEvent() {}
