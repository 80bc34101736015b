package viewstate

import (
	"github.com/studiowebux/blogdesk/internal/types"
)

// Effect is a repository call requested by Transition. Seq identifies the
// request so late results can be discarded.
type Effect interface {
	isEffect()
}

type FetchList struct {
	Seq uint64
}

type FetchPost struct {
	Seq uint64
	ID  types.PostID
}

type UpdatePost struct {
	Seq   uint64
	ID    types.PostID
	Patch types.Patch
}

type DeletePost struct {
	Seq uint64
	ID  types.PostID
}

// CreatePost is not tied to a selection; its result always becomes current
type CreatePost struct {
	Draft types.Draft
}

func (FetchList) isEffect()  {}
func (FetchPost) isEffect()  {}
func (UpdatePost) isEffect() {}
func (DeletePost) isEffect() {}
func (CreatePost) isEffect() {}
