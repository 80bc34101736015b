package viewstate

import (
	"github.com/studiowebux/blogdesk/internal/types"
)

// Transition applies ev to s and returns the next state plus the repository
// calls to perform. It never blocks and never touches the network.
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Start:
		return s.fetchList(true)

	case Reload:
		return s.fetchList(s.selected.IsZero())

	case ListLoaded:
		if e.Seq != s.listSeq {
			return s, nil
		}
		return s.listLoaded(e.Posts)

	case ListFailed:
		if e.Seq != s.listSeq {
			return s, nil
		}
		s.list = ListError
		s.posts = nil
		s.listErr = e.Err
		s.autoSelect = false
		return s, nil

	case Select:
		if e.ID.IsZero() {
			return s, nil
		}
		return s.selectPost(e.ID)

	case PostLoaded:
		if e.Seq != s.selSeq || s.detail != DetailLoading {
			return s, nil
		}
		s.detail = DetailReady
		s.post = e.Post
		s.detailErr = nil
		return s, nil

	case PostFailed:
		if e.Seq != s.selSeq || s.detail != DetailLoading {
			return s, nil
		}
		s.detail = DetailFailed
		s.post = types.Post{}
		s.detailErr = e.Err
		return s, nil

	case BeginEdit:
		if s.Kind() != KindViewing {
			return s, nil
		}
		s.editing = true
		s.buffer = EditBuffer{Title: s.post.Title, Content: s.post.Content}
		return s, nil

	case CancelEdit:
		if !s.editing || s.saving {
			return s, nil
		}
		return s.clearEdit(), nil

	case Save:
		if !s.editing || s.saving {
			return s, nil
		}
		s.buffer = e.Buffer
		s.saving = true
		return s, []Effect{UpdatePost{
			Seq:   s.selSeq,
			ID:    s.selected,
			Patch: types.Patch{Title: e.Buffer.Title, Content: e.Buffer.Content},
		}}

	case Updated:
		s.saving = false
		if e.Seq == s.selSeq && s.editing {
			s = s.clearEdit()
			s = s.show(e.Post)
		}
		return s.fetchList(false)

	case UpdateFailed:
		s.saving = false
		s.notice = &Notice{Op: "update", Err: e.Err}
		return s, nil

	case RequestDelete:
		if !s.CanModify() {
			return s, nil
		}
		s.confirming = true
		return s, nil

	case DeclineDelete:
		s.confirming = false
		return s, nil

	case ConfirmDelete:
		if !s.confirming {
			return s, nil
		}
		s.confirming = false
		s.deleting = true
		return s, []Effect{DeletePost{Seq: s.selSeq, ID: s.selected}}

	case DeleteDone:
		s.deleting = false
		if e.Seq == s.selSeq {
			s = s.clearEdit()
			s.selected = types.PostID{}
			s.selSeq++
			s.detail = DetailDeleted
			s.post = types.Post{}
			s.detailErr = nil
		}
		return s.fetchList(false)

	case DeleteFailed:
		s.deleting = false
		s.notice = &Notice{Op: "delete", Err: e.Err}
		return s, nil

	case Create:
		if s.creating {
			return s, nil
		}
		s.creating = true
		return s, []Effect{CreatePost{Draft: e.Draft}}

	case Created:
		s.creating = false
		s = s.clearEdit()
		s.selSeq++
		s = s.show(e.Post)
		return s.fetchList(false)

	case CreateFailed:
		s.creating = false
		s.notice = &Notice{Op: "create", Err: e.Err}
		return s, nil

	case DismissNotice:
		s.notice = nil
		return s, nil
	}

	return s, nil
}

func (s State) fetchList(autoSelect bool) (State, []Effect) {
	s.listSeq++
	s.list = ListLoading
	s.listErr = nil
	s.autoSelect = autoSelect
	return s, []Effect{FetchList{Seq: s.listSeq}}
}

func (s State) listLoaded(posts []types.Post) (State, []Effect) {
	s.list = ListReady
	s.posts = types.Posts(posts).SortByNewest()
	s.listErr = nil
	autoSelect := s.autoSelect
	s.autoSelect = false

	if len(s.posts) == 0 {
		s = s.clearEdit()
		s.selected = types.PostID{}
		s.selSeq++
		s.detail = DetailNone
		s.post = types.Post{}
		s.detailErr = nil
		return s, nil
	}

	if autoSelect && s.selected.IsZero() {
		return s.selectPost(s.posts[0].ID)
	}
	return s, nil
}

func (s State) selectPost(id types.PostID) (State, []Effect) {
	s = s.clearEdit()
	s.selSeq++
	s.selected = id
	s.detail = DetailLoading
	s.post = types.Post{}
	s.detailErr = nil
	return s, []Effect{FetchPost{Seq: s.selSeq, ID: id}}
}

// show makes p the viewed post. A response without an id keeps the current one.
func (s State) show(p types.Post) State {
	if !p.ID.IsZero() {
		s.selected = p.ID
	}
	s.detail = DetailReady
	s.post = p
	s.detailErr = nil
	return s
}
