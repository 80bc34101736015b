package viewstate

import (
	"context"
	"errors"

	"github.com/studiowebux/blogdesk/internal/types"
)

// ErrUserCancelled marks a declined delete confirmation. It is a no-op, not a failure.
var ErrUserCancelled = errors.New("cancelled by user")

// Repository is the post store the effects run against
type Repository interface {
	ListPosts(ctx context.Context) ([]types.Post, error)
	GetPost(ctx context.Context, id types.PostID) (types.Post, error)
	CreatePost(ctx context.Context, draft types.Draft) (types.Post, error)
	UpdatePost(ctx context.Context, id types.PostID, patch types.Patch) (types.Post, error)
	DeletePost(ctx context.Context, id types.PostID) error
}

// Perform runs one effect with a single attempt and reports the outcome as an event
func Perform(ctx context.Context, repo Repository, eff Effect) Event {
	switch e := eff.(type) {
	case FetchList:
		posts, err := repo.ListPosts(ctx)
		if err != nil {
			return ListFailed{Seq: e.Seq, Err: err}
		}
		return ListLoaded{Seq: e.Seq, Posts: posts}

	case FetchPost:
		post, err := repo.GetPost(ctx, e.ID)
		if err != nil {
			return PostFailed{Seq: e.Seq, Err: err}
		}
		return PostLoaded{Seq: e.Seq, Post: post}

	case UpdatePost:
		post, err := repo.UpdatePost(ctx, e.ID, e.Patch)
		if err != nil {
			return UpdateFailed{Seq: e.Seq, Err: err}
		}
		return Updated{Seq: e.Seq, Post: post}

	case DeletePost:
		if err := repo.DeletePost(ctx, e.ID); err != nil {
			return DeleteFailed{Seq: e.Seq, Err: err}
		}
		return DeleteDone{Seq: e.Seq, ID: e.ID}

	case CreatePost:
		post, err := repo.CreatePost(ctx, e.Draft)
		if err != nil {
			return CreateFailed{Err: err}
		}
		return Created{Post: post}
	}
	return nil
}

// Machine drives Transition and Perform synchronously. Each Send runs every
// resulting effect to completion, in order, before returning.
type Machine struct {
	repo  Repository
	state State
}

// NewMachine creates a machine in the zero state
func NewMachine(repo Repository) *Machine {
	return &Machine{repo: repo}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Send applies ev and every follow-up event. A declined delete returns ErrUserCancelled.
func (m *Machine) Send(ctx context.Context, ev Event) (State, error) {
	_, declined := ev.(DeclineDelete)
	declined = declined && m.state.confirming

	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		m.state, effects = Transition(m.state, next)
		for _, eff := range effects {
			if err := ctx.Err(); err != nil {
				return m.state, err
			}
			if result := Perform(ctx, m.repo, eff); result != nil {
				queue = append(queue, result)
			}
		}
	}

	if declined {
		return m.state, ErrUserCancelled
	}
	return m.state, nil
}
