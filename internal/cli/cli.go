package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/config"
	"github.com/studiowebux/blogdesk/internal/history"
	"github.com/studiowebux/blogdesk/internal/logging"
	"github.com/studiowebux/blogdesk/internal/types"
	"github.com/studiowebux/blogdesk/internal/viewstate"
	"golang.org/x/sync/errgroup"
)

// Options are the global flags shared by every command
type Options struct {
	Profile string
	BaseURL string
	Debug   bool
	Output  string // json, yaml, text; empty uses the profile's
}

// Env is everything a command needs to talk to the backend and the terminal
type Env struct {
	Repo    viewstate.Repository
	History *history.Manager // nil when the activity log is unavailable
	Logger  zerolog.Logger
	Format  string
	Color   bool

	ProfileName string // scopes history --stats

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
	Now    func() time.Time
}

// NewEnv resolves settings, profile and base URL, and builds the client
func NewEnv(opts Options) (*Env, error) {
	logger := logging.Console(os.Stderr, opts.Debug)

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	profile, err := settings.Profile(opts.Profile)
	if err != nil {
		return nil, err
	}
	baseURL := config.ResolveBaseURL(profile, opts.BaseURL)

	env := &Env{
		ProfileName: profile.Name,
		Logger:      logger,
		Format:      opts.Output,
		Color:       isTerminal(os.Stdout),
		In:          os.Stdin,
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		Now:         time.Now,
	}
	if env.Format == "" {
		env.Format = profile.Output
	}

	clientOpts := []client.Option{client.WithLogger(logger)}
	if hist, err := history.NewManager(config.DatabasePath); err != nil {
		logger.Warn().Err(err).Msg("activity log disabled")
	} else {
		env.History = hist
		clientOpts = append(clientOpts, client.WithRecorder(hist, profile.Name))
	}

	repo, err := client.NewFromProfile(profile, baseURL, clientOpts...)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Repo = repo

	logger.Debug().Str("profile", profile.Name).Str("base_url", baseURL).Msg("using backend")
	return env, nil
}

// Close releases the activity log
func (e *Env) Close() error {
	if e.History != nil {
		return e.History.Close()
	}
	return nil
}

// ListOptions filter the list command
type ListOptions struct {
	Query   string   // JMESPath over the JSON form
	Authors []string // keep only these authors
	Search  string   // fuzzy title match
}

// List prints every post newest first
func List(ctx context.Context, env *Env, opts ListOptions) error {
	if err := checkQuery(opts.Query); err != nil {
		return err
	}

	posts, err := env.Repo.ListPosts(ctx)
	if err != nil {
		return describe(err)
	}

	sorted := types.Posts(posts).SortByNewest()
	sorted = filterPosts(sorted, opts.Authors, opts.Search)

	return printPosts(env, sorted, opts.Query)
}

// Show fetches several posts concurrently and prints them in argument order
func Show(ctx context.Context, env *Env, ids []string, query string) error {
	if err := checkQuery(query); err != nil {
		return err
	}

	parsed := make([]types.PostID, len(ids))
	for i, raw := range ids {
		if parsed[i] = types.ParseID(raw); parsed[i].IsZero() {
			return fmt.Errorf("invalid post id %q", raw)
		}
	}

	posts := make(types.Posts, len(parsed))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range parsed {
		i, id := i, id
		g.Go(func() error {
			post, err := env.Repo.GetPost(gctx, id)
			if err != nil {
				return fmt.Errorf("post %s: %w", id, describe(err))
			}
			posts[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(posts) == 1 && query == "" {
		return printPost(env, posts[0])
	}
	return printPosts(env, posts, query)
}

// Latest runs the startup flow and prints the post it selects
func Latest(ctx context.Context, env *Env) error {
	m := viewstate.NewMachine(env.Repo)
	state, err := m.Send(ctx, viewstate.Start{})
	if err != nil {
		return err
	}

	switch state.Kind() {
	case viewstate.KindViewing:
		post, _ := state.Post()
		return printPost(env, post)
	case viewstate.KindEmpty:
		fmt.Fprintln(env.ErrOut, "No posts.")
		return nil
	case viewstate.KindListError:
		return fmt.Errorf("failed to load posts: %w", describe(state.ListErr()))
	case viewstate.KindDetailError:
		return fmt.Errorf("failed to load post details: %w", describe(state.DetailErr()))
	default:
		return fmt.Errorf("unexpected view state %s", state.Kind())
	}
}

// CreateOptions are the create form fields. Content "-" reads stdin.
type CreateOptions struct {
	Title   string
	Author  string
	Avatar  string
	Content string
}

// Create submits a new post dated today
func Create(ctx context.Context, env *Env, opts CreateOptions) error {
	content, err := readContent(env.In, opts.Content)
	if err != nil {
		return err
	}
	draft := types.NewDraft(opts.Title, opts.Author, opts.Avatar, content, env.Now())
	if field := draft.MissingField(); field != "" {
		return fmt.Errorf("%s is required", field)
	}

	post, err := env.Repo.CreatePost(ctx, draft)
	if err != nil {
		return describe(err)
	}

	env.Logger.Debug().Str("id", post.ID.String()).Msg("post created")
	return printPost(env, post)
}

// Edit updates title and content. A field left nil keeps its current value,
// so the request always carries both.
func Edit(ctx context.Context, env *Env, rawID string, title, content *string) error {
	id := types.ParseID(rawID)
	if id.IsZero() {
		return fmt.Errorf("invalid post id %q", rawID)
	}
	if title == nil && content == nil {
		return fmt.Errorf("nothing to change (use --title and/or --content)")
	}

	m := viewstate.NewMachine(env.Repo)
	state, err := m.Send(ctx, viewstate.Select{ID: id})
	if err != nil {
		return err
	}
	if state.Kind() != viewstate.KindViewing {
		return fmt.Errorf("failed to load post %s: %w", id, describe(state.DetailErr()))
	}
	if state, err = m.Send(ctx, viewstate.BeginEdit{}); err != nil {
		return err
	}

	buffer := state.Buffer()
	if title != nil {
		buffer.Title = *title
	}
	if content != nil {
		text, err := readContent(env.In, *content)
		if err != nil {
			return err
		}
		buffer.Content = text
	}

	state, err = m.Send(ctx, viewstate.Save{Buffer: buffer})
	if err != nil {
		return err
	}
	if notice := state.Notice(); notice != nil {
		return describe(notice.Err)
	}

	post, _ := state.Post()
	return printPost(env, post)
}

// Delete removes a post after a y/N confirmation unless yes is set
func Delete(ctx context.Context, env *Env, rawID string, yes bool) error {
	id := types.ParseID(rawID)
	if id.IsZero() {
		return fmt.Errorf("invalid post id %q", rawID)
	}

	m := viewstate.NewMachine(env.Repo)
	state, err := m.Send(ctx, viewstate.Select{ID: id})
	if err != nil {
		return err
	}
	if state.Kind() != viewstate.KindViewing {
		return fmt.Errorf("failed to load post %s: %w", id, describe(state.DetailErr()))
	}
	if _, err := m.Send(ctx, viewstate.RequestDelete{}); err != nil {
		return err
	}

	answer := viewstate.Event(viewstate.ConfirmDelete{})
	if !yes {
		post, _ := state.Post()
		fmt.Fprintf(env.ErrOut, "Delete post %s %q by %s?", id, post.Title, post.Author)
		if !confirm(env.In, env.ErrOut) {
			answer = viewstate.DeclineDelete{}
		}
	}

	state, err = m.Send(ctx, answer)
	if errors.Is(err, viewstate.ErrUserCancelled) {
		fmt.Fprintln(env.ErrOut, "Delete cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	if notice := state.Notice(); notice != nil {
		return describe(notice.Err)
	}

	fmt.Fprintf(env.ErrOut, "Post %s deleted.\n", id)
	return nil
}

// History prints or clears the activity log
func History(env *Env, limit int, clear, stats bool) error {
	if env.History == nil {
		return fmt.Errorf("activity log is unavailable")
	}

	if stats {
		rows, err := env.History.StatsPerOperation(env.ProfileName)
		if err != nil {
			return err
		}
		return printStats(env, rows)
	}

	if clear {
		if err := env.History.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(env.ErrOut, "Activity log cleared.")
		return nil
	}

	entries, err := env.History.Load(limit)
	if err != nil {
		return err
	}
	return printActivity(env, entries)
}

// describe turns a repository failure into the message shown to the user
func describe(err error) error {
	if err == nil {
		return nil
	}
	f, ok := client.AsFailure(err)
	if !ok {
		return err
	}
	switch {
	case client.IsNotFound(err):
		return fmt.Errorf("%w (the post no longer exists)", f)
	case f.Kind == client.KindTransport:
		return fmt.Errorf("%w (is the backend running?)", f)
	}
	return f
}
