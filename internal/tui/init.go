package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/config"
	"github.com/studiowebux/blogdesk/internal/history"
	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/logging"
	"github.com/studiowebux/blogdesk/internal/viewstate"
)

// Options select the backend the TUI talks to
type Options struct {
	Profile string
	BaseURL string
	Debug   bool
}

// New creates a new TUI model. activity may be nil.
func New(repo viewstate.Repository, activity ActivityLog, registry *keybinds.Registry, logger zerolog.Logger) Model {
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}

	m := Model{
		repo:         repo,
		activity:     activity,
		keybinds:     registry,
		logger:       logger,
		now:          time.Now,
		copyText:     clipboard.WriteAll,
		mode:         ModeNormal,
		focusedPanel: "list",
		searchInput:  newTextInput("filter titles", 100),
		detailView:   viewport.New(80, 20),
		editTitle:    newTextInput("Title", 200),
		editContent:  newTextArea("Content"),
		createForm:   NewCreateForm(),
		historyState: NewHistoryState(),
		helpView:     viewport.New(80, 20),
	}
	m.searchInput.Prompt = "/"

	return m
}

// Run starts the TUI
func Run(opts Options) error {
	logger, logCloser, err := logging.File(config.LogFile, opts.Debug)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logCloser.Close()

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	profile, err := settings.Profile(opts.Profile)
	if err != nil {
		return err
	}
	baseURL := config.ResolveBaseURL(profile, opts.BaseURL)

	clientOpts := []client.Option{client.WithLogger(logger)}
	var activity ActivityLog
	if hist, err := history.NewManager(config.DatabasePath); err != nil {
		logger.Warn().Err(err).Msg("activity log disabled")
	} else {
		defer hist.Close()
		activity = hist
		clientOpts = append(clientOpts, client.WithRecorder(hist, profile.Name))
	}

	repo, err := client.NewFromProfile(profile, baseURL, clientOpts...)
	if err != nil {
		return err
	}

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return fmt.Errorf("failed to load keybindings: %w", err)
	}
	result := keybinds.NewValidator().ValidateRegistry(registry)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings in %s:\n%s", config.KeybindsFile, result.String())
	}
	for _, w := range result.Warnings {
		logger.Warn().Str("context", string(w.Context)).Str("key", w.Key).Msg(w.Message)
	}

	m := New(repo, activity, registry, logger)
	m.profile = profile.Name
	m.baseURL = baseURL
	m.messageTimeout = time.Duration(settings.MessageTimeout) * time.Second

	logger.Info().Str("profile", profile.Name).Str("base_url", baseURL).Msg("tui started")

	// Update uses a pointer receiver
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
