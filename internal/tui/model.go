package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/filter"
	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/types"
	"github.com/studiowebux/blogdesk/internal/viewstate"
)

// Mode is the UI overlay on top of the post view. Editing and the delete
// confirmation are not modes: they come from the view state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeCreate
	ModeHistory
	ModeHistoryClearConfirm
	ModeHelp
)

// ActivityLog is the part of the history manager the TUI reads
type ActivityLog interface {
	Load(limit int) ([]types.ActivityEntry, error)
	Clear() error
}

// Model represents the TUI state
type Model struct {
	repo     viewstate.Repository
	activity ActivityLog // nil when the activity log is unavailable
	keybinds *keybinds.Registry
	logger   zerolog.Logger

	profile        string
	baseURL        string
	messageTimeout time.Duration
	now            func() time.Time
	copyText       func(string) error

	// View state, replaced only through apply
	state viewstate.State
	mode  Mode

	// List pane
	cursor       int    // index into visiblePosts
	listOffset   int    // first visible row
	filterQuery  string // fuzzy title filter
	searchInput  textinput.Model
	focusedPanel string // "list" or "detail"

	detailView viewport.Model

	// Edit panel
	editTitle   textinput.Model
	editContent textarea.Model
	editFocus   int // 0=title, 1=content

	// Create form
	createForm *CreateForm

	historyState *HistoryState
	helpView     viewport.Model

	// UI state
	width         int
	height        int
	statusMsg     string
	errorMsg      string // Truncated error for footer
	fullStatusMsg string
	fullErrorMsg  string
}

// Init loads the post list
func (m *Model) Init() tea.Cmd {
	return m.apply(viewstate.Start{})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case effectResultMsg:
		cmd = m.apply(msg.event)

	case historyLoadedMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage(fmt.Sprintf("Failed to load activity log: %v", msg.err))
			break
		}
		m.historyState.SetEntries(msg.entries)
		m.historyState.SetIndex(0)
		m.updateHistoryView()

	case clearStatusMsg:
		m.statusMsg = ""
		m.fullStatusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch {
	case m.state.Notice() != nil:
		return m.renderNotice()
	case m.state.Kind() == viewstate.KindConfirmingDelete:
		return m.renderDeleteConfirm()
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	case ModeHistoryClearConfirm:
		return m.renderHistoryClearConfirm()
	case ModeCreate:
		return m.renderCreateForm()
	}

	if m.state.Editing() {
		return m.renderEditPanel()
	}
	return m.renderMain()
}

// apply runs one event through the state machine and turns its effects into commands
func (m *Model) apply(ev viewstate.Event) tea.Cmd {
	prev := m.state
	next, effects := viewstate.Transition(m.state, ev)
	m.state = next

	cmds := []tea.Cmd{m.perform(effects)}
	cmds = append(cmds, m.afterTransition(prev, ev))
	return tea.Batch(cmds...)
}

// perform runs each effect in its own command. Results come back as effectResultMsg.
func (m *Model) perform(effects []viewstate.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	repo := m.repo
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		eff := eff
		cmds = append(cmds, func() tea.Msg {
			return effectResultMsg{event: viewstate.Perform(context.Background(), repo, eff)}
		})
	}
	return tea.Batch(cmds...)
}

// afterTransition keeps widgets, cursor and status line in step with the new state
func (m *Model) afterTransition(prev viewstate.State, ev viewstate.Event) tea.Cmd {
	var cmd tea.Cmd

	if !prev.Editing() && m.state.Editing() {
		m.loadEditForm(m.state.Buffer())
	}

	if n := m.state.Notice(); n != nil && prev.Notice() != n {
		m.logger.Error().Err(n.Err).Str("op", n.Op).Msg("post mutation failed")
	}

	switch e := ev.(type) {
	case viewstate.ListFailed:
		if m.state.ListPhase() == viewstate.ListError && prev.ListPhase() != viewstate.ListError {
			m.logger.Warn().Err(e.Err).Msg("list failed")
		}
	case viewstate.PostFailed:
		if m.state.Kind() != viewstate.KindDetailError {
			break
		}
		m.logger.Debug().Err(e.Err).Str("id", m.state.Selected().String()).Msg("detail failed")
	case viewstate.Updated:
		cmd = m.setStatusMessage("Post saved")
	case viewstate.DeleteDone:
		cmd = m.setStatusMessage("Post deleted")
	case viewstate.Created:
		if m.createForm != nil {
			m.createForm.Reset()
		}
		if m.mode == ModeCreate {
			m.mode = ModeNormal
		}
		cmd = m.setStatusMessage("Post created")
	}

	if prev.Selected() != m.state.Selected() || prev.ListPhase() != m.state.ListPhase() {
		m.syncCursor()
	}
	m.updateDetailView()
	return cmd
}

// visiblePosts is the list after the title filter
func (m *Model) visiblePosts() types.Posts {
	return filter.Fuzzy(m.state.Posts(), m.filterQuery)
}

// highlighted returns the post under the cursor
func (m *Model) highlighted() (types.Post, bool) {
	posts := m.visiblePosts()
	if m.cursor < 0 || m.cursor >= len(posts) {
		return types.Post{}, false
	}
	return posts[m.cursor], true
}

// syncCursor moves the cursor onto the selected post, or clamps it
func (m *Model) syncCursor() {
	posts := m.visiblePosts()
	if idx := posts.IndexOf(m.state.Selected()); idx >= 0 {
		m.cursor = idx
	}
	m.clampCursor(len(posts))
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	height := m.listHeight()
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if height > 0 && m.cursor >= m.listOffset+height {
		m.listOffset = m.cursor - height + 1
	}
	if m.listOffset < 0 {
		m.listOffset = 0
	}
}

// Custom message types
type effectResultMsg struct {
	event viewstate.Event
}

type historyLoadedMsg struct {
	entries []types.ActivityEntry
	err     error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

const maxFooterMessage = 100

func truncateMessage(msg string) string {
	if len(msg) > maxFooterMessage {
		return msg[:maxFooterMessage-3] + "..."
	}
	return msg
}

// Helper methods for setting messages with optional timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusMsg = truncateMessage(msg)
	m.errorMsg = ""
	m.fullErrorMsg = ""

	if m.messageTimeout > 0 {
		return tea.Tick(m.messageTimeout, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}
	return nil
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncateMessage(msg)

	if m.messageTimeout > 0 {
		return tea.Tick(m.messageTimeout, func(time.Time) tea.Msg {
			return clearErrorMsg{}
		})
	}
	return nil
}
