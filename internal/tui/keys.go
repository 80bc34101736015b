package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/viewstate"
)

// activeContext picks the keybinding context for the current screen.
// A notice blocks everything else until dismissed.
func (m *Model) activeContext() keybinds.Context {
	if m.state.Notice() != nil {
		return keybinds.ContextNotice
	}
	if m.state.Kind() == viewstate.KindConfirmingDelete {
		return keybinds.ContextConfirm
	}

	switch m.mode {
	case ModeSearch:
		return keybinds.ContextSearch
	case ModeCreate:
		return keybinds.ContextCreate
	case ModeHistory:
		return keybinds.ContextHistory
	case ModeHistoryClearConfirm:
		return keybinds.ContextConfirm
	case ModeHelp:
		return keybinds.ContextHelp
	}

	if m.state.Editing() {
		return keybinds.ContextEdit
	}
	return keybinds.ContextNormal
}

// handleKeyPress routes key presses based on the active context
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	ctx := m.activeContext()

	action, ok, partial := m.keybinds.MatchMultiKey(ctx, msg.String())
	if partial {
		return nil
	}
	if ok && action == keybinds.ActionQuitForce {
		return tea.Quit
	}

	switch ctx {
	case keybinds.ContextNotice:
		return m.handleNoticeKeys(action, ok)
	case keybinds.ContextConfirm:
		if m.mode == ModeHistoryClearConfirm {
			return m.handleHistoryClearConfirmKeys(action, ok)
		}
		return m.handleDeleteConfirmKeys(action, ok)
	case keybinds.ContextSearch:
		return m.handleSearchKeys(msg, action, ok)
	case keybinds.ContextCreate:
		return m.handleCreateKeys(msg, action, ok)
	case keybinds.ContextEdit:
		return m.handleEditKeys(msg, action, ok)
	case keybinds.ContextHistory:
		return m.handleHistoryKeys(action, ok)
	case keybinds.ContextHelp:
		return m.handleHelpKeys(action, ok)
	}
	return m.handleNormalKeys(action, ok)
}

// handleNormalKeys handles the list and detail panes
func (m *Model) handleNormalKeys(action keybinds.Action, ok bool) tea.Cmd {
	if !ok {
		return nil
	}

	posts := m.visiblePosts()

	switch action {
	case keybinds.ActionQuit:
		return tea.Quit

	case keybinds.ActionNavigateUp:
		if m.focusedPanel == "detail" {
			m.detailView.LineUp(1)
			return nil
		}
		m.cursor--
		m.clampCursor(len(posts))

	case keybinds.ActionNavigateDown:
		if m.focusedPanel == "detail" {
			m.detailView.LineDown(1)
			return nil
		}
		m.cursor++
		m.clampCursor(len(posts))

	case keybinds.ActionPageUp:
		if m.focusedPanel == "detail" {
			m.detailView.PageUp()
			return nil
		}
		m.cursor -= max(1, m.listHeight())
		m.clampCursor(len(posts))

	case keybinds.ActionPageDown:
		if m.focusedPanel == "detail" {
			m.detailView.PageDown()
			return nil
		}
		m.cursor += max(1, m.listHeight())
		m.clampCursor(len(posts))

	case keybinds.ActionGoToTop:
		if m.focusedPanel == "detail" {
			m.detailView.GotoTop()
			return nil
		}
		m.cursor = 0
		m.clampCursor(len(posts))

	case keybinds.ActionGoToBottom:
		if m.focusedPanel == "detail" {
			m.detailView.GotoBottom()
			return nil
		}
		m.cursor = len(posts) - 1
		m.clampCursor(len(posts))

	case keybinds.ActionScrollUp:
		m.detailView.ScrollUp(max(1, m.detailView.Height/2))

	case keybinds.ActionScrollDown:
		m.detailView.ScrollDown(max(1, m.detailView.Height/2))

	case keybinds.ActionSwitchFocus:
		if m.focusedPanel == "list" {
			m.focusedPanel = "detail"
		} else {
			m.focusedPanel = "list"
		}

	case keybinds.ActionSelect:
		// Enter on the list loads the highlighted post; on a failed detail it retries
		if post, found := m.highlighted(); found && m.focusedPanel == "list" {
			return m.apply(viewstate.Select{ID: post.ID})
		}
		if m.state.Kind() == viewstate.KindDetailError {
			return m.apply(viewstate.Select{ID: m.state.Selected()})
		}

	case keybinds.ActionReload:
		return tea.Batch(m.apply(viewstate.Reload{}), m.setStatusMessage("Reloading posts..."))

	case keybinds.ActionEditPost:
		if !m.state.CanModify() {
			return nil
		}
		return m.apply(viewstate.BeginEdit{})

	case keybinds.ActionDeletePost:
		if !m.state.CanModify() {
			return nil
		}
		return m.apply(viewstate.RequestDelete{})

	case keybinds.ActionNewPost:
		m.mode = ModeCreate
		m.createForm.Focus(createFieldTitle)

	case keybinds.ActionCopyPost:
		return m.copyPost()

	case keybinds.ActionOpenSearch:
		m.mode = ModeSearch
		m.searchInput.SetValue(m.filterQuery)
		m.searchInput.CursorEnd()
		m.searchInput.Focus()

	case keybinds.ActionClearSearch:
		if m.filterQuery != "" {
			m.setFilter("")
		}

	case keybinds.ActionOpenHistory:
		return m.openHistory()

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()
	}

	return nil
}

// handleEditKeys handles the edit panel. Unbound keys go to the focused input.
func (m *Model) handleEditKeys(msg tea.KeyMsg, action keybinds.Action, ok bool) tea.Cmd {
	if ok {
		switch action {
		case keybinds.ActionSubmit:
			if m.state.Saving() {
				return nil
			}
			return tea.Batch(m.apply(viewstate.Save{Buffer: m.editBuffer()}), m.setStatusMessage("Saving..."))
		case keybinds.ActionCancel:
			return m.apply(viewstate.CancelEdit{})
		case keybinds.ActionNextField, keybinds.ActionPrevField:
			m.focusEditField(m.editFocus + 1)
			return nil
		case keybinds.ActionNoOp:
			return nil
		}
	}

	var cmd tea.Cmd
	if m.editFocus == 0 {
		m.editTitle, cmd = m.editTitle.Update(msg)
	} else {
		m.editContent, cmd = m.editContent.Update(msg)
	}
	return cmd
}

// handleCreateKeys handles the new post form
func (m *Model) handleCreateKeys(msg tea.KeyMsg, action keybinds.Action, ok bool) tea.Cmd {
	if ok {
		switch action {
		case keybinds.ActionSubmit:
			if m.state.Creating() {
				return nil
			}
			if field := m.createForm.Missing(); field != "" {
				return m.setErrorMessage(fmt.Sprintf("The %s is required", field))
			}
			return tea.Batch(m.apply(viewstate.Create{Draft: m.createForm.Draft(m.now())}), m.setStatusMessage("Publishing..."))
		case keybinds.ActionCancel:
			// The form keeps its values until a post is created
			m.mode = ModeNormal
			return nil
		case keybinds.ActionNextField:
			m.createForm.Next()
			return nil
		case keybinds.ActionPrevField:
			m.createForm.Prev()
			return nil
		case keybinds.ActionNoOp:
			return nil
		}
	}

	return m.createForm.Update(msg)
}

// handleSearchKeys filters the list live as the user types
func (m *Model) handleSearchKeys(msg tea.KeyMsg, action keybinds.Action, ok bool) tea.Cmd {
	if ok {
		switch action {
		case keybinds.ActionSubmit:
			m.mode = ModeNormal
			m.searchInput.Blur()
			if post, found := m.highlighted(); found {
				return m.apply(viewstate.Select{ID: post.ID})
			}
			return nil
		case keybinds.ActionCancel:
			m.mode = ModeNormal
			m.searchInput.Blur()
			m.setFilter("")
			return nil
		case keybinds.ActionNavigateUp:
			m.cursor--
			m.clampCursor(len(m.visiblePosts()))
			return nil
		case keybinds.ActionNavigateDown:
			m.cursor++
			m.clampCursor(len(m.visiblePosts()))
			return nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.setFilter(m.searchInput.Value())
	return cmd
}

func (m *Model) setFilter(query string) {
	if query == m.filterQuery {
		return
	}
	m.filterQuery = query
	m.cursor = 0
	m.listOffset = 0
	m.syncCursor()
}

func (m *Model) handleDeleteConfirmKeys(action keybinds.Action, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	switch action {
	case keybinds.ActionConfirm:
		return tea.Batch(m.apply(viewstate.ConfirmDelete{}), m.setStatusMessage("Deleting..."))
	case keybinds.ActionDecline:
		return tea.Batch(m.apply(viewstate.DeclineDelete{}), m.setStatusMessage("Delete cancelled"))
	}
	return nil
}

func (m *Model) handleNoticeKeys(action keybinds.Action, ok bool) tea.Cmd {
	if ok && action == keybinds.ActionCloseModal {
		return m.apply(viewstate.DismissNotice{})
	}
	return nil
}

func (m *Model) handleHelpKeys(action keybinds.Action, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.helpView.LineUp(1)
	case keybinds.ActionNavigateDown:
		m.helpView.LineDown(1)
	case keybinds.ActionGoToTop:
		m.helpView.GotoTop()
	case keybinds.ActionGoToBottom:
		m.helpView.GotoBottom()
	}
	return nil
}
