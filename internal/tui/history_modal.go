package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/blogdesk/internal/client"
	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/types"
)

// openHistory shows the activity log modal and loads it in the background
func (m *Model) openHistory() tea.Cmd {
	if m.activity == nil {
		return m.setErrorMessage("Activity log unavailable")
	}
	m.mode = ModeHistory
	m.updateHistoryView()
	return m.loadHistory()
}

func (m *Model) loadHistory() tea.Cmd {
	log := m.activity
	return func() tea.Msg {
		entries, err := log.Load(HistoryLoadLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// handleHistoryKeys handles keyboard input in the activity log modal
func (m *Model) handleHistoryKeys(action keybinds.Action, ok bool) tea.Cmd {
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.historyState.Navigate(-1)
	case keybinds.ActionNavigateDown:
		m.historyState.Navigate(1)
	case keybinds.ActionPageUp:
		m.historyState.Navigate(-max(1, m.historyState.GetListView().Height/2))
	case keybinds.ActionPageDown:
		m.historyState.Navigate(max(1, m.historyState.GetListView().Height/2))
	case keybinds.ActionGoToTop:
		m.historyState.JumpTo(true)
	case keybinds.ActionGoToBottom:
		m.historyState.JumpTo(false)
	case keybinds.ActionReload:
		return m.loadHistory()
	case keybinds.ActionHistoryClear:
		if len(m.historyState.GetEntries()) > 0 {
			m.mode = ModeHistoryClearConfirm
		}
		return nil
	}

	m.updateHistoryView()
	return nil
}

func (m *Model) handleHistoryClearConfirmKeys(action keybinds.Action, ok bool) tea.Cmd {
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionConfirm:
		m.mode = ModeHistory
		if err := m.activity.Clear(); err != nil {
			return m.setErrorMessage(fmt.Sprintf("Failed to clear activity log: %v", err))
		}
		m.historyState.SetEntries(nil)
		m.historyState.SetIndex(0)
		m.updateHistoryView()
		return m.setStatusMessage("Activity log cleared")
	case keybinds.ActionDecline:
		m.mode = ModeHistory
	}
	return nil
}

// updateHistoryView renders the entry list and the preview of the selected entry
func (m *Model) updateHistoryView() {
	if m.historyState == nil {
		return
	}

	entries := m.historyState.GetEntries()
	index := m.historyState.GetIndex()

	listView := m.historyState.GetListView()
	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString(styleSubtle.Render("No activity yet"))
	}
	for i, e := range entries {
		label, style := statusLabel(e)
		line := truncate(fmt.Sprintf("%s %-6s %s", e.Timestamp, e.Operation, label), listView.Width)
		if i == index {
			style = styleSelected
		}
		line = style.Render(line)
		b.WriteString(line)
		b.WriteString("\n")
	}
	listView.SetContent(b.String())
	if index < listView.YOffset {
		listView.SetYOffset(index)
	} else if listView.Height > 0 && index >= listView.YOffset+listView.Height {
		listView.SetYOffset(index - listView.Height + 1)
	}
	m.historyState.SetListView(listView)

	preview := m.historyState.GetPreviewView()
	if e := m.historyState.GetCurrentEntry(); e != nil {
		preview.SetContent(activityDetail(*e))
	} else {
		preview.SetContent("")
	}
	m.historyState.SetPreviewView(preview)
}

// statusLabel is the status column of an entry and the style of its row
func statusLabel(e types.ActivityEntry) (string, lipgloss.Style) {
	switch {
	case e.Status == 0:
		return "ERR", styleError
	case client.IsSuccessStatus(e.Status):
		return fmt.Sprintf("%d", e.Status), styleSuccess
	case client.IsServerErrorStatus(e.Status):
		return fmt.Sprintf("%d", e.Status), styleError
	}
	return fmt.Sprintf("%d", e.Status), styleWarning
}

// activityDetail formats one activity entry for the preview pane
func activityDetail(e types.ActivityEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", e.Method, e.URL)
	fmt.Fprintf(&b, "Operation: %s\n", e.Operation)
	if e.Status > 0 {
		fmt.Fprintf(&b, "Status:    %d\n", e.Status)
	}
	fmt.Fprintf(&b, "Duration:  %s\n", client.FormatDuration(e.Duration))
	fmt.Fprintf(&b, "Sent:      %s\n", client.FormatSize(e.RequestSize))
	fmt.Fprintf(&b, "Received:  %s\n", client.FormatSize(e.ResponseSize))
	fmt.Fprintf(&b, "Profile:   %s\n", e.Profile)
	fmt.Fprintf(&b, "Time:      %s\n", e.Timestamp)
	if e.RequestID != "" {
		fmt.Fprintf(&b, "Request:   %s\n", e.RequestID)
	}
	if e.Error != "" {
		b.WriteString("\n")
		b.WriteString(styleError.Render(e.Error))
	}
	return b.String()
}

// renderHistory renders the activity log modal with a split view
func (m *Model) renderHistory() string {
	entries := m.historyState.GetEntries()

	footer := fmt.Sprintf("↑/↓ j/k: navigate | %s: reload | %s: clear | %s: close",
		m.keybinds.GetBindingString(keybinds.ContextHistory, keybinds.ActionReload),
		m.keybinds.GetBindingString(keybinds.ContextHistory, keybinds.ActionHistoryClear),
		m.keybinds.GetBindingString(keybinds.ContextHistory, keybinds.ActionCloseModal))
	if len(entries) > 0 {
		footer += fmt.Sprintf(" [%d/%d]", m.historyState.GetIndex()+1, len(entries))
	}

	cfg := SplitPaneConfig{
		ModalWidth:       m.width - ModalWidthMargin,
		ModalHeight:      m.height - ModalHeightMargin,
		IsSplitView:      true,
		LeftTitle:        "Activity",
		LeftContent:      m.historyState.GetListView().View(),
		LeftBorderColor:  colorBlue,
		LeftIsFocused:    true,
		RightTitle:       "Details",
		RightContent:     m.historyState.GetPreviewView().View(),
		RightBorderColor: colorGreen,
		Footer:           footer,
		LeftWidthRatio:   SplitViewEqual,
	}

	return renderSplitPaneModal(cfg, m.width, m.height)
}

func (m *Model) renderHistoryClearConfirm() string {
	body := fmt.Sprintf("Delete all %d activity entries?", len(m.historyState.GetEntries()))
	footer := fmt.Sprintf("%s: clear | %s: cancel",
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionConfirm),
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionDecline))
	return renderDialog("Clear Activity Log", body, footer, colorYellow, 50, m.width, m.height)
}
