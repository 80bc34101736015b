package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/blogdesk/internal/keybinds"
	"github.com/studiowebux/blogdesk/internal/types"
	"github.com/studiowebux/blogdesk/internal/viewstate"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// Placeholders shown in the panes
const (
	textListLoading   = "Loading posts..."
	textListFailed    = "Failed to load posts."
	textNothing       = "Nothing Selected"
	textDetailLoading = "Loading..."
	textDeleted       = "Post Deleted"
	textDetailFailed  = "Error: Failed to load post details"
)

// renderMain renders the list pane, the detail pane and the status bar
func (m *Model) renderMain() string {
	listWidth, detailWidth := m.paneWidths()
	paneHeight := m.height - MainViewHeightOffset

	listBorder, detailBorder := colorGray, colorGray
	if m.focusedPanel == "detail" {
		detailBorder = colorGreen
	} else {
		listBorder = colorGreen
	}

	listBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(listBorder).
		Width(listWidth).
		Height(paneHeight).
		Render(m.renderList(listWidth - ViewportBorderWidth))

	detailBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(detailBorder).
		Width(detailWidth).
		Height(paneHeight).
		Padding(0, 1).
		Render(m.detailView.View())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, listBox, detailBox)
	return lipgloss.JoinVertical(lipgloss.Left, mainView, m.renderStatusBar())
}

// paneWidths splits the screen: the list gets 35% (at least 30 columns)
func (m *Model) paneWidths() (int, int) {
	listWidth := max(30, m.width*35/100)
	if m.width < 80 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - SplitPaneBorderWidth - 1
	return listWidth, max(10, detailWidth)
}

// listHeight is the number of posts that fit in the list pane
func (m *Model) listHeight() int {
	// header + filter line, two lines per post
	return max(1, (m.height-MainViewHeightOffset-ListHeaderLines)/2)
}

// renderList renders the list pane
func (m *Model) renderList(width int) string {
	var b strings.Builder
	s := m.state

	b.WriteString(styleTitle.Render(postCount(s.Count())))
	b.WriteString("\n")
	if m.filterQuery != "" || m.mode == ModeSearch {
		b.WriteString(styleWarning.Render(fmt.Sprintf("Filter: %s (%d shown)", m.filterQuery, len(m.visiblePosts()))))
	}
	b.WriteString("\n")

	switch s.ListPhase() {
	case viewstate.ListError:
		b.WriteString(styleError.Render(textListFailed))
		b.WriteString("\n")
		b.WriteString(styleSubtle.Render(categorizeError(s.ListErr())))
		return b.String()
	case viewstate.ListLoading:
		if s.Count() == 0 {
			b.WriteString(styleSubtle.Render(textListLoading))
			return b.String()
		}
	case viewstate.ListIdle:
		b.WriteString(styleSubtle.Render(textListLoading))
		return b.String()
	}

	posts := m.visiblePosts()
	if len(posts) == 0 {
		if m.filterQuery != "" {
			b.WriteString(styleSubtle.Render("No posts match the filter"))
		} else {
			b.WriteString(styleSubtle.Render("No posts yet"))
		}
		return b.String()
	}

	end := min(len(posts), m.listOffset+m.listHeight())
	for i := m.listOffset; i < end; i++ {
		b.WriteString(m.renderListItem(posts[i], i == m.cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderListItem(p types.Post, underCursor bool, width int) string {
	marker := "  "
	if underCursor {
		marker = "> "
	}

	title := truncate(p.Title, width-len(marker))
	byline := truncate(byline(p), width-len(marker))

	line := marker + title
	if p.ID == m.state.Selected() && !p.ID.IsZero() {
		line = styleSelected.Render(line)
	}
	return line + "\n" + "  " + styleSubtle.Render(byline)
}

// postCount is the list header: "1 post", "3 posts"
func postCount(n int) string {
	if n == 1 {
		return "1 post"
	}
	return fmt.Sprintf("%d posts", n)
}

func byline(p types.Post) string {
	return fmt.Sprintf("By %s • %s", p.Author, p.Date)
}

func truncate(s string, width int) string {
	if width <= 3 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// renderDetail renders the detail pane for a state. It depends on nothing
// but the state, the keybindings and the width.
func renderDetail(s viewstate.State, keys *keybinds.Registry, width int) string {
	var b strings.Builder

	switch s.Kind() {
	case viewstate.KindLoading:
		b.WriteString(styleSubtle.Render(textDetailLoading))
		return b.String()

	case viewstate.KindDeleted:
		b.WriteString(styleTitle.Render(textDeleted))
		b.WriteString("\n\n")
		b.WriteString(styleSubtle.Render("Select another post from the list."))
		return b.String()

	case viewstate.KindDetailError:
		b.WriteString(styleError.Render("Error"))
		b.WriteString("\n\n")
		b.WriteString(textDetailFailed)
		b.WriteString("\n")
		b.WriteString(styleSubtle.Render(categorizeError(s.DetailErr())))
		b.WriteString("\n\n")
		b.WriteString(styleSubtle.Render(keys.GetBindingString(keybinds.ContextNormal, keybinds.ActionSelect) + ": retry"))
		return b.String()

	case viewstate.KindIdle, viewstate.KindEmpty, viewstate.KindListError:
		b.WriteString(styleTitle.Render(textNothing))
		b.WriteString("\n\n")
		if s.Kind() == viewstate.KindEmpty {
			b.WriteString(styleSubtle.Render("No posts yet. " + keys.GetBindingString(keybinds.ContextNormal, keybinds.ActionNewPost) + ": new post"))
		} else {
			b.WriteString(styleSubtle.Render("Select a post from the list."))
		}
		return b.String()
	}

	post, ok := s.Post()
	if !ok {
		return styleTitle.Render(textNothing)
	}

	wrap := lipgloss.NewStyle().Width(max(10, width))

	b.WriteString(wrap.Inherit(styleTitle).Render(post.Title))
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render(byline(post)))
	b.WriteString("\n")
	if post.HasImage() {
		b.WriteString(styleSubtle.Render("Image: " + post.AvatarURL()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(wrap.Render(post.Content))
	b.WriteString("\n\n")

	switch {
	case s.Deleting():
		b.WriteString(styleWarning.Render("Deleting..."))
	case s.CanModify():
		b.WriteString(styleSubtle.Render(fmt.Sprintf("%s: edit | %s: delete | %s: copy",
			keys.GetBindingString(keybinds.ContextNormal, keybinds.ActionEditPost),
			keys.GetBindingString(keybinds.ContextNormal, keybinds.ActionDeletePost),
			keys.GetBindingString(keybinds.ContextNormal, keybinds.ActionCopyPost))))
	}
	return b.String()
}

// updateDetailView refreshes the detail viewport from the state
func (m *Model) updateDetailView() {
	_, detailWidth := m.paneWidths()
	m.detailView.SetContent(renderDetail(m.state, m.keybinds, detailWidth-ViewportPaddingHorizontal))
}

// resize fits every widget to the terminal
func (m *Model) resize() {
	_, detailWidth := m.paneWidths()
	m.detailView.Width = max(10, detailWidth-ViewportPaddingHorizontal)
	m.detailView.Height = max(3, m.height-MainViewHeightOffset)

	formWidth := max(20, m.width-ModalWidthMargin-ViewportPaddingHorizontal-2)
	m.editTitle.Width = formWidth
	m.editContent.SetWidth(formWidth)
	m.editContent.SetHeight(max(3, m.height-FormOverheadLines))
	m.createForm.resize(formWidth, m.height-CreateFormOverheadLines)
	m.searchInput.Width = max(10, m.width/3)

	m.helpView.Width = max(10, m.width-HelpViewWidthOffset)
	m.helpView.Height = max(3, m.height-ContentOffsetHelp)
	m.historyState.Resize(m.width-ModalWidthMargin, m.height-ContentOffsetLarge)

	m.clampCursor(len(m.visiblePosts()))
	m.updateDetailView()
	m.updateHistoryView()
}

// renderStatusBar renders the one-line footer
func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("Profile: %s | %s", m.profile, m.baseURL)

	right := ""
	switch {
	case m.mode == ModeSearch:
		right = "Search: " + m.searchInput.View()
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		if strings.HasPrefix(m.statusMsg, "Post ") {
			right = styleSuccess.Render(m.statusMsg)
		} else {
			right = m.statusMsg
		}
	default:
		right = styleSubtle.Render(fmt.Sprintf("%s: search | %s: new | %s: help | %s: quit",
			m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionOpenSearch),
			m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionNewPost),
			m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionOpenHelp),
			m.keybinds.GetBindingString(keybinds.ContextNormal, keybinds.ActionQuit)))
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}
