package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/blogdesk/internal/types"
)

// copyPost puts the displayed post on the system clipboard
func (m *Model) copyPost() tea.Cmd {
	post, ok := m.state.Post()
	if !ok {
		return m.setErrorMessage("No post to copy")
	}

	if err := m.copyText(postText(post)); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard write failed")
		return m.setErrorMessage(fmt.Sprintf("Failed to copy: %v", err))
	}
	return m.setStatusMessage("Post copied to clipboard")
}

// postText is the plain text form of a post
func postText(p types.Post) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "By %s • %s\n", p.Author, p.Date)
	if p.HasImage() {
		fmt.Fprintf(&b, "Image: %s\n", p.AvatarURL())
	}
	b.WriteString("\n")
	b.WriteString(p.Content)
	return b.String()
}
