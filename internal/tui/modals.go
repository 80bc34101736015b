package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/blogdesk/internal/keybinds"
)

// noticeText is the headline of a blocking failure notice
func noticeText(op string) string {
	switch op {
	case "create":
		return "Failed to add new post. Please try again."
	case "update":
		return "Failed to update post. Please try again."
	case "delete":
		return "Failed to delete post. Please try again."
	}
	return "Request failed. Please try again."
}

// renderNotice renders the blocking failure notice
func (m *Model) renderNotice() string {
	n := m.state.Notice()
	body := styleError.Render(noticeText(n.Op)) + "\n" + styleSubtle.Render(categorizeError(n.Err))
	footer := m.keybinds.GetBindingString(keybinds.ContextNotice, keybinds.ActionCloseModal) + ": OK"
	return renderDialog("Error", body, footer, colorRed, 70, m.width, m.height)
}

// renderDeleteConfirm renders the delete confirmation gate
func (m *Model) renderDeleteConfirm() string {
	body := "Are you sure you want to delete this post? This cannot be undone."
	if post, ok := m.state.Post(); ok {
		body += "\n\n" + styleWarning.Render(post.Title)
	}
	footer := fmt.Sprintf("%s: delete | %s: cancel",
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionConfirm),
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionDecline))
	return renderDialog("Delete Post", body, footer, colorYellow, 60, m.width, m.height)
}

// renderEditPanel renders the title/content edit form for the selected post
func (m *Model) renderEditPanel() string {
	var b strings.Builder

	b.WriteString(styleSubtle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.editTitle.View())
	b.WriteString("\n\n")
	b.WriteString(styleSubtle.Render("Content"))
	b.WriteString("\n")
	b.WriteString(m.editContent.View())
	b.WriteString("\n\n")

	if m.state.Saving() {
		b.WriteString(styleWarning.Render("Saving..."))
	} else {
		b.WriteString(styleSubtle.Render(m.formFooter(keybinds.ContextEdit)))
	}

	return m.renderFormBox("Edit Post", b.String())
}

// renderCreateForm renders the new post form
func (m *Model) renderCreateForm() string {
	f := m.createForm
	labels := [createFieldContent]string{"Title *", "Author *", "Image URL"}

	var b strings.Builder
	for i, input := range f.inputs {
		label := styleSubtle.Render(labels[i])
		if f.focus == i {
			label = styleTitle.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}
	label := styleSubtle.Render("Content")
	if f.focus == createFieldContent {
		label = styleTitle.Render("Content")
	}
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(f.content.View())
	b.WriteString("\n\n")

	if m.state.Creating() {
		b.WriteString(styleWarning.Render("Publishing..."))
	} else {
		b.WriteString(styleSubtle.Render(m.formFooter(keybinds.ContextCreate)))
	}

	return m.renderFormBox("New Post", b.String())
}

func (m *Model) formFooter(ctx keybinds.Context) string {
	return fmt.Sprintf("%s: save | %s: cancel | %s: next field",
		m.keybinds.GetBindingString(ctx, keybinds.ActionSubmit),
		m.keybinds.GetBindingString(ctx, keybinds.ActionCancel),
		m.keybinds.GetBindingString(ctx, keybinds.ActionNextField))
}

func (m *Model) renderFormBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ModalWidthMargin).
		Padding(1, 2).
		Render(styleTitle.Render(title) + "\n\n" + content)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box),
		m.renderStatusBar())
}

// renderHelp renders the help screen
func (m *Model) renderHelp() string {
	title := styleTitle.Render("Keyboard Shortcuts")
	footer := fmt.Sprintf("↑/↓ j/k: scroll | %s: close",
		m.keybinds.GetBindingString(keybinds.ContextHelp, keybinds.ActionCloseModal))

	fullContent := title + "\n\n" + m.helpView.View() + "\n\n" + styleSubtle.Render(footer)

	helpView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ModalWidthMarginNarrow).
		Height(m.height - ModalHeightMarginMed).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpView)
}

// updateHelpView fills the help viewport from the active keybindings
func (m *Model) updateHelpView() {
	m.helpView.SetContent(helpContent(m.keybinds))
	m.helpView.GotoTop()
}

// helpContent lists the main view bindings grouped by category
func helpContent(r *keybinds.Registry) string {
	keysByAction := make(map[keybinds.Action][]string)
	for _, b := range r.ListBindings(keybinds.ContextNormal) {
		if b.Action == keybinds.ActionNoOp || b.Action == keybinds.ActionGoToTopPrepare {
			continue
		}
		keysByAction[b.Action] = append(keysByAction[b.Action], b.Key)
	}

	byCategory := make(map[string][]keybinds.Action)
	for action := range keysByAction {
		info := keybinds.GetActionInfo(action)
		byCategory[info.Category] = append(byCategory[info.Category], action)
	}

	order := []string{"Posts", "Navigation", "Modals", "Global"}
	var b strings.Builder
	for _, category := range order {
		actions := byCategory[category]
		if len(actions) == 0 {
			continue
		}
		sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })

		b.WriteString(styleWarning.Render(category))
		b.WriteString("\n")
		for _, action := range actions {
			keys := keysByAction[action]
			sort.Strings(keys)
			b.WriteString(fmt.Sprintf("  %-18s %s\n", strings.Join(keys, ", "), keybinds.GetActionInfo(action).Description))
		}
		b.WriteString("\n")
	}

	b.WriteString(styleWarning.Render("Forms"))
	b.WriteString("\n")
	for _, action := range []keybinds.Action{keybinds.ActionSubmit, keybinds.ActionCancel, keybinds.ActionNextField} {
		b.WriteString(fmt.Sprintf("  %-18s %s\n",
			r.GetBindingString(keybinds.ContextEdit, action), keybinds.GetActionInfo(action).Description))
	}

	return b.String()
}
