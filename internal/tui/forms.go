package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/blogdesk/internal/types"
	"github.com/studiowebux/blogdesk/internal/viewstate"
)

const (
	createFieldTitle = iota
	createFieldAuthor
	createFieldAvatar
	createFieldContent
	createFieldCount
)

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

func newTextArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	return ta
}

// CreateForm is the new post form. It is always reachable and keeps its
// values after a failed submit.
type CreateForm struct {
	inputs  [createFieldContent]textinput.Model
	content textarea.Model
	focus   int
}

// NewCreateForm creates an empty form with the title focused
func NewCreateForm() *CreateForm {
	f := &CreateForm{
		inputs: [createFieldContent]textinput.Model{
			newTextInput("Title", 200),
			newTextInput("Author", 100),
			newTextInput("Image URL (optional)", 500),
		},
		content: newTextArea("Write your post..."),
	}
	f.Focus(createFieldTitle)
	return f
}

// Reset clears every field
func (f *CreateForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.content.Reset()
	f.Focus(createFieldTitle)
}

// Focus moves the cursor to field i
func (f *CreateForm) Focus(i int) {
	f.focus = (i%createFieldCount + createFieldCount) % createFieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	if f.focus == createFieldContent {
		f.content.Focus()
	} else {
		f.content.Blur()
	}
}

func (f *CreateForm) Next() { f.Focus(f.focus + 1) }
func (f *CreateForm) Prev() { f.Focus(f.focus - 1) }

// Update forwards a key to the focused field
func (f *CreateForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == createFieldContent {
		f.content, cmd = f.content.Update(msg)
	} else {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return cmd
}

// SetValues fills the form, used by tests and to restore a draft
func (f *CreateForm) SetValues(title, author, avatar, content string) {
	f.inputs[createFieldTitle].SetValue(title)
	f.inputs[createFieldAuthor].SetValue(author)
	f.inputs[createFieldAvatar].SetValue(avatar)
	f.content.SetValue(content)
}

// Draft builds the create payload dated today. An empty image becomes null.
func (f *CreateForm) Draft(now time.Time) types.Draft {
	return types.NewDraft(
		f.inputs[createFieldTitle].Value(),
		f.inputs[createFieldAuthor].Value(),
		strings.TrimSpace(f.inputs[createFieldAvatar].Value()),
		f.content.Value(),
		now,
	)
}

// Missing names the first required field left blank
func (f *CreateForm) Missing() string {
	return f.Draft(time.Time{}).MissingField()
}

func (f *CreateForm) resize(width, height int) {
	for i := range f.inputs {
		f.inputs[i].Width = width
	}
	f.content.SetWidth(width)
	f.content.SetHeight(max(3, height))
}

// loadEditForm fills the edit panel from the state's buffer
func (m *Model) loadEditForm(buf viewstate.EditBuffer) {
	m.editTitle.SetValue(buf.Title)
	m.editTitle.CursorEnd()
	m.editContent.SetValue(buf.Content)
	m.focusEditField(0)
}

func (m *Model) focusEditField(i int) {
	m.editFocus = (i%2 + 2) % 2
	if m.editFocus == 0 {
		m.editTitle.Focus()
		m.editContent.Blur()
	} else {
		m.editTitle.Blur()
		m.editContent.Focus()
	}
}

// editBuffer reads the edit panel back into a buffer
func (m *Model) editBuffer() viewstate.EditBuffer {
	return viewstate.EditBuffer{
		Title:   m.editTitle.Value(),
		Content: m.editContent.Value(),
	}
}
