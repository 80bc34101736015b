/*
Package tui implements the terminal user interface for blogdesk.

# Architecture

The TUI follows the Bubble Tea Model-Update-View pattern, with one rule:
everything the user sees about posts comes from a viewstate.State.

  - model.go: the Model, Update, and apply, which runs an event through
    viewstate.Transition and turns the returned effects into tea.Cmds
  - keys.go: keyboard routing through the keybinds.Registry
  - render.go: the list pane, the detail pane and the status bar
  - modals.go: notice, delete confirmation, edit panel, create form, help
  - history_modal.go: the activity log browser

Effects run in their own tea.Cmd and report back as an effectResultMsg
carrying the outcome event. Late outcomes are dropped by the state machine,
so the UI never shows a post the user navigated away from.

# Modes

Editing and the delete confirmation are part of the view state. Mode only
covers overlays the state machine does not know about: search, the create
form, the activity log and help.

# Keybinds

Bindings are context-aware (normal, edit, create, search, confirm, notice,
history, help) and can be overridden in ~/.blogdesk/keybinds.json.
*/
package tui
