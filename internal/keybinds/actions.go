package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal  Context = "global"  // Available everywhere
	ContextNormal  Context = "normal"  // Post list and detail panes
	ContextEdit    Context = "edit"    // Edit panel (title + content)
	ContextCreate  Context = "create"  // New post form
	ContextSearch  Context = "search"  // Title filter input
	ContextConfirm Context = "confirm" // Delete confirmation
	ContextNotice  Context = "notice"  // Blocking failure notice
	ContextHistory Context = "history" // Activity log browser
	ContextHelp    Context = "help"    // Help viewer
)

const (
	// Global actions
	ActionQuit      Action = "quit"
	ActionQuitForce Action = "quit_force"

	// Navigation
	ActionNavigateUp     Action = "navigate_up"
	ActionNavigateDown   Action = "navigate_down"
	ActionPageUp         Action = "page_up"
	ActionPageDown       Action = "page_down"
	ActionGoToTop        Action = "go_to_top"
	ActionGoToTopPrepare Action = "go_to_top_prepare" // first 'g' of 'gg'
	ActionGoToBottom     Action = "go_to_bottom"
	ActionSwitchFocus    Action = "switch_focus"
	ActionScrollUp       Action = "scroll_up"   // detail pane
	ActionScrollDown     Action = "scroll_down" // detail pane

	// Post actions
	ActionSelect     Action = "select" // load the highlighted post, retries a failed one
	ActionReload     Action = "reload"
	ActionEditPost   Action = "edit_post"
	ActionDeletePost Action = "delete_post"
	ActionNewPost    Action = "new_post"
	ActionCopyPost   Action = "copy_post"

	// Forms
	ActionSubmit    Action = "submit"
	ActionCancel    Action = "cancel"
	ActionNextField Action = "next_field"
	ActionPrevField Action = "prev_field"

	// Confirmation
	ActionConfirm Action = "confirm"
	ActionDecline Action = "decline"

	// Modals
	ActionOpenSearch   Action = "open_search"
	ActionClearSearch  Action = "clear_search"
	ActionOpenHistory  Action = "open_history"
	ActionOpenHelp     Action = "open_help"
	ActionCloseModal   Action = "close_modal"
	ActionHistoryClear Action = "history_clear"

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:           {ActionQuit, "Quit application", "Global"},
	ActionQuitForce:      {ActionQuitForce, "Force quit", "Global"},
	ActionNavigateUp:     {ActionNavigateUp, "Previous post", "Navigation"},
	ActionNavigateDown:   {ActionNavigateDown, "Next post", "Navigation"},
	ActionPageUp:         {ActionPageUp, "Page up", "Navigation"},
	ActionPageDown:       {ActionPageDown, "Page down", "Navigation"},
	ActionGoToTop:        {ActionGoToTop, "First post", "Navigation"},
	ActionGoToTopPrepare: {ActionGoToTopPrepare, "First post (gg)", "Navigation"},
	ActionGoToBottom:     {ActionGoToBottom, "Last post", "Navigation"},
	ActionSwitchFocus:    {ActionSwitchFocus, "Switch pane", "Navigation"},
	ActionScrollUp:       {ActionScrollUp, "Scroll post up", "Navigation"},
	ActionScrollDown:     {ActionScrollDown, "Scroll post down", "Navigation"},
	ActionSelect:         {ActionSelect, "Open post / retry", "Posts"},
	ActionReload:         {ActionReload, "Reload posts", "Posts"},
	ActionEditPost:       {ActionEditPost, "Edit post", "Posts"},
	ActionDeletePost:     {ActionDeletePost, "Delete post", "Posts"},
	ActionNewPost:        {ActionNewPost, "New post", "Posts"},
	ActionCopyPost:       {ActionCopyPost, "Copy post to clipboard", "Posts"},
	ActionSubmit:         {ActionSubmit, "Save", "Forms"},
	ActionCancel:         {ActionCancel, "Cancel", "Forms"},
	ActionNextField:      {ActionNextField, "Next field", "Forms"},
	ActionPrevField:      {ActionPrevField, "Previous field", "Forms"},
	ActionConfirm:        {ActionConfirm, "Confirm", "Dialogs"},
	ActionDecline:        {ActionDecline, "Decline", "Dialogs"},
	ActionOpenSearch:     {ActionOpenSearch, "Filter by title", "Modals"},
	ActionClearSearch:    {ActionClearSearch, "Clear filter", "Modals"},
	ActionOpenHistory:    {ActionOpenHistory, "Activity log", "Modals"},
	ActionOpenHelp:       {ActionOpenHelp, "Help", "Modals"},
	ActionCloseModal:     {ActionCloseModal, "Close", "Modals"},
	ActionHistoryClear:   {ActionHistoryClear, "Clear activity log", "Modals"},
	ActionNoOp:           {ActionNoOp, "Ignore key", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the TUI handles
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuit || action == ActionQuitForce
}
