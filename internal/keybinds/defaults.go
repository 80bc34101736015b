package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalModeBindings(r)
	registerFormBindings(r)
	registerSearchBindings(r)
	registerConfirmBindings(r)
	registerNoticeBindings(r)
	registerHistoryBindings(r)
	registerHelpBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerNormalModeBindings sets up the list/detail view
func registerNormalModeBindings(r *Registry) {
	r.Register(ContextNormal, "q", ActionQuit)
	r.RegisterMultiple(ContextNormal, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextNormal, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextNormal, "pgup", ActionPageUp)
	r.Register(ContextNormal, "pgdown", ActionPageDown)
	r.Register(ContextNormal, "g", ActionGoToTopPrepare)
	r.RegisterMultiple(ContextNormal, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextNormal, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextNormal, "ctrl+u", ActionScrollUp)
	r.Register(ContextNormal, "ctrl+d", ActionScrollDown)
	r.Register(ContextNormal, "tab", ActionSwitchFocus)

	r.Register(ContextNormal, "enter", ActionSelect)
	r.RegisterMultiple(ContextNormal, []string{"r", "ctrl+r"}, ActionReload)
	r.Register(ContextNormal, "e", ActionEditPost)
	r.Register(ContextNormal, "d", ActionDeletePost)
	r.Register(ContextNormal, "n", ActionNewPost)
	r.Register(ContextNormal, "y", ActionCopyPost)

	r.Register(ContextNormal, "/", ActionOpenSearch)
	r.Register(ContextNormal, "esc", ActionClearSearch)
	r.Register(ContextNormal, "H", ActionOpenHistory)
	r.Register(ContextNormal, "?", ActionOpenHelp)
}

// registerFormBindings sets up the edit panel and the new post form.
// Printable keys are left to the text inputs.
func registerFormBindings(r *Registry) {
	for _, ctx := range []Context{ContextEdit, ContextCreate} {
		r.Register(ctx, "ctrl+s", ActionSubmit)
		r.Register(ctx, "esc", ActionCancel)
		r.Register(ctx, "tab", ActionNextField)
		r.Register(ctx, "shift+tab", ActionPrevField)
	}
}

func registerSearchBindings(r *Registry) {
	r.Register(ContextSearch, "enter", ActionSubmit)
	r.Register(ContextSearch, "esc", ActionCancel)
	r.Register(ContextSearch, "up", ActionNavigateUp)
	r.Register(ContextSearch, "down", ActionNavigateDown)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionDecline)
}

// registerNoticeBindings: a notice blocks until acknowledged
func registerNoticeBindings(r *Registry) {
	r.RegisterMultiple(ContextNotice, []string{"enter", "esc", "q", " "}, ActionCloseModal)
}

func registerHistoryBindings(r *Registry) {
	r.RegisterMultiple(ContextHistory, []string{"esc", "H", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHistory, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHistory, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextHistory, "pgup", ActionPageUp)
	r.Register(ContextHistory, "pgdown", ActionPageDown)
	r.Register(ContextHistory, "g", ActionGoToTopPrepare)
	r.RegisterMultiple(ContextHistory, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextHistory, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextHistory, "r", ActionReload)
	r.Register(ContextHistory, "C", ActionHistoryClear)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHelp, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHelp, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextHelp, "g", ActionGoToTopPrepare)
	r.Register(ContextHelp, "gg", ActionGoToTop)
	r.Register(ContextHelp, "G", ActionGoToBottom)
}
