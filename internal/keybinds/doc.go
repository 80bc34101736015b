/*
Package keybinds maps terminal key presses to blogdesk actions.

Bindings live in a Registry keyed by Context (normal, edit, create, search,
confirm, notice, history, help). Match looks in the given context first and
falls back to global; MatchMultiKey also resolves sequences such as "gg".

Defaults come from NewDefaultRegistry. Users override them in
~/.blogdesk/keybinds.json, one object per context mapping a key to an
action name:

	{
	  "version": "1.0",
	  "normal": { "x": "delete_post", "d": "noop" },
	  "edit":   { "ctrl+w": "submit" }
	}

LoadOrDefault rejects unknown actions. Validator reports modes that would
lose their only way out (for example an edit panel with no cancel key).
*/
package keybinds
