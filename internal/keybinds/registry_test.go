package keybinds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatch_FallsBackToGlobal(t *testing.T) {
	r := NewDefaultRegistry()

	if action, ok := r.Match(ContextNormal, "e"); !ok || action != ActionEditPost {
		t.Errorf("Match(normal, e) = %q, %v", action, ok)
	}
	if action, ok := r.Match(ContextEdit, "ctrl+c"); !ok || action != ActionQuitForce {
		t.Errorf("Match(edit, ctrl+c) = %q, %v", action, ok)
	}
	// printable keys belong to the text inputs while editing
	if _, ok := r.Match(ContextEdit, "e"); ok {
		t.Error("edit context should not bind plain letters")
	}
}

func TestMatchMultiKey(t *testing.T) {
	r := NewDefaultRegistry()

	_, complete, partial := r.MatchMultiKey(ContextNormal, "g")
	if complete || !partial {
		t.Fatalf("first g: complete=%v partial=%v", complete, partial)
	}
	action, complete, _ := r.MatchMultiKey(ContextNormal, "g")
	if !complete || action != ActionGoToTop {
		t.Errorf("gg = %q complete=%v", action, complete)
	}

	// a broken sequence falls back to the second key
	r.MatchMultiKey(ContextNormal, "g")
	action, complete, _ = r.MatchMultiKey(ContextNormal, "j")
	if !complete || action != ActionNavigateDown {
		t.Errorf("g j = %q complete=%v", action, complete)
	}

	// contexts without sequences match single keys directly
	action, complete, partial = r.MatchMultiKey(ContextConfirm, "y")
	if !complete || partial || action != ActionConfirm {
		t.Errorf("confirm y = %q complete=%v partial=%v", action, complete, partial)
	}
}

func TestGetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextNormal, ActionReload); got != "ctrl+r, r" {
		t.Errorf("reload keys = %q", got)
	}
	if got := r.GetBindingString(ContextHelp, ActionEditPost); got != "unbound" {
		t.Errorf("edit in help = %q", got)
	}
}

func TestListBindings_SkipsShadowedGlobal(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextHelp, "ctrl+c", ActionCloseModal)

	for _, b := range r.ListBindings(ContextHelp) {
		if b.Key == "ctrl+c" && b.Context == ContextGlobal {
			t.Error("shadowed global binding listed")
		}
	}
}

func TestCloneAndMerge(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()
	clone.Register(ContextNormal, "e", ActionNoOp)

	if action, _ := r.Match(ContextNormal, "e"); action != ActionEditPost {
		t.Error("clone shares bindings with the original")
	}

	r.Merge(clone)
	if action, _ := r.Match(ContextNormal, "e"); action != ActionNoOp {
		t.Error("merge did not take the other registry's binding")
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.json")

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("missing file should give defaults: %v", err)
	}
	if action, _ := r.Match(ContextNormal, "d"); action != ActionDeletePost {
		t.Errorf("default d = %q", action)
	}

	if err := SaveConfig(&Config{Version: "1.0", Normal: map[string]string{"x": "delete_post"}}, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	r, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if action, _ := r.Match(ContextNormal, "x"); action != ActionDeletePost {
		t.Errorf("override x = %q", action)
	}
	if action, _ := r.Match(ContextNormal, "d"); action != ActionDeletePost {
		t.Error("defaults should stay under overrides")
	}

	if err := os.WriteFile(path, []byte(`{"normal": {"x": "fly"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("unknown action should fail to load")
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("malformed file should fail to load")
	}
}

func TestExportDefaults(t *testing.T) {
	config := ExportDefaults()

	if config.Normal["e"] != string(ActionEditPost) {
		t.Errorf("exported normal e = %q", config.Normal["e"])
	}
	if config.Global["ctrl+c"] != string(ActionQuitForce) {
		t.Errorf("exported global ctrl+c = %q", config.Global["ctrl+c"])
	}

	// the export must round-trip through the validator cleanly
	if result := NewValidator().ValidateConfig(config); result.HasErrors() {
		t.Errorf("exported defaults invalid:\n%s", result)
	}
}

func TestIsSequence(t *testing.T) {
	tests := map[string]bool{
		"gg":     true,
		"g":      false,
		"down":   false,
		"ctrl+d": false,
		"f5":     false,
		"pgup":   false,
	}
	for key, want := range tests {
		if got := IsSequence(key); got != want {
			t.Errorf("IsSequence(%q) = %v, want %v", key, got, want)
		}
	}

	// "d" must not wait for a second key just because "down" is bound
	r := NewDefaultRegistry()
	action, complete, partial := r.MatchMultiKey(ContextNormal, "d")
	if partial || !complete || action != ActionDeletePost {
		t.Errorf("d = %q complete=%v partial=%v", action, complete, partial)
	}
}
