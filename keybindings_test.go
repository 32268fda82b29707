package main

import (
	"slices"
	"testing"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
)

func TestGetCombinedKeybindings(t *testing.T) {
	t.Parallel()

	user := map[string][]string{
		"Ctrl+Z": {c.ActionRedo},
		"Ctrl+U": {c.ActionUndo},
		"Delete": {},
	}

	got := GetCombinedKeybindings(user, c.DefaultMappings)

	if !slices.Equal(got["Ctrl+Z"], []string{c.ActionRedo}) {
		t.Fatalf("Ctrl+Z = %v, want the user's binding", got["Ctrl+Z"])
	}

	if !slices.Equal(got["Ctrl+Y"], []string{c.ActionRedo}) {
		t.Fatalf("Ctrl+Y = %v, want the default", got["Ctrl+Y"])
	}

	if len(got["Delete"]) != 0 {
		t.Fatalf("Delete = %v, want unbound", got["Delete"])
	}

	user["Ctrl+U"][0] = "mutated"

	if got["Ctrl+U"][0] != c.ActionUndo {
		t.Fatal("combined bindings alias the user's config")
	}
}

func TestGetAllBoundActions(t *testing.T) {
	t.Parallel()

	got := GetAllBoundActions(map[string][]string{"Ctrl+U": {c.ActionUndo}}, c.DefaultMappings)

	if !slices.Equal(got[c.ActionUndo], []string{"Ctrl+U", "Ctrl+Z"}) {
		t.Fatalf("undo keys = %v", got[c.ActionUndo])
	}

	if firstKey(got, c.ActionUndo) != "Ctrl+U" || firstKey(got, "nope") != "" {
		t.Fatal("firstKey returned the wrong key")
	}

	for _, action := range c.AllActions {
		if len(GetAllBoundActions(nil, c.DefaultMappings)[action]) == 0 {
			t.Errorf("action %v has no default key", action)
		}
	}
}
