package main

import (
	"slices"
)

// GetCombinedKeybindings merges the user's keybindings on top of the default
// ones and returns every key with the actions it triggers, in order. A key
// the user bound to an empty list is unbound.
//
// usage example: GetCombinedKeybindings(conf.Keybindings, c.DefaultMappings)["Ctrl+Z"] = ["undo"].
func GetCombinedKeybindings(user map[string][]string, defaults map[string]string) map[string][]string {
	out := make(map[string][]string, len(defaults)+len(user))

	for key, action := range defaults {
		if action == "" {
			continue
		}

		out[key] = []string{action}
	}

	for key, actions := range user {
		out[key] = slices.Clone(actions)
	}

	return out
}

// GetAllBoundActions is the inverse of GetCombinedKeybindings: it returns
// every action with the sorted list of keys that trigger it.
//
// usage example: GetAllBoundActions(conf.Keybindings, c.DefaultMappings)["undo"] = ["Ctrl+Z"].
func GetAllBoundActions(user map[string][]string, defaults map[string]string) map[string][]string {
	out := make(map[string][]string)

	for key, actions := range GetCombinedKeybindings(user, defaults) {
		for _, action := range actions {
			if slices.Contains(out[action], key) {
				continue
			}

			out[action] = append(out[action], key)
		}
	}

	for action := range out {
		slices.Sort(out[action])
	}

	return out
}

// firstKey returns the first key bound to action, or "" when it is unbound.
func firstKey(bindings map[string][]string, action string) string {
	keys := bindings[action]
	if len(keys) == 0 {
		return ""
	}

	return keys[0]
}
