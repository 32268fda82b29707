// Package themes loads colour themes. A theme maps theme keys to tview
// colour tags such as "[gold]".
package themes

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultTheme = "standard"

func unmarshal(b []byte, file string) (map[string]string, error) {
	t := make(map[string]string)

	err := yaml.Unmarshal(b, &t)
	if err != nil {
		return t, fmt.Errorf("failed to unmarshal file %v: %w", file, err)
	}

	return t, nil
}

// loadTheme loads themes/${theme}.yml from allThemes, or the file itself when
// theme ends in .yml or .yaml.
func loadTheme(allThemes fs.FS, theme string) (map[string]string, error) {
	if theme == "" {
		theme = defaultTheme
	}

	if strings.HasSuffix(theme, ".yml") || strings.HasSuffix(theme, ".yaml") {
		b, err := os.ReadFile(theme)
		if err != nil {
			return map[string]string{}, fmt.Errorf("failed to load file %v: %w", theme, err)
		}

		return unmarshal(b, theme)
	}

	file := fmt.Sprintf("themes/%v.yml", theme)

	b, err := fs.ReadFile(allThemes, file)
	if err != nil {
		return map[string]string{}, fmt.Errorf("failed to load file %v: %w", file, err)
	}

	return unmarshal(b, file)
}

// Load loads the default theme and then the requested theme over it, so that
// keys left undefined in the requested theme keep a visible colour.
func Load(allThemes fs.FS, theme string) (map[string]string, error) {
	t, err := loadTheme(allThemes, defaultTheme)
	if err != nil {
		return t, fmt.Errorf("failed to load default themes %v: %w", defaultTheme, err)
	}

	switch theme {
	case "", defaultTheme:
		return t, nil
	default:
		break
	}

	u, err := loadTheme(allThemes, theme)
	if err != nil {
		return t, fmt.Errorf("failed to load specified themes %v: %w", theme, err)
	}

	// merge the two maps
	for k, v := range u {
		t[k] = v
	}

	return t, nil
}
