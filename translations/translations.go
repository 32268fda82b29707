// Package translations loads the user-facing strings.
package translations

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultLanguage = "en_US.UTF-8"

// load reads translations/${language}.yml from the provided filesystem,
// falling back to the default language file when the requested one is
// missing.
func load(allTranslations fs.FS, language string) (map[string]string, error) {
	if language == "" {
		language = defaultLanguage
	}

	t := make(map[string]string)
	file := fmt.Sprintf("translations/%v.yml", language)

	b, err := fs.ReadFile(allTranslations, file)
	if err != nil {
		log.Printf("failed to load file %v: %v", file, err.Error())

		file = fmt.Sprintf("translations/%v.yml", defaultLanguage)

		b, err = fs.ReadFile(allTranslations, file)
		if err != nil {
			return t, fmt.Errorf("failed to load default language file %v: %w", file, err)
		}
	}

	err = yaml.Unmarshal(b, &t)
	if err != nil {
		return t, fmt.Errorf("failed to unmarshal file %v: %w", file, err)
	}

	return t, nil
}

// Load loads the default language, then overlays translations/${LANG}.yml on
// top of it, so that strings that are not yet translated will still show
// visible text in some language (instead of an empty string).
func Load(allTranslations fs.FS) (map[string]string, error) {
	return LoadLanguage(allTranslations, os.Getenv("LANG"))
}

// LoadLanguage is Load with an explicit language instead of $LANG.
func LoadLanguage(allTranslations fs.FS, language string) (map[string]string, error) {
	t, err := load(allTranslations, defaultLanguage)
	if err != nil {
		return t, fmt.Errorf("failed to load default translations %v: %w", defaultLanguage, err)
	}

	language = strings.TrimSpace(language)

	switch language {
	case "", defaultLanguage, "C", "POSIX":
		return t, nil
	default:
		break
	}

	u, err := load(allTranslations, language)
	if err != nil {
		return t, fmt.Errorf("failed to load specified translations %v: %w", language, err)
	}

	// merge the two maps
	for k, v := range u {
		t[k] = v
	}

	return t, nil
}
