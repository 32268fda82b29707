package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"

	"github.com/rivo/tview"
)

const HelpTextTemplate = `[lightgreen::b]Gamble Tracker[-:-:-:-]

[white]This application edits the [gold]gambles[white] and [gold]bank[white] tables
stored on the gamble tracker server at [aqua]{{ .Server }}[white].

Every change you make to a cell is sent to the server straight away, as
a copy of the whole table. Undo and redo restore the whole table to how it
was before or after an edit, and send that to the server too.

Deleting a record cannot be undone. After a delete the table is reloaded
from the server, and the undo history is kept.

[lightgreen::b]Editing[-:-:-:-]

[white]- Select a cell and press the [aqua]edit[white] key to change it. Press Enter
  to save the value or Esc to discard it.
- Select a header cell and press the [aqua]edit[white] key to cycle its sort.
- Dates are written as [aqua]YYYY[white]-[lightgreen]MM[white]-[gold]DD[white].
- The bank [aqua]type[white] column only accepts deposit or withdrawal.
- Text columns offer suggestions from the values already in the column.

[lightgreen::b]Amounts[-:-:-:-]

[white]The gambles [aqua]win[white] and [aqua]free win[white] cells can be derived from a start
and an end amount: select one and press the [aqua]amount[white] key, or right-click
it. The cell becomes end minus start, rounded to two places. Amount edits
are saved straight to the record and are not part of the undo history.

[lightgreen::b]Keyboard Shortcuts[-:-:-:-]

[white]Shortcuts can be changed in the keybindings section of the config file
({{ .ConfigFile }}).
{{ range .Actions }}
[gold]{{ printf "%-10v" .Name }}[white] {{ .Keys }}{{ end }}
`

type helpAction struct {
	Name string
	Keys string
}

// getHelpText renders the help page for the given bindings.
func getHelpText(server, configFile string, actionBindings map[string][]string) (string, error) {
	type tmplDataShape struct {
		Server     string
		ConfigFile string
		Actions    []helpAction
	}

	tmplData := tmplDataShape{
		Server:     tview.Escape(server),
		ConfigFile: tview.Escape(configFile),
	}

	for _, action := range c.AllActions {
		keys := "-"
		if bound := actionBindings[action]; len(bound) > 0 {
			keys = tview.Escape(strings.Join(bound, ", "))
		}

		tmplData.Actions = append(tmplData.Actions, helpAction{Name: action, Keys: keys})
	}

	tmpl, err := template.New("help").Parse(HelpTextTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse help text template: %w", err)
	}

	var b bytes.Buffer

	err = tmpl.Execute(&b, tmplData)
	if err != nil {
		return "", fmt.Errorf("failed to render help text: %w", err)
	}

	return b.String(), nil
}

func getHelpPage() error {
	text, err := getHelpText(FP.Config.Server, FP.ConfigFile, FP.ActionBindings)
	if err != nil {
		return err
	}

	FP.HelpTextView = tview.NewTextView().SetDynamicColors(true).SetText(text)
	FP.HelpTextView.SetBorder(true)
	FP.HelpTextView.SetTitle(FP.T["HelpPageTitle"])

	return nil
}
