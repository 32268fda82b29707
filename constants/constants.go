package constants

const (
	None = "none"
	Desc = "Desc"
	Asc  = "Asc"

	CONFIG_VERSION = "1"

	AppName = "gamble-tracker-tui"
)

const RESET_STYLE = "[-:-:-:-]"

// Actions that can be bound to keys in the config's keybindings section.
const (
	ActionUndo    = "undo"
	ActionRedo    = "redo"
	ActionEdit    = "edit"
	ActionDelete  = "delete"
	ActionAmount  = "amount"
	ActionReload  = "reload"
	ActionFilter  = "filter"
	ActionGambles = "gambles"
	ActionBank    = "bank"
	ActionSummary = "summary"
	ActionHelp    = "help"
	ActionEsc     = "esc"
	ActionQuit    = "quit"
)

// AllActions lists every supported action, in the order they are shown on
// the help page.
var AllActions = []string{
	ActionUndo,
	ActionRedo,
	ActionEdit,
	ActionDelete,
	ActionAmount,
	ActionReload,
	ActionFilter,
	ActionGambles,
	ActionBank,
	ActionSummary,
	ActionHelp,
	ActionEsc,
	ActionQuit,
}

// DefaultMappings maps a tcell key name (as returned by event.Name()) to the
// action it triggers when the user has not bound the key themselves.
//
//nolint:gochecknoglobals
var DefaultMappings = map[string]string{
	"Ctrl+Z":  ActionUndo,
	"Ctrl+Y":  ActionRedo,
	"Enter":   ActionEdit,
	"Delete":  ActionDelete,
	"Ctrl+E":  ActionAmount,
	"Ctrl+R":  ActionReload,
	"Ctrl+F":  ActionFilter,
	"F1":      ActionGambles,
	"F2":      ActionBank,
	"F3":      ActionSummary,
	"Rune[?]": ActionHelp,
	"Esc":     ActionEsc,
	"Ctrl+Q":  ActionQuit,
}

// Theme keys. Every key has a value in themes/standard.yml.
const (
	ColorHeader        = "Header"
	ColorColumnID      = "ColumnID"
	ColorColumnDate    = "ColumnDate"
	ColorColumnText    = "ColumnText"
	ColorColumnNote    = "ColumnNote"
	ColorAmountGain    = "AmountGain"
	ColorAmountLoss    = "AmountLoss"
	ColorAmountZero    = "AmountZero"
	ColorTypeDeposit   = "TypeDeposit"
	ColorTypeWithdraw  = "TypeWithdrawal"
	ColorStatusOK      = "StatusOK"
	ColorStatusError   = "StatusError"
	ColorStatusMuted   = "StatusMuted"
	ColorNotice        = "Notice"
	ColorNavKey        = "NavKey"
	ColorNavText       = "NavText"
	ColorNavActive     = "NavActive"
	ColorPromptConfirm = "PromptConfirmBackground"
	ColorPromptNotify  = "PromptNotifyBackground"
	ColorPromptExit    = "PromptExitBackground"
	ColorSummarySite   = "SummarySite"
	ColorSummaryTotal  = "SummaryTotal"
)
