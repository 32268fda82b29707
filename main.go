package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/config"
	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/grid"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/logging"
	m "git.cmcode.dev/cmcode/gamble-tracker-tui/models"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/remote"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/themes"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/translations"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed translations/*.yml
var AllTranslations embed.FS

//go:embed themes/*.yml
var AllThemes embed.FS

//go:embed example.yml
var ExampleConfig embed.FS

// Page names are only used in the code, never shown to the user. The two
// table pages are named after their table kind.
const (
	PageGambles = m.KindGambles
	PageBank    = m.KindBank
	// PageSummary shows the per-site balance breakdown.
	PageSummary = "Summary"
	PageHelp    = "Help"
	// PagePrompt only shows FP.PromptBox, for confirmations, notifications
	// and exiting.
	PagePrompt = "Prompt"
	// PageAmount only shows the amount editor form.
	PageAmount = "Amount"
)

type GambleTracker struct {
	// The tview/tcell terminal application.
	App *tview.Application

	// The processed configuration. It is never written back to disk.
	Config m.Config

	// Where Config was loaded from; either a path or the embedded example.
	ConfigFile string

	// The primary primitive that the app uses as its root in the terminal.
	Layout *tview.Flex

	// Translations that are loaded at runtime.
	T map[string]string

	// All default & custom colors are stored in here at runtime.
	Colors map[string]string

	Log *zap.Logger

	// The previously shown page (via the primary pages primitive).
	PrevPage string

	// The table page that is currently, or was most recently, shown.
	ActivePage string

	// The primary page-switching primitive.
	Pages *tview.Pages

	// Key bindings composed of the user's key bindings merged on top of the
	// default key bindings.
	//
	// usage example: KeyBindings["Ctrl+Z"] = ["undo"].
	KeyBindings map[string][]string

	// The inverse of KeyBindings.
	//
	// usage example: ActionBindings["undo"] = ["Ctrl+Z"].
	ActionBindings map[string][]string

	// One per table kind, keyed by kind name.
	Views       map[string]*tableView
	Controllers map[string]*grid.Controller

	// The latest status reported by each controller, keyed by kind name.
	Statuses map[string]grid.Status

	// The latest contents of each table, used for the balance summary.
	Snapshots map[string]m.Snapshot

	HelpTextView *tview.TextView

	// Always shown on every page - renders the page navigation shortcuts.
	BottomPageNavText *tview.TextView

	// Shown above the page navigation; holds the active table's status.
	StatusText *tview.TextView

	SummaryTable       *tview.Table
	SummaryDescription *tview.TextView

	// There is a hidden page that only shows a modal, used for
	// confirmations, notifications, exiting and keyboard echo mode.
	PromptBox *tview.Modal

	// Answers the prompt that is showing when something else replaces it.
	PromptDismiss func()

	AmountForm *tview.Form

	// If this flag is set to true, the application will only show the user the
	// keyboard keys that they press. They will of course be prompted to proceed
	// before being fully immersed into this restricted mode.
	FlagKeyboardEchoMode bool
}

// FP contains all shared data in a global. The tview callbacks all run on the
// application's event loop, so it is only ever touched from there.
//
//nolint:gochecknoglobals
var FP GambleTracker

// flags holds the command line flags.
type flags struct {
	configFile   string
	keyboardEcho bool
	overrides    config.Overrides
}

// capture is the primary input capture handler for the app, and should be used
// like: app.SetInputCapture(capture)
func capture(e *tcell.EventKey) *tcell.EventKey {
	n := e.Name()
	if FP.FlagKeyboardEchoMode {
		FP.StatusText.SetDynamicColors(false).SetText(n)

		if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
			FP.App.Stop()
		}

		return nil
	}

	actions, ok := FP.KeyBindings[n]
	if !ok {
		return e
	}

	final := e

	for i := range actions {
		final = action(actions[i], final)
	}

	return final
}

// appScheduler runs controller network calls on goroutines and hands their
// results back to the tview event loop.
type appScheduler struct {
	app *tview.Application
}

func (s appScheduler) Go(fn func()) { go fn() }

func (s appScheduler) UI(fn func()) { s.app.QueueUpdateDraw(fn) }

func (s appScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.app.QueueUpdateDraw(fn) })
}

// dataChanged is the controllers' data listener.
func dataChanged(kind m.Kind, s m.Snapshot) {
	FP.Snapshots[kind.Name] = s

	updateSummary()
	renderStatus()
}

// newTable builds the view, client and controller for one table kind.
func newTable(ctx context.Context, kind m.Kind, sched grid.Scheduler) error {
	log := FP.Log.Named(kind.Name)

	client, err := remote.NewClient(
		FP.Config.Server,
		kind,
		remote.WithTimeout(config.RequestTimeout(FP.Config)),
		remote.WithSessionCookie(FP.Config.SessionCookie),
		remote.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("%v %v: %w", FP.T["ErrorFailedToCreateClient"], kind.Name, err)
	}

	view := newTableView(kind, FP.T, FP.Colors, FP.App)

	opts := []grid.Option{
		grid.WithLogger(log),
		grid.WithContext(ctx),
		grid.WithSettleDelay(config.SettleDelay(FP.Config)),
		grid.WithTranslations(FP.T),
		grid.WithDataListener(dataChanged),
	}

	if kind.SupportsAmountEdit() {
		opts = append(opts, grid.WithAmountStore(client))
	}

	ctl := grid.New(kind, client, view, &tableScreen{kind: kind.Name, view: view}, sched, opts...)

	view.hooks = ctl
	view.onAmount = ctl.EditAmount

	FP.Views[kind.Name] = view
	FP.Controllers[kind.Name] = ctl

	return nil
}

// bootstrap is the initialization function for the app, including initializing
// globals. This function should only ever be run once.
func bootstrap(ctx context.Context) error {
	FP.KeyBindings = GetCombinedKeybindings(FP.Config.Keybindings, c.DefaultMappings)
	FP.ActionBindings = GetAllBoundActions(FP.Config.Keybindings, c.DefaultMappings)

	FP.App = tview.NewApplication()
	FP.Pages = tview.NewPages()
	FP.Views = make(map[string]*tableView)
	FP.Controllers = make(map[string]*grid.Controller)
	FP.Statuses = make(map[string]grid.Status)
	FP.Snapshots = make(map[string]m.Snapshot)

	sched := appScheduler{app: FP.App}

	for _, kind := range []m.Kind{m.Gambles, m.Bank} {
		if err := newTable(ctx, kind, sched); err != nil {
			return err
		}
	}

	if err := getHelpPage(); err != nil {
		return err
	}

	FP.PromptBox = tview.NewModal()

	FP.Pages.AddPage(PageGambles, FP.Views[m.KindGambles].layout, true, false).
		AddPage(PageBank, FP.Views[m.KindBank].layout, true, false).
		AddPage(PageSummary, getSummaryPage(), true, false).
		AddPage(PageHelp, FP.HelpTextView, true, false).
		AddPage(PageAmount, getAmountPage(), true, false).
		AddPage(PagePrompt, FP.PromptBox, true, false)

	FP.StatusText = tview.NewTextView().SetDynamicColors(true)
	FP.BottomPageNavText = tview.NewTextView().SetDynamicColors(true)

	FP.Layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(FP.Pages, 0, 1, true).
		AddItem(FP.StatusText, 1, 0, false).
		AddItem(FP.BottomPageNavText, 1, 0, false)

	switchToTable(FP.Config.StartPage)

	for _, ctl := range FP.Controllers {
		ctl.Init()
	}

	promptKBMode(FP.T)

	FP.App.SetInputCapture(capture)

	return nil
}

func run(ctx context.Context, f flags) error {
	var err error

	FP.T, err = translations.Load(AllTranslations)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	FP.Config, FP.ConfigFile, err = config.Load(f.configFile, config.XDGDirs(), FP.T, ExampleConfig)
	if err != nil {
		return fmt.Errorf("%v: %w", FP.T["ErrorFailedToLoadConfig"], err)
	}

	err = config.Process(&FP.Config, f.overrides)
	if err != nil {
		return fmt.Errorf("%v: %w", FP.T["ErrorInvalidConfig"], err)
	}

	if FP.Config.LogFile == "" && FP.Config.LogLevel != logging.Off {
		FP.Config.LogFile, err = config.DefaultLogFile()
		if err != nil {
			return err
		}
	}

	FP.Log, err = logging.NewLogger(FP.Config.LogLevel, FP.Config.LogFile)
	if err != nil {
		return fmt.Errorf("%v: %w", FP.T["ErrorFailedToStartLogging"], err)
	}
	defer FP.Log.Sync() //nolint:errcheck

	FP.Log.Info("starting",
		zap.String("config", FP.ConfigFile),
		zap.String("server", FP.Config.Server),
		zap.String("startPage", FP.Config.StartPage),
	)

	FP.Colors, err = themes.Load(AllThemes, FP.Config.Theme)
	if err != nil {
		return fmt.Errorf("%v: %w", FP.T["ErrorFailedToLoadThemes"], err)
	}

	FP.FlagKeyboardEchoMode = f.keyboardEcho

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := bootstrap(ctx); err != nil {
		return err
	}

	err = FP.App.SetRoot(FP.Layout, true).EnableMouse(true).Run()

	FP.Log.Info("stopped", zap.Error(err))

	return err
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          c.AppName,
		Short:        "Terminal editor for the gamble tracker's gambling and bank tables",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "path to a config.yml; defaults to the xdg config dir")
	cmd.Flags().StringVar(&f.overrides.Server, "server", "", "backend base URL, overrides the config")
	cmd.Flags().StringVar(&f.overrides.Theme, "theme", "", "theme name or path to a theme .yml file")
	cmd.Flags().StringVar(&f.overrides.LogLevel, "log-level", "", "debug, info, warn, error or off")
	cmd.Flags().StringVar(&f.overrides.LogFile, "log-file", "", "where to write the log")
	cmd.Flags().StringVar(&f.overrides.Page, "page", "", "table shown at start: gambles or bank")
	cmd.Flags().BoolVar(&f.keyboardEcho, "keyboard-echo", false, "only show the names of pressed keys, for writing keybindings")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
