package app

import (
	"context"
	"slices"

	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/shortcut"
	"github.com/jask/jaskcalc/internal/viewmodel"
)

// Focus targets and modal contexts. The active context decides which
// shortcuts a key can reach.
const (
	FocusCalculator = "calculator"
	FocusScripts    = "scripts"
	FocusEditor     = "editor"
	FocusConsole    = "console"

	ContextConfirm = "confirm"
	ContextPrompt  = "prompt"
)

var focusOrder = []string{FocusCalculator, FocusScripts, FocusEditor, FocusConsole}

// Contexts lists every context a shortcut can name.
func Contexts() []string {
	return append(slices.Clone(focusOrder), ContextConfirm, ContextPrompt, shortcut.GlobalContext)
}

// CalcInput is the text typed into the calculator.
type CalcInput struct {
	A     string
	B     string
	Op    int
	Field int // 0 edits A, 1 edits B
}

// Operation returns the selected operator.
func (in CalcInput) Operation() string {
	return model.Operations[in.Op%len(model.Operations)]
}

// Prompt is a one-line question shown over the panels.
type Prompt struct {
	Kind  string
	Label string
	Value string
}

// PromptNewScript asks for the name of a new script.
const PromptNewScript = "new-script"

// Options configures New.
type Options struct {
	Version      string
	Scripts      viewmodel.ScriptsModel
	Runs         viewmodel.RunRecorder
	Calculations viewmodel.CalculationRecorder
	Overrides    map[string]shortcut.Override
}

// App is the application handle. Shortcut targets receive it first, and
// scripts reach it through the app name in their scope.
type App struct {
	Registry   *shortcut.Registry[*App]
	Store      *viewmodel.Store
	Calculator *viewmodel.Calculator
	Scripts    *viewmodel.Scripts
	UI         *Renderer

	Input      CalcInput
	Focus      string
	Prompt     *Prompt
	ListCursor int
	ShowHelp   bool

	ctx      context.Context
	version  string
	quitting bool
}

// New builds the app, its view-models and its shortcut registry. Key
// overrides are applied last; a bad override fails construction.
func New(opts Options) (*App, error) {
	a := &App{
		Focus:   FocusCalculator,
		UI:      NewRenderer(),
		ctx:     context.Background(),
		version: opts.Version,
	}
	a.Calculator = viewmodel.NewCalculator(opts.Calculations)
	a.Scripts = viewmodel.NewScripts(opts.Scripts, opts.Runs)
	a.Store = viewmodel.NewStore(a.Calculator, a.Scripts)
	a.Scripts.Bind(a, a.Store, a.UI)

	a.Registry = shortcut.NewRegistry(DefaultShortcuts()...)
	if err := a.Registry.ApplyOverrides(opts.Overrides); err != nil {
		return nil, err
	}
	return a, nil
}

// Version reports the application version.
func (a *App) Version() string { return a.version }

// InvokeShortcut runs the shortcut registered under id.
func (a *App) InvokeShortcut(ctx context.Context, id string) error {
	prev := a.ctx
	a.ctx = ctx
	defer func() { a.ctx = prev }()
	return a.Registry.Invoke(ctx, a, id)
}

// ShortcutIDs lists the registered shortcut ids.
func (a *App) ShortcutIDs() []string { return a.Registry.IDs() }

// Context returns the context keys are resolved in. Modal prompts take
// precedence over panel focus.
func (a *App) Context() string {
	switch {
	case a.Scripts.ConfirmingClose != "":
		return ContextConfirm
	case a.Prompt != nil:
		return ContextPrompt
	default:
		return a.Focus
	}
}

// HandleKey resolves key in the active context and invokes the matching
// shortcut. It reports whether a shortcut consumed the key. While a modal
// context is active only shortcuts naming it, and app.quit, are reachable.
func (a *App) HandleKey(ctx context.Context, keyName string) (bool, error) {
	current := a.Context()
	s, ok := a.Registry.Lookup(keyName, current)
	if !ok {
		return false, nil
	}
	if a.modal() && !slices.Contains(s.Context, current) && s.ID != "app.quit" {
		return false, nil
	}
	return true, a.InvokeShortcut(ctx, s.ID)
}

// Quitting reports whether app.quit has run.
func (a *App) Quitting() bool { return a.quitting }

// CycleFocus moves panel focus by delta, wrapping around.
func (a *App) CycleFocus(delta int) {
	i := slices.Index(focusOrder, a.Focus)
	if i < 0 {
		i = 0
	}
	n := len(focusOrder)
	a.Focus = focusOrder[((i+delta)%n+n)%n]
}

// SelectedScript returns the script under the list cursor.
func (a *App) SelectedScript() (string, bool) {
	list := a.Scripts.Data().ScriptList
	if a.ListCursor < 0 || a.ListCursor >= len(list) {
		return "", false
	}
	return list[a.ListCursor], true
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

func (a *App) modal() bool {
	c := a.Context()
	return c == ContextConfirm || c == ContextPrompt
}
