package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/shortcut"
)

// Shortcut categories.
const (
	CategoryGeneral    = "general"
	CategoryCalculator = "calculator"
	CategoryScripts    = "scripts"
	CategoryConsole    = "console"
)

var errNoResult = errors.New("no result to reuse")

type bind = shortcut.Binding[*App]

func in(contexts ...string) []string { return contexts }

// run adapts a plain action to a shortcut target.
func run(fn func(a *App) error) shortcut.Target[*App] {
	return func(a *App, _ ...any) (any, error) {
		return nil, fn(a)
	}
}

// DefaultShortcuts returns the built-in shortcuts.
func DefaultShortcuts() []shortcut.Shortcut[*App] {
	return []shortcut.Shortcut[*App]{
		// general
		{ID: "app.quit", Keys: []string{"ctrl+c"}, Category: CategoryGeneral, Context: in(shortcut.GlobalContext), Description: "quit",
			Binding: bind{Target: run(func(a *App) error { a.quitting = true; return nil })}},
		{ID: "app.focus-next", Keys: []string{"tab"}, Category: CategoryGeneral, Context: in(shortcut.GlobalContext), Description: "next panel",
			Binding: bind{Target: run(func(a *App) error { a.CycleFocus(1); return nil })}},
		{ID: "app.focus-prev", Keys: []string{"shift+tab"}, Category: CategoryGeneral, Context: in(shortcut.GlobalContext), Description: "previous panel",
			Binding: bind{Target: run(func(a *App) error { a.CycleFocus(-1); return nil })}},
		{ID: "app.help", Keys: []string{"f1"}, Category: CategoryGeneral, Context: in(shortcut.GlobalContext), Description: "toggle help",
			Binding: bind{Target: run(func(a *App) error { a.ShowHelp = !a.ShowHelp; return nil })}},
		{ID: "output.clear", Keys: []string{"ctrl+l"}, Category: CategoryGeneral, Context: in(shortcut.GlobalContext), Description: "clear output",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.ClearOutput(); return nil })}},

		// calculator
		{ID: "calc.compute", Keys: []string{"enter"}, Category: CategoryCalculator, Context: in(FocusCalculator), Description: "compute",
			Binding: bind{Target: computeTarget, PostProcess: reportResult}},
		{ID: "calc.next-op", Keys: []string{"ctrl+o"}, Category: CategoryCalculator, Context: in(FocusCalculator), Description: "next operator",
			Binding: bind{Target: run(func(a *App) error { a.Input.Op = (a.Input.Op + 1) % len(model.Operations); return nil })}},
		{ID: "calc.field-next", Keys: []string{"down"}, Category: CategoryCalculator, Context: in(FocusCalculator), Description: "next field",
			Binding: bind{Target: run(func(a *App) error { a.Input.Field = 1; return nil })}},
		{ID: "calc.field-prev", Keys: []string{"up"}, Category: CategoryCalculator, Context: in(FocusCalculator), Description: "previous field",
			Binding: bind{Target: run(func(a *App) error { a.Input.Field = 0; return nil })}},
		{ID: "calc.clear", Keys: []string{"esc"}, Category: CategoryCalculator, Context: in(FocusCalculator), Description: "clear",
			Binding: bind{Target: run(func(a *App) error {
				a.Calculator.Clear()
				a.Input = CalcInput{Op: a.Input.Op}
				return nil
			})}},
		{ID: "calc.reuse-result", Keys: []string{"ctrl+u"}, Category: CategoryCalculator, Context: in(FocusCalculator), Description: "reuse result",
			Binding: bind{PreProcess: lastResult, Target: reuseResult, PostProcess: reportReuse}},

		// script list
		{ID: "list.up", Keys: []string{"up", "k"}, Category: CategoryScripts, Context: in(FocusScripts), Description: "up",
			Binding: bind{Target: run(func(a *App) error { a.moveCursor(-1); return nil })}},
		{ID: "list.down", Keys: []string{"down", "j"}, Category: CategoryScripts, Context: in(FocusScripts), Description: "down",
			Binding: bind{Target: run(func(a *App) error { a.moveCursor(1); return nil })}},
		{ID: "scripts.open", Keys: []string{"enter"}, Category: CategoryScripts, Context: in(FocusScripts), Description: "open script",
			Binding: bind{Target: run(openSelected)}},
		{ID: "scripts.refresh", Keys: []string{"r"}, Category: CategoryScripts, Context: in(FocusScripts), Description: "refresh list",
			Binding: bind{Target: run(func(a *App) error { return a.Scripts.RefreshScriptList() })}},
		{ID: "scripts.new", Keys: []string{"ctrl+t"}, Category: CategoryScripts, Context: in(FocusScripts, FocusEditor), Description: "new script",
			Binding: bind{Target: run(func(a *App) error {
				a.Prompt = &Prompt{Kind: PromptNewScript, Label: "New script name"}
				return nil
			})}},

		// editor
		{ID: "scripts.run", Keys: []string{"ctrl+r"}, Category: CategoryScripts, Context: in(FocusEditor), Description: "run script",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.RunCurrentScript(a.context()); return nil })}},
		{ID: "scripts.save", Keys: []string{"ctrl+s"}, Category: CategoryScripts, Context: in(FocusEditor), Description: "save",
			Binding: bind{Target: run(func(a *App) error { return a.Scripts.SaveScript("") }), PostProcess: status("saved")}},
		{ID: "scripts.reload", Keys: []string{"f5"}, Category: CategoryScripts, Context: in(FocusEditor), Description: "reload",
			Binding: bind{Target: run(func(a *App) error { return a.Scripts.ReloadCurrentScript() }), PostProcess: status("reloaded")}},
		{ID: "scripts.close", Keys: []string{"ctrl+w"}, Category: CategoryScripts, Context: in(FocusEditor), Description: "close tab",
			Binding: bind{Target: run(func(a *App) error {
				a.Scripts.RequestClose(a.Scripts.Data().CurrentTab)
				return nil
			})}},
		{ID: "scripts.next-tab", Keys: []string{"alt+]"}, Category: CategoryScripts, Context: in(FocusEditor), Description: "next tab",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.CycleTab(1); return nil })}},
		{ID: "scripts.prev-tab", Keys: []string{"alt+["}, Category: CategoryScripts, Context: in(FocusEditor), Description: "previous tab",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.CycleTab(-1); return nil })}},

		// console
		{ID: "console.run", Keys: []string{"enter"}, Category: CategoryConsole, Context: in(FocusConsole), Description: "run",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.RunConsoleCode(a.context()); return nil })}},
		{ID: "console.clear", Keys: []string{"ctrl+l"}, Category: CategoryConsole, Context: in(FocusConsole), Description: "clear console",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.ClearConsole(); return nil })}},

		// unsaved changes prompt
		{ID: "confirm.save", Keys: []string{"y"}, Category: CategoryScripts, Context: in(ContextConfirm), Description: "save and close",
			Binding: bind{Target: run(func(a *App) error { return a.Scripts.ConfirmClose(true) })}},
		{ID: "confirm.discard", Keys: []string{"n"}, Category: CategoryScripts, Context: in(ContextConfirm), Description: "close without saving",
			Binding: bind{Target: run(func(a *App) error { return a.Scripts.ConfirmClose(false) })}},
		{ID: "confirm.cancel", Keys: []string{"esc"}, Category: CategoryScripts, Context: in(ContextConfirm), Description: "cancel",
			Binding: bind{Target: run(func(a *App) error { a.Scripts.CancelClose(); return nil })}},

		// name prompt
		{ID: "prompt.submit", Keys: []string{"enter"}, Category: CategoryGeneral, Context: in(ContextPrompt), Description: "ok",
			Binding: bind{Target: run(submitPrompt)}},
		{ID: "prompt.cancel", Keys: []string{"esc"}, Category: CategoryGeneral, Context: in(ContextPrompt), Description: "cancel",
			Binding: bind{Target: run(func(a *App) error { a.Prompt = nil; return nil })}},
	}
}

func computeTarget(a *App, _ ...any) (any, error) {
	return a.Calculator.ComputeInput(a.context(), a.Input.Operation(), a.Input.A, a.Input.B)
}

func reportResult(a *App, result any) {
	if v, ok := result.(float64); ok {
		a.UI.SetStatus("= " + model.FormatNumber(v))
	}
}

func lastResult(a *App) (any, error) {
	v, ok := a.Calculator.Result()
	if !ok {
		return nil, errNoResult
	}
	return v, nil
}

func reuseResult(a *App, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, errNoResult
	}
	v, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("reuse result: unexpected %T", args[0])
	}
	a.Input.A = model.FormatNumber(v)
	a.Input.B = ""
	a.Input.Field = 1
	return v, nil
}

func reportReuse(a *App, result any) {
	if v, ok := result.(float64); ok {
		a.UI.SetStatus("reusing " + model.FormatNumber(v))
	}
}

func status(text string) shortcut.PostProcess[*App] {
	return func(a *App, _ any) { a.UI.SetStatus(text) }
}

func openSelected(a *App) error {
	name, ok := a.SelectedScript()
	if !ok {
		return nil
	}
	if err := a.Scripts.OpenScript(name); err != nil {
		return err
	}
	a.Focus = FocusEditor
	return nil
}

func submitPrompt(a *App) error {
	p := a.Prompt
	if p == nil {
		return nil
	}
	switch p.Kind {
	case PromptNewScript:
		name := strings.TrimSpace(p.Value)
		if name == "" {
			return nil
		}
		if err := a.Scripts.NewScript(name); err != nil {
			return err
		}
		a.Focus = FocusEditor
	}
	a.Prompt = nil
	return nil
}

func (a *App) moveCursor(delta int) {
	n := len(a.Scripts.Data().ScriptList)
	if n == 0 {
		a.ListCursor = 0
		return
	}
	a.ListCursor = min(max(a.ListCursor+delta, 0), n-1)
}
