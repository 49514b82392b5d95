// Package tui is the bubbletea front end. It owns the text widgets and the
// layout; every key goes to the shortcut registry first and only unclaimed
// keys reach the focused widget.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/app"
	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/shortcut"
)

// Model is the root bubbletea model.
type Model struct {
	ctx context.Context
	app *app.App

	operandA textinput.Model
	operandB textinput.Model
	console  textinput.Model
	prompt   textinput.Model
	editor   textarea.Model

	// The widgets rewrite tabs and newlines on SetValue. *Source is the app
	// text last loaded into a widget and *Shown what the widget made of it;
	// only a widget value that differs from *Shown is an edit.
	editorSource  string
	editorShown   string
	consoleSource string
	consoleShown  string

	prompting bool
	width     int
	height    int
}

// New builds the UI over a.
func New(ctx context.Context, a *app.App) *Model {
	m := &Model{ctx: ctx, app: a}

	m.operandA = textinput.New()
	m.operandA.Prompt = ""
	m.operandA.Placeholder = "first operand"
	m.operandB = textinput.New()
	m.operandB.Prompt = ""
	m.operandB.Placeholder = "second operand"

	m.console = textinput.New()
	m.console.Prompt = "> "
	m.console.Placeholder = `(print (+ 1 1))`

	m.prompt = textinput.New()
	m.prompt.Prompt = ""

	m.editor = textarea.New()
	m.editor.ShowLineNumbers = true
	m.editor.Placeholder = "open a script or start typing"
	m.editor.CharLimit = 0

	m.pull()
	m.focus()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		m.push()
		handled, err := m.app.HandleKey(m.ctx, shortcut.NormalizeKey(msg.String()))
		if err != nil {
			logger.FromContext(m.ctx).Warn("shortcut failed", zap.Error(err))
			m.app.UI.SetStatus(fmt.Sprintf("error: %v", err))
		}
		var cmd tea.Cmd
		if !handled {
			cmd = m.forward(msg)
		}
		if m.app.Quitting() {
			return m, tea.Quit
		}
		m.pull()
		return m, tea.Batch(cmd, m.focus())
	}

	return m, m.forward(msg)
}

// forward hands msg to the widget owning the active context and reports
// the widget's text back to the app.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	a := m.app
	var cmd tea.Cmd
	switch a.Context() {
	case app.FocusCalculator:
		if a.Input.Field == 0 {
			m.operandA, cmd = m.operandA.Update(msg)
		} else {
			m.operandB, cmd = m.operandB.Update(msg)
		}
	case app.FocusEditor:
		m.editor, cmd = m.editor.Update(msg)
	case app.FocusConsole:
		m.console, cmd = m.console.Update(msg)
	case app.ContextPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	m.push()
	return cmd
}

// push copies widget text into the app.
func (m *Model) push() {
	a := m.app
	a.Input.A = m.operandA.Value()
	a.Input.B = m.operandB.Value()
	if v := m.console.Value(); v != m.consoleShown {
		a.Scripts.SetCode(v)
		m.consoleSource, m.consoleShown = v, v
	}
	if v := m.editor.Value(); v != m.editorShown {
		a.Scripts.UpdateEditorContent(v)
		m.editorSource, m.editorShown = v, v
	}
	if a.Prompt != nil {
		a.Prompt.Value = m.prompt.Value()
	}
}

// pull copies app state changed by shortcuts back into the widgets.
func (m *Model) pull() {
	a := m.app
	d := a.Scripts.Data()
	if d.EditorContent != m.editorSource {
		m.editor.SetValue(d.EditorContent)
		m.editorSource, m.editorShown = d.EditorContent, m.editor.Value()
	}
	if d.Code != m.consoleSource {
		m.console.SetValue(d.Code)
		m.consoleSource, m.consoleShown = d.Code, m.console.Value()
	}
	if m.operandA.Value() != a.Input.A {
		m.operandA.SetValue(a.Input.A)
	}
	if m.operandB.Value() != a.Input.B {
		m.operandB.SetValue(a.Input.B)
	}
	switch {
	case a.Prompt != nil && !m.prompting:
		m.prompt.SetValue(a.Prompt.Value)
		m.prompting = true
	case a.Prompt == nil && m.prompting:
		m.prompt.Reset()
		m.prompting = false
	}
}

// focus gives keyboard focus to the widget of the active context.
func (m *Model) focus() tea.Cmd {
	m.operandA.Blur()
	m.operandB.Blur()
	m.console.Blur()
	m.prompt.Blur()
	m.editor.Blur()

	switch m.app.Context() {
	case app.FocusCalculator:
		if m.app.Input.Field == 0 {
			return m.operandA.Focus()
		}
		return m.operandB.Focus()
	case app.FocusEditor:
		return m.editor.Focus()
	case app.FocusConsole:
		return m.console.Focus()
	case app.ContextPrompt:
		return m.prompt.Focus()
	}
	return nil
}

func (m *Model) resize() {
	l := m.layout()
	m.editor.SetWidth(max(l.rightWidth-4, 10))
	m.editor.SetHeight(max(l.editorHeight-3, 1))
}
