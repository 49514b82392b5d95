package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/jaskcalc/internal/app"
	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/shortcut"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	calcHeight    = 8
	consoleHeight = 6
)

type layout struct {
	width, height int
	leftWidth     int
	rightWidth    int
	bodyHeight    int
	editorHeight  int
	outputHeight  int
}

func (m *Model) layout() layout {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	l := layout{width: w, height: h}
	l.leftWidth = max(w/3, 28)
	l.rightWidth = max(w-l.leftWidth, 20)
	// footer and status bar take one line each
	l.bodyHeight = max(h-2-consoleHeight, calcHeight+3)
	l.editorHeight = max(l.bodyHeight*3/5, 5)
	l.outputHeight = max(l.bodyHeight-l.editorHeight, 3)
	return l
}

func (m *Model) View() string {
	l := m.layout()
	ctx := m.app.Context()

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.box(m.calculatorView(), l.leftWidth, calcHeight, ctx == app.FocusCalculator),
		m.box(m.scriptListView(), l.leftWidth, l.bodyHeight-calcHeight, ctx == app.FocusScripts),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.box(m.editorView(l.rightWidth-4), l.rightWidth, l.editorHeight, ctx == app.FocusEditor),
		m.box(m.outputView(), l.rightWidth, l.outputHeight, false),
	)
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.box(m.consoleView(), l.width, consoleHeight, ctx == app.FocusConsole),
		m.statusView(l.width),
		m.footerView(l.width),
	)
	body = place(body, l.width, l.height)

	switch {
	case m.app.Scripts.ConfirmingClose != "":
		body = centerOverlay(body, m.confirmView(), l.width, l.height)
	case m.app.Prompt != nil:
		body = centerOverlay(body, m.promptView(), l.width, l.height)
	case m.app.ShowHelp:
		body = centerOverlay(body, m.helpView(l.height-4), l.width, l.height)
	}
	return body
}

// box draws content in a bordered panel of exactly width x height cells.
func (m *Model) box(content string, width, height int, focused bool) string {
	inner := max(width-4, 1)
	rows := max(height-2, 1)
	return panel(focused).Width(width - 2).Height(rows).Render(clip(content, inner, rows))
}

func (m *Model) calculatorView() string {
	a := m.app
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calculator") + "\n")
	fmt.Fprintf(&b, "a  %s\n", m.operandA.View())
	fmt.Fprintf(&b, "   %s %s\n", selectedStyle.Render(a.Input.Operation()), mutedStyle.Render(strings.Join(model.Operations, " ")))
	fmt.Fprintf(&b, "b  %s\n", m.operandB.View())

	d := a.Calculator.Data()
	switch {
	case d.Err != "":
		b.WriteString(errorStyle.Render("error: " + d.Err))
	case d.Result != nil:
		b.WriteString(resultStyle.Render("= " + model.FormatNumber(*d.Result)))
	}
	return b.String()
}

func (m *Model) scriptListView() string {
	list := m.app.Scripts.Data().ScriptList
	var b strings.Builder
	b.WriteString(titleStyle.Render("Scripts") + "\n")
	if len(list) == 0 {
		b.WriteString(mutedStyle.Render("no scripts"))
		return b.String()
	}
	for i, name := range list {
		line := "  " + name
		if i == m.app.ListCursor {
			line = selectedStyle.Render("> " + name)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) editorView(width int) string {
	tabs := m.app.Scripts.Tabs()
	current := m.app.Scripts.Data().CurrentTab
	if len(tabs) == 0 {
		return mutedStyle.Render("no open scripts") + "\n" + m.editor.View()
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		name := t.Name
		if t.Dirty {
			name += "*"
		}
		if t.Name == current {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	bar := ansi.Truncate(strings.Join(parts, " "), width, "…")
	return bar + "\n" + m.editor.View()
}

func (m *Model) outputView() string {
	out := m.app.Scripts.Data().OutputLog
	if out == "" {
		return titleStyle.Render("Output")
	}
	return titleStyle.Render("Output") + "\n" + out
}

func (m *Model) consoleView() string {
	res := strings.TrimRight(m.app.Scripts.Data().ExecResult, "\n")
	lines := splitLines(res)
	if keep := consoleHeight - 3; len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for len(lines) < consoleHeight-3 {
		lines = append([]string{""}, lines...)
	}
	return strings.Join(lines, "\n") + "\n" + m.console.View()
}

func (m *Model) statusView(width int) string {
	return statusBarStyle.Width(width).Render(m.app.UI.StatusLine(max(width-2, 1)))
}

func (m *Model) footerView(width int) string {
	text := renderHelp(m.app.Registry.HelpBindings(m.app.Context()))
	return footerStyle.Width(width).Render(ansi.Truncate(text, max(width-2, 1), "…"))
}

func (m *Model) confirmView() string {
	name := m.app.Scripts.ConfirmingClose
	body := fmt.Sprintf("%q has unsaved changes.\n\n%s", name,
		renderHelp(m.app.Registry.HelpBindings(app.ContextConfirm)))
	return modalStyle.Render(titleStyle.Render("Close script") + "\n" + body)
}

func (m *Model) promptView() string {
	return modalStyle.Render(titleStyle.Render(m.app.Prompt.Label) + "\n" + m.prompt.View() + "\n\n" +
		renderHelp(m.app.Registry.HelpBindings(app.ContextPrompt)))
}

// helpView lists every shortcut grouped by category.
func (m *Model) helpView(maxLines int) string {
	groups := make(map[string][]shortcut.Shortcut[*app.App])
	for _, s := range m.app.Registry.All() {
		groups[s.Category] = append(groups[s.Category], s)
	}
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var lines []string
	for _, c := range cats {
		lines = append(lines, titleStyle.Render(c))
		for _, s := range groups[c] {
			lines = append(lines, fmt.Sprintf("  %-14s %s", strings.Join(s.Keys, "/"), s.Description))
		}
	}
	if maxLines > 2 && len(lines) > maxLines-2 {
		lines = append(lines[:maxLines-3], mutedStyle.Render("…"))
	}
	return modalStyle.BorderForeground(app.ColorFocus).Render(strings.Join(lines, "\n"))
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(h.Key)+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
