package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/jaskcalc/internal/shortcut"
)

// Renderer is the rendering handle shared by the UI and scripts. It owns the
// status line and the named text styles.
type Renderer struct {
	status string
	styles map[string]lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{styles: namedStyles()}
}

// SetStatus replaces the status line. Only the first line is kept.
func (r *Renderer) SetStatus(text string) {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	r.status = text
}

func (r *Renderer) Status() string { return r.status }

// StatusLine returns the status truncated to width cells.
func (r *Renderer) StatusLine(width int) string {
	if width <= 0 {
		return r.status
	}
	return ansi.Truncate(r.status, width, "…")
}

// Style renders text with the named style.
func (r *Renderer) Style(name, text string) (string, error) {
	st, ok := r.styles[name]
	if !ok {
		if hint := shortcut.Closest(name, r.StyleNames()); hint != "" {
			return "", fmt.Errorf("unknown style %q (did you mean %q?)", name, hint)
		}
		return "", fmt.Errorf("unknown style %q", name)
	}
	return st.Render(text), nil
}

// StyleNames lists the available style names, sorted.
func (r *Renderer) StyleNames() []string {
	names := make([]string, 0, len(r.styles))
	for n := range r.styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
