package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/script"
)

// ScriptsName is the store name of the scripts view-model.
const ScriptsName = "Scripts"

const consoleScript = "<console>"

var ErrNoTab = errors.New("no script open")

// ScriptsModel is the script storage and execution collaborator.
type ScriptsModel interface {
	ListScripts() ([]string, error)
	LoadScript(name string) (string, error)
	SaveScript(name, text string) error
	RunCode(ctx context.Context, name, text string, scope *script.Scope) error
}

// RunRecorder persists script runs.
type RunRecorder interface {
	Insert(ctx context.Context, r repository.Run) (repository.Run, error)
}

// Scripts mediates between script storage and the editor, console and
// output panels. Script faults never leave this type: they become trace
// text in OutputLog for editor runs and in ExecResult for console runs.
type Scripts struct {
	data  model.ScriptsData
	store ScriptsModel
	runs  RunRecorder
	scope *script.Scope

	tabs []*model.Tab
	// ConfirmingClose names the dirty tab waiting on the close prompt.
	ConfirmingClose string

	console *strings.Builder
}

// NewScripts returns a view-model over store. runs may be nil.
func NewScripts(store ScriptsModel, runs RunRecorder) *Scripts {
	return &Scripts{store: store, runs: runs}
}

// Bind creates the execution scope shared by editor and console runs.
func (s *Scripts) Bind(host script.Host, vms script.Store, ui script.Renderer) {
	s.scope = script.NewScope(ScriptsName, host, vms, ui, s.captureOutput)
}

// Scope returns the execution scope, creating an unbound one if needed.
func (s *Scripts) Scope() *script.Scope {
	if s.scope == nil {
		s.scope = script.NewScope(ScriptsName, nil, nil, nil, s.captureOutput)
	}
	return s.scope
}

func (s *Scripts) Name() string { return ScriptsName }

func (s *Scripts) Data() model.ScriptsData { return s.data }

func (s *Scripts) captureOutput(args ...string) {
	line := script.Line(args...)
	s.data.OutputLog += line
	if s.console != nil {
		s.console.WriteString(line)
	}
}

// RefreshScriptList reloads the names of stored scripts.
func (s *Scripts) RefreshScriptList() error {
	names, err := s.store.ListScripts()
	if err != nil {
		return err
	}
	s.data.ScriptList = names
	return nil
}

// LoadScript puts a stored script into both the editor buffer and the
// console input.
func (s *Scripts) LoadScript(name string) error {
	text, err := s.store.LoadScript(name)
	if err != nil {
		return err
	}
	s.data.EditorContent = text
	s.data.Code = text
	return nil
}

// OpenScript opens name in a tab, or selects it when already open.
func (s *Scripts) OpenScript(name string) error {
	name, err := model.NormalizeScriptName(name)
	if err != nil {
		return err
	}
	if t := s.tab(name); t != nil {
		s.selectTab(t)
		return nil
	}
	text, err := s.store.LoadScript(name)
	if err != nil {
		return err
	}
	t := &model.Tab{Name: name, Content: text}
	s.tabs = append(s.tabs, t)
	s.selectTab(t)
	return nil
}

// NewScript opens an empty unsaved tab.
func (s *Scripts) NewScript(name string) error {
	name, err := model.NormalizeScriptName(name)
	if err != nil {
		return err
	}
	if t := s.tab(name); t != nil {
		return fmt.Errorf("%s is already open", name)
	}
	t := &model.Tab{Name: name, Dirty: true}
	s.tabs = append(s.tabs, t)
	s.selectTab(t)
	return nil
}

// Tabs returns the open tabs in opening order.
func (s *Scripts) Tabs() []model.Tab {
	out := make([]model.Tab, 0, len(s.tabs))
	for _, t := range s.tabs {
		out = append(out, *t)
	}
	return out
}

// TabNames returns the open tab names in opening order.
func (s *Scripts) TabNames() []string {
	out := make([]string, 0, len(s.tabs))
	for _, t := range s.tabs {
		out = append(out, t.Name)
	}
	return out
}

func (s *Scripts) Tab(name string) (model.Tab, bool) {
	if t := s.tab(name); t != nil {
		return *t, true
	}
	return model.Tab{}, false
}

func (s *Scripts) CurrentTab() (model.Tab, bool) {
	return s.Tab(s.data.CurrentTab)
}

// SelectTab makes name the current tab.
func (s *Scripts) SelectTab(name string) error {
	t := s.tab(name)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrNoTab, name)
	}
	s.selectTab(t)
	return nil
}

// CycleTab moves the current tab by delta, wrapping around.
func (s *Scripts) CycleTab(delta int) {
	if len(s.tabs) == 0 {
		return
	}
	i := s.index(s.data.CurrentTab)
	if i < 0 {
		i = 0
	}
	n := len(s.tabs)
	s.selectTab(s.tabs[((i+delta)%n+n)%n])
}

// UpdateEditorContent reports the editor text for the current tab. A change
// marks the tab dirty.
func (s *Scripts) UpdateEditorContent(text string) {
	s.data.EditorContent = text
	t := s.tab(s.data.CurrentTab)
	if t == nil || t.Content == text {
		return
	}
	t.Content = text
	t.Dirty = true
}

// SetCode replaces the console input.
func (s *Scripts) SetCode(code string) {
	s.data.Code = code
}

// SaveScript writes the named tab, or the current tab when name is empty.
func (s *Scripts) SaveScript(name string) error {
	if name == "" {
		name = s.data.CurrentTab
	}
	t := s.tab(name)
	if t == nil {
		return ErrNoTab
	}
	if err := s.store.SaveScript(t.Name, t.Content); err != nil {
		return err
	}
	t.Dirty = false
	return s.RefreshScriptList()
}

// RequestClose closes a clean tab immediately and reports true. A dirty tab
// is left open and recorded in ConfirmingClose.
func (s *Scripts) RequestClose(name string) bool {
	t := s.tab(name)
	if t == nil {
		return false
	}
	if t.Dirty {
		s.ConfirmingClose = name
		return false
	}
	s.ForceCloseEditor(name)
	return true
}

// ConfirmClose resolves the pending close prompt, saving first when asked.
func (s *Scripts) ConfirmClose(save bool) error {
	name := s.ConfirmingClose
	if name == "" {
		return nil
	}
	if save {
		if err := s.SaveScript(name); err != nil {
			return err
		}
	}
	s.ForceCloseEditor(name)
	return nil
}

// CancelClose dismisses the close prompt and keeps the tab.
func (s *Scripts) CancelClose() {
	s.ConfirmingClose = ""
}

// ForceCloseEditor closes name without saving.
func (s *Scripts) ForceCloseEditor(name string) {
	i := s.index(name)
	if i < 0 {
		return
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	if s.ConfirmingClose == name {
		s.ConfirmingClose = ""
	}
	if s.data.CurrentTab != name {
		return
	}
	if len(s.tabs) == 0 {
		s.data.CurrentTab = ""
		s.data.EditorContent = ""
		return
	}
	if i >= len(s.tabs) {
		i = len(s.tabs) - 1
	}
	s.selectTab(s.tabs[i])
}

// ReloadCurrentScript discards edits and rereads the current tab from disk.
func (s *Scripts) ReloadCurrentScript() error {
	t := s.tab(s.data.CurrentTab)
	if t == nil {
		return ErrNoTab
	}
	text, err := s.store.LoadScript(t.Name)
	if err != nil {
		return err
	}
	t.Content = text
	t.Dirty = false
	s.data.EditorContent = text
	return nil
}

// RunCurrentScript runs the current tab's content.
func (s *Scripts) RunCurrentScript(ctx context.Context) {
	if t := s.tab(s.data.CurrentTab); t != nil {
		s.data.EditorContent = t.Content
	}
	s.RunEditorScript(ctx)
}

// RunEditorScript runs the editor buffer. Output and any fault trace land
// in OutputLog and the current tab's output.
func (s *Scripts) RunEditorScript(ctx context.Context) {
	name := s.data.CurrentTab
	if name == "" {
		name = "<editor>"
	}
	code := s.data.EditorContent
	s.data.OutputLog = ""
	err := s.store.RunCode(ctx, name, code, s.Scope())
	if err != nil {
		s.data.OutputLog += trace(name, err)
	}
	if t := s.tab(s.data.CurrentTab); t != nil {
		t.Output = s.data.OutputLog
	}
	s.record(ctx, repository.SourceEditor, name, code, err, s.data.OutputLog)
}

// RunConsoleCode runs the console input. Printed lines are appended to
// OutputLog as for every run; ExecResult receives this run's lines or its
// fault trace.
func (s *Scripts) RunConsoleCode(ctx context.Context) {
	code := s.data.Code
	s.data.ExecResult = ""
	var buf strings.Builder
	s.console = &buf
	err := s.store.RunCode(ctx, consoleScript, code, s.Scope())
	s.console = nil
	if err != nil {
		buf.WriteString(trace(consoleScript, err))
	}
	s.data.ExecResult = buf.String()
	s.record(ctx, repository.SourceConsole, "", code, err, s.data.ExecResult)
}

// RunHeadless runs code outside the editor and console and returns what it
// printed. On a fault the output ends with the trace and the error is
// returned as well.
func (s *Scripts) RunHeadless(ctx context.Context, name, code string) (string, error) {
	var buf strings.Builder
	prev := s.console
	s.console = &buf
	err := s.store.RunCode(ctx, name, code, s.Scope())
	s.console = prev
	if err != nil {
		buf.WriteString(trace(name, err))
	}
	out := buf.String()
	s.record(ctx, repository.SourceCLI, name, code, err, out)
	return out, err
}

// ClearOutput empties the output log and the current tab's output.
func (s *Scripts) ClearOutput() {
	s.data.OutputLog = ""
	if t := s.tab(s.data.CurrentTab); t != nil {
		t.Output = ""
	}
}

// ClearConsole empties the console input and result.
func (s *Scripts) ClearConsole() {
	s.data.Code = ""
	s.data.ExecResult = ""
}

// RestoreSession reopens tabs from a previous session. Scripts that can no
// longer be loaded are skipped.
func (s *Scripts) RestoreSession(ctx context.Context, tabs []string, current string) {
	log := logger.FromContext(ctx)
	for _, name := range tabs {
		if err := s.OpenScript(name); err != nil {
			log.Warn("restore tab failed", zap.String("script", name), zap.Error(err))
		}
	}
	if current != "" {
		_ = s.SelectTab(current)
	}
}

func (s *Scripts) Attr(name string) script.Attr {
	switch name {
	case "current_tab":
		if s.data.CurrentTab == "" {
			return script.Absent()
		}
		return script.Present(s.data.CurrentTab)
	case "output_log":
		return script.Present(s.data.OutputLog)
	case "exec_result":
		return script.Present(s.data.ExecResult)
	case "code":
		return script.Present(s.data.Code)
	case "editor_content":
		return script.Present(s.data.EditorContent)
	case "scripts":
		return script.Present(append([]string(nil), s.data.ScriptList...))
	case "tabs":
		return script.Present(s.TabNames())
	case "dirty":
		t, ok := s.CurrentTab()
		if !ok {
			return script.Absent()
		}
		return script.Present(t.Dirty)
	}
	return script.Absent()
}

func (s *Scripts) Call(ctx context.Context, action string, args []any) (any, error) {
	switch action {
	case "open":
		name, err := nameArg(action, args)
		if err != nil {
			return nil, err
		}
		return nil, s.OpenScript(name)
	case "save":
		return nil, s.SaveScript("")
	case "reload":
		return nil, s.ReloadCurrentScript()
	case "refresh":
		return nil, s.RefreshScriptList()
	case "clear-output":
		s.ClearOutput()
		return nil, nil
	}
	return nil, fmt.Errorf("unknown action %q", action)
}

func nameArg(action string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s takes a script name", action)
	}
	name, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: script name must be a string, got %T", action, args[0])
	}
	return name, nil
}

func (s *Scripts) record(ctx context.Context, source, name, code string, runErr error, output string) {
	log := logger.FromContext(ctx)
	if runErr != nil {
		log.Info("script failed", zap.String("source", source), zap.Error(runErr))
	}
	if s.runs == nil {
		return
	}
	run := repository.Run{Source: source, Script: name, Code: code, OK: runErr == nil, Output: output}
	if _, err := s.runs.Insert(ctx, run); err != nil {
		log.Warn("record run failed", zap.Error(err))
	}
}

func (s *Scripts) tab(name string) *model.Tab {
	if i := s.index(name); i >= 0 {
		return s.tabs[i]
	}
	return nil
}

func (s *Scripts) index(name string) int {
	for i, t := range s.tabs {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func (s *Scripts) selectTab(t *model.Tab) {
	s.data.CurrentTab = t.Name
	s.data.EditorContent = t.Content
}

// trace renders a run failure for an output field.
func trace(name string, err error) string {
	var serr *script.Error
	if errors.As(err, &serr) {
		return serr.Trace()
	}
	return (&script.Error{Script: name, Err: err}).Trace()
}
