package script

import (
	"context"
	"strings"

	"github.com/steelseries/golisp"
)

// Scope names guaranteed to be bound in every scope.
const (
	NameApp     = "app"
	NameStore   = "vm-store"
	NameUI      = "ui"
	NamePrint   = "print"
	scopeSymbol = "*scope*"
)

// Host is the application handle seen by scripts.
type Host interface {
	InvokeShortcut(ctx context.Context, id string) error
	ShortcutIDs() []string
	Version() string
}

// Inspectable is a view-model scripts can read from and call into.
type Inspectable interface {
	Name() string
	Attr(name string) Attr
	Call(ctx context.Context, action string, args []any) (any, error)
}

// Store looks view-models up by name.
type Store interface {
	Lookup(name string) (Inspectable, bool)
	Names() []string
}

// Renderer is the rendering handle seen by scripts.
type Renderer interface {
	SetStatus(text string)
	Style(style, text string) (string, error)
}

// PrintFunc receives the display form of each printed argument.
type PrintFunc func(args ...string)

// Scope is the environment user code runs in. Top-level definitions made by
// a script stay in the scope for later runs.
type Scope struct {
	Name  string
	Host  Host
	Store Store
	UI    Renderer

	print PrintFunc
	frame *golisp.SymbolTableFrame
	ctx   context.Context
}

// NewScope builds a scope below the interpreter's global frame.
func NewScope(name string, host Host, store Store, ui Renderer, print PrintFunc) *Scope {
	s := &Scope{
		Name:  name,
		Host:  host,
		Store: store,
		UI:    ui,
		print: print,
		ctx:   context.Background(),
	}
	s.frame = golisp.NewSymbolTableFrameBelow(golisp.Global, name)
	s.bind(scopeSymbol, s.object(objScope))
	s.bind(NameApp, s.object(objApp))
	s.bind(NameStore, s.object(objStore))
	s.bind(NameUI, s.object(objUI))
	return s
}

// Print writes args joined by spaces plus a newline to the scope's output.
func (s *Scope) Print(args ...string) {
	if s.print == nil {
		return
	}
	s.print(args...)
}

// Names lists the capability names bound by the scope itself.
func (s *Scope) Names() []string {
	return []string{NameApp, NameStore, NameUI, NamePrint}
}

func (s *Scope) context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *Scope) bind(name string, value *golisp.Data) {
	s.frame.BindTo(golisp.SymbolWithName(name), value)
}

// Capability documents one name or primitive available to scripts.
type Capability struct {
	Name        string
	Usage       string
	Description string
}

// Capabilities returns the documented capability surface of every scope.
func Capabilities() []Capability {
	return []Capability{
		{Name: NameApp, Usage: "app", Description: "application handle"},
		{Name: NameStore, Usage: "vm-store", Description: "view-model registry"},
		{Name: NameUI, Usage: "ui", Description: "rendering handle"},
		{Name: NamePrint, Usage: "(print x ...)", Description: "append args joined by spaces to the output log"},
		{Name: "store-get", Usage: `(store-get vm-store "Calculator")`, Description: "view-model by name, or nil"},
		{Name: "store-names", Usage: "(store-names vm-store)", Description: "names of registered view-models"},
		{Name: "attr", Usage: `(attr vm "result")`, Description: "view-model attribute, or nil when absent"},
		{Name: "vm-call", Usage: `(vm-call vm "clear")`, Description: "run a view-model action"},
		{Name: "calc", Usage: `(calc "+" 1 2)`, Description: "compute with the calculator"},
		{Name: "app-invoke", Usage: `(app-invoke app "calc.clear")`, Description: "invoke a shortcut by id"},
		{Name: "app-shortcuts", Usage: "(app-shortcuts app)", Description: "registered shortcut ids"},
		{Name: "app-version", Usage: "(app-version app)", Description: "application version"},
		{Name: "ui-status", Usage: `(ui-status ui "text")`, Description: "set the status line"},
		{Name: "ui-style", Usage: `(ui-style ui "bold" "text")`, Description: "styled text"},
	}
}

// Line formats printed arguments the way print writes them.
func Line(args ...string) string {
	return strings.Join(args, " ") + "\n"
}
