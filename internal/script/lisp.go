package script

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/steelseries/golisp"
)

// Object type tags for values handed to golisp.
const (
	objScope     = "jaskcalc/scope"
	objApp       = "jaskcalc/app"
	objStore     = "jaskcalc/vm-store"
	objUI        = "jaskcalc/ui"
	objViewModel = "jaskcalc/view-model"
)

// CalculatorName is the view-model the calc primitive computes with.
const CalculatorName = "Calculator"

var errNoScope = errors.New("no script scope")

type vmRef struct {
	vm Inspectable
}

func init() {
	golisp.MakePrimitiveFunction(NamePrint, "*", printImpl)
	golisp.MakePrimitiveFunction("store-get", "2", storeGetImpl)
	golisp.MakePrimitiveFunction("store-names", "1", storeNamesImpl)
	golisp.MakePrimitiveFunction("attr", "2", attrImpl)
	golisp.MakePrimitiveFunction("vm-call", "*", vmCallImpl)
	golisp.MakePrimitiveFunction("calc", "3", calcImpl)
	golisp.MakePrimitiveFunction("app-invoke", "2", appInvokeImpl)
	golisp.MakePrimitiveFunction("app-shortcuts", "1", appShortcutsImpl)
	golisp.MakePrimitiveFunction("app-version", "1", appVersionImpl)
	golisp.MakePrimitiveFunction("ui-status", "2", uiStatusImpl)
	golisp.MakePrimitiveFunction("ui-style", "3", uiStyleImpl)
}

func (s *Scope) object(tag string) *golisp.Data {
	return golisp.ObjectWithTypeAndValue(tag, unsafe.Pointer(s))
}

// scopeOf finds the scope a primitive is running in through the hidden
// binding in the calling environment.
func scopeOf(env *golisp.SymbolTableFrame) (*Scope, error) {
	d, err := golisp.Eval(golisp.SymbolWithName(scopeSymbol), env)
	if err != nil || !golisp.ObjectP(d) || golisp.ObjectType(d) != objScope {
		return nil, errNoScope
	}
	return (*Scope)(golisp.ObjectValue(d)), nil
}

// handleOf checks that d is the scope object tagged tag.
func handleOf(d *golisp.Data, tag, fn string) (*Scope, error) {
	if !golisp.ObjectP(d) || golisp.ObjectType(d) != tag {
		return nil, fmt.Errorf("%s: expected %s, got %s", fn, tag, golisp.String(d))
	}
	return (*Scope)(golisp.ObjectValue(d)), nil
}

func viewModelOf(d *golisp.Data, fn string) (Inspectable, error) {
	if !golisp.ObjectP(d) || golisp.ObjectType(d) != objViewModel {
		return nil, fmt.Errorf("%s: expected a view-model, got %s", fn, golisp.String(d))
	}
	return (*vmRef)(golisp.ObjectValue(d)).vm, nil
}

func argList(args *golisp.Data) []*golisp.Data {
	var out []*golisp.Data
	for c := args; !golisp.NilP(c); c = golisp.Cdr(c) {
		out = append(out, golisp.Car(c))
	}
	return out
}

func stringArg(d *golisp.Data, fn string) (string, error) {
	if !golisp.StringP(d) {
		return "", fmt.Errorf("%s: expected a string, got %s", fn, golisp.String(d))
	}
	return golisp.StringValue(d), nil
}

// display renders a value the way print shows it.
func display(d *golisp.Data) string {
	switch {
	case golisp.NilP(d):
		return "nil"
	case golisp.StringP(d):
		return golisp.StringValue(d)
	default:
		return golisp.String(d)
	}
}

// toLisp converts a Go value into golisp data.
func toLisp(v any) (*golisp.Data, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *golisp.Data:
		return x, nil
	case string:
		return golisp.StringWithValue(x), nil
	case bool:
		return golisp.BooleanWithValue(x), nil
	case int:
		return golisp.IntegerWithValue(int64(x)), nil
	case int64:
		return golisp.IntegerWithValue(x), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return golisp.IntegerWithValue(int64(x)), nil
		}
		return golisp.FloatWithValue(float32(x)), nil
	case *float64:
		if x == nil {
			return nil, nil
		}
		return toLisp(*x)
	case []string:
		var list *golisp.Data
		for i := len(x) - 1; i >= 0; i-- {
			list = golisp.Cons(golisp.StringWithValue(x[i]), list)
		}
		return list, nil
	case Inspectable:
		return golisp.ObjectWithTypeAndValue(objViewModel, unsafe.Pointer(&vmRef{vm: x})), nil
	default:
		return nil, fmt.Errorf("cannot hand %T to a script", v)
	}
}

// fromLisp converts golisp data into a Go value.
func fromLisp(d *golisp.Data) any {
	switch {
	case golisp.NilP(d):
		return nil
	case golisp.IntegerP(d):
		return float64(golisp.IntegerValue(d))
	case golisp.FloatP(d):
		return float64(golisp.FloatValue(d))
	case golisp.StringP(d):
		return golisp.StringValue(d)
	case golisp.BooleanP(d):
		return golisp.BooleanValue(d)
	default:
		return golisp.String(d)
	}
}

func printImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := scopeOf(env)
	if err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	items := argList(args)
	parts := make([]string, 0, len(items))
	for _, d := range items {
		parts = append(parts, display(d))
	}
	s.Print(parts...)
	return nil, nil
}

func storeGetImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := handleOf(golisp.Car(args), objStore, "store-get")
	if err != nil {
		return nil, err
	}
	name, err := stringArg(golisp.Car(golisp.Cdr(args)), "store-get")
	if err != nil {
		return nil, err
	}
	if s.Store == nil {
		return nil, nil
	}
	vm, ok := s.Store.Lookup(name)
	if !ok {
		return nil, nil
	}
	return toLisp(vm)
}

func storeNamesImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := handleOf(golisp.Car(args), objStore, "store-names")
	if err != nil {
		return nil, err
	}
	if s.Store == nil {
		return nil, nil
	}
	return toLisp(s.Store.Names())
}

func attrImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	vm, err := viewModelOf(golisp.Car(args), "attr")
	if err != nil {
		return nil, err
	}
	name, err := stringArg(golisp.Car(golisp.Cdr(args)), "attr")
	if err != nil {
		return nil, err
	}
	a := vm.Attr(name)
	switch a.Kind {
	case AttrPresent:
		d, err := toLisp(a.Value)
		if err != nil {
			return nil, fmt.Errorf("attr %s.%s: %w", vm.Name(), name, err)
		}
		return d, nil
	case AttrWrongType:
		return nil, fmt.Errorf("attr %s.%s: unsupported value", vm.Name(), name)
	default:
		return nil, nil
	}
}

func vmCallImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	items := argList(args)
	if len(items) < 2 {
		return nil, errors.New("vm-call: expected a view-model and an action")
	}
	vm, err := viewModelOf(items[0], "vm-call")
	if err != nil {
		return nil, err
	}
	action, err := stringArg(items[1], "vm-call")
	if err != nil {
		return nil, err
	}
	s, err := scopeOf(env)
	if err != nil {
		return nil, fmt.Errorf("vm-call: %w", err)
	}
	callArgs := make([]any, 0, len(items)-2)
	for _, d := range items[2:] {
		callArgs = append(callArgs, fromLisp(d))
	}
	result, err := vm.Call(s.context(), action, callArgs)
	if err != nil {
		return nil, fmt.Errorf("vm-call %s %s: %w", vm.Name(), action, err)
	}
	return toLisp(result)
}

func calcImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := scopeOf(env)
	if err != nil {
		return nil, fmt.Errorf("calc: %w", err)
	}
	if s.Store == nil {
		return nil, errors.New("calc: no view-model store")
	}
	vm, ok := s.Store.Lookup(CalculatorName)
	if !ok {
		return nil, fmt.Errorf("calc: %s view-model not found", CalculatorName)
	}
	items := argList(args)
	op, err := stringArg(items[0], "calc")
	if err != nil {
		return nil, err
	}
	result, err := vm.Call(s.context(), "compute", []any{op, fromLisp(items[1]), fromLisp(items[2])})
	if err != nil {
		return nil, fmt.Errorf("calc: %w", err)
	}
	return toLisp(result)
}

func appInvokeImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := handleOf(golisp.Car(args), objApp, "app-invoke")
	if err != nil {
		return nil, err
	}
	id, err := stringArg(golisp.Car(golisp.Cdr(args)), "app-invoke")
	if err != nil {
		return nil, err
	}
	if s.Host == nil {
		return nil, errors.New("app-invoke: no application")
	}
	if err := s.Host.InvokeShortcut(s.context(), id); err != nil {
		return nil, fmt.Errorf("app-invoke: %w", err)
	}
	return golisp.BooleanWithValue(true), nil
}

func appShortcutsImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := handleOf(golisp.Car(args), objApp, "app-shortcuts")
	if err != nil {
		return nil, err
	}
	if s.Host == nil {
		return nil, nil
	}
	return toLisp(s.Host.ShortcutIDs())
}

func appVersionImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := handleOf(golisp.Car(args), objApp, "app-version")
	if err != nil {
		return nil, err
	}
	if s.Host == nil {
		return nil, nil
	}
	return golisp.StringWithValue(s.Host.Version()), nil
}

func uiStatusImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	s, err := handleOf(golisp.Car(args), objUI, "ui-status")
	if err != nil {
		return nil, err
	}
	text := display(golisp.Car(golisp.Cdr(args)))
	if s.UI != nil {
		s.UI.SetStatus(text)
	}
	return nil, nil
}

func uiStyleImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	items := argList(args)
	s, err := handleOf(items[0], objUI, "ui-style")
	if err != nil {
		return nil, err
	}
	style, err := stringArg(items[1], "ui-style")
	if err != nil {
		return nil, err
	}
	text := display(items[2])
	if s.UI == nil {
		return golisp.StringWithValue(text), nil
	}
	styled, err := s.UI.Style(style, text)
	if err != nil {
		return nil, fmt.Errorf("ui-style: %w", err)
	}
	return golisp.StringWithValue(styled), nil
}
