package shortcut

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/logger"
)

// ErrMissingTarget is returned when a shortcut is invoked without a target.
var ErrMissingTarget = errors.New("missing target function")

// GlobalContext makes a shortcut active in every context.
const GlobalContext = "*"

// Target is the function a shortcut dispatches to. The app handle is always
// the first argument; args holds the pre-processed value when there is one.
type Target[A any] func(app A, args ...any) (any, error)

// PreProcess computes the target's argument from application state.
type PreProcess[A any] func(app A) (any, error)

// PostProcess consumes the target's result for side effects.
type PostProcess[A any] func(app A, result any)

// Binding is the (target, pre-process, post-process) triple of a shortcut.
type Binding[A any] struct {
	ID          string
	Target      Target[A]
	PreProcess  PreProcess[A]
	PostProcess PostProcess[A]
}

// Shortcut is a named, keyed trigger bound to application behavior.
type Shortcut[A any] struct {
	ID              string
	Keys            []string
	Category        string
	Context         []string
	Description     string
	EnableThreading bool
	Binding         Binding[A]
}

// Record is the serializable part of a Shortcut. Bindings hold functions and
// are never part of it.
type Record struct {
	ID              string   `json:"id" yaml:"id" toml:"id"`
	Keys            []string `json:"keys" yaml:"keys" toml:"keys"`
	Category        string   `json:"category" yaml:"category" toml:"category"`
	Context         []string `json:"context" yaml:"context" toml:"context"`
	Description     string   `json:"description" yaml:"description" toml:"description"`
	EnableThreading bool     `json:"enable_threading" yaml:"enable_threading" toml:"enable_threading"`
}

// Invoke dispatches the shortcut against app.
func (s Shortcut[A]) Invoke(ctx context.Context, app A) error {
	logger.FromContext(ctx).Info(fmt.Sprintf("Executing shortcut '%s'", s.ID), zap.String("shortcut", s.ID))

	b := s.Binding
	if b.Target == nil {
		return fmt.Errorf("shortcut %q: %w", s.ID, ErrMissingTarget)
	}

	var args []any
	if b.PreProcess != nil {
		v, err := b.PreProcess(app)
		if err != nil {
			return fmt.Errorf("shortcut %q: pre-process: %w", s.ID, err)
		}
		args = []any{v}
	}

	result, err := b.Target(app, args...)
	if err != nil {
		return fmt.Errorf("shortcut %q: %w", s.ID, err)
	}

	if b.PostProcess != nil {
		b.PostProcess(app, result)
	}
	return nil
}

// Record returns the serializable fields of s.
func (s Shortcut[A]) Record() Record {
	return Record{
		ID:              s.ID,
		Keys:            append([]string(nil), s.Keys...),
		Category:        s.Category,
		Context:         append([]string(nil), s.Context...),
		Description:     s.Description,
		EnableThreading: s.EnableThreading,
	}
}

// ToMap returns the six serializable fields of s keyed by their wire names.
func (s Shortcut[A]) ToMap() map[string]any {
	r := s.Record()
	return map[string]any{
		"id":               r.ID,
		"keys":             r.Keys,
		"category":         r.Category,
		"context":          r.Context,
		"description":      r.Description,
		"enable_threading": r.EnableThreading,
	}
}

// ActiveIn reports whether s is active in the given context.
func (s Shortcut[A]) ActiveIn(name string) bool {
	if len(s.Context) == 0 {
		return true
	}
	for _, c := range s.Context {
		if c == GlobalContext || c == name {
			return true
		}
	}
	return false
}

func (s Shortcut[A]) isGlobal() bool {
	if len(s.Context) == 0 {
		return true
	}
	for _, c := range s.Context {
		if c == GlobalContext {
			return true
		}
	}
	return false
}
