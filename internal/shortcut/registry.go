package shortcut

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/key"
)

// ErrUnknownShortcut is returned when an id is not registered.
var ErrUnknownShortcut = errors.New("unknown shortcut")

// Override replaces the keys of a shortcut or disables it.
type Override struct {
	Keys    []string
	Enabled *bool
}

// Conflict is a key claimed by two shortcuts in the same context.
type Conflict struct {
	Context string
	Key     string
	First   string
	Second  string
}

func (c Conflict) String() string {
	return fmt.Sprintf("context=%q: key %q used by both %q and %q", c.Context, c.Key, c.First, c.Second)
}

// Registry manages the application's shortcuts.
type Registry[A any] struct {
	shortcuts map[string]Shortcut[A]
	mutex     sync.RWMutex
}

// NewRegistry creates a registry holding the given shortcuts. It panics
// when one of them cannot be registered.
func NewRegistry[A any](shortcuts ...Shortcut[A]) *Registry[A] {
	r := &Registry[A]{shortcuts: make(map[string]Shortcut[A], len(shortcuts))}
	for _, s := range shortcuts {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds s, replacing any shortcut with the same id.
func (r *Registry[A]) Register(s Shortcut[A]) error {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		return fmt.Errorf("register shortcut: id is required")
	}
	s.Keys = NormalizeKeys(s.Keys)
	s.Context = append([]string(nil), s.Context...)
	if s.Binding.ID == "" {
		s.Binding.ID = s.ID
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.shortcuts[s.ID] = s
	return nil
}

// Unregister removes a shortcut.
func (r *Registry[A]) Unregister(id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.shortcuts, id)
}

// Get retrieves a shortcut by id.
func (r *Registry[A]) Get(id string) (Shortcut[A], bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok := r.shortcuts[id]
	return s, ok
}

// All returns every shortcut ordered by id.
func (r *Registry[A]) All() []Shortcut[A] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]Shortcut[A], 0, len(r.shortcuts))
	for _, s := range r.shortcuts {
		out = append(out, s)
	}
	Sort(out)
	return out
}

// IDs returns all registered ids, sorted.
func (r *Registry[A]) IDs() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := make([]string, 0, len(r.shortcuts))
	for id := range r.shortcuts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForContext returns the shortcuts active in the named context.
func (r *Registry[A]) ForContext(name string) []Shortcut[A] {
	all := r.All()
	out := make([]Shortcut[A], 0, len(all))
	for _, s := range all {
		if s.ActiveIn(name) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup resolves a pressed key in a context. Shortcuts bound to the context
// itself win over global ones.
func (r *Registry[A]) Lookup(keyName, contextName string) (Shortcut[A], bool) {
	keyName = NormalizeKey(keyName)
	if keyName == "" {
		return Shortcut[A]{}, false
	}

	var global *Shortcut[A]
	for _, s := range r.All() {
		if !slices.Contains(s.Keys, keyName) || !s.ActiveIn(contextName) {
			continue
		}
		if !s.isGlobal() {
			return s, true
		}
		if global == nil {
			found := s
			global = &found
		}
	}
	if global != nil {
		return *global, true
	}
	return Shortcut[A]{}, false
}

// Invoke dispatches the shortcut registered under id.
func (r *Registry[A]) Invoke(ctx context.Context, app A, id string) error {
	s, ok := r.Get(id)
	if !ok {
		if hint := r.Suggest(id); hint != "" {
			return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownShortcut, id, hint)
		}
		return fmt.Errorf("%w: %q", ErrUnknownShortcut, id)
	}
	return s.Invoke(ctx, app)
}

// Rebind replaces the binding of a registered shortcut.
func (r *Registry[A]) Rebind(id string, b Binding[A]) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ok := r.shortcuts[id]
	if !ok {
		return fmt.Errorf("rebind: %w: %q", ErrUnknownShortcut, id)
	}
	if b.ID == "" {
		b.ID = id
	}
	s.Binding = b
	r.shortcuts[id] = s
	return nil
}

// ApplyOverrides applies user key overrides. Nothing changes when any
// override names an unknown shortcut or introduces a key conflict.
func (r *Registry[A]) ApplyOverrides(overrides map[string]Override) error {
	if len(overrides) == 0 {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	next := make(map[string]Shortcut[A], len(r.shortcuts))
	for id, s := range r.shortcuts {
		next[id] = s
	}

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		o := overrides[id]
		s, ok := next[id]
		if !ok {
			return fmt.Errorf("shortcut override %q: %w", id, ErrUnknownShortcut)
		}
		if o.Enabled != nil && !*o.Enabled {
			delete(next, id)
			continue
		}
		if o.Keys != nil {
			keys := NormalizeKeys(o.Keys)
			if len(keys) == 0 {
				return fmt.Errorf("shortcut override %q: keys are required", id)
			}
			s.Keys = keys
			next[id] = s
		}
	}

	if conflicts := conflictsIn(next); len(conflicts) > 0 {
		return fmt.Errorf("shortcut override conflict in %s", conflicts[0])
	}
	r.shortcuts = next
	return nil
}

// Conflicts reports keys used by more than one shortcut in a context.
func (r *Registry[A]) Conflicts() []Conflict {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return conflictsIn(r.shortcuts)
}

// HelpBindings returns footer help entries for a context.
func (r *Registry[A]) HelpBindings(contextName string) []key.Binding {
	items := r.ForContext(contextName)
	out := make([]key.Binding, 0, len(items))
	for _, s := range items {
		if len(s.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(s.Keys...), key.WithHelp(s.Keys[0], s.Description)))
	}
	return out
}

// Suggest returns the registered id closest to id, or "" when nothing is
// reasonably close.
func (r *Registry[A]) Suggest(id string) string {
	return Closest(id, r.IDs())
}

// Closest returns the candidate with the smallest edit distance to name,
// provided the distance is small relative to the name's length.
func Closest(name string, candidates []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	limit := max(2, len(name)/3)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func conflictsIn[A any](shortcuts map[string]Shortcut[A]) []Conflict {
	ids := make([]string, 0, len(shortcuts))
	for id := range shortcuts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seen := make(map[string]map[string]string)
	var out []Conflict
	for _, id := range ids {
		s := shortcuts[id]
		contexts := s.Context
		if len(contexts) == 0 {
			contexts = []string{GlobalContext}
		}
		for _, c := range contexts {
			if seen[c] == nil {
				seen[c] = make(map[string]string)
			}
			for _, k := range s.Keys {
				if prev, ok := seen[c][k]; ok && prev != id {
					out = append(out, Conflict{Context: c, Key: k, First: prev, Second: id})
					continue
				}
				seen[c][k] = id
			}
		}
	}
	return out
}
