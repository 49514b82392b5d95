package viewmodel

import (
	"fmt"
	"sort"

	"github.com/jask/jaskcalc/internal/script"
	"github.com/jask/jaskcalc/internal/shortcut"
)

// Store is the lookup-by-name registry of view-models shared with scripts.
// It is filled at startup and read from the UI thread only.
type Store struct {
	vms map[string]script.Inspectable
}

func NewStore(vms ...script.Inspectable) *Store {
	s := &Store{vms: make(map[string]script.Inspectable)}
	for _, vm := range vms {
		s.Register(vm)
	}
	return s
}

// Register adds vm under its name, replacing any previous entry.
func (s *Store) Register(vm script.Inspectable) {
	s.vms[vm.Name()] = vm
}

func (s *Store) Lookup(name string) (script.Inspectable, bool) {
	vm, ok := s.vms[name]
	return vm, ok
}

// Must returns the named view-model or an error suggesting a close name.
func (s *Store) Must(name string) (script.Inspectable, error) {
	if vm, ok := s.vms[name]; ok {
		return vm, nil
	}
	if hint := shortcut.Closest(name, s.Names()); hint != "" {
		return nil, fmt.Errorf("unknown view-model %q (did you mean %q?)", name, hint)
	}
	return nil, fmt.Errorf("unknown view-model %q", name)
}

func (s *Store) Names() []string {
	names := make([]string, 0, len(s.vms))
	for n := range s.vms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
