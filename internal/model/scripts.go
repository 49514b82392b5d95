package model

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jask/jaskcalc/internal/script"
)

// ScriptExt is the extension of script files in the scripts directory.
const ScriptExt = ".lisp"

var ErrInvalidScriptName = errors.New("invalid script name")

//go:embed seed/*.lisp
var seedFS embed.FS

// ScriptsData is the state the scripts panels render from.
type ScriptsData struct {
	ScriptList    []string
	EditorContent string
	Code          string
	OutputLog     string
	ExecResult    string
	CurrentTab    string
}

// Tab is one script open in the editor.
type Tab struct {
	Name    string
	Content string
	Dirty   bool
	Output  string
}

// Scripts stores scripts as files in one directory and runs code through an
// evaluator.
type Scripts struct {
	dir  string
	eval *script.Evaluator
}

func NewScripts(dir string, eval *script.Evaluator) *Scripts {
	if eval == nil {
		eval = script.NewEvaluator()
	}
	return &Scripts{dir: dir, eval: eval}
}

// Dir returns the scripts directory.
func (s *Scripts) Dir() string { return s.dir }

// Seed creates the scripts directory and writes the bundled examples that
// are not already present. Existing files are never overwritten.
func (s *Scripts) Seed() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create scripts dir: %w", err)
	}
	entries, err := fs.ReadDir(seedFS, "seed")
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(path); err == nil {
			continue
		}
		data, err := seedFS.ReadFile("seed/" + e.Name())
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("seed %s: %w", e.Name(), err)
		}
	}
	return nil
}

// ListScripts returns the script file names, sorted.
func (s *Scripts) ListScripts() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ScriptExt {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// LoadScript reads a script by name.
func (s *Scripts) LoadScript(name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load script %s: %w", name, err)
	}
	return string(data), nil
}

// SaveScript writes text to the named script, replacing it atomically.
func (s *Scripts) SaveScript(name, text string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create scripts dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save script %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

// RunCode evaluates text inside scope. name labels error traces.
func (s *Scripts) RunCode(ctx context.Context, name, text string, scope *script.Scope) error {
	return s.eval.Run(ctx, name, text, scope)
}

// NormalizeScriptName validates a user supplied name and adds the script
// extension when it is missing.
func NormalizeScriptName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScriptName, name)
	}
	if filepath.Ext(name) != ScriptExt {
		name += ScriptExt
	}
	return name, nil
}

func (s *Scripts) path(name string) (string, error) {
	n, err := NormalizeScriptName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, n), nil
}
