package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jask/jaskcalc/internal/shortcut"
)

// keymapFile is the top-level structure of keymap.toml.
type keymapFile struct {
	Shortcut map[string]KeymapEntry `toml:"shortcut"`
}

// KeymapEntry overrides one shortcut. Omitted keys keep the defaults;
// enabled = false removes the shortcut.
type KeymapEntry struct {
	Keys    []string `toml:"keys,omitempty"`
	Enabled *bool    `toml:"enabled,omitempty"`
}

const keymapHeader = `# jaskcalc keymap
# Each [shortcut."<id>"] table replaces the keys of a built-in shortcut.
# Set enabled = false to remove a shortcut. Run "jaskcalc shortcuts list"
# to see every id.

`

// LoadKeymap reads overrides from path. A missing file means no overrides.
func LoadKeymap(path string) (map[string]shortcut.Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	return ParseKeymap(data)
}

// ParseKeymap parses keymap TOML into registry overrides.
func ParseKeymap(data []byte) (map[string]shortcut.Override, error) {
	var f keymapFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse keymap.toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse keymap.toml: unknown field %q", undecoded[0].String())
	}
	out := make(map[string]shortcut.Override, len(f.Shortcut))
	for id, e := range f.Shortcut {
		if e.Keys != nil && len(shortcut.NormalizeKeys(e.Keys)) == 0 {
			return nil, fmt.Errorf("shortcut %q: keys must not be empty", id)
		}
		out[id] = shortcut.Override{Keys: e.Keys, Enabled: e.Enabled}
	}
	return out, nil
}

// EncodeKeymap renders records as a complete keymap file.
func EncodeKeymap(records []shortcut.Record) ([]byte, error) {
	f := keymapFile{Shortcut: make(map[string]KeymapEntry, len(records))}
	enabled := true
	for _, r := range records {
		f.Shortcut[r.ID] = KeymapEntry{Keys: r.Keys, Enabled: &enabled}
	}
	var buf bytes.Buffer
	buf.WriteString(keymapHeader)
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode keymap.toml: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteKeymap writes records to path. An existing file is only replaced
// when force is set.
func WriteKeymap(path string, records []shortcut.Record, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	data, err := EncodeKeymap(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write keymap.toml: %w", err)
	}
	return nil
}
