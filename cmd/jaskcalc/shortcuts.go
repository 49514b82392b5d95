package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/jaskcalc/internal/shortcut"
)

// shortcutExport is the document written by "shortcuts export".
type shortcutExport struct {
	Shortcuts []shortcut.Record `json:"shortcuts" yaml:"shortcuts" toml:"shortcuts"`
}

func newShortcutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcuts",
		Short: "Inspect the keyboard shortcuts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every shortcut with its keys and contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := registry(cmd)
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "KEYS", "CONTEXT", "CATEGORY", "THREADED", "DESCRIPTION")
			for _, s := range r.All() {
				t.Row(s.ID, strings.Join(s.Keys, " "), strings.Join(s.Context, ","), s.Category,
					fmt.Sprint(s.EnableThreading), s.Description)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Print the shortcuts as json, yaml or toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := registry(cmd)
			if err != nil {
				return err
			}
			doc := shortcutExport{}
			for _, s := range r.All() {
				doc.Shortcuts = append(doc.Shortcuts, s.Record())
			}
			data, err := encodeShortcuts(doc, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	export.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or toml")

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate the keymap against the built-in shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := registry(cmd)
			if err != nil {
				return err
			}
			if conflicts := r.Conflicts(); len(conflicts) > 0 {
				for _, c := range conflicts {
					fmt.Fprintln(cmd.ErrOrStderr(), c)
				}
				return fmt.Errorf("%d key conflicts", len(conflicts))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d shortcuts, no conflicts\n", len(r.IDs()))
			return err
		},
	}

	cmd.AddCommand(list, export, check)
	return cmd
}

func encodeShortcuts(doc shortcutExport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(doc)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json, yaml or toml)", format)
	}
}
