package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/jaskcalc/internal/app"
	"github.com/jask/jaskcalc/internal/config"
	"github.com/jask/jaskcalc/internal/shortcut"
)

func newKeymapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keymap",
		Short: "Manage the keymap file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default keymap so it can be edited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			r := shortcut.NewRegistry(app.DefaultShortcuts()...)
			records := make([]shortcut.Record, 0, len(r.IDs()))
			for _, s := range r.All() {
				records = append(records, s.Record())
			}
			if err := config.WriteKeymap(cfg.UI.KeymapPath, records, force); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.UI.KeymapPath)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing keymap")

	cmd.AddCommand(initCmd)
	return cmd
}
