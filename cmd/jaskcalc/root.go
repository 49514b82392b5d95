package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/config"
	"github.com/jask/jaskcalc/internal/prefs"
	"github.com/jask/jaskcalc/internal/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jaskcalc",
		Short:         "A keyboard-driven calculator with a Lisp scripting console",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}
	root.PersistentFlags().StringP("config", "c", "", "config file (default is ~/.config/jaskcalc/config.toml)")

	root.AddCommand(
		newRunCmd(),
		newShortcutsCmd(),
		newHistoryCmd(),
		newKeymapCmd(),
		newConfigCmd(),
		newCapabilitiesCmd(),
	)
	return root
}

func runTUI(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	a, err := rt.newApp()
	if err != nil {
		return err
	}

	sessionPath := config.SessionPath()
	if rt.cfg.UI.RestoreSession {
		sess, err := prefs.LoadSession(sessionPath)
		if err != nil {
			rt.log.Warn("load session failed", zap.Error(err))
		}
		a.Scripts.RestoreSession(rt.ctx, sess.OpenTabs, sess.CurrentTab)
	}

	rt.log.Info("starting ui", zap.String("version", Version), zap.String("scripts", rt.scripts.Dir()))
	p := tea.NewProgram(tui.New(rt.ctx, a), tea.WithAltScreen(), tea.WithContext(rt.ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	if rt.cfg.UI.RestoreSession {
		sess := prefs.Session{OpenTabs: a.Scripts.TabNames(), CurrentTab: a.Scripts.Data().CurrentTab}
		if err := prefs.SaveSession(sessionPath, sess); err != nil {
			rt.log.Warn("save session failed", zap.Error(err))
		}
	}
	return nil
}
