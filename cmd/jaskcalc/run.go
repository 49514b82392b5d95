package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Run a script without the UI",
		Long: `Run a script file, a stored script by name, or an expression given with
--eval. Printed output goes to stdout. A failing script prints its trace and
exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (code == "") == (len(args) == 0) {
				return errors.New("give either a script FILE or --eval CODE")
			}
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			name, text := "<eval>", code
			if len(args) == 1 {
				if name, text, err = readScript(rt, args[0]); err != nil {
					return err
				}
			}

			a, err := rt.newApp()
			if err != nil {
				return err
			}
			out, runErr := a.Scripts.RunHeadless(rt.ctx, name, text)
			if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if runErr != nil {
				return fmt.Errorf("%s failed", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&code, "eval", "e", "", "evaluate CODE instead of a file")
	return cmd
}

// readScript resolves arg as a file path first, then as a stored script.
func readScript(rt *runtime, arg string) (string, string, error) {
	if data, err := os.ReadFile(arg); err == nil {
		return filepath.Base(arg), string(data), nil
	} else if !os.IsNotExist(err) {
		return "", "", err
	}
	text, err := rt.scripts.LoadScript(arg)
	if err != nil {
		return "", "", err
	}
	return arg, text, nil
}
