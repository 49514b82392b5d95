package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcalc/internal/model"
)

const historyTimeFormat = "2006-01-02 15:04:05"

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent script runs and calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			runs, err := rt.runs.Recent(rt.ctx, limit)
			if err != nil {
				return err
			}
			calcs, err := rt.calcs.Recent(rt.ctx, limit)
			if err != nil {
				return err
			}

			runTable := table.New().Border(lipgloss.NormalBorder()).
				Headers("ID", "WHEN", "SOURCE", "SCRIPT", "OK", "CODE")
			for _, r := range runs {
				code := ansi.Truncate(strings.ReplaceAll(r.Code, "\n", " "), 40, "…")
				runTable.Row(r.ID, r.CreatedAt.Local().Format(historyTimeFormat), r.Source, r.Script, fmt.Sprint(r.OK), code)
			}
			calcTable := table.New().Border(lipgloss.NormalBorder()).
				Headers("WHEN", "CALCULATION")
			for _, c := range calcs {
				calcTable.Row(c.CreatedAt.Local().Format(historyTimeFormat), fmt.Sprintf("%s %s %s = %s",
					model.FormatNumber(c.A), c.Operation, model.FormatNumber(c.B), model.FormatNumber(c.Result)))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Script runs")
			fmt.Fprintln(out, runTable.Render())
			fmt.Fprintln(out, "Calculations")
			_, err = fmt.Fprintln(out, calcTable.Render())
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to show per table, 0 for all")

	cmd.AddCommand(newHistoryShowCmd(), newHistoryPruneCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print the code and output of one script run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			run, err := rt.runs.ByID(rt.ctx, args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no run with id %s", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s  ok=%v\n", run.CreatedAt.Local().Format(historyTimeFormat), run.Source, run.Script, run.OK)
			fmt.Fprintf(out, "--- code\n%s\n--- output\n%s", strings.TrimRight(run.Code, "\n"), run.Output)
			return nil
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete script runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.runs.Prune(rt.ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d runs\n", n)
			return err
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the runs to delete")
	return cmd
}
