package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Load tests, questions and results from an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		summary, err := a.services.Import().ImportWorkbook(ctx, file)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\ntests: %d\nquestions: %d\nresults: %d\n",
			summary.Status, summary.Tests, summary.Questions, summary.Results)
		for _, e := range summary.Errors {
			fmt.Fprintf(out, "%s row %d %s: %s %q\n", e.Sheet, e.Row, e.Column, e.Message, e.Value)
		}
		if summary.ErrorCount > 0 {
			return fmt.Errorf("%d rows rejected", summary.ErrorCount)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <test-id> <workbook.xlsx>",
	Short: "Write one test with its questions and results to an xlsx workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		testID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid test id %q: %w", args[0], err)
		}

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := a.services.Import().ExportWorkbook(ctx, uint(testID))
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return err
		}
		a.slog().Info("Workbook written", "test_id", testID, "path", args[1])
		return nil
	},
}
