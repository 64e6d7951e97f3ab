package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fotofiler/pkg/usecase"
)

func buildUndoCommand() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "undo [destination]",
		Short: "Reverse an organize run using its journal",
		Long: `Replays an organize journal in reverse: moved files go back to their
original paths and copied files are removed from the destination. With
no --run flag the most recent journal under <destination>/.fotofiler/
is selected. A fully undone journal is marked so it cannot be replayed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination, err := validateAndResolvePath(args[0])
			if err != nil {
				return err
			}

			logger, err := newLogger(buildLogConfig())
			if err != nil {
				return err
			}

			if dryRun {
				printDryRunBanner()
			}

			reporter := newProgressReporter()
			defer reporter.Stop()

			execution, err := newService(logger).RunUndo(cmd.Context(), usecase.UndoRequest{
				Destination: destination,
				RunID:       runID,
				DryRun:      dryRun,
				OnProgress:  reporter.Report,
			})
			reporter.Stop()
			if err != nil {
				return err
			}

			printUndoSummary(execution)

			if dryRun {
				printDryRunHint("undo")
				return nil
			}
			if execution.ErrorCount > 0 {
				return fmt.Errorf("%d journal entries could not be reversed", execution.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID to undo (defaults to the most recent)")

	return cmd
}

func printUndoSummary(execution usecase.UndoExecution) {
	fmt.Println()
	fmt.Printf("Run:       %s\n", execution.RunID)
	fmt.Printf("Journal:   %s\n", execution.JournalPath)
	fmt.Printf("Restored:  %d\n", execution.RestoredCount)
	fmt.Printf("Removed:   %d\n", execution.RemovedCount)
	if execution.SkippedCount > 0 {
		fmt.Printf("Skipped:   %d\n", execution.SkippedCount)
		for _, op := range execution.Operations {
			if op.Skipped {
				fmt.Printf("  %s: %s\n", op.Entry.Dest, op.SkipReason)
			}
		}
	}
	if execution.ErrorCount > 0 {
		fmt.Printf("Errors:    %d\n", execution.ErrorCount)
		for _, op := range execution.Operations {
			if op.Err != nil {
				fmt.Printf("  %s: %v\n", op.Entry.Dest, op.Err)
			}
		}
	}
}
