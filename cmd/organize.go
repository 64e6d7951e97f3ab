package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fotofiler/pkg/usecase"
)

func buildOrganizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [source]",
		Short: "Plan and apply placements for every file under a source directory",
		Long: `Scans the source directory, derives a destination path and filename for
each matching file from the configured templates, and moves (or copies)
the files into place. Name collisions at the destination are resolved
with numeric suffixes; existing files are never overwritten.

Every applied run writes a journal under <destination>/.fotofiler/ that
the undo command can replay.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args[0])
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			if cfg.DryRun {
				printDryRunBanner()
			}

			reporter := newProgressReporter()
			defer reporter.Stop()

			execution, err := newService(logger).RunOrganize(cmd.Context(), usecase.OrganizeRequest{
				Config:     cfg,
				DryRun:     cfg.DryRun,
				OnProgress: reporter.Report,
			})
			reporter.Stop()
			if err != nil {
				return err
			}

			if cfg.DryRun {
				renderDecisionTable(execution.Decisions, execution.Source, execution.Destination)
				printOrganizeSummary(execution, true)
				printDryRunHint("organize")
				return nil
			}

			printOrganizeSummary(execution, false)
			if execution.FailedCount() > 0 {
				return fmt.Errorf("%d of %d placements failed", execution.FailedCount(), execution.FileCount)
			}
			return nil
		},
	}

	cmd.Flags().String("dest", "", "Destination directory (defaults to the source)")
	cmd.Flags().String("pattern", "", "Naming template, e.g. \"{date}_{original_filename}\"")
	cmd.Flags().String("hierarchy", "", "Folder hierarchy preset or template, e.g. year_month or \"{year}/{camera}\"")
	cmd.Flags().String("types", "", "Comma-separated file extensions to include, e.g. jpg,png,nef")
	cmd.Flags().Bool("copy", false, "Copy files instead of moving them")
	cmd.Flags().Bool("no-recursive", false, "Do not descend into subdirectories")

	return cmd
}

func printOrganizeSummary(execution usecase.OrganizeExecution, dryRun bool) {
	fmt.Println()
	fmt.Printf("Source:       %s\n", execution.Source)
	fmt.Printf("Destination:  %s\n", execution.Destination)
	fmt.Printf("Mode:         %s\n", execution.Mode)
	fmt.Printf("Files found:  %d (scanned in %s)\n", execution.FileCount, execution.ScanDuration.Round(time.Millisecond))

	if collisions := execution.CollisionCount(); collisions > 0 {
		fmt.Printf("Collisions:   %d (resolved with numeric suffixes)\n", collisions)
	}
	if dryRun {
		return
	}

	fmt.Printf("Applied:      %d\n", execution.AppliedCount())
	if failed := execution.FailedCount(); failed > 0 {
		fmt.Printf("Failed:       %d\n", failed)
	}
	if fallbacks := execution.FallbackCount(); fallbacks > 0 {
		fmt.Printf("Fallbacks:    %d (cross-device moves done as copy+delete)\n", fallbacks)
	}
	if execution.JournalPath != "" {
		fmt.Printf("Journal:      %s\n", execution.JournalPath)
	}
}
