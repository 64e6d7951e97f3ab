package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fotofiler/pkg/usecase"
)

func buildPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [source]",
		Short: "Show the placement each file would get, without modifying anything",
		Long: `Runs the same scan and planning as organize and prints the resulting
source-to-destination table. No file is moved, copied, or created.`,
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

			reporter := newProgressReporter()
			defer reporter.Stop()

			execution, err := newService(logger).RunOrganize(cmd.Context(), usecase.OrganizeRequest{
				Config:     cfg,
				DryRun:     true,
				OnProgress: reporter.Report,
			})
			reporter.Stop()
			if err != nil {
				return err
			}

			if len(execution.Decisions) == 0 {
				fmt.Printf("No matching files under %s\n", execution.Source)
				return nil
			}

			renderDecisionTable(execution.Decisions, execution.Source, execution.Destination)
			printOrganizeSummary(execution, true)
			return nil
		},
	}

	cmd.Flags().String("dest", "", "Destination directory (defaults to the source)")
	cmd.Flags().String("pattern", "", "Naming template, e.g. \"{date}_{original_filename}\"")
	cmd.Flags().String("hierarchy", "", "Folder hierarchy preset or template, e.g. year_month or \"{year}/{camera}\"")
	cmd.Flags().String("types", "", "Comma-separated file extensions to include, e.g. jpg,png,nef")
	cmd.Flags().Bool("copy", false, "Plan as copies instead of moves")
	cmd.Flags().Bool("no-recursive", false, "Do not descend into subdirectories")

	return cmd
}
