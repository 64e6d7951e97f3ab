package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
	verbose    bool
	logFormat  string
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fotofiler",
		Short: "Organize photo files into a canonical folder layout with template-based names",
		Long: `fotofiler derives a canonical location and filename for each photo from
its metadata and user-supplied templates.

Commands:
  organize   Plans and applies placements (move or copy) for a source directory
  preview    Shows the placement decisions without touching any file
  undo       Reverses the most recent organize run using its journal

Naming templates use {placeholder} tokens, e.g. "{date}_{camera}_{original_filename}".
Folder hierarchies are slash-delimited templates or one of the presets:
flat, date, year_month, year, camera, camera_date, year_camera.

Examples:
  # Preview what organize would do (recommended first step)
  fotofiler preview --dest /photos/library /photos/inbox

  # Move files into a year/month tree with date-prefixed names
  fotofiler organize --dest /photos/library --hierarchy year_month \
      --pattern "{date}_{original_filename}" /photos/inbox

  # Copy instead of moving
  fotofiler organize --copy --dest /photos/library /photos/inbox

  # Reverse the last run
  fotofiler undo /photos/library

Safety:
  Collisions at the destination are resolved with _1, _2, ... suffixes;
  existing files are never overwritten. Every applied run writes a journal
  under <destination>/.fotofiler/ that undo can replay.`,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")

	return cmd
}
