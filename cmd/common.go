package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"fotofiler/internal/logging"
	"fotofiler/pkg/config"
	"fotofiler/pkg/metadata"
	"fotofiler/pkg/usecase"
)

func validateAndResolvePath(targetDir string) (string, error) {
	// Validate directory exists.
	info, err := os.Stat(targetDir)
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", targetDir)
	}

	// Convert to absolute path.
	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	return absPath, nil
}

// buildConfig layers the configuration: defaults, then the optional YAML
// file, then any flags the user set explicitly. The source positional
// argument always wins.
func buildConfig(cmd *cobra.Command, source string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if source != "" {
		resolved, err := validateAndResolvePath(source)
		if err != nil {
			return cfg, err
		}
		cfg.Source = resolved
	}

	flags := cmd.Flags()
	if flags.Changed("dest") {
		dest, _ := flags.GetString("dest")
		cfg.Destination = dest
	}
	if flags.Changed("pattern") {
		cfg.NamingPattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("hierarchy") {
		cfg.FolderHierarchy, _ = flags.GetString("hierarchy")
	}
	if flags.Changed("types") {
		types, _ := flags.GetString("types")
		cfg.FileTypes = splitTypes(types)
	}
	if flags.Changed("copy") {
		copyMode, _ := flags.GetBool("copy")
		cfg.Move = !copyMode
	}
	if flags.Changed("no-recursive") {
		noRecursive, _ := flags.GetBool("no-recursive")
		cfg.Recursive = !noRecursive
	}
	if dryRun {
		cfg.DryRun = true
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func splitTypes(raw string) []string {
	var types []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(part, ".")))
		if part != "" {
			types = append(types, part)
		}
	}
	return types
}

// buildLogConfig derives logging settings from the global flags alone, for
// commands that do not load the full configuration.
func buildLogConfig() config.Config {
	cfg := config.Default()
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
}

func newService(logger *slog.Logger) *usecase.Service {
	return usecase.New(logger, usecase.Options{
		UseExiftool: metadata.Available(),
	})
}

func printDryRunBanner() {
	fmt.Println("DRY RUN MODE - No files will be modified")
	fmt.Println(strings.Repeat("=", 50))
}

func printDryRunHint(command string) {
	fmt.Println()
	fmt.Printf("Run without --dry-run to apply: fotofiler %s ...\n", command)
}

// progressReporter prints in-place progress lines on a terminal and stays
// quiet otherwise. Safe to call with a nil receiver.
type progressReporter struct {
	out      *os.File
	tty      bool
	last     time.Time
	lastLine int
}

func newProgressReporter() *progressReporter {
	out := os.Stderr
	return &progressReporter{
		out: out,
		tty: isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()),
	}
}

func (p *progressReporter) Report(stage string, processed, total int) {
	if p == nil || !p.tty {
		return
	}
	// Throttle redraws, but always show the final count of a stage.
	if processed < total && time.Since(p.last) < 100*time.Millisecond {
		return
	}
	p.last = time.Now()

	line := fmt.Sprintf("%s: %d/%d", stage, processed, total)
	fmt.Fprintf(p.out, "\r%-*s", p.lastLine, line)
	p.lastLine = len(line)
}

func (p *progressReporter) Stop() {
	if p == nil || !p.tty || p.lastLine == 0 {
		return
	}
	fmt.Fprintf(p.out, "\r%*s\r", p.lastLine, "")
	p.lastLine = 0
}
