// Package usecase provides application-level orchestration for CLI workflows.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"fotofiler/internal/logging"
	"fotofiler/pkg/attributes"
	"fotofiler/pkg/config"
	"fotofiler/pkg/journal"
	"fotofiler/pkg/metadata"
	"fotofiler/pkg/placement"
	"fotofiler/pkg/progress"
	"fotofiler/pkg/scanner"
)

// MetaDirName is the name of the bookkeeping directory created inside the
// destination. It holds the batch lock and per-run journals.
const MetaDirName = ".fotofiler"

var defaultSkipFiles = []string{".DS_Store", "Thumbs.db"}

// Options configures a Service.
type Options struct {
	// UseExiftool enables EXIF enrichment via the external exiftool
	// binary. Callers typically pass metadata.Available().
	UseExiftool bool
}

// Service orchestrates command workflows without cobra dependencies.
type Service struct {
	logger      *slog.Logger
	useExiftool bool
}

// New creates a use-case service.
func New(logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{logger: logger, useExiftool: opts.UseExiftool}
}

// OrganizeRequest contains inputs for the organize workflow.
type OrganizeRequest struct {
	Config     config.Config
	DryRun     bool
	OnProgress progress.Callback
}

// OrganizeExecution contains organize workflow outputs.
type OrganizeExecution struct {
	RunID        string
	Source       string
	Destination  string
	Mode         placement.Mode
	FileCount    int
	ScanDuration time.Duration
	Decisions    []placement.Decision
	Outcomes     []placement.Outcome // empty in dry-run mode
	JournalPath  string              // empty in dry-run mode
}

// AppliedCount returns the number of successfully applied placements.
func (e OrganizeExecution) AppliedCount() int {
	n := 0
	for _, o := range e.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// FailedCount returns the number of placements that failed to apply.
func (e OrganizeExecution) FailedCount() int {
	return len(e.Outcomes) - e.AppliedCount()
}

// FallbackCount returns how many moves degraded to copy+delete.
func (e OrganizeExecution) FallbackCount() int {
	n := 0
	for _, o := range e.Outcomes {
		if o.NonAtomicFallback && o.Err == nil {
			n++
		}
	}
	return n
}

// CollisionCount returns how many decisions needed a collision suffix.
func (e OrganizeExecution) CollisionCount() int {
	n := 0
	for _, d := range e.Decisions {
		if d.WouldCollide {
			n++
		}
	}
	return n
}

// RunOrganize scans the source, plans a placement per file, and applies
// the decisions unless DryRun is set. Per-file apply failures are isolated
// and reported in the outcome list; only batch-level problems (bad
// templates, unreadable source, a held destination lock) return an error.
func (s *Service) RunOrganize(ctx context.Context, req OrganizeRequest) (OrganizeExecution, error) {
	cfg := req.Config

	mode := placement.Move
	if !cfg.Move {
		mode = placement.Copy
	}

	execution := OrganizeExecution{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		Mode:        mode,
	}

	// Validate templates before touching any file.
	planner, err := placement.NewPlanner(cfg.Destination, cfg.NamingPattern, cfg.FolderHierarchy, s.logger)
	if err != nil {
		return execution, err
	}

	sc := scanner.New(scanner.Options{
		Extensions: cfg.FileTypes,
		Recursive:  cfg.Recursive,
		SkipFiles:  defaultSkipFiles,
		// Never rescan our own bookkeeping when source and destination
		// overlap.
		SkipDirs: []string{MetaDirName},
	})

	start := time.Now()
	files, err := sc.Scan(cfg.Source)
	execution.ScanDuration = time.Since(start)
	if err != nil {
		return execution, fmt.Errorf("scan source: %w", err)
	}
	execution.FileCount = len(files)
	if len(files) == 0 {
		return execution, nil
	}

	files = s.enrich(ctx, files, req.OnProgress)

	// Planning and applying are serialized against other processes
	// sharing this destination. Dry runs stay read-only and skip the
	// lock so they never create bookkeeping directories.
	if !req.DryRun {
		unlock, err := s.lockDestination(cfg.Destination)
		if err != nil {
			return execution, err
		}
		defer unlock()
	}

	for i, attrs := range files {
		source, _ := attrs.Value(attributes.KeyFilePath)
		execution.Decisions = append(execution.Decisions, planner.Plan(source, attrs))
		progress.Emit(req.OnProgress, "Planning", i+1, len(files))
	}

	if req.DryRun {
		return execution, nil
	}

	execution.RunID = newRunID("organize")
	journalPath := journalPath(cfg.Destination, execution.RunID)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return execution, fmt.Errorf("create journal directory: %w", err)
	}

	writer, err := journal.NewWriter(journalPath)
	if err != nil {
		return execution, err
	}
	defer writer.Close()
	execution.JournalPath = journalPath

	executor := placement.NewExecutor(s.logger)
	for i, decision := range execution.Decisions {
		var outcome placement.Outcome
		if err := ctx.Err(); err != nil {
			outcome = placement.Outcome{Decision: decision, Mode: mode, Err: err}
		} else {
			outcome = executor.Apply(decision, mode)
		}
		execution.Outcomes = append(execution.Outcomes, outcome)

		if outcome.Err == nil {
			if err := writer.Log(journal.Entry{
				Mode:     mode.String(),
				Source:   decision.SourcePath,
				Dest:     decision.DestinationPath,
				Fallback: outcome.NonAtomicFallback,
			}); err != nil {
				s.logger.Warn("journal write failed", slog.Any("error", err))
			}
		}

		progress.Emit(req.OnProgress, "Applying", i+1, len(execution.Decisions))
	}

	return execution, nil
}

func (s *Service) enrich(ctx context.Context, files []attributes.Map, onProgress progress.Callback) []attributes.Map {
	if !s.useExiftool {
		return files
	}
	if !metadata.Available() {
		s.logger.Warn("exiftool not found on PATH; using filesystem attributes only")
		return files
	}
	return metadata.NewExtractor(s.logger).ExtractAll(ctx, files, onProgress)
}

func (s *Service) lockDestination(destination string) (func(), error) {
	metaDir := filepath.Join(destination, MetaDirName)
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}

	lock := flock.New(filepath.Join(metaDir, "lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire destination lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("destination %s is locked by another run", destination)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("release destination lock failed", slog.Any("error", err))
		}
	}, nil
}

func journalDir(destination string) string {
	return filepath.Join(destination, MetaDirName, "journal")
}

func journalPath(destination, runID string) string {
	return filepath.Join(journalDir(destination), runID+".jsonl")
}

// newRunID generates a sortable run identifier:
// <command>-<YYYYMMDDTHHmmss>-<uuid fragment>.
func newRunID(command string) string {
	return fmt.Sprintf("%s-%s-%s",
		command,
		time.Now().UTC().Format("20060102T150405"),
		strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// latestRunID returns the most recent journal's run ID under destination,
// relying on the timestamp-prefixed naming for ordering.
func latestRunID(destination string) (string, error) {
	entries, err := os.ReadDir(journalDir(destination))
	if err != nil {
		return "", fmt.Errorf("read journal directory: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		runs = append(runs, strings.TrimSuffix(name, ".jsonl"))
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no journals found under %s", journalDir(destination))
	}

	sort.Strings(runs)
	return runs[len(runs)-1], nil
}
