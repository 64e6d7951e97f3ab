// Package placement plans canonical destinations for files and applies
// those decisions with a minimal move-or-copy primitive.
package placement

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fotofiler/internal/logging"
	"fotofiler/pkg/attributes"
	"fotofiler/pkg/collision"
	"fotofiler/pkg/hierarchy"
	"fotofiler/pkg/naming"
	"fotofiler/pkg/template"
)

var (
	// ErrSourceMissing indicates the source file disappeared between
	// planning and apply.
	ErrSourceMissing = errors.New("source file missing")
	// ErrDestinationUnwritable indicates directory creation or the
	// move/copy itself failed; the underlying OS error is wrapped.
	ErrDestinationUnwritable = errors.New("destination unwritable")
)

// Mode selects how a placement is applied.
type Mode int

const (
	// Move relocates the source into the destination.
	Move Mode = iota
	// Copy duplicates the source, leaving the original in place.
	Copy
)

// String returns the mode's wire name.
func (m Mode) String() string {
	if m == Copy {
		return "copy"
	}
	return "move"
}

// ParseMode converts a wire name back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "move":
		return Move, nil
	case "copy":
		return Copy, nil
	default:
		return Move, fmt.Errorf("unknown placement mode %q", s)
	}
}

// Decision is the planned placement for one file. It is created per file,
// consumed once by the executor, and never mutated after creation.
type Decision struct {
	SourcePath      string
	DestinationPath string
	WouldCollide    bool
}

// Planner derives placement decisions from a naming template and a folder
// hierarchy. Planning touches the filesystem only for collision probes;
// the in-run claim set keeps concurrently planned files from receiving the
// same destination.
type Planner struct {
	nameTemplate *template.Template
	hierarchy    *hierarchy.Spec
	baseDir      string
	collisions   *collision.Resolver
	logger       *slog.Logger
}

// NewPlanner validates both templates up front. A malformed naming or
// hierarchy template aborts the whole batch here, before any file is
// touched.
func NewPlanner(baseDir, namePattern, hierarchySpec string, logger *slog.Logger) (*Planner, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	tmpl, err := template.Parse(namePattern)
	if err != nil {
		return nil, fmt.Errorf("naming pattern: %w", err)
	}

	spec, err := hierarchy.ParseSpec(hierarchySpec)
	if err != nil {
		return nil, err
	}

	return &Planner{
		nameTemplate: tmpl,
		hierarchy:    spec,
		baseDir:      baseDir,
		collisions:   collision.NewResolver(),
		logger:       logger,
	}, nil
}

// Plan composes the candidate filename and directory for one file and
// disambiguates collisions. WouldCollide reports whether the candidate
// path was already taken at decision time.
func (p *Planner) Plan(sourcePath string, attrs attributes.Map) Decision {
	name := naming.ResolveName(p.nameTemplate, attrs, p.logger)
	dir := p.hierarchy.Resolve(p.baseDir, attrs, p.logger)

	candidate := filepath.Join(dir, name)
	final := p.collisions.Resolve(candidate)

	return Decision{
		SourcePath:      sourcePath,
		DestinationPath: final,
		WouldCollide:    final != candidate,
	}
}

// PlanAll plans one decision per attribute map, in order. The source path
// is taken from each map's "file_path" attribute.
func (p *Planner) PlanAll(files []attributes.Map) []Decision {
	decisions := make([]Decision, 0, len(files))
	for _, attrs := range files {
		source, _ := attrs.Value(attributes.KeyFilePath)
		decisions = append(decisions, p.Plan(source, attrs))
	}
	return decisions
}

// Outcome is the result of applying one decision.
type Outcome struct {
	Decision Decision
	Mode     Mode
	// NonAtomicFallback is set when a cross-device move degraded to
	// copy+delete. The operation succeeded, but a crash mid-way could
	// have left both copies present.
	NonAtomicFallback bool
	Err               error
}

// Executor applies placement decisions to the filesystem.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Executor{logger: logger}
}

// Apply performs the move or copy for one decision, creating missing
// destination directories first.
func (e *Executor) Apply(decision Decision, mode Mode) Outcome {
	outcome := Outcome{Decision: decision, Mode: mode}

	if _, err := os.Stat(decision.SourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.Err = fmt.Errorf("%w: %s", ErrSourceMissing, decision.SourcePath)
		} else {
			outcome.Err = err
		}
		return outcome
	}

	destDir := filepath.Dir(decision.DestinationPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		outcome.Err = fmt.Errorf("%w: create %s: %w", ErrDestinationUnwritable, destDir, err)
		return outcome
	}

	switch mode {
	case Copy:
		if err := copyFile(decision.SourcePath, decision.DestinationPath); err != nil {
			outcome.Err = fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
		}
	case Move:
		fellBack, err := moveFile(decision.SourcePath, decision.DestinationPath)
		outcome.NonAtomicFallback = fellBack
		if err != nil {
			outcome.Err = fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
			return outcome
		}
		if fellBack {
			e.logger.Warn("cross-device move fell back to copy+delete",
				slog.String("source", decision.SourcePath),
				slog.String("destination", decision.DestinationPath))
		}
	}

	return outcome
}

// ApplyAll applies decisions independently: one file's failure never
// aborts the rest, and there is no rollback of already-applied files.
// Cancelling ctx stops before the next file's apply; remaining decisions
// are reported with the context error so the outcome list stays aligned
// with the input.
func (e *Executor) ApplyAll(ctx context.Context, decisions []Decision, mode Mode) []Outcome {
	outcomes := make([]Outcome, 0, len(decisions))
	for _, decision := range decisions {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Decision: decision, Mode: mode, Err: err})
			continue
		}
		outcomes = append(outcomes, e.Apply(decision, mode))
	}
	return outcomes
}
