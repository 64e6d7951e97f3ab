package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fotofiler/pkg/journal"
	"fotofiler/pkg/placement"
	"fotofiler/pkg/progress"
)

// UndoRequest contains inputs for the undo workflow.
type UndoRequest struct {
	Destination string
	RunID       string // empty selects the most recent run
	DryRun      bool
	OnProgress  progress.Callback
}

// UndoOperation is the reversal of one journal entry.
type UndoOperation struct {
	Entry      journal.Entry
	Skipped    bool
	SkipReason string
	Err        error
}

// UndoExecution contains undo workflow outputs.
type UndoExecution struct {
	RunID         string
	JournalPath   string
	Operations    []UndoOperation
	RestoredCount int
	RemovedCount  int
	SkippedCount  int
	ErrorCount    int
}

// RunUndo reverses a completed organize run by replaying its journal in
// reverse: moved files are moved back to their original locations, copies
// are removed from the destination. A successfully undone journal is
// renamed with an ".undone" suffix so it cannot be replayed twice.
func (s *Service) RunUndo(ctx context.Context, req UndoRequest) (UndoExecution, error) {
	execution := UndoExecution{RunID: req.RunID}

	if execution.RunID == "" {
		runID, err := latestRunID(req.Destination)
		if err != nil {
			return execution, err
		}
		execution.RunID = runID
	}

	execution.JournalPath = journalPath(req.Destination, execution.RunID)
	entries, err := journal.Read(execution.JournalPath)
	if err != nil {
		return execution, err
	}

	unlock, err := s.lockDestination(req.Destination)
	if err != nil {
		return execution, err
	}
	defer unlock()

	total := len(entries)
	for i := total - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return execution, err
		}

		op := s.undoEntry(entries[i], req.DryRun)
		execution.Operations = append(execution.Operations, op)

		switch {
		case op.Err != nil:
			execution.ErrorCount++
		case op.Skipped:
			execution.SkippedCount++
		case op.Entry.Mode == placement.Copy.String():
			execution.RemovedCount++
		default:
			execution.RestoredCount++
		}

		progress.Emit(req.OnProgress, "Undoing", total-i, total)
	}

	if !req.DryRun && execution.ErrorCount == 0 {
		if err := os.Rename(execution.JournalPath, execution.JournalPath+".undone"); err != nil {
			return execution, fmt.Errorf("mark journal undone: %w", err)
		}
	}

	return execution, nil
}

func (s *Service) undoEntry(entry journal.Entry, dryRun bool) UndoOperation {
	op := UndoOperation{Entry: entry}

	mode, err := placement.ParseMode(entry.Mode)
	if err != nil {
		op.Err = err
		return op
	}

	if _, err := os.Stat(entry.Dest); errors.Is(err, fs.ErrNotExist) {
		op.Skipped = true
		op.SkipReason = "destination no longer exists"
		return op
	}

	if mode == placement.Copy {
		if !dryRun {
			if err := os.Remove(entry.Dest); err != nil {
				op.Err = fmt.Errorf("remove copy: %w", err)
			}
		}
		return op
	}

	if _, err := os.Stat(entry.Source); err == nil {
		op.Skipped = true
		op.SkipReason = "original path occupied"
		return op
	}

	if dryRun {
		return op
	}

	if err := os.MkdirAll(filepath.Dir(entry.Source), 0o755); err != nil {
		op.Err = fmt.Errorf("recreate source directory: %w", err)
		return op
	}
	if err := os.Rename(entry.Dest, entry.Source); err != nil {
		op.Err = fmt.Errorf("restore file: %w", err)
	}

	return op
}
