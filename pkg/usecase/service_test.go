package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fotofiler/internal/testutil"
	"fotofiler/pkg/config"
	"fotofiler/pkg/template"
	"fotofiler/pkg/usecase"
)

func newService() *usecase.Service {
	return usecase.New(nil, usecase.Options{UseExiftool: false})
}

func baseConfig(t *testing.T, source, destination string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Source = source
	cfg.Destination = destination
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunOrganize_DryRunPlansWithoutMutating(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	testutil.CreateFile(t, filepath.Join(source, "a.jpg"), "a")
	testutil.CreateFile(t, filepath.Join(source, "b.jpg"), "b")

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"

	execution, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{
		Config: cfg,
		DryRun: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, execution.FileCount)
	assert.Len(t, execution.Decisions, 2)
	assert.Empty(t, execution.Outcomes)
	assert.Empty(t, execution.JournalPath)

	// Sources untouched, destination still empty of placements.
	assert.True(t, testutil.FileExists(t, filepath.Join(source, "a.jpg")))
	assert.False(t, testutil.FileExists(t, filepath.Join(destination, "a.jpg")))
}

func TestRunOrganize_MovesIntoHierarchy(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	modTime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.Local)
	testutil.CreateFileWithModTime(t, filepath.Join(source, "IMG_001.jpg"), "x", modTime)

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"
	cfg.FolderHierarchy = "year_month"

	execution, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)

	require.Len(t, execution.Outcomes, 1)
	assert.Equal(t, 1, execution.AppliedCount())
	assert.Equal(t, 0, execution.FailedCount())

	moved := filepath.Join(destination, "2023", "05", "IMG_001.jpg")
	assert.True(t, testutil.FileExists(t, moved))
	assert.False(t, testutil.FileExists(t, filepath.Join(source, "IMG_001.jpg")))
	assert.True(t, testutil.FileExists(t, execution.JournalPath))
	assert.NotEmpty(t, execution.RunID)
}

func TestRunOrganize_CopyKeepsSources(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	testutil.CreateFile(t, filepath.Join(source, "a.jpg"), "a")

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"
	cfg.Move = false

	execution, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, 1, execution.AppliedCount())
	assert.True(t, testutil.FileExists(t, filepath.Join(source, "a.jpg")))
	assert.True(t, testutil.FileExists(t, filepath.Join(destination, "a.jpg")))
}

func TestRunOrganize_SameBatchNameCollisions(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	modTime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.Local)
	testutil.CreateFileWithModTime(t, filepath.Join(source, "one", "pic.jpg"), "1", modTime)
	testutil.CreateFileWithModTime(t, filepath.Join(source, "two", "pic.jpg"), "2", modTime)

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"

	execution, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, 2, execution.AppliedCount())
	assert.Equal(t, 1, execution.CollisionCount())
	assert.True(t, testutil.FileExists(t, filepath.Join(destination, "pic.jpg")))
	assert.True(t, testutil.FileExists(t, filepath.Join(destination, "pic_1.jpg")))
}

func TestRunOrganize_InvalidTemplateFailsBeforeScanning(t *testing.T) {
	source := t.TempDir()
	testutil.CreateFile(t, filepath.Join(source, "a.jpg"), "a")

	cfg := baseConfig(t, source, t.TempDir())
	cfg.NamingPattern = "{bad"

	_, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.Error(t, err)
	assert.ErrorIs(t, err, template.ErrInvalidTemplate)
	assert.True(t, testutil.FileExists(t, filepath.Join(source, "a.jpg")))
}

func TestRunOrganize_EmptySource(t *testing.T) {
	cfg := baseConfig(t, t.TempDir(), t.TempDir())

	execution, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)
	assert.Zero(t, execution.FileCount)
	assert.Empty(t, execution.Decisions)
}

func TestRunOrganize_ReportsProgress(t *testing.T) {
	source := t.TempDir()
	testutil.CreateFile(t, filepath.Join(source, "a.jpg"), "a")

	cfg := baseConfig(t, source, t.TempDir())
	cfg.NamingPattern = "{original_filename}"

	var stages []string
	_, err := newService().RunOrganize(context.Background(), usecase.OrganizeRequest{
		Config: cfg,
		OnProgress: func(stage string, _, _ int) {
			stages = append(stages, stage)
		},
	})
	require.NoError(t, err)
	assert.Contains(t, stages, "Planning")
	assert.Contains(t, stages, "Applying")
}

func TestRunUndo_RestoresMovedFiles(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	original := filepath.Join(source, "nested", "a.jpg")
	testutil.CreateFile(t, original, "a")

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"

	svc := newService()
	organized, err := svc.RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)
	require.Equal(t, 1, organized.AppliedCount())
	require.False(t, testutil.FileExists(t, original))

	undone, err := svc.RunUndo(context.Background(), usecase.UndoRequest{Destination: destination})
	require.NoError(t, err)

	assert.Equal(t, organized.RunID, undone.RunID)
	assert.Equal(t, 1, undone.RestoredCount)
	assert.Zero(t, undone.ErrorCount)
	assert.True(t, testutil.FileExists(t, original))
	assert.False(t, testutil.FileExists(t, filepath.Join(destination, "a.jpg")))

	// The journal is consumed; a second undo finds nothing.
	_, err = svc.RunUndo(context.Background(), usecase.UndoRequest{Destination: destination})
	assert.Error(t, err)
}

func TestRunUndo_RemovesCopies(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	testutil.CreateFile(t, filepath.Join(source, "a.jpg"), "a")

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"
	cfg.Move = false

	svc := newService()
	_, err := svc.RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)

	undone, err := svc.RunUndo(context.Background(), usecase.UndoRequest{Destination: destination})
	require.NoError(t, err)

	assert.Equal(t, 1, undone.RemovedCount)
	assert.True(t, testutil.FileExists(t, filepath.Join(source, "a.jpg")))
	assert.False(t, testutil.FileExists(t, filepath.Join(destination, "a.jpg")))
}

func TestRunUndo_DryRun(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	testutil.CreateFile(t, filepath.Join(source, "a.jpg"), "a")

	cfg := baseConfig(t, source, destination)
	cfg.NamingPattern = "{original_filename}"

	svc := newService()
	_, err := svc.RunOrganize(context.Background(), usecase.OrganizeRequest{Config: cfg})
	require.NoError(t, err)

	undone, err := svc.RunUndo(context.Background(), usecase.UndoRequest{
		Destination: destination,
		DryRun:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, undone.RestoredCount)

	// Nothing moved back, journal still replayable.
	assert.False(t, testutil.FileExists(t, filepath.Join(source, "a.jpg")))
	assert.True(t, testutil.FileExists(t, undone.JournalPath))
}

func TestRunUndo_MissingJournal(t *testing.T) {
	_, err := newService().RunUndo(context.Background(), usecase.UndoRequest{Destination: t.TempDir()})
	assert.Error(t, err)
}
