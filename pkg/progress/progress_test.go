package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fotofiler/pkg/progress"
)

func TestEmit_NilCallback(_ *testing.T) {
	// Should not panic.
	progress.Emit(nil, "Planning", 1, 10)
}

func TestEmit_PassesThrough(t *testing.T) {
	var gotStage string
	var gotProcessed, gotTotal int

	progress.Emit(func(stage string, processed, total int) {
		gotStage = stage
		gotProcessed = processed
		gotTotal = total
	}, "Applying", 3, 10)

	assert.Equal(t, "Applying", gotStage)
	assert.Equal(t, 3, gotProcessed)
	assert.Equal(t, 10, gotTotal)
}

func TestEmit_ClampsProcessed(t *testing.T) {
	var got []int

	cb := func(_ string, processed, _ int) {
		got = append(got, processed)
	}

	progress.Emit(cb, "s", -5, 10)
	progress.Emit(cb, "s", 15, 10)

	assert.Equal(t, []int{0, 10}, got)
}

func TestEmit_NonPositiveTotal(t *testing.T) {
	called := false
	progress.Emit(func(string, int, int) { called = true }, "s", 1, 0)
	assert.False(t, called)
}
