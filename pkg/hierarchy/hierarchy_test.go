package hierarchy_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fotofiler/pkg/attributes"
	"fotofiler/pkg/hierarchy"
	"fotofiler/pkg/template"
)

func resolve(t *testing.T, baseDir, spec string, attrs attributes.Map) string {
	t.Helper()
	dir, err := hierarchy.ResolveDirectory(baseDir, spec, attrs, nil)
	require.NoError(t, err)
	return dir
}

func TestResolveDirectory_FlatReturnsBase(t *testing.T) {
	attrs := attributes.Map{"year": "2023", "camera": "Canon"}

	assert.Equal(t, "/photos", resolve(t, "/photos", "flat", attrs))
	assert.Equal(t, "/photos", resolve(t, "/photos", "", attrs))
}

func TestResolveDirectory_Presets(t *testing.T) {
	attrs := attributes.Map{
		"year":   "2023",
		"month":  "05",
		"day":    "01",
		"camera": "Canon_EOS",
	}

	tests := []struct {
		preset   string
		expected string
	}{
		{"date", filepath.Join("base", "2023", "05", "01")},
		{"year_month", filepath.Join("base", "2023", "05")},
		{"year", filepath.Join("base", "2023")},
		{"camera", filepath.Join("base", "Canon_EOS")},
		{"camera_date", filepath.Join("base", "Canon_EOS", "2023", "05", "01")},
		{"year_camera", filepath.Join("base", "2023", "Canon_EOS")},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolve(t, "base", tt.preset, attrs))
		})
	}
}

func TestResolveDirectory_MissingPlaceholderBecomesUnknown(t *testing.T) {
	attrs := attributes.Map{"year": "2023"}

	got := resolve(t, "base", "{year}/{month}", attrs)
	assert.Equal(t, filepath.Join("base", "2023", "unknown"), got)
}

func TestResolveDirectory_EmptyValueBecomesUnknown(t *testing.T) {
	attrs := attributes.Map{"camera": ""}

	got := resolve(t, "base", "{camera}", attrs)
	assert.Equal(t, filepath.Join("base", "unknown"), got)
}

func TestResolveDirectory_CustomTemplate(t *testing.T) {
	attrs := attributes.Map{"camera_make": "Nikon", "year": "2021"}

	got := resolve(t, "base", "{camera_make}/archive/{year}", attrs)
	assert.Equal(t, filepath.Join("base", "Nikon", "archive", "2021"), got)
}

func TestResolveDirectory_EmptySegmentsDiscarded(t *testing.T) {
	attrs := attributes.Map{"year": "2023"}

	got := resolve(t, "base", "/{year}//photos/", attrs)
	assert.Equal(t, filepath.Join("base", "2023", "photos"), got)
}

func TestResolveDirectory_NoSanitizationOfValues(t *testing.T) {
	// Directory-unsafe characters in attribute values are the metadata
	// provider's responsibility; the resolver passes them through.
	attrs := attributes.Map{"camera": "Canon EOS (old)"}

	got := resolve(t, "base", "{camera}", attrs)
	assert.Equal(t, filepath.Join("base", "Canon EOS (old)"), got)
}

func TestParseSpec_InvalidSegment(t *testing.T) {
	_, err := hierarchy.ParseSpec("{year}/{mon th}")
	require.Error(t, err)
	assert.ErrorIs(t, err, template.ErrInvalidTemplate)
}

func TestParseSpec_Flat(t *testing.T) {
	spec, err := hierarchy.ParseSpec("flat")
	require.NoError(t, err)
	assert.True(t, spec.Flat())

	spec, err = hierarchy.ParseSpec("{year}")
	require.NoError(t, err)
	assert.False(t, spec.Flat())
}

func TestIsPreset(t *testing.T) {
	assert.True(t, hierarchy.IsPreset("date"))
	assert.True(t, hierarchy.IsPreset("flat"))
	assert.False(t, hierarchy.IsPreset("{year}"))
}

func TestPresetNames_Sorted(t *testing.T) {
	names := hierarchy.PresetNames()
	assert.Contains(t, names, "camera_date")
	assert.Len(t, names, 7)
}
