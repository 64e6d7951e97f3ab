package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fotofiler/pkg/template"
)

func TestParse_ValidPatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{
			name:    "single placeholder",
			pattern: "{year}",
		},
		{
			name:    "adjacent placeholders",
			pattern: "{a}{b}",
		},
		{
			name:    "placeholders with separator",
			pattern: "{a}_{b}",
		},
		{
			name:    "pure literal",
			pattern: "flat",
		},
		{
			name:    "default naming pattern",
			pattern: "{datetime}_{original_filename}",
		},
		{
			name:    "literal prefix and suffix",
			pattern: "IMG_{year}_final",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := template.Parse(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, tmpl.Pattern())
		})
	}
}

func TestParse_InvalidPatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{
			name:    "empty pattern",
			pattern: "",
		},
		{
			name:    "nested braces",
			pattern: "{a{b}}",
		},
		{
			name:    "empty placeholder name",
			pattern: "{}",
		},
		{
			name:    "unbalanced open brace",
			pattern: "{year",
		},
		{
			name:    "unmatched close brace",
			pattern: "year}",
		},
		{
			name:    "name with space",
			pattern: "{year month}",
		},
		{
			name:    "name with dash",
			pattern: "{year-month}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := template.Parse(tt.pattern)
			require.Error(t, err)
			assert.ErrorIs(t, err, template.ErrInvalidTemplate)
		})
	}
}

func TestPlaceholders_OrderAndDuplicates(t *testing.T) {
	tmpl, err := template.Parse("{year}_{camera}_{year}")
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "camera", "year"}, tmpl.Placeholders())
}

func TestPlaceholders_LiteralOnly(t *testing.T) {
	tmpl, err := template.Parse("flat")
	require.NoError(t, err)

	assert.Empty(t, tmpl.Placeholders())
}

func TestRender_SubstitutesInOrder(t *testing.T) {
	tmpl, err := template.Parse("{date}_{camera}_{original_filename}")
	require.NoError(t, err)

	values := map[string]string{
		"date":              "2023-05-01",
		"camera":            "Canon_EOS",
		"original_filename": "IMG_001",
	}

	got := tmpl.Render(func(name string) string { return values[name] })
	assert.Equal(t, "2023-05-01_Canon_EOS_IMG_001", got)
}

func TestRender_NoDoubleSubstitution(t *testing.T) {
	tmpl, err := template.Parse("{a}")
	require.NoError(t, err)

	// A substituted value containing {b} must be emitted verbatim.
	got := tmpl.Render(func(name string) string {
		if name == "a" {
			return "{b}"
		}
		return "exploded"
	})
	assert.Equal(t, "{b}", got)
}

func TestRender_AdjacentPlaceholders(t *testing.T) {
	tmpl, err := template.Parse("{a}{b}")
	require.NoError(t, err)

	got := tmpl.Render(func(name string) string { return name })
	assert.Equal(t, "ab", got)
}
