// Package naming derives filesystem-safe filenames from templates and
// per-file attributes.
package naming

import (
	"log/slog"
	"regexp"
	"strings"

	"fotofiler/internal/logging"
	"fotofiler/pkg/attributes"
	"fotofiler/pkg/template"
)

var (
	// reservedCharsRegex matches characters that are invalid in filenames
	// on at least one supported filesystem.
	reservedCharsRegex = regexp.MustCompile(`[<>:"/\\|?*]`)
	// multiUnderscoreRegex matches runs of consecutive underscores.
	multiUnderscoreRegex = regexp.MustCompile(`_+`)
)

// FallbackName is used when sanitization leaves nothing of the rendered name.
const FallbackName = "unnamed_file"

// ResolveName renders the template against attrs and sanitizes the result
// into a filesystem-safe filename. A missing or absent-valued placeholder
// substitutes as the empty string and logs a warning; it is never an error.
// When attrs carries a non-empty "extension", it is appended verbatim after
// a dot. The result is deterministic for identical inputs.
func ResolveName(tmpl *template.Template, attrs attributes.Map, logger *slog.Logger) string {
	if logger == nil {
		logger = logging.Nop()
	}

	rendered := tmpl.Render(func(name string) string {
		value, ok := attrs.Value(name)
		if !ok || value == "" {
			logger.Warn("placeholder missing from attributes",
				slog.String("placeholder", name),
				slog.String("pattern", tmpl.Pattern()))
			return ""
		}
		return value
	})

	name := Sanitize(rendered)

	if ext, ok := attrs.Value(attributes.KeyExtension); ok && ext != "" {
		name = name + "." + ext
	}

	return name
}

// Sanitize replaces filesystem-reserved characters with underscores,
// collapses underscore runs, and trims leading and trailing underscores.
// An empty result becomes FallbackName. Sanitize is idempotent.
func Sanitize(name string) string {
	clean := reservedCharsRegex.ReplaceAllString(name, "_")
	clean = multiUnderscoreRegex.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")

	if clean == "" {
		return FallbackName
	}

	return clean
}
