// Package hierarchy computes destination directories from slash-delimited
// folder templates and per-file attributes.
package hierarchy

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"fotofiler/internal/logging"
	"fotofiler/pkg/attributes"
	"fotofiler/pkg/template"
)

// UnknownSegment replaces missing or empty placeholders inside a directory
// segment. Directory segments must never be empty, unlike filename
// substitution which degrades to "".
const UnknownSegment = "unknown"

// presets maps preset names to their canonical slash-templates.
var presets = map[string]string{
	"flat":        "",
	"date":        "{year}/{month}/{day}",
	"year_month":  "{year}/{month}",
	"year":        "{year}",
	"camera":      "{camera}",
	"camera_date": "{camera}/{year}/{month}/{day}",
	"year_camera": "{year}/{camera}",
}

// IsPreset reports whether name is a known hierarchy preset.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// PresetNames returns the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spec is a validated folder-hierarchy layout: an ordered list of
// pre-parsed segment templates. A Spec is immutable after construction.
type Spec struct {
	raw      string
	segments []*template.Template
}

// ParseSpec builds a Spec from a preset name or a raw slash-delimited
// template. An empty spec or the preset "flat" yields no segments.
// Empty segments from leading, trailing, or doubled slashes are discarded.
// A malformed segment fails with template.ErrInvalidTemplate, aborting
// before any file is processed.
func ParseSpec(spec string) (*Spec, error) {
	expanded := spec
	if canonical, ok := presets[spec]; ok {
		expanded = canonical
	}

	s := &Spec{raw: spec}
	for _, segment := range strings.Split(expanded, "/") {
		if segment == "" {
			continue
		}

		tmpl, err := template.Parse(segment)
		if err != nil {
			return nil, fmt.Errorf("hierarchy segment %q: %w", segment, err)
		}
		s.segments = append(s.segments, tmpl)
	}

	return s, nil
}

// Raw returns the spec string the Spec was parsed from.
func (s *Spec) Raw() string {
	return s.raw
}

// Flat reports whether the spec produces no subdirectories.
func (s *Spec) Flat() bool {
	return len(s.segments) == 0
}

// Resolve joins baseDir with each rendered segment in order. A missing or
// empty-valued placeholder is replaced with UnknownSegment and logs a
// warning. Segments undergo no character sanitization beyond substitution;
// directory-unsafe attribute values are the metadata provider's
// responsibility. Every resulting path segment is non-empty.
func (s *Spec) Resolve(baseDir string, attrs attributes.Map, logger *slog.Logger) string {
	if logger == nil {
		logger = logging.Nop()
	}

	dir := baseDir
	for _, segment := range s.segments {
		rendered := segment.Render(func(name string) string {
			value, ok := attrs.Value(name)
			if !ok || value == "" {
				logger.Warn("placeholder missing from attributes",
					slog.String("placeholder", name),
					slog.String("segment", segment.Pattern()))
				return UnknownSegment
			}
			return value
		})
		dir = filepath.Join(dir, rendered)
	}

	return dir
}

// ResolveDirectory is a convenience for one-off resolution: it parses spec
// and resolves it against attrs in a single call.
func ResolveDirectory(baseDir, spec string, attrs attributes.Map, logger *slog.Logger) (string, error) {
	parsed, err := ParseSpec(spec)
	if err != nil {
		return "", err
	}
	return parsed.Resolve(baseDir, attrs, logger), nil
}
