// Package scanner discovers candidate files under a source directory and
// derives their baseline attributes from filesystem information. Richer
// attributes (camera, lens, GPS) come from a metadata extractor layered on
// top; the baseline guarantees every file carries at least
// original_filename, extension, file_path, file_size, and mod-time-derived
// date fields.
package scanner

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"fotofiler/pkg/attributes"
)

// Options configures the scanner behavior.
type Options struct {
	// Extensions is the set of file extensions to include, lowercase and
	// without the dot. Empty means all files.
	Extensions []string
	// Recursive controls whether subdirectories are descended into.
	Recursive bool
	// SkipFiles is a list of exact filenames to skip (e.g. .DS_Store).
	SkipFiles []string
	// SkipDirs is a list of directory names to skip entirely.
	SkipDirs []string
}

// Scanner collects per-file attribute maps from a directory tree.
type Scanner struct {
	extensions map[string]bool
	recursive  bool
	skipFiles  map[string]bool
	skipDirs   map[string]bool
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	s := &Scanner{
		extensions: make(map[string]bool),
		recursive:  opts.Recursive,
		skipFiles:  make(map[string]bool),
		skipDirs:   make(map[string]bool),
	}

	for _, ext := range opts.Extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for _, name := range opts.SkipFiles {
		s.skipFiles[name] = true
	}
	for _, name := range opts.SkipDirs {
		s.skipDirs[name] = true
	}

	return s
}

// Scan walks root and returns one attribute map per matching file, in walk
// order.
func (s *Scanner) Scan(root string) ([]attributes.Map, error) {
	var files []attributes.Map

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if s.skipDirs[d.Name()] && path != root {
				return fs.SkipDir
			}
			if !s.recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if s.skipFiles[d.Name()] {
			return nil
		}
		if !s.matches(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, FileAttributes(path, info))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (s *Scanner) matches(name string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return s.extensions[ext]
}

// FileAttributes derives the baseline attribute map for one file. Date
// fields come from the modification time; an EXIF-backed extractor may
// overwrite them later with the capture time.
func FileAttributes(path string, info fs.FileInfo) attributes.Map {
	name := info.Name()
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	mod := info.ModTime()

	return attributes.Map{
		attributes.KeyOriginalFilename: stem,
		attributes.KeyExtension:        strings.ToLower(strings.TrimPrefix(ext, ".")),
		attributes.KeyFilePath:         path,
		attributes.KeyFileSize:         strconv.FormatInt(info.Size(), 10),

		attributes.KeyDate:     mod.Format("2006-01-02"),
		attributes.KeyTime:     mod.Format("15-04-05"),
		attributes.KeyDateTime: mod.Format("20060102_150405"),
		attributes.KeyYear:     mod.Format("2006"),
		attributes.KeyMonth:    mod.Format("01"),
		attributes.KeyDay:      mod.Format("02"),
		attributes.KeyHour:     mod.Format("15"),
		attributes.KeyMinute:   mod.Format("04"),
		attributes.KeySecond:   mod.Format("05"),
	}
}
