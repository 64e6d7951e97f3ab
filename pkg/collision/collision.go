// Package collision resolves destination-path collisions with a
// deterministic suffix counter.
package collision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resolver probes the filesystem for free destination paths and remembers
// paths already claimed during the current run, so planning for multiple
// files never hands out the same destination twice even when those files
// are planned concurrently. The zero value is not usable; use NewResolver.
type Resolver struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewResolver creates a Resolver with an empty claim set.
func NewResolver() *Resolver {
	return &Resolver{claimed: make(map[string]struct{})}
}

// Resolve returns candidate unchanged when it neither exists on disk nor
// has been claimed during this run. Otherwise it splits candidate into
// dir, stem, and extension and probes stem_1.ext, stem_2.ext, … with a
// monotonically increasing counter, returning the first free path. The
// returned path is claimed. The existence check and a later create/move
// are not atomic; callers serialize whole batches externally when another
// process may write to the same destination.
func (r *Resolver) Resolve(candidate string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.free(candidate) {
		r.claimed[candidate] = struct{}{}
		return candidate
	}

	dir := filepath.Dir(candidate)
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(filepath.Base(candidate), ext)

	for counter := 1; ; counter++ {
		probe := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if r.free(probe) {
			r.claimed[probe] = struct{}{}
			return probe
		}
	}
}

func (r *Resolver) free(path string) bool {
	if _, ok := r.claimed[path]; ok {
		return false
	}

	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

// Resolve is the one-off form without run-scoped claim tracking: it returns
// candidate when it does not currently exist, or the first free suffixed
// variant otherwise.
func Resolve(candidate string) string {
	return NewResolver().Resolve(candidate)
}
