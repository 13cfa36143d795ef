package static

import (
	"os"
	"path/filepath"
)

// Resolver finds requested files in an ordered list of search directories
type Resolver struct {
	searchPaths []string
}

// NewResolver returns a Resolver trying searchPaths in the given order
func NewResolver(searchPaths ...string) *Resolver {
	return &Resolver{searchPaths: append([]string(nil), searchPaths...)}
}

// SearchPaths returns a copy of the configured search directories
func (r *Resolver) SearchPaths() []string {
	return append([]string(nil), r.searchPaths...)
}

// Resolve appends urlPath to every search directory in order and returns the
// absolute path of the first one that exists and is not a directory.
func (r *Resolver) Resolve(urlPath string) (string, bool) {
	for _, dir := range r.searchPaths {
		candidate := filepath.Join(dir, filepath.FromSlash(urlPath))

		fi, err := os.Stat(candidate)
		if err != nil || fi.IsDir() {
			continue
		}

		fullPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}

		return fullPath, true
	}

	return "", false
}
