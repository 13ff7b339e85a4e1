package resultfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover expands pattern and returns the matching regular files, sorted
// and without duplicates. A pattern that matches nothing is not an error.
func Discover(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("resultfile: pattern %q: %w", pattern, err)
	}

	seen := make(map[string]struct{}, len(matches))
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		clean := filepath.Clean(m)
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}

		info, err := os.Stat(clean)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, clean)
	}
	sort.Strings(files)
	return files, nil
}

// Match reports whether name matches pattern. A malformed pattern never
// matches.
func Match(pattern, name string) bool {
	ok, err := filepath.Match(filepath.Clean(pattern), filepath.Clean(name))
	return err == nil && ok
}
