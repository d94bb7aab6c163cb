package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// CreateMovieFiles creates a small unsorted movie folder and returns the
// names it created.
func CreateMovieFiles(t *testing.T, dir string) []string {
	t.Helper()
	files := map[string]string{
		"Heat.1995.1080p.mkv":   "movie",
		"Alien (1979).mp4":      "movie",
		"Arrival.2016.720p.avi": "movie",
		"notes.txt":             "not a movie",
	}
	CreateTestFilesWithContent(t, dir, files)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	return names
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
