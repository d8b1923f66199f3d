package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines, comments and bad globs", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.log", "[unterminated"})
		if len(m.patterns) != 2 {
			t.Fatalf("expected 2 patterns, got %d: %v", len(m.patterns), m.patterns)
		}
		if m.patterns[1] != "*.log" {
			t.Errorf("expected *.log, got %s", m.patterns[1])
		}
	})

	t.Run("always ignores the ignore file itself", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher(nil)
		if !m.Match(filepath.Join("photos", IgnoreFileName)) {
			t.Errorf("Match(%q) = false, want true", IgnoreFileName)
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{
			name:     "glob matches bare name",
			patterns: []string{"*.part"},
			path:     "movie.part",
			want:     true,
		},
		{
			name:     "glob matches base name of joined path",
			patterns: []string{"*.part"},
			path:     filepath.Join("downloads", "movie.part"),
			want:     true,
		},
		{
			name:     "directory component is not matched",
			patterns: []string{"downloads"},
			path:     filepath.Join("downloads", "movie.mkv"),
			want:     false,
		},
		{
			name:     "different extension",
			patterns: []string{"*.part"},
			path:     "movie.mkv",
			want:     false,
		},
		{
			name:     "exact name",
			patterns: []string{".DS_Store"},
			path:     filepath.Join("a", ".DS_Store"),
			want:     true,
		},
		{
			name:     "question mark wildcard",
			patterns: []string{"?.txt"},
			path:     "a.txt",
			want:     true,
		},
		{
			name:     "question mark does not match multiple chars",
			patterns: []string{"?.txt"},
			path:     "ab.txt",
			want:     false,
		},
		{
			name:     "character class",
			patterns: []string{"*.[oa]"},
			path:     "main.o",
			want:     true,
		},
		{
			name:     "no patterns matches nothing",
			patterns: nil,
			path:     "anything.txt",
			want:     false,
		},
		{
			name:     "empty path",
			patterns: []string{"*"},
			path:     "",
			want:     false,
		},
		{
			name:     "second pattern matches",
			patterns: []string{"*.log", "*.tmp"},
			path:     "data.tmp",
			want:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			got := m.Match(tt.path)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, IgnoreFileName)
		content := "*.log\n# comment\n\n*.tmp\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(patterns) != 4 { // raw lines; filtering is NewIgnoreMatcher's job
			t.Fatalf("expected 4 raw lines, got %d", len(patterns))
		}

		m := NewIgnoreMatcher(patterns)
		if len(m.patterns) != 3 {
			t.Errorf("expected 3 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
