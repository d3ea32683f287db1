package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		input   string
		output  string
		want    map[string]string
	}{
		{"single with output", []string{"svg"}, "birds.pl", "tree.svg", map[string]string{"svg": "tree.svg"}},
		{"single from input", []string{"json"}, "dir/run.txt", "", map[string]string{"json": "run.json"}},
		{"multiple with base", []string{"svg", "png"}, "birds.pl", "out/tree.svg", map[string]string{"svg": "out/tree.svg", "png": "out/tree.png"}},
		{"stdin", []string{"json"}, "-", "", map[string]string{"json": appName + ".json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.input, tt.output)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], want)
				}
			}
			if !strings.HasSuffix(got[tt.formats[0]], "."+tt.formats[0]) {
				t.Errorf("path %q lacks the format extension", got[tt.formats[0]])
			}
		})
	}
}
