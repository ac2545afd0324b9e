package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigSearchPaths_NoDuplicates(t *testing.T) {
	paths := configSearchPaths()
	if len(paths) == 0 {
		t.Fatal("expected search paths")
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			t.Fatalf("abs %s: %v", p, err)
		}
		if seen[abs] {
			t.Errorf("duplicate search path %s", abs)
		}
		seen[abs] = true
	}
}

func TestConfigSearchPaths_EndsWithDockerFallback(t *testing.T) {
	paths := configSearchPaths()
	if paths[len(paths)-1] != "docker/toolbridge.toml" {
		t.Errorf("expected docker fallback last, got %s", paths[len(paths)-1])
	}
}

func TestDiscoverConfig(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")
	present := filepath.Join(dir, "toolbridge.toml")
	if err := os.WriteFile(present, []byte("[server]\nport = 4250\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := discoverConfig([]string{missing, present}); got != present {
		t.Errorf("expected %s, got %s", present, got)
	}
	if got := discoverConfig([]string{missing}); got != "" {
		t.Errorf("expected no match, got %s", got)
	}
}
