package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := "[output]\ncolor = \"off\"\nmax_diagnostics = 5\n\n[cache]\nenabled = false\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Color != "off" || cfg.Output.MaxDiagnostics != 5 || cfg.Cache.Enabled {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[output]\ncolor = \"pink\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("invalid color must fail")
	}
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestDiscoverFindsParentConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[output]\ncolor = \"on\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Output.Color != "on" {
		t.Fatalf("expected parent config, got %+v", cfg)
	}
}
