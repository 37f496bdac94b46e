package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Full(t *testing.T) {
	content := `
lut_file: "out/br.webp"
lut_width: 512
lut_height: 32
quality: 75
lossless: true
catalog_file: "out/br.sqlite"
verbose: true
`
	cfg, err := loadFromString(t, content)
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		LUTFile:    "out/br.webp",
		LUTWidth:   512,
		LUTHeight:  32,
		Quality:    75,
		Lossless:   true,
		OutputFile: "out/br.sqlite",
		Verbose:    true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := loadFromString(t, `lut_file: "br.webp"`)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Quality != DefaultQuality {
		t.Errorf("expected default quality %d, got %d", DefaultQuality, cfg.Quality)
	}
	if cfg.LUTHeight != DefaultLUTHeight {
		t.Errorf("expected default LUT height %d, got %d", DefaultLUTHeight, cfg.LUTHeight)
	}
	if cfg.LUTWidth != 0 {
		t.Errorf("expected LUT width 0, got %d", cfg.LUTWidth)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	if cfg != nil {
		t.Errorf("expected no config, got %+v", cfg)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := loadFromString(t, "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Invalid(t *testing.T) {
	for _, content := range []string{
		"quality: 101",
		"lut_width: -1",
		"quality: [1, 2]",
	} {
		if _, err := loadFromString(t, content); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

func loadFromString(t *testing.T, content string) (*Config, error) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	return Load(path)
}
