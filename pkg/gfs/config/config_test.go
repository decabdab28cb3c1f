package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReference(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reference.yaml")

	content := `categories:
  PR: Produce
  GR: Grocery
brands:
  - Markon
  - Gordon
tuning:
  brand_max_len: 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ref, err := LoadReference(path)
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}

	if len(ref.Categories) != 2 {
		t.Errorf("got %d categories, want 2", len(ref.Categories))
	}
	if ref.Categories["PR"] != "Produce" {
		t.Errorf("PR = %q, want Produce", ref.Categories["PR"])
	}
	if len(ref.Brands) != 2 {
		t.Errorf("got %d brands, want 2", len(ref.Brands))
	}
	if ref.Tuning.BrandMaxLen != 10 {
		t.Errorf("brand_max_len = %d, want 10", ref.Tuning.BrandMaxLen)
	}
	if ref.Tuning.MinTokens != 0 {
		t.Errorf("min_tokens = %d, want 0 (unset)", ref.Tuning.MinTokens)
	}
}

func TestLoadReferenceMissingFile(t *testing.T) {
	if _, err := LoadReference(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadReferenceInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("categories: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReference(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
