package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !Exists(dir) {
		t.Fatalf("Expected %s to exist", dir)
	}

	// Creating an existing directory must be a no-op
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	content := []byte("not a real raster, but bytes are bytes")

	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(dst, src); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("Copy differs from source: got %q", got)
	}

	// Source must be untouched
	srcGot, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(srcGot) != string(content) {
		t.Errorf("Source changed by copy: got %q", srcGot)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "dst"), filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error copying missing source")
	}
}
