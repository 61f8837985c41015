package program

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateDocumentPath(t *testing.T) {
	path := GenerateDocumentPath("signs")

	if !strings.HasPrefix(path, filepath.Join("signs", "sign_")) {
		t.Errorf("Path should start with signs/sign_: %s", path)
	}
	if !strings.HasSuffix(path, ".yaml") {
		t.Errorf("Path should end with .yaml: %s", path)
	}
}

func TestFindLatestDocument(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "sign_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "sign_2026-02-13_01-00-00.yml"),
		filepath.Join(dir, "sign_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("programs: []"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatestDocument(dir)
	if err != nil {
		t.Fatalf("FindLatestDocument failed: %v", err)
	}

	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestDocumentEmpty(t *testing.T) {
	if _, err := FindLatestDocument(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}
