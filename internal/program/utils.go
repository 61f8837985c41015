package program

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateDocumentPath creates a timestamped document filename inside dir
func GenerateDocumentPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("sign_%s.yaml", timestamp))
}

// FindLatestDocument finds the most recent YAML document in dir
func FindLatestDocument(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read documents directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var docs []candidate
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, candidate{path: filepath.Join(dir, entry.Name()), mod: info.ModTime()})
	}

	if len(docs) == 0 {
		return "", fmt.Errorf("no document files found in %s", dir)
	}

	// Newest first
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].mod.After(docs[j].mod)
	})

	return docs[0].path, nil
}
