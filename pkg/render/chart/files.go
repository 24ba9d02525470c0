package chart

import (
	"fmt"
	"os"
	"path/filepath"
)

func ext(path string) string {
	return filepath.Ext(path)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
