package samehada_util

import (
	"os"
	"path/filepath"
	"strings"
)

func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// PageFilePath returns path of the page file under dbDir.
// ".db" is appended when name has no extension.
func PageFilePath(dbDir string, name string) string {
	if filepath.Ext(name) == "" {
		name += ".db"
	}
	if dbDir == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(dbDir, name)
}

// IsValidFileName returns false for names which can escape from db directory
func IsValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
