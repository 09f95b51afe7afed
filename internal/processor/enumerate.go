package processor

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaskSeparator separates patterns in the external mask form.
const MaskSeparator = ";"

// ParseMasks splits a semicolon-separated mask list. Blank entries are
// dropped and an empty list becomes {"*"}.
func ParseMasks(s string) ([]string, error) {
	var masks []string
	for _, part := range strings.Split(s, MaskSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := filepath.Match(part, ""); err != nil {
			return nil, &ConfigError{Field: "mask", Err: ErrBadMask}
		}
		masks = append(masks, part)
	}
	if len(masks) == 0 {
		masks = []string{"*"}
	}
	return masks, nil
}

// Enumerate returns the absolute paths of the readable regular files directly
// inside dir whose name matches at least one mask, sorted by name.
//
// Matching is case-sensitive on every platform: "*.txt" does not match
// "c.TXT". Symlinks count when they resolve to a regular file.
func Enumerate(dir string, masks []string) ([]string, error) {
	if len(masks) == 0 {
		masks = []string{"*"}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, newFileError(ErrDirectoryNotFound, "readdir", dir, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, newFileError(ErrDirectoryNotFound, "readdir", absDir, err)
	}

	var files []string
	for _, entry := range entries {
		if !matchesAny(entry.Name(), masks) {
			continue
		}

		fullPath := filepath.Join(absDir, entry.Name())
		if !isRegular(fullPath, entry) {
			continue
		}
		if !readable(fullPath) {
			continue
		}
		files = append(files, fullPath)
	}

	return files, nil
}

func matchesAny(name string, masks []string) bool {
	for _, mask := range masks {
		if ok, err := filepath.Match(mask, name); err == nil && ok {
			return true
		}
	}
	return false
}

func isRegular(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
