package processor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ResolveOutputPath returns path unchanged when overwrite is allowed or
// nothing exists there. Otherwise it returns the first "{base}_{n}{ext}"
// sibling, n = 1, 2, ..., that does not exist yet.
func ResolveOutputPath(path string, overwrite bool) string {
	if overwrite || !exists(path) {
		return path
	}
	return uniquePath(path)
}

func uniquePath(path string) string {
	dir := filepath.Dir(path)
	base, ext := splitExt(filepath.Base(path))

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, base+"_"+strconv.Itoa(n)+ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

// splitExt splits name at its last dot. A leading dot alone does not start an
// extension, so ".env" has none.
func splitExt(name string) (string, string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
