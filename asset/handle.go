package asset

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// HandleID identifies one asset, or one labeled sub-asset, of a Server.
type HandleID uint64

// Handle is a typed reference to an asset that may still be loading.
type Handle[T any] struct {
	id    HandleID
	path  string
	label string
}

func (h Handle[T]) ID() HandleID {
	return h.id
}

func (h Handle[T]) Path() string {
	return h.path
}

// Label is the sub-asset label, empty for a root asset.
func (h Handle[T]) Label() string {
	return h.label
}

func (h Handle[T]) Valid() bool {
	return h.id != 0
}

func (h Handle[T]) String() string {
	if h.label != "" {
		return fmt.Sprintf("%s#%s", h.path, h.label)
	}
	return h.path
}

// cleanPath normalises p into an unrooted slash path usable with fs.FS.
func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	s := path.Clean(filepath.ToSlash(p))
	s = strings.TrimPrefix(s, "/")
	if s == "." {
		return ""
	}
	return s
}

func extension(p string) string {
	return strings.ToLower(path.Ext(p))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func labeledKey(p, label string) string {
	return p + "#" + label
}
