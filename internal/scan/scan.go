// Package scan enumerates a CKAN FileStore tree and derives the resource
// identifier each stored file belongs to.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrShallowPath is returned when a file sits in a directory with fewer than
// two path segments, so no identifier can be built for it.
var ErrShallowPath = errors.New("scan: directory has fewer than two path segments")

// Files maps a derived identifier to the absolute path of its file.
type Files map[string]string

// Keys returns the identifiers in lexical order.
func (f Files) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scan walks base and records one entry per directory that directly holds at
// least one file. The first file in lexical order is the one used. Symlinks
// are not followed, and a symlink to a directory does not count as a file.
// Unreadable directories, including a missing base, are logged and skipped.
func Scan(base string) (Files, error) {
	root, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}

	files := make(Files)
	seen := make(map[string]bool)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Warning: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || isDirLink(path, d) {
			return nil
		}

		dir := filepath.Dir(path)
		if seen[dir] {
			return nil
		}
		seen[dir] = true

		id, err := Identifier(dir, d.Name())
		if err != nil {
			return err
		}

		if prev, ok := files[id]; ok {
			log.Printf("Warning: identifier %s from %s collides with %s", id, path, prev)
		}
		files[id] = path
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// isDirLink reports whether d is a symlink resolving to a directory. Broken
// links count as files.
func isDirLink(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Identifier joins the two innermost segments of dir with the file name, the
// way the FileStore splits a resource id across its directory layout.
func Identifier(dir, name string) (string, error) {
	var segs []string
	for _, s := range strings.Split(filepath.ToSlash(dir), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}

	if len(segs) < 2 {
		return "", fmt.Errorf("%w: %s", ErrShallowPath, dir)
	}

	return segs[len(segs)-2] + segs[len(segs)-1] + name, nil
}
