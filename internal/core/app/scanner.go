package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"arrowstyle/internal/core/errors"
)

// Scan expands paths into the absolute paths of the source files to lint.
// Directories are walked and filtered by the include and exclude patterns
// relative to the directory. Files named explicitly are kept whenever the
// parser supports them.
func (a *App) Scan(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	a.mu.RLock()
	include, exclude := a.include, a.exclude
	a.mu.RUnlock()

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		root, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "path does not exist"), errors.CtxPath, root)
			}
			return nil, err
		}
		if !info.IsDir() {
			if a.Parser.IsSupportedPath(root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if exclude.MatchDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !a.Parser.IsSupportedPath(path) {
				return nil
			}
			if !include.Empty() && !include.Match(rel) {
				return nil
			}
			if exclude.Match(rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
