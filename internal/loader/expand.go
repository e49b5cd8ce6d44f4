package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/cockroachdb/errors"
)

// Expand turns command line arguments into a sorted list of absolute file
// paths. An argument is a glob pattern (`**` matches any number of
// directories), a file, or a directory, which is searched for files with
// one of the loader's extensions. Dependency directories and hidden
// directories are skipped.
func (l *Loader) Expand(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", path)
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", arg)
			}
			if !info.IsDir() {
				if err := add(arg); err != nil {
					return nil, err
				}
				continue
			}
			files, err := l.walkDir(arg)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				if err := add(f); err != nil {
					return nil, err
				}
			}
			continue
		}

		matches, err := doublestar.Glob(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %q", arg)
		}
		l.logger.Debug("expanded glob", "pattern", arg, "matches", len(matches))
		base := staticBase(arg)
		for _, m := range matches {
			if skipPath(strings.TrimPrefix(m, base)) {
				continue
			}
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	slices.Sort(out)
	return out, nil
}

// Match reports whether path matches any of the patterns. Relative
// patterns are matched against path relative to root.
func Match(patterns []string, root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	for _, pattern := range patterns {
		target := rel
		if filepath.IsAbs(pattern) {
			target = path
		}
		if !hasMeta(pattern) {
			clean := filepath.Clean(pattern)
			if target == clean || strings.HasPrefix(target, clean+string(filepath.Separator)) {
				return true
			}
			continue
		}
		if ok, err := doublestar.PathMatch(filepath.Clean(pattern), target); err == nil && ok {
			return true
		}
	}
	return false
}

func (l *Loader) walkDir(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(l.extensions, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", dir)
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func skipDir(name string) bool {
	return name == "node_modules" || (strings.HasPrefix(name, ".") && len(name) > 1)
}

// staticBase returns the leading directories of pattern that hold no glob
// meta characters.
func staticBase(pattern string) string {
	parts := strings.Split(pattern, string(filepath.Separator))
	for i, part := range parts {
		if hasMeta(part) {
			return strings.Join(parts[:i], string(filepath.Separator))
		}
	}
	return pattern
}

func skipPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "." && part != ".." && skipDir(part) {
			return true
		}
	}
	return false
}
