package analyzer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// GitignoreFile is the ignore file read from the analysis root.
const GitignoreFile = ".gitignore"

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// matcher decides which paths below root are excluded.
type matcher struct {
	root   string
	ignore *ignore.GitIgnore
}

// newMatcher compiles the exclude patterns, prefixed by the root's
// .gitignore when respectGitignore is set and the file exists.
func newMatcher(root string, exclude []string, respectGitignore bool) (*matcher, error) {
	m := &matcher{root: root}

	if respectGitignore {
		path := filepath.Join(root, GitignoreFile)
		gi, err := ignore.CompileIgnoreFileAndLines(path, exclude...)
		switch {
		case err == nil:
			m.ignore = gi
			return m, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if len(exclude) > 0 {
		m.ignore = ignore.CompileIgnoreLines(exclude...)
	}
	return m, nil
}

// excluded reports whether path (absolute or root-relative) is ignored.
func (m *matcher) excluded(path string, dir bool) bool {
	if m.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		return m.ignore.MatchesPath(rel) || m.ignore.MatchesPath(rel+"/")
	}
	return m.ignore.MatchesPath(rel)
}

// discover walks root in lexical order and returns the manifests to scan.
// Entries that cannot be visited are reported through warn and skipped.
func discover(root, extension string, m *matcher, warn func(path string, err error)) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			warn(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || m.excluded(path, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != extension {
			return nil
		}
		if m.excluded(path, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// stat resolves target, mapping a missing path to ErrTargetNotFound.
func stat(target string) (os.FileInfo, error) {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, target)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	return info, nil
}
