// Package scanner walks a target path into the ordered file list every
// later stage of torrent creation consumes.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileEntry is one file in the scan result: its path components relative
// to the torrent root (empty for a single-file torrent), its length, and
// the absolute filesystem path used for hashing.
type FileEntry struct {
	Path   []string
	Length int64
	Abs    string
}

// RelPath joins Path components with "/" for display and glob matching.
func (f FileEntry) RelPath() string {
	return strings.Join(f.Path, "/")
}

// Options configures a scan.
type Options struct {
	Name    string   // explicit torrent name override
	Exclude []string // glob patterns, matched against relative path and base name
	Include []string // if non-empty, only files matching one of these globs are kept
}

// Result is the outcome of a scan: the resolved torrent name, whether the
// target was a single file, and the ordered file list.
type Result struct {
	Name       string
	SingleFile bool
	Files      []FileEntry
	TotalSize  int64
}

// Scan walks target (a file or directory) and returns its canonical file
// list, sorted per spec.md §4.1: lexicographic, component-by-component,
// byte-wise comparison of raw path bytes.
func Scan(target string, opts Options) (*Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("cannot access target: %w", err)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(filepath.Clean(target))
	}

	if !info.IsDir() {
		if shouldExclude(filepath.Base(target), filepath.Base(target), opts) {
			return nil, fmt.Errorf("target file excluded by pattern: %s", target)
		}
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve absolute path: %w", err)
		}
		return &Result{
			Name:       name,
			SingleFile: true,
			Files:      []FileEntry{{Path: nil, Length: info.Size(), Abs: abs}},
			TotalSize:  info.Size(),
		}, nil
	}

	root, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	rootReal, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve target: %w", err)
	}

	var files []FileEntry
	var total int64
	visited := map[string]bool{rootReal: true}

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("cannot read directory %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			abs := filepath.Join(dir, entry.Name())

			// Every entry is canonicalised, so a file reached through a
			// symlinked directory dedupes against the same file reached
			// directly.
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				continue // broken symlink, skip
			}
			if entry.Type()&os.ModeSymlink != 0 {
				rel, err := filepath.Rel(rootReal, resolved)
				if err != nil || strings.HasPrefix(rel, "..") {
					continue // points outside scan root
				}
			}

			if visited[resolved] {
				continue // cycle
			}

			fi, err := os.Stat(resolved)
			if err != nil {
				continue
			}

			if fi.IsDir() {
				visited[resolved] = true
				if err := walk(abs); err != nil {
					return err
				}
				continue
			}

			visited[resolved] = true

			relPath, err := filepath.Rel(root, abs)
			if err != nil {
				return fmt.Errorf("cannot compute relative path: %w", err)
			}
			components := strings.Split(filepath.ToSlash(relPath), "/")

			if shouldExclude(entry.Name(), filepath.ToSlash(relPath), opts) {
				continue
			}

			files = append(files, FileEntry{Path: components, Length: fi.Size(), Abs: resolved})
			total += fi.Size()
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found under %s after exclusions", target)
	}

	sort.Slice(files, func(i, j int) bool {
		return comparePathComponents(files[i].Path, files[j].Path) < 0
	})

	return &Result{
		Name:       name,
		SingleFile: false,
		Files:      files,
		TotalSize:  total,
	}, nil
}

// comparePathComponents implements the byte-wise, component-by-component
// total order spec.md §4.1 requires.
func comparePathComponents(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func shouldExclude(baseName, relPath string, opts Options) bool {
	for _, pat := range opts.Exclude {
		if matchGlob(pat, baseName) || matchGlob(pat, relPath) {
			return true
		}
	}
	if len(opts.Include) == 0 {
		return false
	}
	for _, pat := range opts.Include {
		if matchGlob(pat, baseName) || matchGlob(pat, relPath) {
			return false
		}
	}
	return true
}

func matchGlob(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
