package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

// ErrRootNotFound is the only fatal scan error: the root path is missing.
var ErrRootNotFound = errors.New("analyzer: root path does not exist")

// Build scans the tree rooted at root and returns its repository model.
// Unreadable or non-UTF-8 files degrade to zero-metadata records; they never
// abort the scan. The discovery pass completes before any hydration so that
// import resolution sees the full file set, including forward references.
func Build(root string) (*repomodel.Repo, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, err
	}
	fsys, err := safeio.New(root)
	if err != nil {
		return nil, err
	}
	absRoot := fsys.Root()

	known := make(map[string]struct{})
	var order []string
	dirs := []string{}
	seenDirs := make(map[string]struct{})

	// Discovery pass.
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if p == absRoot {
				return nil
			}
			name := d.Name()
			if ExcludedDir(name) {
				return fs.SkipDir
			}
			if _, ok := seenDirs[name]; !ok {
				seenDirs[name] = struct{}{}
				dirs = append(dirs, name)
			}
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if IncludeFile(rel) {
			known[rel] = struct{}{}
			order = append(order, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Hydration pass over the discovered set.
	repo := &repomodel.Repo{
		Readme:       []repomodel.File{},
		Files:        []repomodel.File{},
		PackageFiles: []repomodel.File{},
		Directories:  dirs,
	}
	for _, rel := range order {
		f := hydrateFile(fsys, absRoot, rel, known)
		base := strings.ToLower(path.Base(rel))
		switch {
		case strings.HasPrefix(base, "readme"):
			repo.Readme = append(repo.Readme, f)
		case isManifest(base):
			repo.PackageFiles = append(repo.PackageFiles, f)
		default:
			repo.Files = append(repo.Files, f)
		}
	}
	return repo, nil
}

func hydrateFile(fsys *safeio.FS, absRoot, rel string, known map[string]struct{}) repomodel.File {
	f := repomodel.File{
		Name:         rel,
		LocalPath:    filepath.Join(absRoot, filepath.FromSlash(rel)),
		Imports:      []string{},
		Functions:    []repomodel.Function{},
		Dependencies: []string{},
	}
	content, err := fsys.ReadFile(filepath.FromSlash(rel))
	if err != nil || !utf8.Valid(content) {
		return f
	}
	f.NumberOfLines = countLines(content)
	h := hydrate(string(content), rel, known)
	f.Imports = h.imports
	f.Functions = h.functions
	f.Dependencies = h.deps
	f.Description = h.description
	return f
}

// countLines counts like a line iterator would: a final line without a
// trailing newline still counts as a line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// FindReadme returns the root-relative path of the first file, in walk
// order, whose base name starts with "readme" case-insensitively. Unlike
// Build it applies no exclusion rules: a readme under node_modules counts.
func FindReadme(root string) (string, bool) {
	var found string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasPrefix(strings.ToLower(d.Name()), "readme") {
			if rel, relErr := filepath.Rel(root, p); relErr == nil {
				found = filepath.ToSlash(rel)
				return fs.SkipAll
			}
		}
		return nil
	})
	return found, found != ""
}
