// Package analyzer builds a repomodel.Repo from a source tree on disk: a
// two-pass walk discovers the analyzable file set, then each file is
// hydrated with imports, functions, resolved local dependencies and a
// description using line-oriented pattern matching (no language parser).
package analyzer

import (
	"path"
	"strings"
)

// Exclusion and inclusion sets are fixed at compile time.
var excludedDirs = map[string]struct{}{
	"tests":         {},
	"test":          {},
	"example":       {},
	"examples":      {},
	".venv":         {},
	"venv":          {},
	".git":          {},
	".vscode":       {},
	"cypress":       {},
	"node_modules":  {},
	"__pycache__":   {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"dist":          {},
	"build":         {},
	".tox":          {},
}

var includedExts = map[string]struct{}{
	".py":  {},
	".ts":  {},
	".js":  {},
	".tsx": {},
	".md":  {},
	".txt": {},
}

var manifestNames = map[string]struct{}{
	"package.json":     {},
	"pyproject.toml":   {},
	"requirements.txt": {},
	"poetry.lock":      {},
}

// ExcludedDir reports whether a directory name is never descended into.
func ExcludedDir(name string) bool {
	_, ok := excludedDirs[strings.ToLower(name)]
	return ok
}

// IncludeFile decides whether a root-relative file path (forward slashes)
// belongs in the scan. Every ancestor segment is checked against the
// directory deny list, so a file reached through an excluded directory can
// never slip in even if traversal pruning missed it.
func IncludeFile(rel string) bool {
	rel = path.Clean(rel)
	if dir := path.Dir(rel); dir != "." {
		for _, seg := range strings.Split(dir, "/") {
			if ExcludedDir(seg) {
				return false
			}
		}
	}
	base := path.Base(rel)
	if !extensionEligible(base) && !isManifest(base) {
		return false
	}
	// The test-file veto comes last: it overrides the extension and
	// manifest checks, and is case-sensitive.
	return !strings.HasPrefix(base, "test")
}

func extensionEligible(base string) bool {
	_, ok := includedExts[strings.ToLower(path.Ext(base))]
	return ok
}

func isManifest(base string) bool {
	_, ok := manifestNames[strings.ToLower(base)]
	return ok
}
