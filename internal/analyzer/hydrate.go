package analyzer

import (
	"path"
	"strings"

	"reposcope/internal/repomodel"
)

// hydration is the per-file extraction result before it is folded into a
// repomodel.File.
type hydration struct {
	deps        []string
	imports     []string
	functions   []repomodel.Function
	description string
}

// hydrate dispatches on the lower-cased extension. Extensions without an
// extractor yield empty results, never an error.
func hydrate(content, rel string, known map[string]struct{}) hydration {
	var h hydration
	switch strings.ToLower(path.Ext(rel)) {
	case ".py":
		h = extractPython(content, rel, known)
	case ".ts", ".tsx", ".js":
		h = extractTypeScript(content, rel, known)
	}
	if h.deps == nil {
		h.deps = []string{}
	}
	if h.imports == nil {
		h.imports = []string{}
	}
	if h.functions == nil {
		h.functions = []repomodel.Function{}
	}
	return h
}
