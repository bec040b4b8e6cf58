package analyzer

import (
	"path"
	"strings"
)

// firstSegment returns the first dot-separated segment of a module path.
func firstSegment(module string) string {
	if idx := strings.IndexByte(module, '.'); idx >= 0 {
		return module[:idx]
	}
	return module
}

// resolvePythonRelative maps a leading-dot module path to repo files. One dot
// anchors at the importing file's own directory; each extra dot climbs one
// parent. Specifiers that climb past the repository root resolve to nothing.
func resolvePythonRelative(module string, names []string, rel string, known map[string]struct{}) []string {
	trimmed := strings.TrimLeft(module, ".")
	dots := len(module) - len(trimmed)

	var segs []string
	if dir := path.Dir(rel); dir != "." {
		segs = strings.Split(dir, "/")
	}
	ups := dots - 1
	if ups > len(segs) {
		return nil
	}
	segs = segs[:len(segs)-ups]
	if trimmed != "" {
		segs = append(segs, strings.Split(trimmed, ".")...)
	}
	return probePythonModule(segs, names, known)
}

// resolvePythonAbsolute maps a module path anchored at the repository root.
func resolvePythonAbsolute(module string, names []string, known map[string]struct{}) []string {
	return probePythonModule(strings.Split(module, "."), names, known)
}

// probePythonModule tries <path>.py then <path>/__init__.py. When neither
// exists the imported names themselves are probed inside <path>, which is
// what makes "from . import b" resolve to the sibling b.py.
func probePythonModule(segs, names []string, known map[string]struct{}) []string {
	base := strings.Join(segs, "/")
	if base != "" {
		if p := base + ".py"; contains(known, p) {
			return []string{p}
		}
		if p := base + "/__init__.py"; contains(known, p) {
			return []string{p}
		}
	}
	var deps []string
	for _, name := range names {
		target := name
		if base != "" {
			target = base + "/" + name
		}
		if p := target + ".py"; contains(known, p) {
			deps = append(deps, p)
			continue
		}
		if p := target + "/__init__.py"; contains(known, p) {
			deps = append(deps, p)
		}
	}
	return deps
}

// resolveTSRelative joins the specifier to the importing file's directory and
// probes appended extensions .ts/.tsx/.js, then index files inside the
// resolved directory. Specifiers that escape the root resolve to nothing.
func resolveTSRelative(spec, rel string, known map[string]struct{}) string {
	joined := path.Join(path.Dir(rel), spec)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return ""
	}
	for _, ext := range []string{".ts", ".tsx", ".js"} {
		if p := joined + ext; contains(known, p) {
			return p
		}
	}
	for _, ext := range []string{".ts", ".tsx", ".js"} {
		if p := path.Join(joined, "index"+ext); contains(known, p) {
			return p
		}
	}
	return ""
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
