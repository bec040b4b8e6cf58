package analyzer

import (
	"regexp"
	"strings"

	"reposcope/internal/repomodel"
)

var (
	pyFromRe      = regexp.MustCompile(`^from\s+([\w.]+)\s+import`)
	pyFromNamesRe = regexp.MustCompile(`^from\s+[\w.]+\s+import\s+(.+)$`)
	pyImportRe    = regexp.MustCompile(`^import\s+([\w.]+)`)
	pyDefRe       = regexp.MustCompile(`^(async\s+)?def\s+(\w+)\s*\(([^)]*)\):`)
	pyIdentRe     = regexp.MustCompile(`^\w+$`)
)

// extractPython performs the single forward pass over a Python file:
// verbatim import capture, local dependency resolution, def/async def
// signatures with the docstring found below them.
func extractPython(content, rel string, known map[string]struct{}) hydration {
	var h hydration
	lines := strings.Split(content, "\n")
	h.description = pythonFileDescription(lines)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "from ") {
			h.imports = append(h.imports, line)

			if strings.HasPrefix(line, "from ") {
				if m := pyFromRe.FindStringSubmatch(line); m != nil {
					module := m[1]
					switch {
					case strings.HasPrefix(module, "."):
						h.deps = append(h.deps, resolvePythonRelative(module, importedNames(line), rel, known)...)
					case firstSegment(module) == "src":
						h.deps = append(h.deps, resolvePythonAbsolute(module, importedNames(line), known)...)
					}
				}
			} else if m := pyImportRe.FindStringSubmatch(line); m != nil {
				if firstSegment(m[1]) == "src" {
					h.deps = append(h.deps, resolvePythonAbsolute(m[1], nil, known)...)
				}
			}
		}

		if m := pyDefRe.FindStringSubmatch(line); m != nil {
			h.functions = append(h.functions, repomodel.Function{
				Name:        m[2],
				Arguments:   m[3],
				Description: pythonDocstringBelow(lines, i+1),
			})
		}
	}
	return h
}

// importedNames returns the plain identifiers listed after "import" in a
// from-import line. Aliases keep their original name; "*" and parenthesized
// continuations contribute nothing.
func importedNames(line string) []string {
	m := pyFromNamesRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	var names []string
	for _, part := range strings.Split(m[1], ",") {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if pyIdentRe.MatchString(name) {
			names = append(names, name)
		}
	}
	return names
}

// pythonDocstringBelow returns the docstring that opens on the first
// non-blank line at or after start, or "".
func pythonDocstringBelow(lines []string, start int) string {
	j := start
	for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
		j++
	}
	if j >= len(lines) {
		return ""
	}
	next := strings.TrimSpace(lines[j])
	var marker, quote string
	switch {
	case strings.HasPrefix(next, `"""`):
		marker, quote = `"""`, `"`
	case strings.HasPrefix(next, "'''"):
		marker, quote = "'''", "'"
	default:
		return ""
	}
	if strings.Count(next, marker) >= 2 {
		return strings.TrimSpace(strings.Trim(next, quote))
	}
	parts := []string{strings.TrimLeft(next, quote)}
	k := j + 1
	for k < len(lines) && !strings.HasSuffix(strings.TrimSpace(lines[k]), marker) {
		parts = append(parts, lines[k])
		k++
	}
	if k < len(lines) {
		parts = append(parts, strings.TrimRight(lines[k], quote))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// pythonFileDescription collects leading # comment content (blank and import
// lines may interleave) and, if the first real line opens a double-quoted
// module docstring, appends its content.
func pythonFileDescription(lines []string) string {
	var desc []string
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "from ") || strings.HasPrefix(line, "import ") {
			if strings.HasPrefix(line, "#") {
				desc = append(desc, strings.TrimLeft(line, "# "))
			}
			i++
			continue
		}
		break
	}
	if i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, `"""`) {
			if strings.Count(line, `"""`) >= 2 {
				desc = append(desc, strings.TrimSpace(strings.Trim(line, `"`)))
			} else {
				desc = append(desc, strings.TrimLeft(line, `"`))
				i++
				for i < len(lines) && !strings.HasSuffix(strings.TrimSpace(lines[i]), `"""`) {
					desc = append(desc, strings.TrimSpace(lines[i]))
					i++
				}
				if i < len(lines) {
					desc = append(desc, strings.TrimRight(strings.TrimSpace(lines[i]), `"`))
				}
			}
		}
	}
	if len(desc) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(desc, "\n"))
}
