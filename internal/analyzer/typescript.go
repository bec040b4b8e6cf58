package analyzer

import (
	"regexp"
	"strings"

	"reposcope/internal/repomodel"
)

var (
	tsImportFromRe = regexp.MustCompile(`^import.*from\s+['"]([^'"]+)['"]`)
	tsFuncRe       = regexp.MustCompile(`^(export\s+)?(async\s+)?function\s+(\w+)\s*\(([^)]*)\)`)
	tsArrowRe      = regexp.MustCompile(`^(export\s+)?(const|let|var)\s+(\w+)\s*=\s*(\(([^)]*)\)\s*=>|async\s*\(([^)]*)\)\s*=>)`)
	tsMethodRe     = regexp.MustCompile(`^(async\s+)?(\w+)\s*\(([^)]*)\)\s*\{`)
)

// extractTypeScript performs the single forward pass over a TS/TSX/JS file.
// Three declaration shapes are checked independently on every line: named
// function declarations, arrow-function assignments, and bare method-style
// declarations. A /** ... */ block directly above a declaration becomes its
// description.
func extractTypeScript(content, rel string, known map[string]struct{}) hydration {
	var h hydration
	lines := strings.Split(content, "\n")
	h.description = tsFileDescription(lines)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "import ") {
			h.imports = append(h.imports, line)
			if m := tsImportFromRe.FindStringSubmatch(line); m != nil && strings.HasPrefix(m[1], ".") {
				if dep := resolveTSRelative(m[1], rel, known); dep != "" {
					h.deps = append(h.deps, dep)
				}
			}
		}

		description := ""
		if strings.HasPrefix(line, "/**") {
			var block []string
			j := i
			for j < len(lines) {
				block = append(block, lines[j])
				if strings.HasSuffix(strings.TrimSpace(lines[j]), "*/") {
					break
				}
				j++
			}
			description = strings.TrimSpace(strings.Join(block, "\n"))
			i = j + 1
			if i >= len(lines) {
				break
			}
			line = strings.TrimSpace(lines[i])
		}

		if m := tsFuncRe.FindStringSubmatch(line); m != nil {
			h.functions = append(h.functions, repomodel.Function{
				Name:        m[3],
				Arguments:   m[4],
				Description: description,
			})
		}
		if m := tsArrowRe.FindStringSubmatch(line); m != nil {
			args := m[5]
			if args == "" {
				args = m[6]
			}
			h.functions = append(h.functions, repomodel.Function{
				Name:        m[3],
				Arguments:   args,
				Description: description,
			})
		}
		if m := tsMethodRe.FindStringSubmatch(line); m != nil {
			// Control-flow keywords match the method shape; skip them by
			// identifier, not line prefix, so names like "iffy" survive.
			if name := m[2]; name != "if" && name != "for" && name != "while" {
				h.functions = append(h.functions, repomodel.Function{
					Name:        name,
					Arguments:   m[3],
					Description: description,
				})
			}
		}
	}
	return h
}

// tsFileDescription collects leading // and /* ... */ comment content.
// Blank lines are skipped, an unterminated block contributes its first line
// and ends the scan, and the first code line ends the scan.
func tsFileDescription(lines []string) string {
	var desc []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") {
			desc = append(desc, strings.TrimLeft(line, "/ "))
			continue
		}
		if strings.HasPrefix(line, "/*") {
			if strings.HasSuffix(line, "*/") {
				desc = append(desc, strings.TrimRight(strings.TrimLeft(line, "/* "), " */"))
				continue
			}
			desc = append(desc, strings.TrimLeft(line, "/* "))
		}
		break
	}
	if len(desc) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(desc, "\n"))
}
