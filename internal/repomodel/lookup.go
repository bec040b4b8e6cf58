package repomodel

import (
	"fmt"
	"strings"

	"reposcope/internal/safeio"
)

const (
	truncateAfter = 500 // lines before a file body gets summarized
	headLines     = 200
	tailLines     = 100
	snippetLines  = 100 // lines returned after a matched declaration
)

// FileContent returns the raw body of the named file for a tool call.
// Lookup and read failures are reported in the returned payload rather than
// as a Go error: the model sees the message and can recover on its own.
func FileContent(fsys *safeio.FS, repo *Repo, name string) string {
	f, ok := repo.Lookup(name)
	if !ok {
		return fmt.Sprintf("Error: File %s not found in repository", name)
	}
	content, err := fsys.ReadFile(f.LocalPath)
	if err != nil {
		return fmt.Sprintf("Error reading file %s: %v", f.LocalPath, err)
	}
	lines := strings.Split(string(content), "\n")
	if len(lines) > truncateAfter {
		head := strings.Join(lines[:headLines], "\n")
		tail := strings.Join(lines[len(lines)-tailLines:], "\n")
		return head + "\n\n[... file truncated ...]\n\n" + tail
	}
	return string(content)
}

// FunctionSnippet returns the declaration line of the named function plus the
// following 100 lines. Declarations are located with plain substring probes
// covering the Python and TypeScript/JavaScript shapes the extractor knows.
func FunctionSnippet(fsys *safeio.FS, repo *Repo, fileName, functionName string) string {
	f, ok := repo.Lookup(fileName)
	if !ok {
		return fmt.Sprintf("Error: File %s not found in repository", fileName)
	}
	content, err := fsys.ReadFile(f.LocalPath)
	if err != nil {
		return fmt.Sprintf("Error reading file %s: %v", f.LocalPath, err)
	}
	lines := strings.Split(string(content), "\n")
	probes := declarationProbes(functionName)
	for i, line := range lines {
		for _, p := range probes {
			if strings.Contains(line, p) {
				end := i + snippetLines + 1
				if end > len(lines) {
					end = len(lines)
				}
				return strings.Join(lines[i:end], "\n")
			}
		}
	}
	return fmt.Sprintf("Function '%s' not found in %s", functionName, fileName)
}

func declarationProbes(name string) []string {
	return []string{
		"def " + name + "(",
		"def " + name + " (",
		"async def " + name + "(",
		"async def " + name + " (",
		"function " + name + "(",
		"function " + name + " (",
		"async function " + name + "(",
		"async function " + name + " (",
		"export function " + name + "(",
		"export function " + name + " (",
		"export async function " + name + "(",
		"export async function " + name + " (",
		"const " + name + " = (",
		"const " + name + " = async (",
		"export const " + name + " = (",
		"export const " + name + " = async (",
		"let " + name + " = (",
		"var " + name + " = (",
		name + "(",
		name + " (",
		name + ": (",
		name + ": async (",
	}
}
