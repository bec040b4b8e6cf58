package repomodel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reposcope/internal/safeio"
)

func writeRepoFile(t *testing.T, root, rel, content string) File {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return File{Name: rel, LocalPath: abs}
}

func TestLookupSearchesAllBuckets(t *testing.T) {
	repo := &Repo{
		Readme:       []File{{Name: "README.md"}},
		Files:        []File{{Name: "main.py"}},
		PackageFiles: []File{{Name: "package.json"}},
	}
	for _, name := range []string{"README.md", "main.py", "package.json"} {
		if _, ok := repo.Lookup(name); !ok {
			t.Fatalf("Lookup(%q) missed", name)
		}
	}
	if _, ok := repo.Lookup("nope.py"); ok {
		t.Fatal("Lookup found a file that does not exist")
	}
}

func TestFileContentSmallFileVerbatim(t *testing.T) {
	root := t.TempDir()
	f := writeRepoFile(t, root, "util.py", "def add(a, b):\n    return a + b\n")
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	repo := &Repo{Files: []File{f}}
	got := FileContent(fsys, repo, "util.py")
	if got != "def add(a, b):\n    return a + b\n" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestFileContentTruncatesLongFiles(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 600; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	root := t.TempDir()
	f := writeRepoFile(t, root, "big.py", b.String())
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	repo := &Repo{Files: []File{f}}
	got := FileContent(fsys, repo, "big.py")

	if !strings.Contains(got, "[... file truncated ...]") {
		t.Fatal("expected truncation marker")
	}
	if !strings.HasPrefix(got, "line 1\n") {
		t.Fatalf("expected head to start at line 1, got %q", got[:20])
	}
	if !strings.Contains(got, "line 200") || strings.Contains(got, "line 201") {
		t.Fatal("head should stop after 200 lines")
	}
	if !strings.Contains(got, "line 600") {
		t.Fatal("tail should include the last line")
	}
}

func TestFileContentUnknownFile(t *testing.T) {
	root := t.TempDir()
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	got := FileContent(fsys, &Repo{}, "ghost.py")
	want := "Error: File ghost.py not found in repository"
	if got != want {
		t.Fatalf("payload = %q, want %q", got, want)
	}
}

func TestFunctionSnippetPythonDef(t *testing.T) {
	src := "import os\n\ndef add(a, b):\n    return a + b\n\ndef sub(a, b):\n    return a - b\n"
	root := t.TempDir()
	f := writeRepoFile(t, root, "util.py", src)
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	repo := &Repo{Files: []File{f}}
	got := FunctionSnippet(fsys, repo, "util.py", "sub")
	if !strings.HasPrefix(got, "def sub(a, b):") {
		t.Fatalf("snippet should start at the declaration, got %q", got)
	}
}

func TestFunctionSnippetArrow(t *testing.T) {
	src := "export const handler = async (req) => {\n  return req;\n};\n"
	root := t.TempDir()
	f := writeRepoFile(t, root, "src/api.ts", src)
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	repo := &Repo{Files: []File{f}}
	got := FunctionSnippet(fsys, repo, "src/api.ts", "handler")
	if !strings.HasPrefix(got, "export const handler = async (req) =>") {
		t.Fatalf("snippet should start at the declaration, got %q", got)
	}
}

func TestFunctionSnippetCapsFollowingLines(t *testing.T) {
	var b strings.Builder
	b.WriteString("def big():\n")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "    x = %d\n", i)
	}
	root := t.TempDir()
	f := writeRepoFile(t, root, "big.py", b.String())
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	repo := &Repo{Files: []File{f}}
	got := FunctionSnippet(fsys, repo, "big.py", "big")
	if n := len(strings.Split(got, "\n")); n != 101 {
		t.Fatalf("snippet length = %d lines, want 101", n)
	}
}

func TestFunctionSnippetNotFound(t *testing.T) {
	root := t.TempDir()
	f := writeRepoFile(t, root, "util.py", "x = 1\n")
	fsys, err := safeio.New(root)
	if err != nil {
		t.Fatalf("safeio: %v", err)
	}
	repo := &Repo{Files: []File{f}}
	got := FunctionSnippet(fsys, repo, "util.py", "ghost")
	want := "Function 'ghost' not found in util.py"
	if got != want {
		t.Fatalf("payload = %q, want %q", got, want)
	}
}
