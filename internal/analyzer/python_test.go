package analyzer

import (
	"slices"
	"testing"
)

func set(paths ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

func TestPythonAddFunctionWithDocstring(t *testing.T) {
	src := "def add(a, b):\n    \"\"\"Adds two numbers.\"\"\"\n    return a + b\n"
	h := extractPython(src, "util.py", set("util.py"))

	if len(h.functions) != 1 {
		t.Fatalf("functions=%+v", h.functions)
	}
	fn := h.functions[0]
	if fn.Name != "add" || fn.Arguments != "a, b" || fn.Description != "Adds two numbers." {
		t.Fatalf("got %+v", fn)
	}
}

func TestPythonReturnAnnotationDefeatsMatch(t *testing.T) {
	src := "def typed(a) -> int:\n    return a\n"
	h := extractPython(src, "m.py", set("m.py"))
	if len(h.functions) != 0 {
		t.Fatalf("annotated signature should not match, got %+v", h.functions)
	}
}

func TestPythonAsyncDef(t *testing.T) {
	src := "async def fetch(url):\n    pass\n"
	h := extractPython(src, "m.py", set("m.py"))
	if len(h.functions) != 1 || h.functions[0].Name != "fetch" {
		t.Fatalf("got %+v", h.functions)
	}
}

func TestPythonMultilineDocstring(t *testing.T) {
	src := "def go(x):\n    \"\"\"\n    First line.\n    Second line.\n    \"\"\"\n    return x\n"
	h := extractPython(src, "m.py", set("m.py"))
	if len(h.functions) != 1 {
		t.Fatalf("functions=%+v", h.functions)
	}
	want := "First line.\n    Second line."
	if h.functions[0].Description != want {
		t.Fatalf("description=%q want=%q", h.functions[0].Description, want)
	}
}

func TestPythonImportsVerbatim(t *testing.T) {
	src := "import os\nfrom pathlib import Path\nimport os\n\nx = 1\n"
	h := extractPython(src, "m.py", set("m.py"))
	want := []string{"import os", "from pathlib import Path", "import os"}
	if !slices.Equal(h.imports, want) {
		t.Fatalf("imports=%v want=%v", h.imports, want)
	}
}

func TestPythonSiblingImportResolvesByName(t *testing.T) {
	src := "from . import b\n"
	h := extractPython(src, "pkg/a.py", set("pkg/a.py", "pkg/b.py"))
	want := []string{"pkg/b.py"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestPythonRelativeModuleImport(t *testing.T) {
	src := "from .util import helper\n"
	h := extractPython(src, "pkg/a.py", set("pkg/a.py", "pkg/util.py"))
	want := []string{"pkg/util.py"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestPythonParentRelativeImport(t *testing.T) {
	src := "from ..common import shared\n"
	h := extractPython(src, "pkg/sub/a.py", set("pkg/sub/a.py", "pkg/common.py"))
	want := []string{"pkg/common.py"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestPythonPackageInitResolution(t *testing.T) {
	src := "from .sub import thing\n"
	h := extractPython(src, "a.py", set("a.py", "sub/__init__.py"))
	want := []string{"sub/__init__.py"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestPythonAbsoluteSrcImports(t *testing.T) {
	src := "from src.core import engine\nimport src.util\n"
	known := set("src/core.py", "src/util.py")
	h := extractPython(src, "main.py", known)
	want := []string{"src/core.py", "src/util.py"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestPythonAbsoluteImportFallsBackToName(t *testing.T) {
	src := "from src.core import engine\n"
	h := extractPython(src, "main.py", set("src/core/engine.py"))
	want := []string{"src/core/engine.py"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestPythonEscapingRelativeImportDropped(t *testing.T) {
	src := "from ...outside import x\n"
	h := extractPython(src, "pkg/a.py", set("pkg/a.py"))
	if len(h.deps) != 0 {
		t.Fatalf("escaping import should resolve to nothing, got %v", h.deps)
	}
}

func TestPythonThirdPartyImportNoDependency(t *testing.T) {
	src := "from flask import Flask\nimport requests\n"
	h := extractPython(src, "app.py", set("app.py"))
	if len(h.deps) != 0 {
		t.Fatalf("third-party imports must not resolve, got %v", h.deps)
	}
	if len(h.imports) != 2 {
		t.Fatalf("imports=%v", h.imports)
	}
}

func TestPythonFileDescriptionFromComments(t *testing.T) {
	src := "# Small helper module.\n# Used by the CLI.\nimport os\n\nx = 1\n"
	h := extractPython(src, "m.py", set("m.py"))
	want := "Small helper module.\nUsed by the CLI."
	if h.description != want {
		t.Fatalf("description=%q want=%q", h.description, want)
	}
}

func TestPythonFileDescriptionWithModuleDocstring(t *testing.T) {
	src := "# Header comment.\n\"\"\"Module purpose.\"\"\"\n\nx = 1\n"
	h := extractPython(src, "m.py", set("m.py"))
	want := "Header comment.\nModule purpose."
	if h.description != want {
		t.Fatalf("description=%q want=%q", h.description, want)
	}
}

func TestPythonSingleQuoteModuleDocstringIgnored(t *testing.T) {
	// Only double-quoted module docstrings count for the file description.
	src := "'''Not picked up.'''\n\nx = 1\n"
	h := extractPython(src, "m.py", set("m.py"))
	if h.description != "" {
		t.Fatalf("description=%q, want empty", h.description)
	}
}
