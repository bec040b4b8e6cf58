package analyzer

import (
	"slices"
	"strings"
	"testing"
)

func TestTSRelativeProbeOrder(t *testing.T) {
	src := "import { y } from \"./y\"\n"
	h := extractTypeScript(src, "src/x.ts", set("src/x.ts", "src/y.tsx"))
	want := []string{"src/y.tsx"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}

	h = extractTypeScript(src, "src/x.ts", set("src/x.ts", "src/y.ts", "src/y.tsx"))
	want = []string{"src/y.ts"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf(".ts must win over .tsx, got %v", h.deps)
	}
}

func TestTSIndexResolution(t *testing.T) {
	src := "import lib from './lib'\n"
	h := extractTypeScript(src, "src/a.ts", set("src/a.ts", "src/lib/index.tsx"))
	want := []string{"src/lib/index.tsx"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
}

func TestTSEscapingSpecifierDropped(t *testing.T) {
	src := "import shared from '../../shared'\n"
	h := extractTypeScript(src, "src/a.ts", set("src/a.ts"))
	if len(h.deps) != 0 {
		t.Fatalf("escaping specifier should resolve to nothing, got %v", h.deps)
	}
}

func TestTSPackageImportNoDependency(t *testing.T) {
	src := "import React from 'react'\nimport { api } from './api'\n"
	h := extractTypeScript(src, "src/a.ts", set("src/a.ts", "src/api.ts"))
	want := []string{"src/api.ts"}
	if !slices.Equal(h.deps, want) {
		t.Fatalf("deps=%v want=%v", h.deps, want)
	}
	if len(h.imports) != 2 {
		t.Fatalf("imports=%v", h.imports)
	}
}

func TestTSFunctionDeclarationShapes(t *testing.T) {
	src := strings.Join([]string{
		"function plain(a, b) {",
		"export function shared(x) {",
		"export async function load() {",
	}, "\n") + "\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))

	var names []string
	for _, fn := range h.functions {
		names = append(names, fn.Name)
	}
	want := []string{"plain", "shared", "load"}
	if !slices.Equal(names, want) {
		t.Fatalf("names=%v want=%v", names, want)
	}
	if h.functions[0].Arguments != "a, b" {
		t.Fatalf("arguments=%q", h.functions[0].Arguments)
	}
}

func TestTSArrowShapes(t *testing.T) {
	src := strings.Join([]string{
		"const one = (a) => a",
		"let two = (b, c) => b + c",
		"var three = () => 3",
		"export const four = async (d) => d",
	}, "\n") + "\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))

	if len(h.functions) != 4 {
		t.Fatalf("functions=%+v", h.functions)
	}
	if h.functions[1].Name != "two" || h.functions[1].Arguments != "b, c" {
		t.Fatalf("got %+v", h.functions[1])
	}
	if h.functions[3].Name != "four" || h.functions[3].Arguments != "d" {
		t.Fatalf("async arrow args, got %+v", h.functions[3])
	}
}

func TestTSControlFlowNotCaptured(t *testing.T) {
	src := "if (x) {\nfor (let i = 0; i < n; i++) {\nwhile (ok) {\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))
	if len(h.functions) != 0 {
		t.Fatalf("control flow captured as functions: %+v", h.functions)
	}
}

func TestTSIdentifierStartingWithKeywordCaptured(t *testing.T) {
	src := "iffy(x) {\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))
	if len(h.functions) != 1 || h.functions[0].Name != "iffy" {
		t.Fatalf("got %+v", h.functions)
	}
}

func TestTSMethodShape(t *testing.T) {
	src := "class Store {\n  async save(item) {\n  }\n}\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))
	if len(h.functions) != 1 || h.functions[0].Name != "save" || h.functions[0].Arguments != "item" {
		t.Fatalf("got %+v", h.functions)
	}
}

func TestTSJSDocAttachesToNextDeclaration(t *testing.T) {
	src := strings.Join([]string{
		"/**",
		" * Greets a user.",
		" */",
		"export function greet(name) {",
		"}",
	}, "\n") + "\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))

	if len(h.functions) != 1 {
		t.Fatalf("functions=%+v", h.functions)
	}
	desc := h.functions[0].Description
	if !strings.HasPrefix(desc, "/**") || !strings.Contains(desc, "Greets a user.") {
		t.Fatalf("description=%q", desc)
	}
}

func TestTSFileDescriptionLineComments(t *testing.T) {
	src := "// API client.\n// Talks to the backend.\n\nexport const x = 1\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))
	want := "API client.\nTalks to the backend."
	if h.description != want {
		t.Fatalf("description=%q want=%q", h.description, want)
	}
}

func TestTSFileDescriptionBlockComment(t *testing.T) {
	src := "/* Session helpers */\nconst x = 1\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))
	if h.description != "Session helpers" {
		t.Fatalf("description=%q", h.description)
	}
}

func TestTSFileDescriptionStopsAtCode(t *testing.T) {
	src := "const x = 1\n// trailing comment\n"
	h := extractTypeScript(src, "a.ts", set("a.ts"))
	if h.description != "" {
		t.Fatalf("description=%q, want empty", h.description)
	}
}
