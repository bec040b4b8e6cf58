package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func allNames(t *testing.T, root string) []string {
	t.Helper()
	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var names []string
	for _, f := range repo.Readme {
		names = append(names, f.Name)
	}
	for _, f := range repo.Files {
		names = append(names, f.Name)
	}
	for _, f := range repo.PackageFiles {
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}

func TestBuildExcludesDeniedDirectories(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.py", "print('hi')\n")
	write(t, root, "node_modules/lib/x.js", "console.log(1)\n")
	write(t, root, ".git/config.txt", "noise\n")
	write(t, root, "tests/check.py", "assert True\n")
	write(t, root, "Examples/demo.py", "demo\n")

	got := allNames(t, root)
	want := []string{"main.py"}
	if !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestBuildDocsGetNoExtraction(t *testing.T) {
	root := t.TempDir()
	write(t, root, "notes.txt", "import os\ndef f():\n")
	write(t, root, "guide.md", "# import-like line\n")

	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, f := range repo.Files {
		if len(f.Imports) != 0 || len(f.Functions) != 0 {
			t.Fatalf("%s should carry no extraction results: %+v", f.Name, f)
		}
	}
	if repo.Files[0].NumberOfLines == 0 {
		t.Fatal("doc files still get line counts")
	}
}

func TestBuildManifestsLandInPackageFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", "{}\n")
	write(t, root, "pyproject.toml", "[tool]\n")
	write(t, root, "requirements.txt", "flask\n")
	write(t, root, "poetry.lock", "lock\n")
	write(t, root, "app.py", "x = 1\n")

	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var pkg []string
	for _, f := range repo.PackageFiles {
		pkg = append(pkg, f.Name)
	}
	slices.Sort(pkg)
	want := []string{"package.json", "poetry.lock", "pyproject.toml", "requirements.txt"}
	if !slices.Equal(pkg, want) {
		t.Fatalf("package_files=%v want=%v", pkg, want)
	}
	for _, f := range repo.Files {
		if _, manifest := manifestNames[f.Name]; manifest {
			t.Fatalf("%s leaked into the regular bucket", f.Name)
		}
	}
}

func TestBuildReadmeAndMainScenario(t *testing.T) {
	root := t.TempDir()
	write(t, root, "README.md", "# hello\n")
	write(t, root, "main.py", "print('hi')\n")

	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(repo.Readme) != 1 || repo.Readme[0].Name != "README.md" {
		t.Fatalf("readme bucket = %+v", repo.Readme)
	}
	if len(repo.Files) != 1 || repo.Files[0].Name != "main.py" {
		t.Fatalf("files bucket = %+v", repo.Files)
	}
	if len(repo.PackageFiles) != 0 {
		t.Fatalf("package_files should be empty, got %+v", repo.PackageFiles)
	}
	if len(repo.Files[0].Functions) != 0 {
		t.Fatalf("main.py should have no functions, got %+v", repo.Files[0].Functions)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/a.py", "from . import b\n\ndef go(x):\n    return x\n")
	write(t, root, "src/b.py", "VALUE = 2\n")
	write(t, root, "README.md", "# readme\n")

	first, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(root)
	if err != nil {
		t.Fatalf("Build again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("models differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestBuildRecordsDirectoryNames(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/a.py", "x = 1\n")
	write(t, root, "src/sub/b.py", "y = 2\n")
	write(t, root, "lib/sub/c.py", "z = 3\n")
	write(t, root, "node_modules/d.js", "skip\n")

	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := append([]string(nil), repo.Directories...)
	slices.Sort(got)
	// Names, not paths; the two "sub" directories collapse to one entry.
	want := []string{"lib", "src", "sub"}
	if !slices.Equal(got, want) {
		t.Fatalf("directories=%v want=%v", got, want)
	}
}

func TestBuildDegradesUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	bad := filepath.Join(root, "bad.py")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0x00, 0x41}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	write(t, root, "good.py", "def ok(a):\n    return a\n")

	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var seen bool
	for _, f := range repo.Files {
		if f.Name != "bad.py" {
			continue
		}
		seen = true
		if f.NumberOfLines != 0 || len(f.Functions) != 0 || len(f.Imports) != 0 || f.Description != "" {
			t.Fatalf("bad.py should degrade to a zero record, got %+v", f)
		}
	}
	if !seen {
		t.Fatal("bad.py must still be recorded")
	}
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestBuildHydratesJavaScript(t *testing.T) {
	root := t.TempDir()
	write(t, root, "app.js", "function greet(name) {\n  return name;\n}\n")

	repo, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(repo.Files) != 1 || len(repo.Files[0].Functions) != 1 {
		t.Fatalf("js file not hydrated: %+v", repo.Files)
	}
	if repo.Files[0].Functions[0].Name != "greet" {
		t.Fatalf("function = %+v", repo.Files[0].Functions[0])
	}
}

func TestBuildTestPrefixVeto(t *testing.T) {
	root := t.TempDir()
	write(t, root, "test_util.py", "x = 1\n")
	write(t, root, "Test_util.py", "y = 2\n")
	write(t, root, "util.py", "z = 3\n")

	got := allNames(t, root)
	want := []string{"Test_util.py", "util.py"}
	if !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abc\n", 1},
		{"abc\ndef", 2},
		{"abc\n\n", 2},
	}
	for _, c := range cases {
		if got := countLines([]byte(c.in)); got != c.want {
			t.Fatalf("countLines(%q)=%d want=%d", c.in, got, c.want)
		}
	}
}

func TestFindReadme(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/readme.rst", "doc\n")
	write(t, root, "zz.py", "x = 1\n")

	got, ok := FindReadme(root)
	if !ok || got != "docs/readme.rst" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}

func TestFindReadmeIgnoresNoExclusions(t *testing.T) {
	root := t.TempDir()
	write(t, root, "node_modules/pkg/README.md", "vendored\n")

	got, ok := FindReadme(root)
	if !ok || got != "node_modules/pkg/README.md" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}

func TestFindReadmeMissing(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.py", "x = 1\n")

	if got, ok := FindReadme(root); ok {
		t.Fatalf("expected no readme, got %q", got)
	}
}
