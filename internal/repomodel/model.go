// Package repomodel defines the analyzable shape of a repository: the files,
// functions, imports and directories the scanner extracts, plus helpers the
// agents use to pull raw source back out of a checkout on demand.
package repomodel

// Function is one extracted function or method signature.
type Function struct {
	Name        string `json:"name"`
	Arguments   string `json:"arguments"`
	Description string `json:"description,omitempty"`
}

// File is one analyzed source or documentation file. Name is the path
// relative to the repository root with forward slashes; LocalPath is the
// absolute path used for on-demand re-reads after the scan.
type File struct {
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	NumberOfLines int        `json:"number_of_lines"`
	LocalPath     string     `json:"local_path"`
	Imports       []string   `json:"imports"`
	Functions     []Function `json:"functions"`
	Dependencies  []string   `json:"dependencies"`
}

// Repo is the full model of one scanned repository. The three file buckets
// partition the discovered set: readme files, package manifests, and
// everything else. Directories holds directory names (not paths) in
// first-encounter walk order.
type Repo struct {
	Readme       []File   `json:"readme"`
	Files        []File   `json:"files"`
	PackageFiles []File   `json:"package_files"`
	Directories  []string `json:"directories"`
}

// Lookup finds a file by its repo-relative name across all three buckets.
func (r *Repo) Lookup(name string) (File, bool) {
	for _, bucket := range [][]File{r.Files, r.PackageFiles, r.Readme} {
		for _, f := range bucket {
			if f.Name == name {
				return f, true
			}
		}
	}
	return File{}, false
}
