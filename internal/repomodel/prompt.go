package repomodel

import (
	"fmt"
	"strings"
)

// ToPrompt renders the function as a compact tagged fragment for model input.
func (fn Function) ToPrompt() string {
	return fmt.Sprintf("<Function><Name>%s</Name><Arguments>%s</Arguments><Description>%s</Description></Function>",
		fn.Name, fn.Arguments, fn.Description)
}

// ToPrompt renders the file with its imports and extracted functions.
func (f File) ToPrompt() string {
	var b strings.Builder
	b.WriteString("<File>")
	fmt.Fprintf(&b, "<Name>%s</Name>", f.Name)
	fmt.Fprintf(&b, "<Description>%s</Description>", f.Description)
	fmt.Fprintf(&b, "<Imports>%s</Imports>", strings.Join(f.Imports, "\n"))
	b.WriteString("<Functions>")
	for i, fn := range f.Functions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(fn.ToPrompt())
	}
	b.WriteString("</Functions>")
	b.WriteString("</File>")
	return b.String()
}

// ToPrompt renders the whole repository model as the context block handed to
// the agents.
func (r *Repo) ToPrompt() string {
	var b strings.Builder
	b.WriteString("<Repo>")
	b.WriteString("<Readme>")
	writeFilePrompts(&b, r.Readme)
	b.WriteString("</Readme>")
	fmt.Fprintf(&b, "<Directories>%s</Directories>", strings.Join(r.Directories, ", "))
	b.WriteString("<Files>")
	writeFilePrompts(&b, r.Files)
	b.WriteString("</Files>")
	b.WriteString("<PackageFiles>")
	writeFilePrompts(&b, r.PackageFiles)
	b.WriteString("</PackageFiles>")
	b.WriteString("</Repo>")
	return b.String()
}

func writeFilePrompts(b *strings.Builder, files []File) {
	for i, f := range files {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.ToPrompt())
	}
}
