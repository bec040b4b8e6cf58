package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"reposcope/internal/analyzer"
)

func main() {
	root := flag.String("root", "", "path to the repository checkout")
	format := flag.String("format", "json", "output format: json or prompt")
	out := flag.String("out", "", "write the model to a file instead of stdout")
	readme := flag.Bool("readme", false, "report the readme path and exit")
	flag.Parse()
	if *root == "" {
		log.Fatal("--root is required")
	}

	if *readme {
		rel, ok := analyzer.FindReadme(*root)
		if !ok {
			log.Fatal("no readme found")
		}
		fmt.Println(rel)
		return
	}

	repo, err := analyzer.Build(*root)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("scanned %d files in %s", len(repo.Readme)+len(repo.Files)+len(repo.PackageFiles), *root)

	var output []byte
	switch *format {
	case "json":
		output, err = json.MarshalIndent(repo, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		output = append(output, '\n')
	case "prompt":
		output = []byte(repo.ToPrompt() + "\n")
	default:
		log.Fatalf("unknown format %q", *format)
	}

	if *out == "" {
		os.Stdout.Write(output)
		return
	}
	if err := os.WriteFile(*out, output, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Println("model written →", *out)
}
