package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/site/internal/bootstrap"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("site build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("site-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the Markdown content root")
	staticDir := fs.String("static-dir", "static", "Path to static assets copied into the output")
	outputDir := fs.String("output-dir", "public", "Directory receiving the rendered site")
	baseURL := fs.String("base-url", "", "Canonical base URL for absolute links (required)")
	title := fs.String("title", "", "Site title used by templates and feeds")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering Markdown files")
	sections := fs.String("sections", "", "Comma separated list of sections to build (defaults to all)")
	drafts := fs.Bool("drafts", false, "Include draft posts in the build")
	future := fs.Bool("future", false, "Include future-dated posts in the build")
	clean := fs.Bool("clean", false, "Remove the output directory before building")
	dryRun := fs.Bool("dry-run", false, "Render without writing any output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		StaticDir:  *staticDir,
		Pattern:    *pattern,
		Recursive:  true,
		Title:      *title,
		BaseURL:    *baseURL,
		OutputDir:  *outputDir,
		Generator:  true,
		Drafts:     *drafts,
		Future:     *future,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	cmd := sitecmd.BuildSiteCommand{
		Sections:      bootstrap.SplitList(*sections),
		DryRun:        *dryRun,
		Clean:         *clean,
		IncludeDrafts: *drafts,
		IncludeFuture: *future,
	}
	if err := module.Commands.Build.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "site build completed")

	return nil
}
