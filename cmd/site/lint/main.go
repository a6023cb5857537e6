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
	if err := runLint(os.Args[1:]); err != nil {
		log.Fatalf("site lint: %v", err)
	}
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("site-lint", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the Markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering Markdown files")
	failOnWarnings := fs.Bool("fail-on-warnings", false, "Treat warnings as failures")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:     *contentDir,
		Pattern:        *pattern,
		Recursive:      true,
		FailOnWarnings: *failOnWarnings,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	cmd := sitecmd.LintSiteCommand{
		FailOnWarnings: *failOnWarnings,
	}
	if err := module.Commands.Lint.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute lint command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "content lint passed")

	return nil
}
