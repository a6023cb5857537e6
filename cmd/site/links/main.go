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
	if err := runLinks(os.Args[1:]); err != nil {
		log.Fatalf("site links: %v", err)
	}
}

func runLinks(args []string) error {
	fs := flag.NewFlagSet("site-links", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the Markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering Markdown files")
	includeExternal := fs.Bool("include-external", false, "Inventory external destinations in the report")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	cmd := sitecmd.CheckLinksCommand{
		IncludeExternal: *includeExternal,
	}
	if err := module.Commands.Links.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute link check command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "link check passed")

	return nil
}
