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
	if err := runNewPost(os.Args[1:]); err != nil {
		log.Fatalf("site newpost: %v", err)
	}
}

func runNewPost(args []string) error {
	fs := flag.NewFlagSet("site-newpost", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the Markdown content root")
	title := fs.String("title", "", "Title of the new post (required)")
	section := fs.String("section", "", "Section receiving the post (defaults to the configured default)")
	slug := fs.String("slug", "", "Explicit slug (derived from the title when empty)")
	tags := fs.String("tags", "", "Comma separated list of tags")
	draft := fs.Bool("draft", true, "Mark the new post as a draft")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Recursive:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	cmd := sitecmd.NewPostCommand{
		Title:   *title,
		Section: *section,
		Slug:    *slug,
		Tags:    bootstrap.SplitList(*tags),
		Draft:   *draft,
	}
	if err := module.Commands.NewPost.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute new post command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "post scaffold created")

	return nil
}
