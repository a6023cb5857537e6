package lint

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/shortcode/parser"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Config controls which rules run and how strict they are.
type Config struct {
	// SummaryMaxWords caps front matter summaries (0 disables the rule).
	SummaryMaxWords int
	// RequireDate promotes a missing date to an error.
	RequireDate bool
	// RequireSlug demands an explicit slug instead of one derived from the filename.
	RequireSlug bool
	// ValidateSchema runs the JSON schema check over raw front matter.
	ValidateSchema bool
	// DisabledRules lists rule names to skip.
	DisabledRules []string
	Logger        interfaces.Logger
}

// Linter verifies that documents satisfy the content contract before a build.
type Linter struct {
	docRules []Rule
	setRules []SetRule
	disabled map[string]struct{}
	logger   interfaces.Logger
}

// New constructs a linter with the rule set implied by cfg.
func New(cfg Config) (*Linter, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	docRules := []Rule{
		titleRule{},
		dateRule{required: cfg.RequireDate},
		slugRule{required: cfg.RequireSlug},
		summaryRule{maxWords: cfg.SummaryMaxWords},
		lastmodRule{},
		taxonomyRule{},
		noticeTodoRule{parser: parser.NewHugoParser()},
	}
	if cfg.ValidateSchema {
		schema, err := newSchemaRule()
		if err != nil {
			return nil, err
		}
		docRules = append(docRules, schema)
	}

	setRules := []SetRule{
		duplicateSlugRule{},
		aliasConflictRule{},
	}

	disabled := make(map[string]struct{}, len(cfg.DisabledRules))
	for _, name := range cfg.DisabledRules {
		disabled[strings.TrimSpace(strings.ToLower(name))] = struct{}{}
	}

	return &Linter{
		docRules: docRules,
		setRules: setRules,
		disabled: disabled,
		logger:   logger,
	}, nil
}

// Lint runs every enabled rule over the documents and returns the findings
// sorted by path then rule name.
func (l *Linter) Lint(ctx context.Context, docs []*interfaces.Document) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	report := &Report{Documents: len(docs)}

	for _, doc := range docs {
		for _, rule := range l.docRules {
			if l.skipped(rule.Name()) {
				continue
			}
			report.Issues = append(report.Issues, rule.Check(doc)...)
		}
	}

	for _, rule := range l.setRules {
		if l.skipped(rule.Name()) {
			continue
		}
		report.Issues = append(report.Issues, rule.CheckSet(docs)...)
	}

	sort.Slice(report.Issues, func(i, j int) bool {
		if report.Issues[i].Path != report.Issues[j].Path {
			return report.Issues[i].Path < report.Issues[j].Path
		}
		return report.Issues[i].Rule < report.Issues[j].Rule
	})

	logging.WithFields(l.logger, map[string]any{
		"operation": "lint.run",
		"documents": len(docs),
		"errors":    report.Errors(),
		"warnings":  report.Warnings(),
	}).Info("lint.completed")

	return report, nil
}

func (l *Linter) skipped(name string) bool {
	_, ok := l.disabled[strings.ToLower(name)]
	return ok
}
