package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Hugo content uses two delimiter families: {{< name >}} substitutes raw HTML
// output, while {{% name %}} marks output that flows back through the Markdown
// renderer. Both support paired closing tags ({{< /name >}}, {{% /name %}}).
var (
	angleStartPattern   = regexp.MustCompile(`{{<\s*([^\s/>]+)([^>]*)>}}`)
	angleEndPattern     = regexp.MustCompile(`{{<\s*/\s*([^\s>]+)\s*>}}`)
	percentStartPattern = regexp.MustCompile(`{{%\s*([^\s/%]+)([^%]*)%}}`)
	percentEndPattern   = regexp.MustCompile(`{{%\s*/\s*([^\s%]+)\s*%}}`)
)

// HugoParser parses Hugo-style shortcodes in both delimiter styles.
type HugoParser struct {
}

// NewHugoParser creates a parser instance.
func NewHugoParser() *HugoParser {
	return &HugoParser{}
}

// Parse returns the list of parsed shortcodes in the content.
func (p *HugoParser) Parse(content string) ([]interfaces.ParsedShortcode, error) {
	_, shortcodes, err := p.Extract(content)
	return shortcodes, err
}

type tagMatch struct {
	start   int
	end     int
	name    string
	params  string
	percent bool
}

func findEarliest(content string, offset int, angle, percent *regexp.Regexp) *tagMatch {
	var best *tagMatch

	if loc := angle.FindStringSubmatchIndex(content[offset:]); loc != nil {
		best = &tagMatch{
			start:   offset + loc[0],
			end:     offset + loc[1],
			name:    content[offset+loc[2] : offset+loc[3]],
			percent: false,
		}
		if len(loc) > 5 && loc[4] >= 0 {
			best.params = content[offset+loc[4] : offset+loc[5]]
		}
	}

	if loc := percent.FindStringSubmatchIndex(content[offset:]); loc != nil {
		candidate := &tagMatch{
			start:   offset + loc[0],
			end:     offset + loc[1],
			name:    content[offset+loc[2] : offset+loc[3]],
			percent: true,
		}
		if len(loc) > 5 && loc[4] >= 0 {
			candidate.params = content[offset+loc[4] : offset+loc[5]]
		}
		if best == nil || candidate.start < best.start {
			best = candidate
		}
	}

	return best
}

// Extract replaces shortcodes with placeholders and returns both the
// transformed content and the extracted invocations in placeholder order.
func (p *HugoParser) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	type stackEntry struct {
		name       string
		startIndex int
		params     map[string]any
		percent    bool
	}

	var (
		result     []rune
		shortcodes []interfaces.ParsedShortcode
		stack      []stackEntry
		position   int
	)

	appendString := func(s string) {
		result = append(result, []rune(s)...)
	}

	for position < len(content) {
		start := findEarliest(content, position, angleStartPattern, percentStartPattern)
		end := findEarliest(content, position, angleEndPattern, percentEndPattern)

		if start == nil && end == nil {
			appendString(content[position:])
			break
		}

		if start != nil && (end == nil || start.start < end.start) {
			appendString(content[position:start.start])

			params := parseParams(strings.TrimSpace(start.params))

			// A start tag without a matching close tag is self-closing.
			remainder := content[start.end:]
			if !hasClosingTag(remainder, start.name, start.percent) {
				placeholder := fmt.Sprintf("<!-- shortcode:%d -->", len(shortcodes))
				appendString(placeholder)
				shortcodes = append(shortcodes, interfaces.ParsedShortcode{
					Name:    start.name,
					Percent: start.percent,
					Params:  params,
				})
				position = start.end
				continue
			}

			stack = append(stack, stackEntry{
				name:       start.name,
				startIndex: len(result),
				params:     params,
				percent:    start.percent,
			})

			position = start.end
			continue
		}

		if end != nil {
			appendString(content[position:end.start])

			if len(stack) == 0 {
				return "", nil, fmt.Errorf("unexpected closing shortcode %s at position %d", end.name, end.start)
			}

			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if entry.name != end.name {
				return "", nil, fmt.Errorf("mismatched shortcode end tag %s, expected %s", end.name, entry.name)
			}
			if entry.percent != end.percent {
				return "", nil, fmt.Errorf("shortcode %s closed with mismatched delimiters", end.name)
			}

			inner := string(result[entry.startIndex:])
			result = result[:entry.startIndex]

			placeholder := fmt.Sprintf("<!-- shortcode:%d -->", len(shortcodes))
			appendString(placeholder)

			shortcodes = append(shortcodes, interfaces.ParsedShortcode{
				Name:    end.name,
				Percent: entry.percent,
				Params:  entry.params,
				Inner:   inner,
			})

			position = end.end
			continue
		}
	}

	if len(stack) > 0 {
		return "", nil, fmt.Errorf("unterminated shortcode %s", stack[len(stack)-1].name)
	}

	return string(result), shortcodes, nil
}

func hasClosingTag(content, name string, percent bool) bool {
	var matcher *regexp.Regexp
	if percent {
		matcher = regexp.MustCompile(fmt.Sprintf(`{{%%\s*/\s*%s\s*%%}}`, regexp.QuoteMeta(name)))
	} else {
		matcher = regexp.MustCompile(fmt.Sprintf(`{{<\s*/\s*%s\s*>}}`, regexp.QuoteMeta(name)))
	}
	return matcher.FindStringIndex(content) != nil
}

func parseParams(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	parts := splitArgs(raw)
	params := make(map[string]any, len(parts))
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			key := strings.TrimSpace(kv[0])
			value := strings.Trim(kv[1], `"`)
			params[key] = value
		} else {
			params[fmt.Sprintf("param%d", len(params)+1)] = strings.Trim(part, `"`)
		}
	}
	return params
}

// splitArgs tokenises a parameter string, keeping double-quoted values with
// embedded spaces as a single token.
func splitArgs(raw string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
	)

	flush := func() {
		if current.Len() > 0 {
			args = append(args, current.String())
			current.Reset()
		}
	}

	for _, r := range raw {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return args
}
