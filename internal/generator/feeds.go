package generator

import (
	"context"
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/posts"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	Author      string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

type feedDocument struct {
	Section string
	Items   []feedItem
}

// buildFeedDocuments produces one feed per section plus a site-wide feed
// keyed by the empty section name.
func (s *service) buildFeedDocuments(model *site.Site) []feedDocument {
	if model == nil || len(model.Posts) == 0 {
		return nil
	}

	byKey := map[string]*feedDocument{}
	appendItem := func(key string, post *posts.Post) {
		doc := byKey[key]
		if doc == nil {
			doc = &feedDocument{Section: key}
			byKey[key] = doc
		}
		doc.Items = append(doc.Items, s.feedItemForPost(post))
	}

	for _, post := range model.Posts {
		appendItem("", post)
		if post.Section != "" {
			appendItem(post.Section, post)
		}
	}

	docs := make([]feedDocument, 0, len(byKey))
	for _, doc := range byKey {
		sort.Slice(doc.Items, func(i, j int) bool {
			if doc.Items[i].PublishedAt.Equal(doc.Items[j].PublishedAt) {
				return doc.Items[i].GUID < doc.Items[j].GUID
			}
			return doc.Items[i].PublishedAt.After(doc.Items[j].PublishedAt)
		})
		if len(doc.Items) > maxFeedItems {
			doc.Items = append([]feedItem(nil), doc.Items[:maxFeedItems]...)
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Section < docs[j].Section
	})
	return docs
}

func (s *service) feedItemForPost(post *posts.Post) feedItem {
	summary := ""
	if post.Summary != nil {
		summary = strings.TrimSpace(*post.Summary)
	}
	author := ""
	if post.Author != nil {
		author = strings.TrimSpace(*post.Author)
	}
	updated := post.Lastmod
	if updated.IsZero() {
		updated = post.Date
	}
	return feedItem{
		Title:       post.Title,
		Summary:     summary,
		Link:        absoluteURL(s.cfg.BaseURL, post.Permalink()),
		GUID:        post.Section + ":" + post.Slug,
		Author:      author,
		PublishedAt: post.Date,
		UpdatedAt:   updated,
	}
}

func (s *service) writeFeeds(
	ctx context.Context,
	writer artifactWriter,
	model *site.Site,
	docs []feedDocument,
	generatedAt time.Time,
) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	total := 0
	for _, doc := range docs {
		if len(doc.Items) == 0 {
			continue
		}

		rssContent := buildRSSFeed(model, s.cfg.BaseURL, doc, generatedAt)
		atomContent := buildAtomFeed(model, s.cfg.BaseURL, doc, generatedAt)

		rssPath := "feed.xml"
		atomPath := "feed.atom.xml"
		if doc.Section != "" {
			rssPath = path.Join("feeds", doc.Section+".rss.xml")
			atomPath = path.Join("feeds", doc.Section+".atom.xml")
		}

		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:        rssPath,
			Content:     strings.NewReader(rssContent),
			Size:        int64(len(rssContent)),
			Section:     doc.Section,
			Category:    categoryFeed,
			ContentType: "application/rss+xml",
			Checksum:    computeHashFromString(rssContent),
		}); err != nil {
			return total, err
		}
		total++

		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:        atomPath,
			Content:     strings.NewReader(atomContent),
			Size:        int64(len(atomContent)),
			Section:     doc.Section,
			Category:    categoryFeed,
			ContentType: "application/atom+xml",
			Checksum:    computeHashFromString(atomContent),
		}); err != nil {
			return total, err
		}
		total++
	}
	return total, nil
}

func buildRSSFeed(model *site.Site, baseURL string, doc feedDocument, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(baseURL)
	title := feedTitle(model, doc.Section)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(model.Description)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range doc.Items {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">%s</guid>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if item.Author != "" {
			builder.WriteString(fmt.Sprintf("      <author>%s</author>\n", escapeXML(item.Author)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func buildAtomFeed(model *site.Site, baseURL string, doc feedDocument, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(baseURL)
	feedID := baseLink + "/feed.atom.xml"
	if doc.Section != "" {
		feedID = fmt.Sprintf("%s/feeds/%s.atom.xml", baseLink, doc.Section)
	}
	title := feedTitle(model, doc.Section)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(feedID)))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(title)))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", generatedAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(baseLink)))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(feedID)))
	for _, item := range doc.Items {
		updated := item.UpdatedAt
		if updated.IsZero() {
			updated = generatedAt
		}
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXMLAttr(item.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
		if !item.PublishedAt.IsZero() {
			builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		}
		if item.Author != "" {
			builder.WriteString(fmt.Sprintf("    <author><name>%s</name></author>\n", escapeXML(item.Author)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

func feedTitle(model *site.Site, section string) string {
	title := strings.TrimSpace(model.Title)
	if title == "" {
		title = "Blog Feed"
	}
	if section == "" {
		return title
	}
	return title + ": " + section
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(value)
}
