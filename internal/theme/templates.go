package theme

// Built-in templates cover the page kinds a blog build produces. Sites that
// want their own markup override any of these by name through Config.Dir.
const (
	TemplatePost     = "post.html"
	TemplateList     = "list.html"
	TemplateIndex    = "index.html"
	TemplateTerm     = "term.html"
	TemplateRedirect = "redirect.html"
)

var builtInTemplates = map[string]string{
	TemplatePost: `<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
  <meta charset="utf-8">
  <title>{{ .Post.Title }} | {{ .Site.Title }}</title>
  {{- if .Post.Summary }}
  <meta name="description" content="{{ deref .Post.Summary }}">
  {{- end }}
  <link rel="canonical" href="{{ absURL .Post.Permalink }}">
</head>
<body>
  <header><a href="/">{{ .Site.Title }}</a></header>
  <main>
    <article>
      <h1>{{ .Post.Title }}</h1>
      <p class="meta">
        <time datetime="{{ .Post.Date.Format "2006-01-02" }}">{{ .Post.Date.Format "January 2, 2006" }}</time>
        {{- if .Post.Author }} · {{ deref .Post.Author }}{{ end }}
        · {{ .Post.ReadingTime }} min read
      </p>
      {{ safeHTML .Post.BodyHTML }}
      {{- if .Post.Tags }}
      <ul class="tags">
        {{- range .Post.Tags }}
        <li><a href="{{ termURL "tags" . }}">{{ . }}</a></li>
        {{- end }}
      </ul>
      {{- end }}
    </article>
    <nav class="pagination">
      {{- if .Prev }}<a rel="prev" href="{{ .Prev.Permalink }}">&larr; {{ .Prev.Title }}</a>{{ end }}
      {{- if .Next }}<a rel="next" href="{{ .Next.Permalink }}">{{ .Next.Title }} &rarr;</a>{{ end }}
    </nav>
    {{- if .Related }}
    <aside class="related">
      <h2>Related</h2>
      <ul>
        {{- range .Related }}
        <li><a href="{{ .Permalink }}">{{ .Title }}</a></li>
        {{- end }}
      </ul>
    </aside>
    {{- end }}
  </main>
</body>
</html>
`,
	TemplateList: `<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
  <meta charset="utf-8">
  <title>{{ .Section | title }} | {{ .Site.Title }}</title>
</head>
<body>
  <header><a href="/">{{ .Site.Title }}</a></header>
  <main>
    <h1>{{ .Section | title }}</h1>
    <ul class="post-list">
      {{- range .Posts }}
      <li>
        <time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "2006-01-02" }}</time>
        <a href="{{ .Permalink }}">{{ .Title }}</a>
      </li>
      {{- end }}
    </ul>
  </main>
</body>
</html>
`,
	TemplateIndex: `<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
  <meta charset="utf-8">
  <title>{{ .Site.Title }}</title>
  {{- if .Site.Description }}
  <meta name="description" content="{{ .Site.Description }}">
  {{- end }}
</head>
<body>
  <header><h1>{{ .Site.Title }}</h1></header>
  <main>
    <ul class="post-list">
      {{- range .Posts }}
      <li>
        <time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "2006-01-02" }}</time>
        <a href="{{ .Permalink }}">{{ .Title }}</a>
        {{- if .Summary }}
        <p>{{ deref .Summary }}</p>
        {{- end }}
      </li>
      {{- end }}
    </ul>
  </main>
</body>
</html>
`,
	TemplateTerm: `<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
  <meta charset="utf-8">
  <title>{{ .Term.Name }} | {{ .Site.Title }}</title>
</head>
<body>
  <header><a href="/">{{ .Site.Title }}</a></header>
  <main>
    <h1>{{ .Term.Taxonomy | title }}: {{ .Term.Name }}</h1>
    <ul class="post-list">
      {{- range .Posts }}
      <li><a href="{{ .Permalink }}">{{ .Title }}</a></li>
      {{- end }}
    </ul>
  </main>
</body>
</html>
`,
	TemplateRedirect: `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Target }}</title>
  <link rel="canonical" href="{{ .Target }}">
  <meta http-equiv="refresh" content="0; url={{ .Target }}">
</head>
<body>
  <a href="{{ .Target }}">Moved here</a>
</body>
</html>
`,
}
