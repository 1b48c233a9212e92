package report

import (
	"fmt"
	htmltemplate "html/template"
	"os"
	texttemplate "text/template"
	"time"

	"intelwatch/internal/domain/entity"
)

var templateFuncs = map[string]any{
	"datefmt": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	},
	"method": func(m entity.FetchMethod) string {
		if m == entity.MethodNone {
			return "none"
		}
		return string(m)
	},
}

const markdownTemplate = `# Competitive Intelligence Digest

Generated: {{.GeneratedAt}}
Run: {{.Run.RunID}}

**{{.Run.TotalArticles}} articles** from {{.Run.SourcesSucceeded}}/{{.Run.SourcesAttempted}} sources in {{.Run.DurationMS}}ms.
{{range .Tiers}}
## {{.Label}}
{{range .Articles}}
### [{{.Title}}]({{.URL}})

*{{.Source}}{{with datefmt .PublishedAt}} | {{.}}{{end}}*
{{with .Summary}}
{{.}}
{{end}}{{end}}{{end}}
## Source Status

| Source | Method | Articles | Status | Duration |
|--------|--------|----------|--------|----------|
{{range .Run.Sources}}| {{.Source}} | {{method .Method}} | {{.ArticleCount}} | {{if .Success}}ok{{else}}failed{{end}} | {{.DurationMS}}ms |
{{end}}{{range .Run.Sources}}{{if .Error}}- {{.Source}}: {{.ErrorCategory}}: {{.Error}}
{{end}}{{end}}`

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Competitive Intelligence Digest</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
h1 { border-bottom: 2px solid #ddd; padding-bottom: .5rem; }
h2 { margin-top: 2rem; color: #333; }
.meta { color: #666; font-size: .9rem; }
.article { margin: 1rem 0; padding: .75rem 1rem; border-left: 3px solid #4a7; background: #fafafa; }
.article .src { color: #666; font-size: .85rem; }
.failed { color: #b33; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #eee; font-size: .9rem; }
</style>
</head>
<body>
<h1>Competitive Intelligence Digest</h1>
<p class="meta">Generated {{.GeneratedAt}} | run {{.Run.RunID}} | {{.Run.TotalArticles}} articles from {{.Run.SourcesSucceeded}}/{{.Run.SourcesAttempted}} sources</p>
{{range .Tiers}}
<h2>{{.Label}}</h2>
{{range .Articles}}
<div class="article">
<a href="{{.URL}}">{{.Title}}</a>
<div class="src">{{.Source}}{{with datefmt .PublishedAt}} | {{.}}{{end}}</div>
{{with .Summary}}<p>{{.}}</p>{{end}}
</div>
{{end}}{{end}}
<h2>Source Status</h2>
<table>
<tr><th>Source</th><th>Method</th><th>Articles</th><th>Status</th><th>Duration</th></tr>
{{range .Run.Sources}}<tr><td>{{.Source}}</td><td>{{method .Method}}</td><td>{{.ArticleCount}}</td><td>{{if .Success}}ok{{else}}<span class="failed">failed</span>{{end}}</td><td>{{.DurationMS}}ms</td></tr>
{{end}}</table>
</body>
</html>
`

var (
	markdownTmpl = texttemplate.Must(
		texttemplate.New("markdown").Funcs(templateFuncs).Parse(markdownTemplate))
	htmlTmpl = htmltemplate.Must(
		htmltemplate.New("html").Funcs(templateFuncs).Parse(htmlTemplate))
)

// writeMarkdown renders the human-readable digest.
func (w *Writer) writeMarkdown(path string, view reportView) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create markdown report: %w", err)
	}
	defer f.Close()

	if err := markdownTmpl.Execute(f, view); err != nil {
		return fmt.Errorf("render markdown report: %w", err)
	}
	return nil
}

// writeHTML renders the standalone dashboard page.
func (w *Writer) writeHTML(path string, view reportView) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html report: %w", err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, view); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
