package parser_test

import (
	"testing"

	"intelwatch/internal/domain/entity"
	"intelwatch/internal/infra/parser"
)

var pageSource = entity.SourceConfig{
	Name:    "Example News",
	Tier:    entity.TierMarket,
	PageURL: "https://news.example.com/latest",
	Selectors: &entity.Selectors{
		Article: "div.post",
		Title:   "h2.headline",
		Link:    "a.permalink",
		Date:    "time",
	},
}

func TestHTMLParser_Parse_ExtractsArticles(t *testing.T) {
	page := `<html><body>
<div class="post">
  <h2 class="headline">New analytics dashboard launched</h2>
  <a class="permalink" href="/posts/analytics-dashboard">Read more</a>
  <time datetime="2025-06-02T09:00:00Z">June 2</time>
</div>
<div class="post">
  <h2 class="headline">Pricing changes coming in July</h2>
  <a class="permalink" href="https://news.example.com/posts/pricing">Read more</a>
  <time>2025-06-03</time>
</div>
</body></html>`

	p := parser.NewHTMLParser()
	articles, err := p.Parse([]byte(page), pageSource)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles length = %d, want 2", len(articles))
	}

	// Relative links resolve against the page URL.
	if got := articles[0].URL; got != "https://news.example.com/posts/analytics-dashboard" {
		t.Errorf("articles[0].URL = %q, want resolved absolute URL", got)
	}
	if got := articles[1].URL; got != "https://news.example.com/posts/pricing" {
		t.Errorf("articles[1].URL = %q", got)
	}

	if !articles[0].HasPublishedAt() {
		t.Error("datetime attribute not parsed")
	}
	if !articles[1].HasPublishedAt() {
		t.Error("date text not parsed")
	}
	if articles[0].Method != entity.MethodHTML {
		t.Errorf("Method = %q, want %q", articles[0].Method, entity.MethodHTML)
	}
}

func TestHTMLParser_Parse_SkipsIncompleteContainers(t *testing.T) {
	page := `<html><body>
<div class="post">
  <h2 class="headline"></h2>
  <a class="permalink" href="/no-title">x</a>
</div>
<div class="post">
  <h2 class="headline">A post without any link</h2>
</div>
<div class="post">
  <h2 class="headline">The only complete post on the page</h2>
  <a class="permalink" href="/complete">x</a>
</div>
</body></html>`

	p := parser.NewHTMLParser()
	articles, err := p.Parse([]byte(page), pageSource)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles length = %d, want 1", len(articles))
	}
	if articles[0].Title != "The only complete post on the page" {
		t.Errorf("Title = %q", articles[0].Title)
	}
}

func TestHTMLParser_Parse_BadDateKeepsArticle(t *testing.T) {
	page := `<html><body>
<div class="post">
  <h2 class="headline">A post with a broken timestamp</h2>
  <a class="permalink" href="/broken">x</a>
  <time>last Tuesday-ish</time>
</div>
</body></html>`

	p := parser.NewHTMLParser()
	articles, err := p.Parse([]byte(page), pageSource)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles length = %d, want 1", len(articles))
	}
	if articles[0].HasPublishedAt() {
		t.Error("unparseable date should leave a zero timestamp")
	}
}

func TestHTMLParser_Parse_DefaultSelectors(t *testing.T) {
	src := entity.SourceConfig{
		Name:    "Defaults",
		PageURL: "https://example.org/news",
		Selectors: &entity.Selectors{
			Article: "article",
		},
	}
	page := `<html><body>
<article>
  <h2>Default selector extraction works</h2>
  <a href="/works">link</a>
  <time datetime="2025-06-01">June 1</time>
</article>
</body></html>`

	p := parser.NewHTMLParser()
	articles, err := p.Parse([]byte(page), src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles length = %d, want 1", len(articles))
	}
	if articles[0].URL != "https://example.org/works" {
		t.Errorf("URL = %q", articles[0].URL)
	}
}

func TestHTMLParser_Parse_NoMatchesIsEmptyNotError(t *testing.T) {
	p := parser.NewHTMLParser()
	articles, err := p.Parse([]byte("<html><body><p>nothing here</p></body></html>"), pageSource)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("articles length = %d, want 0", len(articles))
	}
}
