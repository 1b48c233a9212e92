package parser

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"intelwatch/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Default selectors mirror the most common article markup; per-source
// selectors in the configuration override them.
const (
	defaultTitleSelector = "h2"
	defaultLinkSelector  = "a"
	defaultDateSelector  = "time"
)

// HTMLParser extracts candidate articles from an HTML document using the
// source's configured CSS selectors. It is the fallback path used when a
// source has no feed, the feed failed, or the feed produced nothing valid.
// HTMLParser is stateless and safe for concurrent use.
type HTMLParser struct{}

// NewHTMLParser creates an HTMLParser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// Parse extracts candidate articles from the payload.
// Containers missing a title or link are skipped, not fatal. Relative
// links are resolved against the source's page URL. A document that cannot
// be parsed at all yields a nil slice and a *ParseError.
func (p *HTMLParser) Parse(payload []byte, src entity.SourceConfig) ([]entity.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Source: src.Name, Method: entity.MethodHTML, Err: err}
	}

	sel := selectorsFor(src)
	base, err := url.Parse(src.PageURL)
	if err != nil {
		return nil, &ParseError{Source: src.Name, Method: entity.MethodHTML, Err: err}
	}

	var articles []entity.Article
	doc.Find(sel.Article).Each(func(i int, container *goquery.Selection) {
		title := strings.TrimSpace(container.Find(sel.Title).First().Text())
		if title == "" {
			slog.Debug("skipping container with empty title",
				slog.String("source", src.Name),
				slog.Int("index", i))
			return
		}

		link := extractLink(container, sel.Link, base)
		if link == "" {
			slog.Debug("skipping container with no link",
				slog.String("source", src.Name),
				slog.Int("index", i),
				slog.String("title", title))
			return
		}

		articles = append(articles, entity.Article{
			Source:      src.Name,
			Tier:        src.Tier,
			Title:       title,
			URL:         link,
			PublishedAt: extractDate(container, sel.Date),
			Method:      entity.MethodHTML,
		})
	})

	return articles, nil
}

// selectorsFor merges the source's selectors with the defaults.
func selectorsFor(src entity.SourceConfig) entity.Selectors {
	sel := entity.Selectors{
		Title: defaultTitleSelector,
		Link:  defaultLinkSelector,
		Date:  defaultDateSelector,
	}
	if src.Selectors == nil {
		sel.Article = "article"
		return sel
	}

	sel.Article = src.Selectors.Article
	if src.Selectors.Title != "" {
		sel.Title = src.Selectors.Title
	}
	if src.Selectors.Link != "" {
		sel.Link = src.Selectors.Link
	}
	if src.Selectors.Date != "" {
		sel.Date = src.Selectors.Date
	}
	return sel
}

// extractLink pulls the href from the link element and resolves it to an
// absolute URL against the source page.
func extractLink(container *goquery.Selection, linkSel string, base *url.URL) string {
	el := container.Find(linkSel).First()

	href, ok := el.Attr("href")
	if !ok {
		return ""
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// extractDate reads the date element's datetime attribute (preferred) or
// its text, parsed tolerantly. Unparseable dates yield a zero timestamp;
// a bad date never drops the article.
func extractDate(container *goquery.Selection, dateSel string) time.Time {
	el := container.Find(dateSel).First()

	raw, ok := el.Attr("datetime")
	if !ok {
		raw = el.Text()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		slog.Debug("unparseable article date", slog.String("value", raw))
		return time.Time{}
	}
	return t
}
