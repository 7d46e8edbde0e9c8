package extractor

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sift/internal/config"
)

const (
	// botUserAgent identifies the fetcher descriptively rather than
	// impersonating a browser.
	botUserAgent = "Mozilla/5.0 (compatible; SiftBot/1.0)"

	// minBlockLength filters stray short fragments (icon labels, nav
	// remnants) that survive boilerplate removal.
	minBlockLength = 20

	// minArticleLength rejects near-empty results from paywalled or
	// JavaScript-rendered pages as failures rather than thin successes.
	minArticleLength = 100
)

// boilerplateSelector names the non-content subtrees removed wholesale
// before any text is read. These elements often carry dense irrelevant
// text that would otherwise dominate the extracted body.
const boilerplateSelector = "script, style, nav, footer, header, aside, iframe, noscript, svg, " +
	`[role="navigation"], [role="banner"], [role="contentinfo"]`

// contentBlockSelector names the content-bearing tags collected from the
// main container, in document order.
const contentBlockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote"

// ArticleExtractor implements the generic-article branch: fetch the page,
// strip boilerplate, resolve metadata through ordered fallback chains, and
// collect text from content-bearing tags inside the main container.
type ArticleExtractor struct {
	BaseExtractor
}

// NewArticleExtractor creates a new ArticleExtractor.
func NewArticleExtractor(appConfig *config.AppConfig, client *http.Client) *ArticleExtractor {
	return &ArticleExtractor{
		BaseExtractor: NewBaseExtractor(appConfig, client),
	}
}

// Extract fetches the page and parses it into the shared artifact.
func (e *ArticleExtractor) Extract(pageURL string) (*ContentExtraction, error) {
	log.Printf("ArticleExtractor: Starting extraction for URL: %s", pageURL)

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(botUserAgent),
	)
	if e.Config != nil {
		c.SetRequestTimeout(e.Config.FetchTimeout)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html")
	})

	var result *ContentExtraction
	var parseErr error
	var fetchErr error

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = &ExtractionError{
			Category: CategoryUpstreamFetch,
			Message:  fmt.Sprintf("failed to fetch article (HTTP %d)", r.StatusCode),
			Status:   r.StatusCode,
			Err:      err,
		}
	})

	c.OnHTML("html", func(h *colly.HTMLElement) {
		result, parseErr = ParseArticle(h.DOM, pageURL)
	})

	if err := c.Visit(pageURL); err != nil {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, &ExtractionError{
			Category: CategoryUpstreamFetch,
			Message:  "failed to fetch article",
			Err:      err,
		}
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if parseErr != nil {
		return nil, parseErr
	}
	if result == nil {
		// Response was not parseable as HTML at all.
		return nil, ErrInsufficientContent
	}

	log.Printf("ArticleExtractor: Finished %s. Title: %q, Text length: %d", pageURL, result.Title, len(result.Text))
	return result, nil
}

// lookup resolves one metadata candidate from a parsed document.
type lookup func(*goquery.Selection) string

// firstNonEmpty tries lookups in priority order and returns the first
// non-empty trimmed result. Keeping the chain as an ordered list keeps the
// priority independently testable and extensible.
func firstNonEmpty(root *goquery.Selection, lookups ...lookup) string {
	for _, fn := range lookups {
		if v := strings.TrimSpace(fn(root)); v != "" {
			return v
		}
	}
	return ""
}

func metaContent(selector string) lookup {
	return func(root *goquery.Selection) string {
		v, _ := root.Find(selector).First().Attr("content")
		return v
	}
}

func elementText(selector string) lookup {
	return func(root *goquery.Selection) string {
		return root.Find(selector).First().Text()
	}
}

// ParseArticle turns a parsed HTML document into the shared artifact. It
// mutates the selection (boilerplate subtrees are removed before any text
// is read) and performs no network access, so it is directly testable
// against static fixtures.
func ParseArticle(root *goquery.Selection, pageURL string) (*ContentExtraction, error) {
	root.Find(boilerplateSelector).Remove()

	title := firstNonEmpty(root,
		metaContent(`meta[property="og:title"]`),
		elementText("title"),
		elementText("h1"),
	)
	if title == "" {
		title = FallbackTitleArticle
	}

	author := firstNonEmpty(root,
		metaContent(`meta[name="author"]`),
		metaContent(`meta[property="article:author"]`),
		elementText(`[rel="author"]`),
	)

	thumbnailURL := firstNonEmpty(root,
		metaContent(`meta[property="og:image"]`),
	)

	container := mainContainer(root)

	var blocks []string
	container.Find(contentBlockSelector).Each(func(_ int, s *goquery.Selection) {
		text := CollapseWhitespace(s.Text())
		if len(text) > minBlockLength {
			blocks = append(blocks, text)
		}
	})

	// Blank lines between blocks preserve paragraph structure for the
	// downstream reader; only intra-block whitespace was collapsed.
	text := Truncate(DecodeEntities(strings.Join(blocks, "\n\n")))
	if len(text) < minArticleLength {
		return nil, ErrInsufficientContent
	}

	return &ContentExtraction{
		URL:          pageURL,
		Title:        title,
		ContentType:  ContentTypeArticle,
		Text:         text,
		Author:       author,
		ThumbnailURL: thumbnailURL,
	}, nil
}

// mainContainer narrows extraction scope to avoid sidebars and
// related-content blocks that survive boilerplate removal: prefer an
// article-semantic container, then main, then the whole body.
func mainContainer(root *goquery.Selection) *goquery.Selection {
	if article := root.Find("article"); article.Length() > 0 {
		return article
	}
	if main := root.Find("main"); main.Length() > 0 {
		return main
	}
	if body := root.Find("body"); body.Length() > 0 {
		return body
	}
	return root
}
