package extractor

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sift/internal/config"
)

func parseFixture(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc.Selection
}

func TestParseArticleBoilerplateOnlyFails(t *testing.T) {
	fixture := `<html><head><title>Menu Page</title></head><body>
		<nav><p>` + strings.Repeat("navigation item with plenty of text ", 10) + `</p></nav>
		<footer><p>` + strings.Repeat("footer legalese with plenty of text ", 10) + `</p></footer>
	</body></html>`

	_, err := ParseArticle(parseFixture(t, fixture), "https://example.com/menu")
	ee, ok := AsExtractionError(err)
	if !ok {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Category != CategoryContentInsufficient {
		t.Errorf("category = %s, want %s", ee.Category, CategoryContentInsufficient)
	}
}

func TestParseArticleContainerScoping(t *testing.T) {
	fixture := `<html><body>
		<nav>Completely irrelevant navigation text that is definitely long enough to pass the filter</nav>
		<article>
			<p>First paragraph with more than twenty characters of body text.</p>
			<p>Second paragraph with more than twenty characters of body text.</p>
			<p>Third paragraph with more than twenty characters of body text.</p>
		</article>
		<div><p>Related-content sidebar text outside the article container entirely.</p></div>
	</body></html>`

	result, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}

	want := "First paragraph with more than twenty characters of body text.\n\n" +
		"Second paragraph with more than twenty characters of body text.\n\n" +
		"Third paragraph with more than twenty characters of body text."
	if result.Text != want {
		t.Errorf("Text = %q, want %q", result.Text, want)
	}
	if strings.Contains(result.Text, "navigation") {
		t.Errorf("nav text leaked into extraction")
	}
	if strings.Contains(result.Text, "sidebar") {
		t.Errorf("sibling text outside the article container leaked into extraction")
	}
}

func TestParseArticleShortBlockFilter(t *testing.T) {
	long := strings.Repeat("substantial paragraph text ", 8)
	fixture := fmt.Sprintf(`<html><body><main>
		<p>%s</p>
		<p>tiny.</p>
	</main></body></html>`, long)

	result, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}
	if strings.Contains(result.Text, "tiny.") {
		t.Errorf("block under the length floor was kept: %q", result.Text)
	}
	if !strings.Contains(result.Text, "substantial paragraph text") {
		t.Errorf("long block missing from extraction")
	}
}

func TestParseArticleTitleChain(t *testing.T) {
	body := "<main><p>" + strings.Repeat("body text for the title chain fixture ", 5) + "</p></main>"

	tests := []struct {
		name string
		head string
		want string
	}{
		{
			name: "open graph wins",
			head: `<meta property="og:title" content="OG Title"><title>Doc Title</title>`,
			want: "OG Title",
		},
		{
			name: "document title second",
			head: `<title>Doc Title</title>`,
			want: "Doc Title",
		},
		{
			name: "placeholder when nothing resolves",
			head: ``,
			want: "Article",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := "<html><head>" + tt.head + "</head><body>" + body + "</body></html>"
			result, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
			if err != nil {
				t.Fatalf("ParseArticle() error = %v", err)
			}
			if result.Title != tt.want {
				t.Errorf("Title = %q, want %q", result.Title, tt.want)
			}
		})
	}

	t.Run("heading fallback", func(t *testing.T) {
		fixture := `<html><body><article><h1>Heading Title That Is Long Enough</h1>
			<p>` + strings.Repeat("body text for the heading fixture ", 5) + `</p></article></body></html>`
		result, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
		if err != nil {
			t.Fatalf("ParseArticle() error = %v", err)
		}
		if result.Title != "Heading Title That Is Long Enough" {
			t.Errorf("Title = %q", result.Title)
		}
	})
}

func TestParseArticleAuthorChain(t *testing.T) {
	body := "<main><p>" + strings.Repeat("body text for the author chain fixture ", 5) + "</p></main>"

	tests := []struct {
		name string
		head string
		body string
		want string
	}{
		{
			name: "author meta wins",
			head: `<meta name="author" content="Jane Writer"><meta property="article:author" content="Other Person">`,
			body: body,
			want: "Jane Writer",
		},
		{
			name: "article author second",
			head: `<meta property="article:author" content="Other Person">`,
			body: body,
			want: "Other Person",
		},
		{
			name: "rel author third",
			head: ``,
			body: `<main><a rel="author">Linked Author</a><p>` + strings.Repeat("body text for the rel author fixture ", 5) + `</p></main>`,
			want: "Linked Author",
		},
		{
			name: "absent when no source",
			head: ``,
			body: body,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := "<html><head>" + tt.head + "</head><body>" + tt.body + "</body></html>"
			result, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
			if err != nil {
				t.Fatalf("ParseArticle() error = %v", err)
			}
			if result.Author != tt.want {
				t.Errorf("Author = %q, want %q", result.Author, tt.want)
			}
		})
	}
}

func TestParseArticleThumbnail(t *testing.T) {
	body := "<main><p>" + strings.Repeat("body text for the thumbnail fixture ", 5) + "</p></main>"

	withImage := `<html><head><meta property="og:image" content="https://example.com/cover.png"></head><body>` + body + `</body></html>`
	result, err := ParseArticle(parseFixture(t, withImage), "https://example.com/post")
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}
	if result.ThumbnailURL != "https://example.com/cover.png" {
		t.Errorf("ThumbnailURL = %q", result.ThumbnailURL)
	}

	without := "<html><body>" + body + "</body></html>"
	result, err = ParseArticle(parseFixture(t, without), "https://example.com/post")
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}
	if result.ThumbnailURL != "" {
		t.Errorf("ThumbnailURL guessed without a source: %q", result.ThumbnailURL)
	}
}

func TestParseArticleIdempotent(t *testing.T) {
	fixture := `<html><head><meta property="og:title" content="Stable Title"></head><body><article>
		<p>` + strings.Repeat("stable fixture paragraph text ", 6) + `</p>
	</article></body></html>`

	first, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
	if err != nil {
		t.Fatalf("first ParseArticle() error = %v", err)
	}
	second, err := ParseArticle(parseFixture(t, fixture), "https://example.com/post")
	if err != nil {
		t.Fatalf("second ParseArticle() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func newTestArticleExtractor() *ArticleExtractor {
	cfg := &config.AppConfig{Port: "8080", FetchTimeout: 5 * time.Second, WorkerPoolSize: 1}
	return NewArticleExtractor(cfg, &http.Client{Timeout: 5 * time.Second})
}

func TestArticleExtractorEndToEnd(t *testing.T) {
	long := strings.Repeat("paragraph body text ", 8)
	page := fmt.Sprintf(`<html><head><meta property="og:title" content="Test Title"></head>
		<body><main><p>%s</p><p>tiny.</p></main></body></html>`, long)

	mux := http.NewServeMux()
	mux.HandleFunc("/post", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	e := newTestArticleExtractor()
	result, err := e.Extract(server.URL + "/post")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if result.Title != "Test Title" {
		t.Errorf("Title = %q, want %q", result.Title, "Test Title")
	}
	if result.ContentType != ContentTypeArticle {
		t.Errorf("ContentType = %q, want %q", result.ContentType, ContentTypeArticle)
	}
	if strings.Contains(result.Text, "tiny.") {
		t.Errorf("short paragraph survived the filter: %q", result.Text)
	}
	if !strings.Contains(result.Text, "paragraph body text") {
		t.Errorf("long paragraph missing: %q", result.Text)
	}
}

func TestArticleExtractorFetchFailureCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	e := newTestArticleExtractor()
	_, err := e.Extract(server.URL + "/missing")
	ee, ok := AsExtractionError(err)
	if !ok {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Category != CategoryUpstreamFetch {
		t.Errorf("category = %s, want %s", ee.Category, CategoryUpstreamFetch)
	}
	if ee.Status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", ee.Status, http.StatusNotFound)
	}
}
