package extractor

import (
	"fmt"
	"log"
	"net/http"
	"net/url"

	"sift/internal/config"
	"sift/internal/logger"
)

// youtubeHostnames is the fixed set of hostnames classified as YouTube
// watch URLs. Matching is exact: lookalike hosts fall through to the
// article branch.
var youtubeHostnames = map[string]bool{
	"www.youtube.com": true,
	"youtube.com":     true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// IsYouTubeURL classifies a URL string. A parse failure classifies as
// not-YouTube, failing closed to the article path; upstream validation is
// expected to reject unparseable URLs before they get here.
func IsYouTubeURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return youtubeHostnames[parsed.Hostname()]
}

// Dispatcher identifies the type of URL and calls the appropriate extractor.
type Dispatcher struct {
	Config           *config.AppConfig
	youtubeExtractor ContentExtractor
	articleExtractor ContentExtractor
}

// NewDispatcher creates a new Dispatcher and initializes both concrete
// extractors against the shared HTTP client.
func NewDispatcher(appConfig *config.AppConfig, client *http.Client) *Dispatcher {
	return &Dispatcher{
		Config:           appConfig,
		youtubeExtractor: NewYouTubeExtractor(appConfig, client),
		articleExtractor: NewArticleExtractor(appConfig, client),
	}
}

// DispatchAndExtract classifies the URL and runs the matching branch. The
// returned error, if any, is an ExtractionError carrying the failure
// category; no partial artifact accompanies a failure.
func (d *Dispatcher) DispatchAndExtract(targetURL string) (*ContentExtraction, error) {
	log.Printf("Dispatching URL: %s", targetURL)

	if IsYouTubeURL(targetURL) {
		log.Printf("Identified %s as YouTube URL", targetURL)
		result, err := d.youtubeExtractor.Extract(targetURL)
		if err != nil {
			logger.LogError("youtube extraction failed", "url", targetURL, "error", err)
			return nil, fmt.Errorf("youtube extraction failed: %w", err)
		}
		return result, nil
	}

	log.Printf("Identified %s as article URL", targetURL)
	result, err := d.articleExtractor.Extract(targetURL)
	if err != nil {
		logger.LogError("article extraction failed", "url", targetURL, "error", err)
		return nil, fmt.Errorf("article extraction failed: %w", err)
	}
	return result, nil
}
