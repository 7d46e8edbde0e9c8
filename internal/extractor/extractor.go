package extractor

import (
	nethttp "net/http"

	"sift/internal/config"
)

// MaxTextLength bounds the normalized text body of every extraction.
// Truncation happens once, as the final normalization step, so a cut
// never lands inside an entity reference or a tag.
const MaxTextLength = 15000

// ContentExtraction is the shared output artifact produced by both
// extraction branches. It is immutable once returned and is never
// persisted beyond the request that created it.
type ContentExtraction struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	ContentType  string `json:"contentType"`
	Text         string `json:"text"`
	Author       string `json:"author,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Content types set by the URL classifier and never changed downstream.
const (
	ContentTypeYouTube = "youtube"
	ContentTypeArticle = "article"
)

// Title placeholders used when no source yields one.
const (
	FallbackTitleYouTube = "YouTube Video"
	FallbackTitleArticle = "Article"
)

// CaptionTrack is one available subtitle stream for a video. A list of
// these is produced per video and exactly one is selected per extraction.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

// VideoMetadata is the transient result of the player-data lookup.
type VideoMetadata struct {
	Title         string
	Author        string
	CaptionTracks []CaptionTrack
}

// ContentExtractor defines the interface for content extractors.
// This interface is kept small and focused on a single responsibility.
type ContentExtractor interface {
	// Extract processes a URL and returns the extraction artifact or a
	// typed failure. No partial results are ever returned.
	Extract(url string) (*ContentExtraction, error)
}

// Configurable defines the interface for components that need configuration
type Configurable interface {
	// GetConfig returns the component's configuration
	GetConfig() *config.AppConfig
}

// HealthChecker defines the interface for components that can report their health
type HealthChecker interface {
	// HealthCheck returns nil if the component is healthy, error otherwise
	HealthCheck() error
}

// BaseExtractor provides common functionality for all extractors
type BaseExtractor struct {
	Config     *config.AppConfig
	HTTPClient *nethttp.Client
}

// NewBaseExtractor creates a common base for extractors
func NewBaseExtractor(cfg *config.AppConfig, client *nethttp.Client) BaseExtractor {
	return BaseExtractor{
		Config:     cfg,
		HTTPClient: client,
	}
}

// GetConfig implements the Configurable interface
func (be *BaseExtractor) GetConfig() *config.AppConfig {
	return be.Config
}

// HealthCheck implements the HealthChecker interface
func (be *BaseExtractor) HealthCheck() error {
	if be.Config == nil {
		return nethttp.ErrServerClosed
	}
	return nil
}
