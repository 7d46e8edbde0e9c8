package extractor

import "errors"

// FailureCategory classifies a terminal extraction failure. Every failure
// in this package is terminal and locally typed: nothing is retried and no
// partial result is ever downgraded to a thin success.
type FailureCategory string

const (
	// CategoryInputValidation covers malformed URLs and YouTube URLs with
	// no resolvable video ID.
	CategoryInputValidation FailureCategory = "input_validation"
	// CategoryUpstreamFetch covers network and non-success HTTP failures
	// against the player endpoint, caption documents, and article pages.
	CategoryUpstreamFetch FailureCategory = "upstream_fetch"
	// CategoryContentUnavailable marks the expected, non-retryable case of
	// a video with no caption tracks at all.
	CategoryContentUnavailable FailureCategory = "content_unavailable"
	// CategoryParse covers caption documents that yield zero segments.
	CategoryParse FailureCategory = "parse"
	// CategoryContentInsufficient rejects technically successful article
	// fetches whose extracted text is too short to be useful.
	CategoryContentInsufficient FailureCategory = "content_insufficient"
)

// ExtractionError is the typed failure surfaced by every extractor. The
// message is user-facing; Status carries the upstream HTTP status when the
// category is an upstream-fetch failure.
type ExtractionError struct {
	Category FailureCategory
	Message  string
	Status   int
	Err      error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// newError builds an ExtractionError without an upstream status.
func newError(category FailureCategory, message string) *ExtractionError {
	return &ExtractionError{Category: category, Message: message}
}

// AsExtractionError unwraps err to an ExtractionError if one is in the chain.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// Fixed user-facing failures shared across the pipeline.
var (
	ErrInvalidURL = newError(CategoryInputValidation, "invalid URL format")

	ErrNoVideoID = newError(CategoryInputValidation,
		"could not extract YouTube video ID from URL")

	ErrVideoDataFetch = newError(CategoryUpstreamFetch,
		"failed to fetch video data")

	ErrNoCaptions = newError(CategoryContentUnavailable,
		"this video has no captions/subtitles available; try a video with closed captions enabled")

	ErrCaptionFetch = newError(CategoryUpstreamFetch,
		"failed to fetch video captions")

	ErrCaptionParse = newError(CategoryParse,
		"could not parse caption data")

	ErrInsufficientContent = newError(CategoryContentInsufficient,
		"could not extract enough text from this URL; the page may be behind a paywall or use heavy JavaScript rendering")
)
