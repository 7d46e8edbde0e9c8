package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"sift/internal/config"
)

const (
	// playerEndpoint is YouTube's internal player-data endpoint. It is
	// queried with an Android client identity because the default web
	// identity does not reliably expose caption URLs usable outside a
	// browser session.
	playerEndpoint = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

	androidClientVersion = "19.09.37"
	androidSDKVersion    = 30
	androidUserAgent     = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"

	// thumbnailURLTemplate synthesizes the thumbnail deterministically from
	// the video ID. Scraping it from the player payload is unreliable
	// across video states.
	thumbnailURLTemplate = "https://img.youtube.com/vi/%s/maxresdefault.jpg"
)

// YouTubeExtractor implements the caption branch of the pipeline: resolve
// the video ID, look up metadata and caption tracks through the internal
// player endpoint, fetch the selected track and flatten it to plain text.
type YouTubeExtractor struct {
	BaseExtractor
	playerURL string
}

// NewYouTubeExtractor creates a new YouTubeExtractor.
func NewYouTubeExtractor(appConfig *config.AppConfig, client *http.Client) *YouTubeExtractor {
	return &YouTubeExtractor{
		BaseExtractor: NewBaseExtractor(appConfig, client),
		playerURL:     playerEndpoint,
	}
}

// ExtractVideoID extracts the canonical video identifier from a YouTube
// URL. The short-link form carries the ID as the first path segment; every
// other recognized form carries it in the `v` query parameter. An empty
// result is a terminal input-validation failure for the caller.
func ExtractVideoID(videoURL string) string {
	parsed, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}
	if parsed.Hostname() == "youtu.be" {
		segment := strings.TrimPrefix(parsed.Path, "/")
		if idx := strings.IndexByte(segment, '/'); idx != -1 {
			segment = segment[:idx]
		}
		return segment
	}
	return parsed.Query().Get("v")
}

// SelectCaptionTrack applies the tie-break rule: prefer the first track
// whose language code has the "en" prefix (covers regional variants like
// en-US), else the first track in source order. Source order is assumed to
// reflect relevance and is never re-sorted.
func SelectCaptionTrack(tracks []CaptionTrack) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return tracks[0], true
}

// Extract runs the full YouTube branch for one watch URL.
func (e *YouTubeExtractor) Extract(videoURL string) (*ContentExtraction, error) {
	log.Printf("YouTubeExtractor: Starting extraction for URL: %s", videoURL)

	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, ErrNoVideoID
	}
	log.Printf("YouTubeExtractor: Extracted Video ID: %s for URL: %s", videoID, videoURL)

	meta, err := e.fetchVideoMetadata(videoID)
	if err != nil {
		return nil, err
	}

	track, ok := SelectCaptionTrack(meta.CaptionTracks)
	if !ok {
		return nil, ErrNoCaptions
	}
	log.Printf("YouTubeExtractor: Selected caption track lang=%s for %s", track.LanguageCode, videoID)

	captionDoc, err := e.fetchCaptionDocument(track.BaseURL)
	if err != nil {
		return nil, err
	}

	segments, err := ParseTimedText(captionDoc)
	if err != nil {
		return nil, err
	}

	text := Truncate(DecodeEntities(CollapseWhitespace(strings.Join(segments, " "))))
	title := meta.Title
	if title == "" {
		title = FallbackTitleYouTube
	}

	log.Printf("YouTubeExtractor: Extracted %d segments (%d chars) for %s", len(segments), len(text), videoID)

	return &ContentExtraction{
		URL:          videoURL,
		Title:        title,
		ContentType:  ContentTypeYouTube,
		Text:         text,
		Author:       meta.Author,
		ThumbnailURL: fmt.Sprintf(thumbnailURLTemplate, videoID),
	}, nil
}

// playerRequest is the fixed client-identity payload sent to the player
// endpoint alongside the video ID.
type playerRequest struct {
	Context struct {
		Client struct {
			ClientName        string `json:"clientName"`
			ClientVersion     string `json:"clientVersion"`
			AndroidSDKVersion int    `json:"androidSdkVersion"`
			HL                string `json:"hl"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

// playerResponse mirrors the slices of the player payload this branch
// depends on; everything else in the payload is ignored.
type playerResponse struct {
	VideoDetails struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"videoDetails"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// fetchVideoMetadata performs the single POST against the player endpoint
// and maps the response onto VideoMetadata. A response that parses but
// carries no caption tracks is reported as content-unavailable, which many
// videos legitimately are; everything else surfaces as a fetch failure.
func (e *YouTubeExtractor) fetchVideoMetadata(videoID string) (*VideoMetadata, error) {
	var payload playerRequest
	payload.Context.Client.ClientName = "ANDROID"
	payload.Context.Client.ClientVersion = androidClientVersion
	payload.Context.Client.AndroidSDKVersion = androidSDKVersion
	payload.Context.Client.HL = "en"
	payload.VideoID = videoID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrVideoDataFetch.Message, Err: err}
	}

	req, err := http.NewRequest(http.MethodPost, e.playerURL, bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrVideoDataFetch.Message, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrVideoDataFetch.Message, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing player response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractionError{
			Category: CategoryUpstreamFetch,
			Message:  ErrVideoDataFetch.Message,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("player endpoint status: %d", resp.StatusCode),
		}
	}

	var parsed playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrVideoDataFetch.Message, Err: err}
	}

	return &VideoMetadata{
		Title:         strings.TrimSpace(parsed.VideoDetails.Title),
		Author:        strings.TrimSpace(parsed.VideoDetails.Author),
		CaptionTracks: parsed.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks,
	}, nil
}

// fetchCaptionDocument GETs the selected track's timed-text document.
func (e *YouTubeExtractor) fetchCaptionDocument(baseURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrCaptionFetch.Message, Err: err}
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrCaptionFetch.Message, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing caption response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractionError{
			Category: CategoryUpstreamFetch,
			Message:  ErrCaptionFetch.Message,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("caption document status: %d", resp.StatusCode),
		}
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExtractionError{Category: CategoryUpstreamFetch, Message: ErrCaptionFetch.Message, Err: err}
	}
	return doc, nil
}
