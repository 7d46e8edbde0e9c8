// Package api provides HTTP handlers for the extraction, analysis, and
// chat endpoints.
package api

import (
	"log/slog"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"sift/internal/analysis"
	"sift/internal/config"
	"sift/internal/extractor"
	"sift/internal/worker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ExtractRequestPayload struct {
	URL string `json:"url"`
}

type AnalyzeRequestPayload struct {
	Content *extractor.ContentExtraction `json:"content"`
}

type ChatRequestPayload struct {
	Messages []analysis.ChatMessage      `json:"messages"`
	Content  *extractor.ContentExtraction `json:"content"`
}

type ErrorResponsePayload struct {
	Error string `json:"error"`
}

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	Config   *config.AppConfig
	Pool     *worker.Pool
	Analyzer *analysis.Analyzer
}

// NewHandler creates a new Handler with its dependencies.
func NewHandler(appConfig *config.AppConfig, pool *worker.Pool, analyzer *analysis.Analyzer) *Handler {
	return &Handler{
		Config:   appConfig,
		Pool:     pool,
		Analyzer: analyzer,
	}
}

// HandleExtract serves POST /extract: validate the URL, run one extraction
// on the worker pool, and return the artifact or a typed failure. Failures
// are terminal; the client decides whether to resubmit.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var payload ExtractRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.URL == "" {
		h.respondWithError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if !isValidRequestURL(payload.URL) {
		h.respondWithError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}

	slog.Info("Handling extract request", "url", payload.URL)

	job := worker.Job{
		URL:        payload.URL,
		ResultChan: make(chan worker.Result, 1),
		Context:    r.Context(),
	}
	h.Pool.JobQueue <- job

	select {
	case result := <-job.ResultChan:
		if result.Err != nil {
			slog.Warn("Extraction failed", "url", payload.URL, "error", result.Err)
			h.respondWithError(w, statusForExtractionError(result.Err), result.Err.Error())
			return
		}
		h.respondWithJSON(w, http.StatusOK, result.Extraction)
	case <-r.Context().Done():
		slog.Warn("Extract request cancelled", "url", payload.URL)
	}
}

// HandleAnalyze serves POST /analyze: one analysis call over a previously
// extracted artifact.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var payload AnalyzeRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Content == nil || payload.Content.Text == "" {
		h.respondWithError(w, http.StatusBadRequest, "Content with text is required")
		return
	}

	slog.Info("Handling analyze request", "title", payload.Content.Title, "content_type", payload.Content.ContentType)

	result, err := h.Analyzer.Analyze(r.Context(), payload.Content)
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondWithJSON(w, http.StatusOK, result)
}

// HandleChat serves POST /chat: relays the model's answer as a plain-text
// chunked stream. The relay stops as soon as the client disconnects.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var payload ChatRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(payload.Messages) == 0 || payload.Content == nil || payload.Content.Text == "" {
		http.Error(w, "Messages and content are required", http.StatusBadRequest)
		return
	}

	slog.Info("Handling chat request", "turns", len(payload.Messages), "title", payload.Content.Title)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	err := h.Analyzer.ChatStream(r.Context(), payload.Content, payload.Messages, func(text string) error {
		if _, err := w.Write([]byte(text)); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already out; the stream just ends early.
		slog.Error("Chat stream ended with error", "error", err)
	}
}

// isValidRequestURL enforces the input contract: a well-formed absolute
// URL with an http or https scheme.
func isValidRequestURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// statusForExtractionError maps failure categories to HTTP statuses:
// input-validation failures are the client's to fix, everything else is an
// unprocessable extraction.
func statusForExtractionError(err error) int {
	if ee, ok := extractor.AsExtractionError(err); ok {
		if ee.Category == extractor.CategoryInputValidation {
			return http.StatusBadRequest
		}
	}
	return http.StatusUnprocessableEntity
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponsePayload{Error: message})
}
