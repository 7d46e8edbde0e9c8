package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sift/internal/analysis"
	"sift/internal/api"
	"sift/internal/config"
	"sift/internal/extractor"
	"sift/internal/logger"
	"sift/internal/worker"
)

func main() {
	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration
	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.LogError("Failed to load configuration", "error", err)
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create a single, tuned HTTP client shared by both extractor branches.
	// The fetch timeout is explicit because the upstream sources are
	// uncontrolled third parties.
	httpClient := &http.Client{
		Timeout: appConfig.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	dispatcher := extractor.NewDispatcher(appConfig, httpClient)

	pool := worker.NewPool(dispatcher, appConfig.WorkerPoolSize, appConfig.WorkerPoolSize*4)
	pool.Start()
	defer pool.Stop()

	analyzer := analysis.NewAnalyzer(appConfig)

	handler := api.NewHandler(appConfig, pool, analyzer)

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/extract", handler.HandleExtract)
	mux.HandleFunc("/analyze", handler.HandleAnalyze)
	mux.HandleFunc("/chat", handler.HandleChat)

	// Add health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339)); err != nil {
			logger.LogError("Warning: failed to write health check response", "error", err)
		}
	})

	wrapped := gzipMiddleware(timeoutMiddleware(mux))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appConfig.GetPort()),
		Handler:      wrapped,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %d", appConfig.GetPort())
		log.Printf("Available endpoints:")
		log.Printf("  POST /extract - Extract readable text from a URL")
		log.Printf("  POST /analyze - Run the critical-thinking analysis over an extraction")
		log.Printf("  POST /chat    - Stream a grounded follow-up chat")
		log.Printf("  GET  /health  - Health check endpoint")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError("Server failed to start", "error", err)
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Println("Server exited gracefully")
}

// gzipMiddleware compresses responses when the client supports it. The
// chat endpoint is exempt: compressing would buffer the token stream.
func gzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chat" || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Vary", "Accept-Encoding")

		gw := gzip.NewWriter(w)
		defer func() {
			if err := gw.Close(); err != nil {
				logger.LogError("Error closing gzip writer", "error", err)
			}
		}()

		grw := &gzipResponseWriter{ResponseWriter: w, writer: gw}
		next.ServeHTTP(grw, r)
	})
}

// gzipResponseWriter wraps http.ResponseWriter to compress responses
type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) Header() http.Header {
	return w.ResponseWriter.Header()
}

// timeoutMiddleware adds request timeout handling
func timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		r = r.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			next.ServeHTTP(w, r)
			close(done)
		}()

		select {
		case <-done:
			return
		case <-ctx.Done():
			logger.LogError("Request timed out", "method", r.Method, "path", r.URL.Path)
			http.Error(w, "Request timeout", http.StatusGatewayTimeout)
			return
		}
	})
}
