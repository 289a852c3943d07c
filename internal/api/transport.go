package api

import (
	"log/slog"
	"net/http"
	"time"

	"satang/internal/log"
)

// loggingTransport logs every backend round trip with method, URL,
// status and duration. Responses with 4xx log at warn, 5xx at error.
type loggingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *log.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger.WithComponent(log.ComponentAPI)}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		t.logger.Error("Backend request failed",
			log.FieldMethod, req.Method,
			log.FieldURL, req.URL.String(),
			log.FieldDuration, durationMs,
			log.FieldError, err.Error())
		return nil, err
	}

	level := slog.LevelInfo
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}

	t.logger.Log(req.Context(), level, "Backend request completed",
		log.FieldMethod, req.Method,
		log.FieldURL, req.URL.String(),
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, durationMs)

	return resp, nil
}
