package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webcrawler/internal/app/domain"
	"webcrawler/internal/usecase"
)

// RequestIDHeader carries the id logged with every request.
const RequestIDHeader = "X-Request-ID"

// maxSeedSize bounds the body of POST /crawl.
const maxSeedSize = 8 * 1024

type server struct {
	cr     usecase.Crawler
	cache  usecase.Cache
	logger *zap.Logger
}

// NewServer returns the http handler of the crawler service.
func NewServer(cr usecase.Crawler, cache usecase.Cache, logger *zap.Logger) http.Handler {
	s := &server{
		cr:     cr,
		cache:  cache,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/crawl", s.handleCrawl)
	mux.HandleFunc("/urls", s.handleURLs)
	mux.HandleFunc("/nb-urls", s.handleNbURLs)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.notSupported)

	return s.withRequestID(mux)
}

// handleCrawl crawls the domain of the seed sent as the request body, or
// replays the cached result when the domain was already crawled.
//
// Method: POST
// Path:   /crawl
// Example:
//
//	curl -X POST -d "https://example.com" "http://localhost:3000/crawl"
func (s *server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.notSupported(w, r)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSeedSize))
	if err != nil || !utf8.Valid(body) {
		s.writeError(w, r, fmt.Errorf("%w: %v", usecase.ErrUnreadableBody, err))
		return
	}

	d, err := domain.New(string(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// a client that goes away does not abort a crawl other requests may share
	rs, err := s.cr.Crawl(context.WithoutCancel(r.Context()), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, rs, http.StatusOK)
}

// handleURLs returns the urls stored for a crawled domain.
//
// Method: GET
// Path:   /urls?domain=...
// Example:
//
//	curl "http://localhost:3000/urls?domain=https://example.com"
func (s *server) handleURLs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.notSupported(w, r)
		return
	}

	name, err := parseDomain(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	urls, ok, err := s.cache.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", usecase.ErrCache, err))
		return
	}
	if !ok {
		s.writeError(w, r, usecase.ErrDomainNotCrawled)
		return
	}
	writeJSON(w, usecase.NewResultSet(name, urls), http.StatusOK)
}

// handleNbURLs returns how many urls are stored for a crawled domain.
//
// Method: GET
// Path:   /nb-urls?domain=...
func (s *server) handleNbURLs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.notSupported(w, r)
		return
	}

	name, err := parseDomain(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	n, ok, err := s.cache.Len(r.Context(), name)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", usecase.ErrCache, err))
		return
	}
	if !ok {
		s.writeError(w, r, usecase.ErrDomainNotCrawled)
		return
	}
	writeJSON(w, usecase.URLCount{NbURLs: n, DomainCrawled: name}, http.StatusOK)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.notSupported(w, r)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *server) notSupported(w http.ResponseWriter, r *http.Request) {
	msg := fmt.Sprintf("%s %s is not supported.", r.Method, r.URL.Path)
	writeJSON(w, errorBody{Error: msg}, http.StatusNotFound)
}

// parseDomain reads the domain query parameter. Both a url and a bare host
// are accepted.
func parseDomain(r *http.Request) (string, error) {
	values, ok := r.URL.Query()["domain"]
	if !ok || len(values) == 0 {
		return "", usecase.ErrMissingParameter
	}
	raw := strings.TrimSpace(values[0])

	d, err := domain.New(raw)
	if err != nil && raw != "" && !strings.Contains(raw, "://") {
		d, err = domain.New("https://" + raw)
	}
	if err != nil {
		return "", err
	}
	return d.Name(), nil
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps err to its status code and public message. Internal
// failures are logged and never exposed.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, domain.ErrWrongDomain):
		status, msg = http.StatusBadRequest, "Wrong domain, please check that the domain is well formatted"
	case errors.Is(err, usecase.ErrMissingParameter):
		status, msg = http.StatusBadRequest, "Your request should contain a domain parameter"
	case errors.Is(err, usecase.ErrUnreadableBody):
		status, msg = http.StatusUnprocessableEntity, "Request body could not be read"
	case errors.Is(err, usecase.ErrDomainNotCrawled):
		status, msg = http.StatusNotFound, "Domain not previously crawled"
	}

	fields := []zap.Field{zap.String("request_id", w.Header().Get(RequestIDHeader)), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		s.logger.Error(fmt.Sprintf("%s %s failed", r.Method, r.URL.Path), fields...)
	} else {
		s.logger.Debug(fmt.Sprintf("%s %s rejected", r.Method, r.URL.Path), fields...)
	}
	writeJSON(w, errorBody{Error: msg}, status)
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withRequestID tags every request with an id, reusing the one sent by the
// client if any, and writes the access log line.
func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
