package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"webcrawler/internal/app/page"
	"webcrawler/internal/usecase"
)

const (
	DefaultUserAgent   = "webcrawler/1.0"
	DefaultMaxBodySize = 5 * 1024 * 1024
)

type requester struct {
	timeout     time.Duration
	logger      *zap.Logger
	rt          http.RoundTripper
	userAgent   string
	maxBodySize int64
}

type Option func(*requester)

func WithUserAgent(ua string) Option {
	return func(r *requester) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithMaxBodySize caps the number of bytes read from a response body.
func WithMaxBodySize(n int64) Option {
	return func(r *requester) {
		if n > 0 {
			r.maxBodySize = n
		}
	}
}

// NewRequester returns a Requester issuing GET requests through rt; a nil rt
// means http.DefaultTransport.
func NewRequester(timeout time.Duration, logger *zap.Logger, rt http.RoundTripper, opts ...Option) requester {
	r := requester{
		timeout:     timeout,
		logger:      logger,
		rt:          rt,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r requester) Get(ctx context.Context, url string) (usecase.Page, error) {
	select {
	case <-ctx.Done():
		r.logger.Debug("context done in get")
		return nil, fmt.Errorf("%w: %s: %v", usecase.ErrFetch, url, ctx.Err())
	default:
		cl := &http.Client{
			Timeout:   r.timeout,
			Transport: r.rt,
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			r.logger.Debug(fmt.Sprintf("error by get new request, url: %s", url), zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %v", usecase.ErrFetch, url, err)
		}
		req.Header.Set("User-Agent", r.userAgent)
		resp, err := cl.Do(req)
		if err != nil {
			r.logger.Debug("http.client error", zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %v", usecase.ErrFetch, url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %s: unexpected status %d", usecase.ErrFetch, url, resp.StatusCode)
		}
		p, err := page.NewPage(io.LimitReader(resp.Body, r.maxBodySize), r.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", usecase.ErrFetch, url, err)
		}
		return p, nil
	}
}
