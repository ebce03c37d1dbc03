package requester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"webcrawler/internal/app/domain"
	"webcrawler/internal/usecase"
)

type roundTripperFunc func(r *http.Request) (*http.Response, error)

func (rt roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return rt(r)
}

func TestNewRequester(t *testing.T) {
	l := zap.NewExample()
	req := NewRequester(3*time.Second, l, nil)
	assert.NotNil(t, req, "Create new requester failed")
	assert.Equal(t, DefaultUserAgent, req.userAgent)
	assert.Equal(t, int64(DefaultMaxBodySize), req.maxBodySize)
}

func TestReqGet(t *testing.T) {
	l := zap.NewExample()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home</title></head><body><a href="/next">next</a></body></html>`)
	}))
	defer s.Close()

	ctx := context.Background()
	req := NewRequester(10*time.Second, l, nil)

	page, err := req.Get(ctx, s.URL)
	require.NoError(t, err, "Get page is fail")
	require.NotNil(t, page, "Nil page")
	assert.Equal(t, "Home", page.GetTitle(ctx))

	d, err := domain.New(s.URL)
	require.NoError(t, err)
	links := page.GetLinks(ctx, d)
	require.Len(t, links, 1)
	assert.Equal(t, s.URL+"/next", links[0].String())
}

func TestReqGetSendsUserAgent(t *testing.T) {
	var got string
	req := NewRequester(time.Second, zap.NewNop(), roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Get("User-Agent")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("<html></html>")),
		}, nil
	}), WithUserAgent("test-agent/2.0"))

	_, err := req.Get(context.Background(), "https://example.test/")
	require.NoError(t, err)
	assert.Equal(t, "test-agent/2.0", got)
}

func TestReqGetErrors(t *testing.T) {
	l := zap.NewNop()
	cases := map[string]roundTripperFunc{
		"transport error": func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
		"not found": func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("missing")),
			}, nil
		},
	}
	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			req := NewRequester(time.Second, l, rt)
			page, err := req.Get(context.Background(), "https://example.test/")
			assert.Nil(t, page)
			assert.True(t, errors.Is(err, usecase.ErrFetch), "got %v", err)
		})
	}
}

func TestReqGetContextDone(t *testing.T) {
	req := NewRequester(time.Second, zap.NewNop(), roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatal("request must not be sent")
		return nil, nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := req.Get(ctx, "https://example.test/")
	assert.True(t, errors.Is(err, usecase.ErrFetch))
}

func TestReqGetLimitsBody(t *testing.T) {
	body := `<html><body><a href="/first">1</a>` + strings.Repeat(" ", 256) + `<a href="/second">2</a></body></html>`
	req := NewRequester(time.Second, zap.NewNop(), roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}), WithMaxBodySize(64))

	d, err := domain.New("https://example.test/")
	require.NoError(t, err)
	page, err := req.Get(context.Background(), d.String())
	require.NoError(t, err)

	links := page.GetLinks(context.Background(), d)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.test/first", links[0].String())
}
