package usecase

import (
	"context"
	"net/url"

	"webcrawler/internal/app/domain"
)

type Page interface {
	GetTitle(context.Context) string
	GetLinks(context.Context, *domain.Domain) []*url.URL
}

type Requester interface {
	Get(ctx context.Context, url string) (Page, error)
}

// Crawler - единственная точка входа для обхода домена
type Crawler interface {
	Crawl(ctx context.Context, d *domain.Domain) (*ResultSet, error)
	Limit() int
	IncLimit(delta int32)
}

// Cache stores the url set of every crawled domain, keyed by domain name.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Put(ctx context.Context, key string, urls []string) error
	Len(ctx context.Context, key string) (int, bool, error)
	Close() error
}

// Publisher announces freshly crawled domains.
type Publisher interface {
	Publish(ctx context.Context, rs *ResultSet) error
	Close() error
}
