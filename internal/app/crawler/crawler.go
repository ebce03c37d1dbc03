package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"webcrawler/internal/app/domain"
	"webcrawler/internal/usecase"
)

const (
	DefaultLimit   = 50
	DefaultWorkers = 16
)

type crawler struct {
	r         usecase.Requester
	cache     usecase.Cache
	publisher usecase.Publisher
	logger    *zap.Logger
	limit     int32
	workers   int
	group     singleflight.Group
}

type Option func(*crawler)

// WithLimit sets the maximum number of urls collected per domain.
func WithLimit(limit int) Option {
	return func(c *crawler) {
		if limit > 0 {
			c.limit = int32(limit)
		}
	}
}

// WithWorkers sets how many pages of a round are fetched at the same time.
func WithWorkers(n int) Option {
	return func(c *crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithPublisher(p usecase.Publisher) Option {
	return func(c *crawler) {
		c.publisher = p
	}
}

func NewCrawler(r usecase.Requester, cache usecase.Cache, logger *zap.Logger, opts ...Option) *crawler {
	c := &crawler{
		r:       r,
		cache:   cache,
		logger:  logger,
		limit:   DefaultLimit,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *crawler) Limit() int {
	return int(atomic.LoadInt32(&c.limit))
}

func (c *crawler) IncLimit(delta int32) {
	n := atomic.AddInt32(&c.limit, delta)
	c.logger.Debug(fmt.Sprintf("new url limit: %d", n))
}

// Crawl returns the urls of d, from the cache when the domain was already
// crawled. Concurrent calls for the same domain share a single crawl.
func (c *crawler) Crawl(ctx context.Context, d *domain.Domain) (*usecase.ResultSet, error) {
	v, err, shared := c.group.Do(d.Name(), func() (interface{}, error) {
		return c.crawl(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("crawl result shared", zap.String("domain", d.Name()))
	}
	return v.(*usecase.ResultSet), nil
}

func (c *crawler) crawl(ctx context.Context, d *domain.Domain) (*usecase.ResultSet, error) {
	name := d.Name()
	urls, ok, err := c.cache.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", usecase.ErrCache, name, err)
	}
	if ok {
		c.logger.Info("url set extracted from cache", zap.String("domain", name), zap.Int("urls", len(urls)))
		return usecase.NewResultSet(name, urls), nil
	}

	start := time.Now()
	limit := c.Limit()
	visited := newVisitedSet(limit)
	frontier := []*url.URL{d.Seed()}
	rounds := 0
	for len(frontier) > 0 {
		rounds++
		frontier = c.round(ctx, d, visited, frontier)
		c.logger.Debug(fmt.Sprintf("round %d done, visited: %d, next frontier: %d", rounds, visited.len(), len(frontier)))
	}

	rs := usecase.NewResultSet(name, visited.drain())
	c.logger.Info("domain crawled",
		zap.String("domain", name),
		zap.Int("urls", rs.NbURLs),
		zap.Int("limit", limit),
		zap.Int("rounds", rounds),
		zap.Duration("took", time.Since(start)),
	)

	if err := c.cache.Put(ctx, name, rs.URLs); err != nil {
		return nil, fmt.Errorf("%w: put %s: %v", usecase.ErrCache, name, err)
	}
	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, rs); err != nil {
			c.logger.Error("publish crawl event", zap.String("domain", name), zap.Error(err))
		}
	}
	return rs, nil
}

// round visits every url of the frontier in parallel and returns the links
// they contributed. It returns only once every visit has finished.
func (c *crawler) round(ctx context.Context, d *domain.Domain, visited *visitedSet, frontier []*url.URL) []*url.URL {
	contributions := make([][]*url.URL, len(frontier))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, link := range frontier {
		g.Go(func() error {
			contributions[i] = c.visit(ctx, d, visited, link)
			return nil
		})
	}
	_ = g.Wait()

	return c.admit(d, visited, contributions)
}

// admit builds the next frontier from the links contributed by a round.
// Links that can never be claimed are dropped here; claim stays the
// authoritative check.
func (c *crawler) admit(d *domain.Domain, visited *visitedSet, contributions [][]*url.URL) []*url.URL {
	if visited.full() {
		return nil
	}
	seen := make(map[string]struct{})
	var next []*url.URL
	for _, links := range contributions {
		for _, link := range links {
			key := link.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			switch {
			case !d.Belongs(link):
				c.logger.Debug(fmt.Sprintf("outside the domain: %s", key))
			case visited.contains(key):
				c.logger.Debug(fmt.Sprintf("already visited: %s", key))
			default:
				next = append(next, link)
			}
		}
	}
	return next
}

// visit claims link and, when the claim succeeds, fetches it and returns the
// links found on the page. A failed fetch contributes no links.
func (c *crawler) visit(ctx context.Context, d *domain.Domain, visited *visitedSet, link *url.URL) []*url.URL {
	u := link.String()
	switch visited.claim(u, d.Belongs(link)) {
	case limitReached:
		return nil
	case outsideDomain:
		c.logger.Debug(fmt.Sprintf("outside the domain: %s", u))
		return nil
	case alreadyVisited:
		c.logger.Debug(fmt.Sprintf("already visited: %s", u))
		return nil
	}

	c.logger.Debug(fmt.Sprintf("adding: %s", u))
	p, err := c.r.Get(ctx, u)
	if err != nil {
		c.logger.Warn("fetch failed, no links", zap.String("url", u), zap.Error(err))
		return nil
	}
	links := p.GetLinks(ctx, d)
	c.logger.Debug(fmt.Sprintf("url %s, title: %q, links: %d", u, p.GetTitle(ctx), len(links)))
	return links
}
