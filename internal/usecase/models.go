package usecase

import (
	"sort"
	"time"
)

// ResultSet is the outcome of a crawl, as sent to clients and stored in the cache.
type ResultSet struct {
	NbURLs        int      `json:"nbUrls"`
	DomainCrawled string   `json:"domainCrawled"`
	URLs          []string `json:"urls"`
}

// NewResultSet builds a ResultSet from a set of urls. The urls are sorted so
// that the same set always serializes the same way.
func NewResultSet(domainName string, urls []string) *ResultSet {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)
	return &ResultSet{
		NbURLs:        len(sorted),
		DomainCrawled: domainName,
		URLs:          sorted,
	}
}

// URLCount is the response of the nb-urls endpoint.
type URLCount struct {
	NbURLs        int    `json:"nbUrls"`
	DomainCrawled string `json:"domainCrawled"`
}

// CrawlEvent is published once a domain has been crawled and cached.
type CrawlEvent struct {
	DomainCrawled string    `json:"domainCrawled"`
	NbURLs        int       `json:"nbUrls"`
	URLs          []string  `json:"urls"`
	CrawledAt     time.Time `json:"crawledAt"`
}

func NewCrawlEvent(rs *ResultSet, at time.Time) CrawlEvent {
	return CrawlEvent{
		DomainCrawled: rs.DomainCrawled,
		NbURLs:        rs.NbURLs,
		URLs:          rs.URLs,
		CrawledAt:     at.UTC(),
	}
}
