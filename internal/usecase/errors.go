package usecase

import "errors"

var (
	// ErrMissingParameter is returned when a lookup has no domain parameter.
	ErrMissingParameter = errors.New("your request should contain a domain parameter")

	// ErrDomainNotCrawled is returned when the cache holds nothing for a domain.
	ErrDomainNotCrawled = errors.New("domain not previously crawled")

	// ErrUnreadableBody is returned when a crawl request body cannot be read.
	ErrUnreadableBody = errors.New("request body could not be read")

	// ErrCache wraps every failure of the cache backend.
	ErrCache = errors.New("cache backend failure")

	// ErrFetch wraps page fetch failures. The crawler absorbs it.
	ErrFetch = errors.New("could not fetch url")
)
