package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrWrongDomain is returned when a seed cannot be turned into a Domain.
var ErrWrongDomain = errors.New("wrong domain, please check that the domain is well formatted")

// Domain is the host being crawled together with the URL the crawl was
// requested for. It is never mutated after New and is shared read-only by
// all workers of a crawl.
type Domain struct {
	name string
	seed *url.URL
}

// New parses candidate and keeps its host as the domain name.
func New(candidate string) (*Domain, error) {
	u, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongDomain, err)
	}
	name := u.Hostname()
	if name == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrWrongDomain, candidate)
	}
	return &Domain{name: name, seed: u}, nil
}

// Name returns the host every crawled URL must carry.
func (d *Domain) Name() string {
	return d.name
}

// Seed returns a copy of the originally requested URL.
func (d *Domain) Seed() *url.URL {
	u := *d.seed
	return &u
}

func (d *Domain) String() string {
	return d.seed.String()
}

// Belongs reports whether link's host is exactly the domain name.
func (d *Domain) Belongs(link *url.URL) bool {
	if link == nil {
		return false
	}
	host := link.Hostname()
	return host != "" && host == d.name
}

// Resolve completes a path starting with "/" with the scheme and authority
// of the seed URL.
func (d *Domain) Resolve(path string) (*url.URL, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%q is not an absolute path", path)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	return d.seed.ResolveReference(ref), nil
}
