package crawler

import "sync"

type claim int

const (
	claimed claim = iota
	limitReached
	outsideDomain
	alreadyVisited
)

// visitedSet is the record of urls claimed for fetching during one crawl.
// The size check, the membership check and the insert happen under one lock,
// so a url is claimed at most once and the set never grows past limit.
type visitedSet struct {
	mu      sync.Mutex
	urls    map[string]struct{}
	limit   int
	drained bool
}

func newVisitedSet(limit int) *visitedSet {
	return &visitedSet{
		urls:  make(map[string]struct{}),
		limit: limit,
	}
}

// claim must be called with inDomain computed beforehand; the lock is held
// only for the bookkeeping, never for the fetch that follows.
func (v *visitedSet) claim(url string, inDomain bool) claim {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.drained || len(v.urls) >= v.limit:
		return limitReached
	case !inDomain:
		return outsideDomain
	}
	if _, ok := v.urls[url]; ok {
		return alreadyVisited
	}
	v.urls[url] = struct{}{}
	return claimed
}

func (v *visitedSet) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}

func (v *visitedSet) contains(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.urls[url]
	return ok
}

func (v *visitedSet) full() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drained || len(v.urls) >= v.limit
}

// drain moves the urls out of the set. Later claims report the limit as reached.
func (v *visitedSet) drain() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, 0, len(v.urls))
	for u := range v.urls {
		out = append(out, u)
	}
	v.urls = nil
	v.drained = true
	return out
}
