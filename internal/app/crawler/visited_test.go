package crawler

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitedSetClaim(t *testing.T) {
	v := newVisitedSet(2)

	assert.Equal(t, outsideDomain, v.claim("https://other.test/", false))
	assert.Equal(t, claimed, v.claim("https://example.test/", true))
	assert.Equal(t, alreadyVisited, v.claim("https://example.test/", true))
	assert.Equal(t, claimed, v.claim("https://example.test/a", true))
	assert.Equal(t, limitReached, v.claim("https://example.test/b", true))
	assert.Equal(t, limitReached, v.claim("https://other.test/", false), "a full set reports the limit first")

	assert.Equal(t, 2, v.len())
	assert.True(t, v.full())
	assert.True(t, v.contains("https://example.test/a"))
	assert.False(t, v.contains("https://example.test/b"))
}

func TestVisitedSetDrain(t *testing.T) {
	v := newVisitedSet(10)
	v.claim("https://example.test/", true)
	v.claim("https://example.test/a", true)

	assert.ElementsMatch(t, []string{"https://example.test/", "https://example.test/a"}, v.drain())
	assert.Equal(t, limitReached, v.claim("https://example.test/b", true))
	assert.Zero(t, v.len())
	assert.True(t, v.full())
}

func TestVisitedSetConcurrentClaims(t *testing.T) {
	const (
		limit      = 25
		goroutines = 64
		urls       = 100
	)
	v := newVisitedSet(limit)

	var mu sync.Mutex
	won := make(map[string]int)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < urls; i++ {
				u := fmt.Sprintf("https://example.test/%d", i)
				if v.claim(u, true) == claimed {
					mu.Lock()
					won[u]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, v.len())
	assert.Len(t, won, limit)
	for u, n := range won {
		assert.Equal(t, 1, n, "url %s claimed more than once", u)
	}
}
