package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultSet(t *testing.T) {
	urls := []string{"https://example.test/b", "https://example.test/a"}
	rs := NewResultSet("example.test", urls)

	assert.Equal(t, 2, rs.NbURLs)
	assert.Equal(t, "example.test", rs.DomainCrawled)
	assert.Equal(t, []string{"https://example.test/a", "https://example.test/b"}, rs.URLs)
	assert.Equal(t, "https://example.test/b", urls[0], "input slice must not be reordered")
}

func TestResultSetJSON(t *testing.T) {
	rs := NewResultSet("example.test", []string{"https://example.test/"})
	b, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nbUrls":1,"domainCrawled":"example.test","urls":["https://example.test/"]}`, string(b))
}

func TestNewCrawlEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	ev := NewCrawlEvent(NewResultSet("example.test", []string{"https://example.test/"}), at)
	assert.Equal(t, "example.test", ev.DomainCrawled)
	assert.Equal(t, 1, ev.NbURLs)
	assert.Equal(t, time.UTC, ev.CrawledAt.Location())
	assert.True(t, at.Equal(ev.CrawledAt))
}
