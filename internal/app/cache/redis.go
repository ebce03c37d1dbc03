package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisURL is used when no database url is configured.
const DefaultRedisURL = "redis://127.0.0.1:6379/0"

// Redis stores every url set as a Redis set named prefix + domain.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the Redis server at rawURL (redis://[:password@]host[:port][/db]).
// A ttl of zero keeps the sets forever.
func NewRedis(rawURL, prefix string, ttl time.Duration) (*Redis, error) {
	if rawURL == "" {
		rawURL = DefaultRedisURL
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return NewRedisWithClient(redis.NewClient(opts), prefix, ttl), nil
}

// NewRedisWithClient builds the cache around an existing client (tests).
func NewRedisWithClient(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks that the server answers.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Redis) Close() error {
	return s.client.Close()
}

// Get returns the members of the set of key, if the set exists.
func (s *Redis) Get(ctx context.Context, key string) ([]string, bool, error) {
	k := s.prefix + key
	n, err := s.client.Exists(ctx, k).Result()
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	urls, err := s.client.SMembers(ctx, k).Result()
	if err != nil {
		return nil, false, err
	}
	return urls, true, nil
}

// Put adds urls to the set of key.
func (s *Redis) Put(ctx context.Context, key string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	k := s.prefix + key
	members := make([]interface{}, len(urls))
	for i, u := range urls {
		members[i] = u
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, k, members...)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	return err
}

// Len returns the cardinality of the set of key.
func (s *Redis) Len(ctx context.Context, key string) (int, bool, error) {
	n, err := s.client.SCard(ctx, s.prefix+key).Result()
	if err != nil {
		return 0, false, err
	}
	return int(n), n > 0, nil
}
