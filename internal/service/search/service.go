// Package search hosts the metadata-resolution collaborators: free-text
// queries against the iTunes Search API and the YouTube Data API, turned into
// playable track and video descriptors. Results are cached in Redis so a room
// full of people searching the same charting songs does not hammer the
// upstreams. Search never runs inside a room's critical section; clients feed
// chosen results back to the room engine as ordinary queue commands.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tunesync/server/pkg/ytoembed"
)

var ErrVideoSearchUnavailable = errors.New("video search is not configured")

type Config struct {
	YouTubeAPIKey string
	CacheTTL      time.Duration
	ResultLimit   int
}

type service struct {
	rdb        *redis.Client
	httpClient *http.Client
	oembed     *ytoembed.Client
	logger     *slog.Logger
	cfg        *Config

	itunesBaseURL  string
	youtubeBaseURL string
}

type Option func(*service)

// WithBaseURLs points the service at alternative upstreams, used by tests.
func WithBaseURLs(itunesBaseURL, youtubeBaseURL string) Option {
	return func(s *service) {
		s.itunesBaseURL = itunesBaseURL
		s.youtubeBaseURL = youtubeBaseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *service) {
		s.httpClient = httpClient
	}
}

// WithOEmbedClient overrides the video lookup client, used by tests.
func WithOEmbedClient(client *ytoembed.Client) Option {
	return func(s *service) {
		s.oembed = client
	}
}

func NewService(rdb *redis.Client, logger *slog.Logger, cfg *Config, opts ...Option) *service {
	s := &service{
		rdb:            rdb,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logger,
		cfg:            cfg,
		itunesBaseURL:  "https://itunes.apple.com",
		youtubeBaseURL: "https://www.googleapis.com/youtube/v3",
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.oembed == nil {
		s.oembed = ytoembed.New(s.httpClient)
	}

	if s.cfg.ResultLimit <= 0 || s.cfg.ResultLimit > 50 {
		s.cfg.ResultLimit = 10
	}

	return s
}

// cached runs fetch on a cache miss and stores its JSON-encoded result under
// key. Cache failures are logged and degrade to a plain upstream call.
func cached[T any](ctx context.Context, s *service, key string, out *[]T, fetch func() ([]T, error)) error {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			if err := json.Unmarshal([]byte(raw), out); err == nil {
				return nil
			}
			s.logger.WarnContext(ctx, "dropping undecodable cache entry", "key", key)
		case !errors.Is(err, redis.Nil):
			s.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		}
	}

	results, err := fetch()
	if err != nil {
		return err
	}
	*out = results

	if s.rdb != nil {
		encoded, err := json.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode results for cache: %w", err)
		}
		if err := s.rdb.Set(ctx, key, encoded, s.cfg.CacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		}
	}

	return nil
}
