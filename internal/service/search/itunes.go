package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tunesync/server/internal/domain"
)

type itunesSearchResponse struct {
	ResultCount int                `json:"resultCount"`
	Results     []itunesTrackEntry `json:"results"`
}

type itunesTrackEntry struct {
	TrackId         int64  `json:"trackId"`
	TrackName       string `json:"trackName"`
	ArtistName      string `json:"artistName"`
	TrackTimeMillis int64  `json:"trackTimeMillis"`
	ArtworkUrl100   string `json:"artworkUrl100"`
	PreviewUrl      string `json:"previewUrl"`
}

// SearchSongs resolves a free-text query into playable tracks via the iTunes
// Search API.
func (s *service) SearchSongs(ctx context.Context, query string) ([]domain.Track, error) {
	var tracks []domain.Track
	err := cached(ctx, s, "search:songs:"+strings.ToLower(query), &tracks, func() ([]domain.Track, error) {
		return s.searchItunes(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	return tracks, nil
}

func (s *service) searchItunes(ctx context.Context, query string) ([]domain.Track, error) {
	searchURL := fmt.Sprintf("%s/search?term=%s&media=music&entity=song&limit=%d",
		s.itunesBaseURL, url.QueryEscape(query), s.cfg.ResultLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes api returned %d", resp.StatusCode)
	}

	var parsed itunesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	tracks := make([]domain.Track, 0, len(parsed.Results))
	for _, entry := range parsed.Results {
		tracks = append(tracks, domain.Track{
			Id:       entry.TrackId,
			Title:    entry.TrackName,
			Artist:   entry.ArtistName,
			Duration: formatDuration(entry.TrackTimeMillis / 1000),
			// the 100px artwork URL doubles as a 300px one by convention
			AlbumArt:   strings.Replace(entry.ArtworkUrl100, "100x100", "300x300", 1),
			PreviewUrl: entry.PreviewUrl,
			Type:       "itunes",
		})
	}

	return tracks, nil
}

func formatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0:00"
	}

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
