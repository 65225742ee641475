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

type youtubeSearchResponse struct {
	Items []youtubeSearchItem `json:"items"`
}

type youtubeSearchItem struct {
	Id      youtubeVideoId `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubeVideoId struct {
	VideoId string `json:"videoId"`
}

type youtubeSnippet struct {
	Title        string            `json:"title"`
	ChannelTitle string            `json:"channelTitle"`
	Thumbnails   youtubeThumbnails `json:"thumbnails"`
}

type youtubeThumbnails struct {
	High youtubeThumbnail `json:"high"`
}

type youtubeThumbnail struct {
	Url string `json:"url"`
}

// SearchVideos resolves a free-text query into playable videos via the
// YouTube Data API v3. The query is biased towards official music videos,
// matching what people expect to land in a listening room.
func (s *service) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	if s.cfg.YouTubeAPIKey == "" {
		return nil, ErrVideoSearchUnavailable
	}

	var videos []domain.Video
	err := cached(ctx, s, "search:videos:"+strings.ToLower(query), &videos, func() ([]domain.Video, error) {
		return s.searchYouTube(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	return videos, nil
}

func (s *service) searchYouTube(ctx context.Context, query string) ([]domain.Video, error) {
	searchURL := fmt.Sprintf("%s/search?part=snippet&type=video&videoCategoryId=10&maxResults=%d&q=%s&key=%s",
		s.youtubeBaseURL, s.cfg.ResultLimit,
		url.QueryEscape(query+" official music video"), url.QueryEscape(s.cfg.YouTubeAPIKey))

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
		return nil, fmt.Errorf("youtube api returned %d", resp.StatusCode)
	}

	var parsed youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	videos := make([]domain.Video, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		videos = append(videos, domain.Video{
			Id:       item.Id.VideoId,
			VideoId:  item.Id.VideoId,
			Title:    item.Snippet.Title,
			Artist:   item.Snippet.ChannelTitle,
			AlbumArt: item.Snippet.Thumbnails.High.Url,
			Type:     "youtube",
		})
	}

	return videos, nil
}
