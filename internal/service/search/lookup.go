package search

import (
	"context"
	"fmt"

	"github.com/tunesync/server/internal/domain"
	"github.com/tunesync/server/pkg/ytoembed"
)

// LookupVideo resolves metadata for a single video id, for clients that paste
// a video link instead of searching. It needs no API key: the oEmbed endpoint
// is public.
func (s *service) LookupVideo(ctx context.Context, videoId string) (domain.Video, error) {
	var video domain.Video
	var videos []domain.Video
	err := cached(ctx, s, "lookup:video:"+videoId, &videos, func() ([]domain.Video, error) {
		data, err := s.oembed.Get(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve video %q: %w", videoId, err)
		}

		return []domain.Video{{
			Id:       videoId,
			VideoId:  videoId,
			Title:    data.Title,
			Artist:   data.AuthorName,
			AlbumArt: data.ThumbnailUrl,
			Type:     "youtube",
		}}, nil
	})
	if err != nil {
		return domain.Video{}, err
	}
	if len(videos) == 0 {
		return domain.Video{}, ytoembed.ErrVideoNotFound
	}
	video = videos[0]

	return video, nil
}
