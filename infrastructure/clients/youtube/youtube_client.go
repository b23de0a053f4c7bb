package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"channel-portfolio/domain/model"
	"channel-portfolio/domain/repository"
	"channel-portfolio/infrastructure/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// pageSize is the page size for search and playlist listing, and the
// maximum number of ids the videos endpoint accepts per request.
const pageSize = 50

// maxPages is a hard stop against a cursor that never exhausts.
const maxPages = 1000

// Client implements repository.IUpstream against the YouTube Data API v3
// in API-key (read-only) mode. Failures are logged and mapped to
// absent/empty results; no error crosses this boundary.
type Client struct {
	service *youtube.Service
	timeout time.Duration
}

// Config represents the upstream client configuration
type Config struct {
	APIKey string `json:"api_key"`
	// RequestTimeout bounds a single API call; zero means 10s.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// NewCatalogClient creates a new read-only YouTube API client. Extra
// options (e.g. a test endpoint) are appended after the API key option.
func NewCatalogClient(ctx context.Context, config *Config, opts ...option.ClientOption) (repository.IUpstream, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}
	clientOpts := append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{service: service, timeout: timeout}, nil
}

// FetchChannelInfo returns channel metadata, or nil when the lookup
// failed or matched nothing.
func (c *Client) FetchChannelInfo(ctx context.Context, channelID string) *model.ChannelInfo {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(callCtx).
		Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("channelId", channelID).Warn("channel lookup failed")
		return nil
	}
	if len(response.Items) == 0 {
		logger.GetLogger().WithField("channelId", channelID).Warn("channel lookup returned no items")
		return nil
	}

	channel := response.Items[0]
	info := &model.ChannelInfo{
		Title:       channel.Snippet.Title,
		Description: channel.Snippet.Description,
	}
	if channel.Statistics != nil {
		info.SubscriberCount = int64(channel.Statistics.SubscriberCount)
		info.VideoCount = int64(channel.Statistics.VideoCount)
		info.ViewCount = int64(channel.Statistics.ViewCount)
	}
	return info
}

// FetchAllVideos pages through the channel's video search ordered by
// date. A failed page truncates the sequence; the accumulated prefix is
// returned as-is and the orchestrator decides whether to trust it.
func (c *Client) FetchAllVideos(ctx context.Context, channelID string) []model.VideoStub {
	stubs := make([]model.VideoStub, 0, pageSize)
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		call := c.service.Search.List([]string{"id", "snippet"}).
			ChannelId(channelID).
			Type("video").
			Order("date").
			MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		response, err := call.Context(callCtx).Do()
		cancel()
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":     err,
				"channelId": channelID,
				"page":      page,
				"collected": len(stubs),
			}).Warn("video search page failed; returning partial result")
			return stubs
		}

		for _, item := range response.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			stubs = append(stubs, searchItemToStub(item))
		}

		if response.NextPageToken == "" || response.NextPageToken == pageToken {
			break
		}
		pageToken = response.NextPageToken
	}
	return stubs
}

// FetchVideoDetails resolves statistics and content details for the given
// ids, at most 50 per request. A failed batch is skipped; its ids stay
// absent from the result.
func (c *Client) FetchVideoDetails(ctx context.Context, ids []string) map[string]model.VideoDetails {
	details := make(map[string]model.VideoDetails, len(ids))

	for i := 0; i < len(ids); i += pageSize {
		end := i + pageSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(strings.Join(batch, ",")).
			Context(callCtx).
			Do()
		cancel()
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error": err,
				"batch": fmt.Sprintf("%d-%d", i, end),
			}).Warn("video details batch failed; skipping")
			continue
		}

		for _, video := range response.Items {
			d := model.VideoDetails{VideoID: video.Id}
			if video.Statistics != nil {
				d.ViewCount = int64(video.Statistics.ViewCount)
				d.LikeCount = int64(video.Statistics.LikeCount)
			}
			if video.ContentDetails != nil {
				d.Duration = video.ContentDetails.Duration
			}
			details[video.Id] = d
		}
	}
	return details
}

// FetchPlaylistItems pages through a playlist with the same pagination
// discipline as FetchAllVideos.
func (c *Client) FetchPlaylistItems(ctx context.Context, playlistID string) []model.PlaylistEntry {
	entries := make([]model.PlaylistEntry, 0, pageSize)
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		call := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		response, err := call.Context(callCtx).Do()
		cancel()
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":      err,
				"playlistId": playlistID,
				"page":       page,
				"collected":  len(entries),
			}).Warn("playlist page failed; returning partial result")
			return entries
		}

		for _, item := range response.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
				continue
			}
			publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			entries = append(entries, model.PlaylistEntry{
				VideoID:     item.Snippet.ResourceId.VideoId,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				PublishedAt: publishedAt,
				Thumbnails:  convertThumbnails(item.Snippet.Thumbnails),
			})
		}

		if response.NextPageToken == "" || response.NextPageToken == pageToken {
			break
		}
		pageToken = response.NextPageToken
	}
	return entries
}

// searchItemToStub converts a search result item to our model
func searchItemToStub(item *youtube.SearchResult) model.VideoStub {
	stub := model.VideoStub{VideoID: item.Id.VideoId}
	if item.Snippet != nil {
		stub.Title = item.Snippet.Title
		stub.Description = item.Snippet.Description
		stub.PublishedAt, _ = time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		stub.Thumbnails = convertThumbnails(item.Snippet.Thumbnails)
	}
	return stub
}

func convertThumbnails(t *youtube.ThumbnailDetails) model.Thumbnails {
	var out model.Thumbnails
	if t == nil {
		return out
	}
	if t.Default != nil {
		out.Default.URL = t.Default.Url
	}
	if t.Medium != nil {
		out.Medium.URL = t.Medium.Url
	}
	if t.High != nil {
		out.High.URL = t.High.Url
	}
	return out
}
