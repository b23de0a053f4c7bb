package dto

import "channel-portfolio/domain/model"

// CatalogView is the derived presentation structure: video records
// partitioned into regular videos and shorts by duration, with podcast
// playlist members excluded from both partitions to avoid duplicate
// display.
type CatalogView struct {
	Channel     model.ChannelInfo     `json:"channel"`
	Stats       ChannelStats          `json:"stats"`
	Videos      []model.VideoRecord   `json:"videos"`
	Shorts      []model.VideoRecord   `json:"shorts"`
	Podcasts    []model.PlaylistEntry `json:"podcasts"`
	LastUpdated string                `json:"last_updated"`
}

// ChannelStats carries the channel counters pre-formatted for display
// with thousands separators.
type ChannelStats struct {
	Subscribers string `json:"subscribers"`
	Videos      string `json:"videos"`
	Views       string `json:"views"`
}

// RefreshResult reports the outcome of a forced refresh request.
type RefreshResult struct {
	Refreshed   bool   `json:"refreshed"`
	VideoCount  int    `json:"video_count"`
	LastUpdated string `json:"last_updated"`
}
