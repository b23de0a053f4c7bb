package model

import "time"

// SnapshotName is the logical key of the single cached catalog document.
const SnapshotName = "channel_catalog"

// ChannelInfo represents the public channel metadata block of a snapshot
type ChannelInfo struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
	ViewCount       int64  `json:"view_count"`
}

// Thumbnails holds the thumbnail URL variants YouTube returns per resource
type Thumbnails struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
	Medium struct {
		URL string `json:"url"`
	} `json:"medium"`
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}

// VideoStub is the search half of a video: what a search page returns
// before the statistics lookup has run.
type VideoStub struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt time.Time  `json:"published_at"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

// VideoDetails is the statistics half of a video
type VideoDetails struct {
	VideoID   string `json:"video_id"`
	ViewCount int64  `json:"view_count"`
	LikeCount int64  `json:"like_count"`
	Duration  string `json:"duration"` // ISO-8601, e.g. PT4M32S
}

// VideoRecord is a fully resolved video. Invariant: both halves were
// retrieved and carry the same video id; a stub whose detail lookup failed
// is dropped, never stored with empty details.
type VideoRecord struct {
	Snippet VideoStub    `json:"snippet"`
	Details VideoDetails `json:"details"`
}

// PlaylistEntry is a playlist item snippet. No detail lookup is performed
// for playlist entries.
type PlaylistEntry struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt time.Time  `json:"published_at"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

// Snapshot is the unit of cached state: the complete catalog document.
// It is only ever replaced wholesale, never mutated field by field.
type Snapshot struct {
	ChannelInfo   ChannelInfo     `json:"channel_info"`
	Videos        []VideoRecord   `json:"videos"`
	PodcastVideos []PlaylistEntry `json:"podcast_videos"`
	LastUpdated   string          `json:"last_updated"` // ISO-8601 UTC
}

// DefaultSnapshot returns the well-known empty catalog with an epoch
// timestamp, i.e. maximally stale.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		ChannelInfo:   ChannelInfo{},
		Videos:        []VideoRecord{},
		PodcastVideos: []PlaylistEntry{},
		LastUpdated:   time.Unix(0, 0).UTC().Format(time.RFC3339),
	}
}

// Validate reports whether the snapshot satisfies the schema invariant:
// every video record carries both halves with matching non-empty ids.
func (s *Snapshot) Validate() bool {
	if s == nil {
		return false
	}
	for i := range s.Videos {
		rec := &s.Videos[i]
		if rec.Snippet.VideoID == "" || rec.Details.VideoID == "" {
			return false
		}
		if rec.Snippet.VideoID != rec.Details.VideoID {
			return false
		}
	}
	return true
}

// NewVideoRecord pairs a stub with its details. The caller must have
// verified the details lookup succeeded for the stub's id.
func NewVideoRecord(stub VideoStub, details VideoDetails) VideoRecord {
	return VideoRecord{Snippet: stub, Details: details}
}
