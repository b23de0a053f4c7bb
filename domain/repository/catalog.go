package repository

import (
	"context"
	"time"

	"channel-portfolio/domain/model"
)

// IUpstream defines the read operations against the remote video catalog
// API. Every method is idempotent and safe to retry. Failures never
// propagate as errors past this boundary: a method returns nil or an empty
// (possibly partially accumulated) result instead, and the orchestrator
// decides whether a partial result is trustworthy.
type IUpstream interface {
	// FetchChannelInfo returns the channel metadata, or nil on any
	// transport error, non-2xx status, or empty result set.
	FetchChannelInfo(ctx context.Context, channelID string) *model.ChannelInfo
	// FetchAllVideos pages through the channel's video search (50 per
	// page) following the next-page cursor until exhausted. A failed page
	// truncates the sequence; whatever was accumulated is returned.
	FetchAllVideos(ctx context.Context, channelID string) []model.VideoStub
	// FetchVideoDetails resolves statistics for the given ids in batches
	// of at most 50. A failed batch leaves its ids absent from the result
	// and does not abort the remaining batches.
	FetchVideoDetails(ctx context.Context, ids []string) map[string]model.VideoDetails
	// FetchPlaylistItems pages through a playlist with the same
	// pagination discipline as FetchAllVideos.
	FetchPlaylistItems(ctx context.Context, playlistID string) []model.PlaylistEntry
}

// ISnapshotStore persists the single catalog document. Load returns
// (nil, nil) when no document exists yet; Save replaces the whole
// document atomically.
type ISnapshotStore interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snapshot *model.Snapshot) error
}

// IRefreshLock guards the refresh path across processes. TryLock returns
// false when another holder owns the lock; the caller then serves its
// current snapshot instead of refreshing redundantly.
type IRefreshLock interface {
	TryLock(ctx context.Context, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context) error
}
