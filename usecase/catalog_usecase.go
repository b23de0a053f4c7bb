package usecase

import (
	"context"
	"errors"
	"time"

	"channel-portfolio/domain/dto"
	"channel-portfolio/domain/model"
	"channel-portfolio/domain/repository"
	"channel-portfolio/infrastructure/logger"
	"channel-portfolio/infrastructure/metrics"

	"golang.org/x/sync/singleflight"
)

// ErrCatalogUnavailable is returned when the catalog has never been
// populated: no snapshot was ever committed and the refresh that would
// have produced one failed. It distinguishes "fetch failed" from a
// genuinely empty channel, which commits an empty snapshot with a real
// timestamp. Callers translate it into a 503.
var ErrCatalogUnavailable = errors.New("catalog unavailable: no stored snapshot and refresh failed")

// errRefreshAborted marks a refresh cycle that decided not to commit.
// The store is untouched in that case.
var errRefreshAborted = errors.New("refresh aborted")

// ICatalogUseCase defines the catalog read and refresh operations.
type ICatalogUseCase interface {
	// GetSnapshot returns the current catalog document, refreshing it
	// first when it is stale or when force is set. It never fails on
	// upstream instability: a failed refresh degrades to the stored
	// document, or to the default snapshot when nothing was ever stored.
	GetSnapshot(ctx context.Context, force bool) *model.Snapshot
	// GetView returns the derived presentation structure, or
	// ErrCatalogUnavailable when the catalog has never been populated.
	GetView(ctx context.Context, force bool) (*dto.CatalogView, error)
	// Refresh runs a refresh cycle unconditionally and reports the outcome.
	Refresh(ctx context.Context) *dto.RefreshResult
}

// Options carries the tunables of the catalog use case.
type Options struct {
	ChannelID          string
	PodcastPlaylistID  string
	StalenessThreshold time.Duration
	ShortsCutoff       time.Duration
	LockTTL            time.Duration
}

// CatalogUseCase orchestrates the snapshot lifecycle: load, staleness
// check, refresh, commit. Concurrent refreshes inside the process are
// coalesced with singleflight; an optional distributed lock extends the
// same guarantee across processes.
type CatalogUseCase struct {
	upstream repository.IUpstream
	store    repository.ISnapshotStore
	lock     repository.IRefreshLock // optional
	opts     Options
	group    singleflight.Group
	now      func() time.Time
}

// NewCatalogUseCase creates a catalog use case. lock may be nil, in which
// case only in-process coalescing applies.
func NewCatalogUseCase(upstream repository.IUpstream, store repository.ISnapshotStore, lock repository.IRefreshLock, opts Options) ICatalogUseCase {
	if opts.StalenessThreshold == 0 {
		opts.StalenessThreshold = 24 * time.Hour
	}
	if opts.ShortsCutoff == 0 {
		opts.ShortsCutoff = 60 * time.Second
	}
	if opts.LockTTL == 0 {
		opts.LockTTL = 2 * time.Minute
	}
	return &CatalogUseCase{
		upstream: upstream,
		store:    store,
		lock:     lock,
		opts:     opts,
		now:      time.Now,
	}
}

func (u *CatalogUseCase) GetSnapshot(ctx context.Context, force bool) *model.Snapshot {
	current := u.loadStored(ctx)

	if !force && !IsStale(current, u.now(), u.opts.StalenessThreshold) {
		return current
	}

	refreshed, err := u.refreshShared(ctx)
	if err == nil {
		return refreshed
	}

	// Degrade to the stored document when the refresh could not produce
	// a new one, or to the default shape when nothing was ever stored.
	if current != nil {
		logger.GetLogger().WithField("error", err).Warn("refresh failed; serving stored snapshot")
		return current
	}
	logger.GetLogger().WithField("error", err).Warn("refresh failed on cold start; serving default snapshot")
	return model.DefaultSnapshot()
}

func (u *CatalogUseCase) GetView(ctx context.Context, force bool) (*dto.CatalogView, error) {
	s := u.GetSnapshot(ctx, force)
	if neverPopulated(s) {
		return nil, ErrCatalogUnavailable
	}
	return BuildView(s, u.opts.ShortsCutoff), nil
}

func (u *CatalogUseCase) Refresh(ctx context.Context) *dto.RefreshResult {
	refreshed, err := u.refreshShared(ctx)
	if err != nil {
		current := u.loadStored(ctx)
		if current == nil {
			current = model.DefaultSnapshot()
		}
		return &dto.RefreshResult{
			Refreshed:   false,
			VideoCount:  len(current.Videos),
			LastUpdated: current.LastUpdated,
		}
	}
	return &dto.RefreshResult{
		Refreshed:   true,
		VideoCount:  len(refreshed.Videos),
		LastUpdated: refreshed.LastUpdated,
	}
}

// neverPopulated reports whether the snapshot is the default document
// that no successful refresh has ever replaced. A genuinely empty channel
// is not in this state: its committed snapshot carries a real timestamp.
func neverPopulated(s *model.Snapshot) bool {
	return s.LastUpdated == model.DefaultSnapshot().LastUpdated
}

// loadStored reads the stored snapshot and treats every failure mode as a
// miss: absent document, read error, schema violation.
func (u *CatalogUseCase) loadStored(ctx context.Context) *model.Snapshot {
	s, err := u.store.Load(ctx)
	if err != nil {
		metrics.SnapshotLoadsTotal.WithLabelValues(metrics.LoadStatusError).Inc()
		logger.GetLogger().WithField("error", err).Warn("snapshot store read failed")
		return nil
	}
	if s == nil {
		metrics.SnapshotLoadsTotal.WithLabelValues(metrics.LoadStatusMiss).Inc()
		return nil
	}
	if !s.Validate() {
		metrics.SnapshotLoadsTotal.WithLabelValues(metrics.LoadStatusError).Inc()
		logger.GetLogger().Warn("stored snapshot violates schema; treating as absent")
		return nil
	}
	metrics.SnapshotLoadsTotal.WithLabelValues(metrics.LoadStatusHit).Inc()
	return s
}

// refreshShared coalesces concurrent refresh attempts onto one execution.
func (u *CatalogUseCase) refreshShared(ctx context.Context) (*model.Snapshot, error) {
	v, err, shared := u.group.Do("refresh", func() (interface{}, error) {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
		return u.refresh(ctx)
	})
	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.Snapshot), nil
}

// refresh runs one full refresh cycle. Either a complete new snapshot is
// committed or the store is left untouched.
func (u *CatalogUseCase) refresh(ctx context.Context) (*model.Snapshot, error) {
	log := logger.GetLogger()

	if u.lock != nil {
		ok, err := u.lock.TryLock(ctx, u.opts.LockTTL)
		if err != nil {
			// The lock is a hardening layer, not a correctness requirement.
			log.WithField("error", err).Warn("refresh lock unavailable; continuing without it")
		} else if !ok {
			metrics.RefreshTotal.WithLabelValues(metrics.RefreshSkipped).Inc()
			log.Info("refresh already in progress elsewhere; skipping")
			return nil, errRefreshAborted
		} else {
			defer func() {
				if err := u.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
					log.WithField("error", err).Warn("refresh lock release failed")
				}
			}()
		}
	}

	info := u.upstream.FetchChannelInfo(ctx, u.opts.ChannelID)
	if info == nil {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshAborted).Inc()
		log.Warn("channel info unavailable; aborting refresh")
		return nil, errRefreshAborted
	}

	stubs := u.upstream.FetchAllVideos(ctx, u.opts.ChannelID)
	// A channel that reports videos but yielded none indicates a broken
	// enumeration. Committing would wipe the catalog.
	if info.VideoCount > 0 && len(stubs) == 0 {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshAborted).Inc()
		log.WithField("video_count", info.VideoCount).Warn("video enumeration returned nothing; aborting refresh")
		return nil, errRefreshAborted
	}

	ids := make([]string, 0, len(stubs))
	for _, s := range stubs {
		ids = append(ids, s.VideoID)
	}
	details := u.upstream.FetchVideoDetails(ctx, ids)

	records := make([]model.VideoRecord, 0, len(stubs))
	for _, s := range stubs {
		d, ok := details[s.VideoID]
		if !ok {
			log.WithField("video_id", s.VideoID).Warn("details missing for video; dropping from snapshot")
			continue
		}
		records = append(records, model.NewVideoRecord(s, d))
	}

	podcasts := []model.PlaylistEntry{}
	if u.opts.PodcastPlaylistID != "" {
		podcasts = u.upstream.FetchPlaylistItems(ctx, u.opts.PodcastPlaylistID)
		if podcasts == nil {
			podcasts = []model.PlaylistEntry{}
		}
	}

	snapshot := &model.Snapshot{
		ChannelInfo:   *info,
		Videos:        records,
		PodcastVideos: podcasts,
		LastUpdated:   u.now().UTC().Format(time.RFC3339),
	}

	if err := u.store.Save(ctx, snapshot); err != nil {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshFailed).Inc()
		log.WithField("error", err).Error("snapshot commit failed")
		return nil, err
	}

	metrics.RefreshTotal.WithLabelValues(metrics.RefreshCommitted).Inc()
	log.WithFields(map[string]interface{}{
		"videos":   len(records),
		"podcasts": len(podcasts),
	}).Info("snapshot committed")
	return snapshot, nil
}
