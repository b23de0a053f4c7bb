package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"channel-portfolio/domain/model"
	"channel-portfolio/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations

type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) FetchChannelInfo(ctx context.Context, channelID string) *model.ChannelInfo {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.ChannelInfo)
}

func (m *MockUpstream) FetchAllVideos(ctx context.Context, channelID string) []model.VideoStub {
	args := m.Called(ctx, channelID)
	return args.Get(0).([]model.VideoStub)
}

func (m *MockUpstream) FetchVideoDetails(ctx context.Context, ids []string) map[string]model.VideoDetails {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]model.VideoDetails)
}

func (m *MockUpstream) FetchPlaylistItems(ctx context.Context, playlistID string) []model.PlaylistEntry {
	args := m.Called(ctx, playlistID)
	return args.Get(0).([]model.PlaylistEntry)
}

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*model.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockSnapshotStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

type MockRefreshLock struct {
	mock.Mock
}

func (m *MockRefreshLock) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshLock) Unlock(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func freshSnapshot() *model.Snapshot {
	return &model.Snapshot{
		ChannelInfo: model.ChannelInfo{Title: "My Channel", VideoCount: 2},
		Videos: []model.VideoRecord{
			record("v1", "PT10M"),
			record("v2", "PT30S"),
		},
		PodcastVideos: []model.PlaylistEntry{},
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}
}

func staleSnapshot() *model.Snapshot {
	s := freshSnapshot()
	s.LastUpdated = time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	return s
}

func defaultOptions() usecase.Options {
	return usecase.Options{
		ChannelID:          "UC123",
		PodcastPlaylistID:  "PL456",
		StalenessThreshold: 24 * time.Hour,
		ShortsCutoff:       60 * time.Second,
	}
}

func TestGetSnapshot_CacheHitMakesNoUpstreamCalls(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	stored := freshSnapshot()
	store.On("Load", mock.Anything).Return(stored, nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	assert.Equal(t, stored, got)
	upstream.AssertNotCalled(t, "FetchChannelInfo", mock.Anything, mock.Anything)
	upstream.AssertNotCalled(t, "FetchAllVideos", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetSnapshot_GuardInvariantAbortsWithoutCommit(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	stored := staleSnapshot()
	store.On("Load", mock.Anything).Return(stored, nil).Once()

	// The channel claims 10 videos but enumeration yields nothing.
	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{Title: "My Channel", VideoCount: 10}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").
		Return([]model.VideoStub{}).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	assert.Equal(t, stored, got, "prior snapshot must be served on abort")
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	upstream.AssertNotCalled(t, "FetchVideoDetails", mock.Anything, mock.Anything)
}

func TestGetSnapshot_EmptyChannelCommitsEmptySnapshot(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(nil, nil).Once()

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{Title: "Empty Channel", VideoCount: 0}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").
		Return([]model.VideoStub{}).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{}).
		Return(map[string]model.VideoDetails{}).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").
		Return([]model.PlaylistEntry{}).Once()

	var saved *model.Snapshot
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Snapshot) }).
		Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	require.NotNil(t, saved)
	assert.Empty(t, saved.Videos)
	assert.Equal(t, "Empty Channel", saved.ChannelInfo.Title)
	assert.Equal(t, saved, got)
	store.AssertExpectations(t)
}

func TestGetSnapshot_DropsStubsMissingDetails(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(nil, nil).Once()

	stubs := []model.VideoStub{
		{VideoID: "a", Title: "A"},
		{VideoID: "b", Title: "B"},
		{VideoID: "c", Title: "C"},
	}
	details := map[string]model.VideoDetails{
		"a": {VideoID: "a", Duration: "PT5M"},
		"c": {VideoID: "c", Duration: "PT2M"},
	}

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{VideoCount: 3}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").Return(stubs).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{"a", "b", "c"}).Return(details).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").Return([]model.PlaylistEntry{}).Once()

	var saved *model.Snapshot
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Snapshot) }).
		Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	uc.GetSnapshot(context.Background(), false)

	require.NotNil(t, saved)
	require.Len(t, saved.Videos, 2)
	assert.Equal(t, "a", saved.Videos[0].Snippet.VideoID)
	assert.Equal(t, "c", saved.Videos[1].Snippet.VideoID)
	assert.True(t, saved.Validate())
}

func TestGetSnapshot_ForceRefreshOnFreshSnapshot(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(freshSnapshot(), nil).Once()

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{Title: "My Channel", VideoCount: 1}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").
		Return([]model.VideoStub{{VideoID: "new"}}).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{"new"}).
		Return(map[string]model.VideoDetails{"new": {VideoID: "new", Duration: "PT3M"}}).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").
		Return([]model.PlaylistEntry{}).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), true)

	require.Len(t, got.Videos, 1)
	assert.Equal(t, "new", got.Videos[0].Snippet.VideoID)
	store.AssertExpectations(t)
	upstream.AssertExpectations(t)
}

func TestGetSnapshot_ColdStartUpstreamDown(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(nil, nil).Once()
	upstream.On("FetchChannelInfo", mock.Anything, "UC123").Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	require.NotNil(t, got)
	assert.Empty(t, got.Videos)
	assert.Equal(t, model.DefaultSnapshot().LastUpdated, got.LastUpdated)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetView_ColdStartUpstreamDownIsUnavailable(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(nil, nil).Once()
	upstream.On("FetchChannelInfo", mock.Anything, "UC123").Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	view, err := uc.GetView(context.Background(), false)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, usecase.ErrCatalogUnavailable)
}

func TestGetView_EmptyChannelIsNotUnavailable(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(nil, nil).Once()

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{VideoCount: 0}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").Return([]model.VideoStub{}).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{}).Return(map[string]model.VideoDetails{}).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").Return([]model.PlaylistEntry{}).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	view, err := uc.GetView(context.Background(), false)

	require.NoError(t, err)
	assert.Empty(t, view.Videos)
	assert.Empty(t, view.Shorts)
}

func TestGetSnapshot_MalformedStoredSnapshotTreatedAsAbsent(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)

	// A record missing its details half violates the schema.
	broken := &model.Snapshot{
		Videos:      []model.VideoRecord{{Snippet: model.VideoStub{VideoID: "x"}}},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	store.On("Load", mock.Anything).Return(broken, nil).Once()
	upstream.On("FetchChannelInfo", mock.Anything, "UC123").Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	// The malformed document is discarded, not served.
	assert.Equal(t, model.DefaultSnapshot().LastUpdated, got.LastUpdated)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetSnapshot_RefreshLockBusyServesStored(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	lock := new(MockRefreshLock)
	stored := staleSnapshot()
	store.On("Load", mock.Anything).Return(stored, nil).Once()
	lock.On("TryLock", mock.Anything, mock.AnythingOfType("time.Duration")).Return(false, nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, lock, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	assert.Equal(t, stored, got)
	upstream.AssertNotCalled(t, "FetchChannelInfo", mock.Anything, mock.Anything)
	lock.AssertNotCalled(t, "Unlock", mock.Anything)
}

func TestGetSnapshot_RefreshLockErrorDoesNotBlockRefresh(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	lock := new(MockRefreshLock)
	store.On("Load", mock.Anything).Return(staleSnapshot(), nil).Once()
	lock.On("TryLock", mock.Anything, mock.AnythingOfType("time.Duration")).
		Return(false, errors.New("redis down")).Once()

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{VideoCount: 1}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").
		Return([]model.VideoStub{{VideoID: "v"}}).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{"v"}).
		Return(map[string]model.VideoDetails{"v": {VideoID: "v", Duration: "PT1M5S"}}).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").
		Return([]model.PlaylistEntry{}).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, lock, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	require.Len(t, got.Videos, 1)
	store.AssertExpectations(t)
}

func TestGetSnapshot_SaveFailureServesStored(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	stored := staleSnapshot()
	store.On("Load", mock.Anything).Return(stored, nil).Once()

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{VideoCount: 1}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").
		Return([]model.VideoStub{{VideoID: "v"}}).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{"v"}).
		Return(map[string]model.VideoDetails{"v": {VideoID: "v"}}).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").
		Return([]model.PlaylistEntry{}).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).
		Return(errors.New("disk full")).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	got := uc.GetSnapshot(context.Background(), false)

	assert.Equal(t, stored, got)
}

func TestRefresh_ReportsOutcome(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(nil, nil)

	upstream.On("FetchChannelInfo", mock.Anything, "UC123").
		Return(&model.ChannelInfo{VideoCount: 1}).Once()
	upstream.On("FetchAllVideos", mock.Anything, "UC123").
		Return([]model.VideoStub{{VideoID: "v"}}).Once()
	upstream.On("FetchVideoDetails", mock.Anything, []string{"v"}).
		Return(map[string]model.VideoDetails{"v": {VideoID: "v", Duration: "PT2M"}}).Once()
	upstream.On("FetchPlaylistItems", mock.Anything, "PL456").
		Return([]model.PlaylistEntry{}).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Snapshot")).Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	result := uc.Refresh(context.Background())

	assert.True(t, result.Refreshed)
	assert.Equal(t, 1, result.VideoCount)
	assert.NotEmpty(t, result.LastUpdated)
}

func TestRefresh_FailedCycleReportsNotRefreshed(t *testing.T) {
	upstream := new(MockUpstream)
	store := new(MockSnapshotStore)
	stored := freshSnapshot()
	store.On("Load", mock.Anything).Return(stored, nil)
	upstream.On("FetchChannelInfo", mock.Anything, "UC123").Return(nil).Once()

	uc := usecase.NewCatalogUseCase(upstream, store, nil, defaultOptions())
	result := uc.Refresh(context.Background())

	assert.False(t, result.Refreshed)
	assert.Equal(t, len(stored.Videos), result.VideoCount)
	assert.Equal(t, stored.LastUpdated, result.LastUpdated)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
