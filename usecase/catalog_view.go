package usecase

import (
	"strconv"
	"strings"
	"time"

	"channel-portfolio/domain/dto"
	"channel-portfolio/domain/model"

	"github.com/sosodev/duration"
)

// BuildView derives the presentation structure from a snapshot: records at
// or under the cutoff become shorts, the rest stay regular videos, and any
// video that is also a podcast playlist member is excluded from both
// partitions so it is not displayed twice.
func BuildView(s *model.Snapshot, shortsCutoff time.Duration) *dto.CatalogView {
	view := &dto.CatalogView{
		Channel: s.ChannelInfo,
		Stats: dto.ChannelStats{
			Subscribers: formatCount(s.ChannelInfo.SubscriberCount),
			Videos:      formatCount(s.ChannelInfo.VideoCount),
			Views:       formatCount(s.ChannelInfo.ViewCount),
		},
		Videos:      []model.VideoRecord{},
		Shorts:      []model.VideoRecord{},
		Podcasts:    s.PodcastVideos,
		LastUpdated: s.LastUpdated,
	}
	if view.Podcasts == nil {
		view.Podcasts = []model.PlaylistEntry{}
	}

	podcastIDs := make(map[string]struct{}, len(s.PodcastVideos))
	for _, p := range s.PodcastVideos {
		podcastIDs[p.VideoID] = struct{}{}
	}

	for _, rec := range s.Videos {
		if _, ok := podcastIDs[rec.Snippet.VideoID]; ok {
			continue
		}
		if parseDuration(rec.Details.Duration) <= shortsCutoff {
			view.Shorts = append(view.Shorts, rec)
		} else {
			view.Videos = append(view.Videos, rec)
		}
	}
	return view
}

// formatCount renders a counter with thousands separators, e.g. 12345
// becomes "12,345".
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if s[0] == '-' {
		start = 1
	}
	digits := len(s) - start
	if digits <= 3 {
		return s
	}
	var b strings.Builder
	b.WriteString(s[:start])
	for i := start; i < len(s); i++ {
		if i > start && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// parseDuration converts an ISO-8601 duration to a time.Duration. An
// unparsable value maps to zero, which classifies the record as a short
// rather than dropping it.
func parseDuration(iso string) time.Duration {
	d, err := duration.Parse(iso)
	if err != nil {
		return 0
	}
	return d.ToTimeDuration()
}
