package configuration

import (
	"os"
	"strings"
)

// CatalogConfig carries the catalog credentials and identifiers resolved
// from JSON config with environment variable fallback. Values are threaded
// explicitly into the upstream client and orchestrator constructors; the
// core never reads ambient state.
type CatalogConfig struct {
	APIKey            string
	ChannelID         string
	PodcastPlaylistID string
}

// GetCatalogConfig returns the catalog configuration. Missing values do
// not hard-fail here: the caller decides whether to run in degraded
// (serve-last-snapshot-only) mode.
func GetCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		APIKey:            getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		ChannelID:         getConfigValue(C.YouTube.ChannelID, "YOUTUBE_CHANNEL_ID", ""),
		PodcastPlaylistID: getConfigValue(C.YouTube.PodcastPlaylistID, "PODCAST_PLAYLIST_ID", ""),
	}
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Ignore obvious placeholders left in checked-in config files
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
