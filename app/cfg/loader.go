package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Upstream source configuration
	YouTubeAPIKey string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API v3 key (required for the api source backend)"`
	ChannelID     string `long:"channel-id" env:"YOUTUBE_CHANNEL_ID" description:"YouTube channel ID to catalog"`
	ChannelsFile  string `long:"channels-file" env:"CHANNELS_FILE" description:"Optional YAML file listing additional channels"`
	SourceBackend string `long:"source" env:"SOURCE_BACKEND" default:"api" choice:"api" choice:"rss" description:"Upstream source backend"`

	// Chat transport configuration
	DiscordToken string `long:"discord-token" env:"DISCORD_TOKEN" description:"Discord bot token (omit to run without the chat transport)"`

	// Storage configuration
	StorageBackend string `long:"storage" env:"STORAGE_BACKEND" default:"memory" choice:"memory" choice:"sqlite" description:"Catalog storage backend"`
	DBPath         string `long:"db-path" env:"DB_PATH" default:"./cliplink.db" description:"SQLite database path (sqlite backend only)"`

	// Refresh and matching configuration
	RefreshInterval  int     `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"86400" description:"Catalog refresh interval in seconds"`
	PollInterval     int     `long:"poll-interval" env:"POLL_INTERVAL" default:"300" description:"Freshness poll interval in seconds"`
	SkipStartupCheck bool    `long:"skip-startup-check" env:"SKIP_STARTUP_CHECK" description:"Do not refresh a stale catalog at startup"`
	MatchThreshold   float64 `long:"match-threshold" env:"MATCH_THRESHOLD" default:"0.48" description:"Minimum similarity score required to reply with a match"`
	RequestTimeout   int     `long:"request-timeout" env:"REQUEST_TIMEOUT_MS" default:"10000" description:"Upstream request timeout in milliseconds"`

	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Cliplink/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		YouTubeAPIKey:    raw.YouTubeAPIKey,
		ChannelID:        raw.ChannelID,
		ChannelsFile:     raw.ChannelsFile,
		SourceBackend:    raw.SourceBackend,
		DiscordToken:     raw.DiscordToken,
		StorageBackend:   raw.StorageBackend,
		DBPath:           raw.DBPath,
		RefreshInterval:  raw.RefreshInterval,
		PollInterval:     raw.PollInterval,
		SkipStartupCheck: raw.SkipStartupCheck,
		MatchThreshold:   raw.MatchThreshold,
		RequestTimeout:   raw.RequestTimeout,
		Port:             raw.Port,
		APIAccessKey:     raw.APIAccessKey,
		UserAgent:        raw.UserAgent,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.SourceBackend == "api" && cfg.YouTubeAPIKey == "" {
		return fmt.Errorf("youtube-api-key is required for the api source backend")
	}
	if cfg.ChannelID == "" && cfg.ChannelsFile == "" {
		return fmt.Errorf("at least one channel is required (channel-id or channels-file)")
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return fmt.Errorf("match-threshold must be within [0, 1], got %v", cfg.MatchThreshold)
	}
	if cfg.RefreshInterval <= 0 {
		return fmt.Errorf("refresh-interval must be positive")
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive")
	}
	return nil
}
