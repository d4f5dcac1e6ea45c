package cfg

type Cfg struct {
	// Upstream source configuration
	YouTubeAPIKey string
	ChannelID     string
	ChannelsFile  string
	SourceBackend string

	// Chat transport configuration
	DiscordToken string

	// Storage configuration
	StorageBackend string
	DBPath         string

	// Refresh and matching configuration
	RefreshInterval  int // seconds
	PollInterval     int // seconds
	SkipStartupCheck bool
	MatchThreshold   float64
	RequestTimeout   int // milliseconds

	// HTTP server configuration
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
