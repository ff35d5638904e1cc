package cfg

type Cfg struct {
	// Application configuration
	SourcesFile  string
	Port         string
	APIAccessKey string
	RedisAddr    string

	// Fetching
	FetchTimeout      int // seconds
	MaxItemsPerSource int
	MaxItemsTotal     int
	YouTubeAPIKey     string

	// Deduplication
	SimilarityThreshold float64
	TitleTruncateLength int

	// Background refresh
	WorkerCount       int
	SchedulerInterval int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
