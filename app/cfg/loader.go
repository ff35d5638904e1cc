package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	SourcesFile  string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file describing the feed sources"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for management endpoints (optional)"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the shared cache (empty uses in-process cache)"`

	// Fetching
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-source fetch timeout in seconds"`
	MaxItemsPerSource int    `long:"max-items-per-source" env:"MAX_ITEMS_PER_SOURCE" default:"10" description:"Maximum items taken from a single source per fetch"`
	MaxItemsTotal     int    `long:"max-items-total" env:"MAX_ITEMS_TOTAL" default:"50" description:"Maximum items in an aggregated response"`
	YouTubeAPIKey     string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API key (required for youtube sources)"`

	// Deduplication
	SimilarityThreshold float64 `long:"similarity-threshold" env:"SIMILARITY_THRESHOLD" default:"0.7" description:"Jaccard similarity above which two titles are duplicates"`
	TitleTruncateLength int     `long:"title-truncate-length" env:"TITLE_TRUNCATE_LENGTH" default:"60" description:"Title prefix length used for duplicate detection"`

	// Background refresh
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for feed refresh"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"newspulse/1.0 (+https://newspulse.dev)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
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
		SourcesFile:         raw.SourcesFile,
		Port:                raw.Port,
		APIAccessKey:        raw.APIAccessKey,
		RedisAddr:           raw.RedisAddr,
		FetchTimeout:        raw.FetchTimeout,
		MaxItemsPerSource:   raw.MaxItemsPerSource,
		MaxItemsTotal:       raw.MaxItemsTotal,
		YouTubeAPIKey:       raw.YouTubeAPIKey,
		SimilarityThreshold: raw.SimilarityThreshold,
		TitleTruncateLength: raw.TitleTruncateLength,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
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
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if cfg.MaxItemsPerSource <= 0 {
		return fmt.Errorf("max items per source must be positive")
	}
	if cfg.MaxItemsTotal <= 0 {
		return fmt.Errorf("max items total must be positive")
	}
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0, 1]")
	}
	if cfg.TitleTruncateLength <= 0 {
		return fmt.Errorf("title truncate length must be positive")
	}
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
