package sources

// Kind identifies how a source is fetched and parsed.
type Kind string

const (
	KindRSS     Kind = "rss"
	KindYouTube Kind = "youtube"
	KindReddit  Kind = "reddit"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRSS, KindYouTube, KindReddit:
		return true
	}
	return false
}

// Priority controls how long aggregated results containing a source stay cached.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Source is one external feed, channel or subreddit. Loaded once at startup,
// never mutated afterwards.
type Source struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Kind            Kind     `yaml:"kind"`
	Locator         string   `yaml:"locator"` // feed URL, channel ID or subreddit name
	Category        string   `yaml:"category"`
	Priority        Priority `yaml:"priority"`
	RefreshInterval int      `yaml:"refresh_interval"` // seconds
}

// Filter narrows a registry listing. Zero values match everything.
type Filter struct {
	Category string
	Kind     Kind
}
