package sources

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds the static source configuration. It is read-only for the
// process lifetime; List and All return copies.
type Registry struct {
	sources []Source
}

type registryFile struct {
	Sources []Source `yaml:"sources"`
}

// Load reads and validates the sources file. The process must not start
// with zero sources or a duplicate id, so both are hard errors.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s contains no sources", path)
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		src := &file.Sources[i]
		setDefaults(src)
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("invalid source at index %d: %w", i, err)
		}
		if seen[src.ID] {
			return nil, fmt.Errorf("duplicate source id: %s", src.ID)
		}
		seen[src.ID] = true

		slog.Debug("Source loaded", "source", src.ID, "kind", src.Kind, "category", src.Category, "priority", src.Priority)
	}

	return &Registry{sources: file.Sources}, nil
}

// NewRegistry builds a registry from already-validated sources. Used by tests
// and by callers that assemble source lists programmatically.
func NewRegistry(srcs []Source) *Registry {
	copied := make([]Source, len(srcs))
	copy(copied, srcs)
	return &Registry{sources: copied}
}

// List returns the sources matching the filter, in configuration order.
func (r *Registry) List(filter Filter) []Source {
	matched := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		if filter.Category != "" && !strings.EqualFold(src.Category, filter.Category) {
			continue
		}
		if filter.Kind != "" && src.Kind != filter.Kind {
			continue
		}
		matched = append(matched, src)
	}
	return matched
}

// All returns every registered source in configuration order.
func (r *Registry) All() []Source {
	return r.List(Filter{})
}

func (r *Registry) Count() int {
	return len(r.sources)
}

// Categories returns the distinct categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, src := range r.sources {
		key := strings.ToLower(src.Category)
		if src.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, src.Category)
	}
	return categories
}

func setDefaults(src *Source) {
	if src.Priority == "" {
		src.Priority = PriorityMedium
	}
	if src.RefreshInterval == 0 {
		switch src.Priority {
		case PriorityHigh:
			src.RefreshInterval = 300
		case PriorityLow:
			src.RefreshInterval = 3600
		default:
			src.RefreshInterval = 900
		}
	}
	if src.Category == "" {
		src.Category = "General"
	}
}

func validate(src *Source) error {
	if src.ID == "" {
		return fmt.Errorf("source id is required")
	}
	if src.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if !src.Kind.Valid() {
		return fmt.Errorf("unknown source kind: %s", src.Kind)
	}
	if !src.Priority.Valid() {
		return fmt.Errorf("unknown priority: %s", src.Priority)
	}
	if src.Locator == "" {
		return fmt.Errorf("source locator is required")
	}
	if src.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}

	if src.Kind == KindRSS {
		u, err := url.Parse(src.Locator)
		if err != nil {
			return fmt.Errorf("invalid feed URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("unsupported scheme: %s", u.Scheme)
		}
	}

	return nil
}
