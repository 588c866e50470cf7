package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache holds the source configurations loaded at startup. Configurations are
// immutable for the lifetime of the process; the cache only hands out lookups.
type Cache struct {
	sourcesFile string
	sources     []*Source
	byName      map[string]*Source
	mu          sync.RWMutex
}

func NewCache(sourcesFile string) *Cache {
	return &Cache{
		sourcesFile: sourcesFile,
		byName:      make(map[string]*Source),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.sourcesFile); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(c.sourcesFile)
	if err != nil {
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources []*Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, source := range sources {
		if err := c.validateSource(source); err != nil {
			return fmt.Errorf("invalid source at index %d: %w", i, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sources = sources
	for _, source := range sources {
		if _, ok := c.byName[source.Name]; ok {
			return fmt.Errorf("duplicate source name: %s", source.Name)
		}
		c.byName[source.Name] = source
		slog.Debug("Source configuration loaded", "source", source.Name, "url", source.URL, "mapped_fields", len(source.Mapping))
	}

	return nil
}

// Get resolves a source configuration by name. An unknown name is a
// configuration error for that source.
func (c *Cache) Get(sourceName string) (*Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	source, ok := c.byName[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return source, nil
}

// All returns the configured sources in their declared order.
func (c *Cache) All() []*Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sourcesCopy := make([]*Source, len(c.sources))
	copy(sourcesCopy, c.sources)
	return sourcesCopy
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// HasBucketSources reports whether any configured source reads from an object
// store bucket rather than a plain HTTP URL.
func (c *Cache) HasBucketSources() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, source := range c.sources {
		if !source.IsHTTP() {
			return true
		}
	}
	return false
}

func (c *Cache) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}
	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.URL == "" && source.Bucket == "" {
		return fmt.Errorf("either bucket_url or bucket is required")
	}
	if len(source.Mapping) == 0 {
		return fmt.Errorf("mapping is required")
	}

	for canonicalField, sourcePath := range source.Mapping {
		if canonicalField == "" || sourcePath == "" {
			return fmt.Errorf("mapping entries must have non-empty canonical field and source path")
		}
	}

	return nil
}
