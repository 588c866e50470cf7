package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCacheLoadValidSources(t *testing.T) {
	content := `
- name: "source1"
  bucket: "listings-bucket"
  prefix: "exports/"
  bucket_url: "s3://listings-bucket/exports/source1.json"
  mapping:
    id: "listing_id"
    city: "address.city"
    isAvailable: "available"
    pricePerNight: "price"

- name: "source2"
  bucket_url: "https://example.com/data/source2.json"
  mapping:
    id: "id"
    city: "city"
    isAvailable: "is_free"
    pricePerNight: "nightly_rate"
`

	cache := NewCache(writeSourcesFile(t, content))
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.Count() != 2 {
		t.Errorf("Expected 2 sources, got %d", cache.Count())
	}

	source, err := cache.Get("source1")
	if err != nil {
		t.Fatal(err)
	}

	if source.Name != "source1" {
		t.Errorf("Expected name 'source1', got '%s'", source.Name)
	}
	if source.Bucket != "listings-bucket" {
		t.Errorf("Expected bucket 'listings-bucket', got '%s'", source.Bucket)
	}
	if source.Mapping["city"] != "address.city" {
		t.Errorf("Expected mapping 'address.city' for city, got '%s'", source.Mapping["city"])
	}

	// Declared order must be preserved
	all := cache.All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(all))
	}
	if all[0].Name != "source1" || all[1].Name != "source2" {
		t.Errorf("Expected declared order [source1 source2], got [%s %s]", all[0].Name, all[1].Name)
	}
}

func TestCacheGetUnknownSource(t *testing.T) {
	content := `
- name: "source1"
  bucket_url: "https://example.com/data/source1.json"
  mapping:
    id: "id"
`

	cache := NewCache(writeSourcesFile(t, content))
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.Get("nonexistent"); err == nil {
		t.Error("Expected error for unknown source name")
	}
}

func TestCacheMissingFile(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "missing.yml"))
	if err := cache.Run(); err != nil {
		t.Errorf("Expected no error for missing sources file, got: %v", err)
	}
	if cache.Count() != 0 {
		t.Errorf("Expected 0 sources, got %d", cache.Count())
	}
}

func TestCacheValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing name",
			content: `
- bucket_url: "https://example.com/data.json"
  mapping:
    id: "id"
`,
		},
		{
			name: "missing mapping",
			content: `
- name: "source1"
  bucket_url: "https://example.com/data.json"
`,
		},
		{
			name: "missing location",
			content: `
- name: "source1"
  mapping:
    id: "id"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(writeSourcesFile(t, tt.content))
			if err := cache.Run(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSourceFileKey(t *testing.T) {
	source := &Source{URL: "s3://listings-bucket/exports/source1.json"}
	if source.FileKey() != "source1.json" {
		t.Errorf("Expected file key 'source1.json', got '%s'", source.FileKey())
	}

	source = &Source{URL: "https://example.com/data/source2.json"}
	if source.FileKey() != "source2.json" {
		t.Errorf("Expected file key 'source2.json', got '%s'", source.FileKey())
	}

	source = &Source{URL: ""}
	if source.FileKey() != "" {
		t.Errorf("Expected empty file key, got '%s'", source.FileKey())
	}
}

func TestSourceIsHTTP(t *testing.T) {
	source := &Source{URL: "https://example.com/data.json"}
	if !source.IsHTTP() {
		t.Error("Expected HTTPS URL to be detected as HTTP source")
	}

	source = &Source{URL: "s3://bucket/key.json"}
	if source.IsHTTP() {
		t.Error("Expected s3 URL to not be detected as HTTP source")
	}
}

func TestCacheHasBucketSources(t *testing.T) {
	content := `
- name: "source1"
  bucket_url: "https://example.com/data.json"
  mapping:
    id: "id"
`

	cache := NewCache(writeSourcesFile(t, content))
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.HasBucketSources() {
		t.Error("Expected no bucket sources for HTTP-only configuration")
	}
}
