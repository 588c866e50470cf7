package config

// Source describes one configured listing source: where its data file lives
// and how its raw fields populate the canonical ones.
type Source struct {
	Name    string            `yaml:"name"`
	Bucket  string            `yaml:"bucket"`
	Prefix  string            `yaml:"prefix"`
	URL     string            `yaml:"bucket_url"`
	Mapping map[string]string `yaml:"mapping"` // canonical field -> source field path (dot-delimited)
}
