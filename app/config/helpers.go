package config

import "strings"

// FileKey returns the object key of the source's data file, derived from the
// last path segment of the configured URL. An empty result means no file can
// be resolved for this source.
func (s *Source) FileKey() string {
	url := strings.TrimSuffix(s.URL, "/")
	idx := strings.LastIndex(url, "/")
	if idx == -1 {
		return url
	}
	return url[idx+1:]
}

// IsHTTP reports whether the source's data file is fetched over HTTP rather
// than from an object store bucket.
func (s *Source) IsHTTP() bool {
	return strings.HasPrefix(s.URL, "http://") || strings.HasPrefix(s.URL, "https://")
}
