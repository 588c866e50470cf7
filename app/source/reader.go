package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/lysyi3m/listing-comb/app/config"
)

// ObjectGetter is the slice of the S3 API the reader needs.
type ObjectGetter interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// Reader opens byte streams for configured sources, either over HTTP or from
// an object store bucket. It performs no retries; retry policy belongs to the
// caller.
type Reader struct {
	configs    *config.Cache
	s3Client   ObjectGetter
	httpClient *http.Client
	userAgent  string
}

func NewReader(configs *config.Cache, s3Client ObjectGetter, httpClient *http.Client, userAgent string) *Reader {
	return &Reader{
		configs:    configs,
		s3Client:   s3Client,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Open resolves the named source and returns a stream over its data file.
// The caller owns the returned stream and must close it after draining.
func (r *Reader) Open(ctx context.Context, sourceName, fileKey string) (io.ReadCloser, error) {
	source, err := r.configs.Get(sourceName)
	if err != nil {
		return nil, err
	}

	if source.IsHTTP() {
		return r.openHTTP(ctx, source)
	}
	return r.openObject(ctx, source, fileKey)
}

func (r *Reader) openHTTP(ctx context.Context, source *config.Source) (io.ReadCloser, error) {
	slog.Debug("Fetching source over HTTP", "source", source.Name, "url", source.URL)

	req, err := http.NewRequestWithContext(ctx, "GET", source.URL, nil)
	if err != nil {
		return nil, &UnavailableError{Source: source.Name, Err: err}
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Source: source.Name, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &UnavailableError{Source: source.Name, Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	return resp.Body, nil
}

func (r *Reader) openObject(ctx context.Context, source *config.Source, fileKey string) (io.ReadCloser, error) {
	key := source.Prefix + fileKey
	slog.Debug("Fetching source object", "source", source.Name, "bucket", source.Bucket, "key", key)

	out, err := r.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(source.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &UnavailableError{Source: source.Name, Err: err}
	}

	return out.Body, nil
}
