package fetcher

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/markdave123-py/doctext/internal/core"
)

// S3 signs GET access to objects addressed by S3 URLs.
// Object storage serves bytes untransformed, so only the signed strategy applies.
type S3 struct {
	Client core.ObjectClient
	TTL    time.Duration
}

var _ Provider = (*S3)(nil)

func (s *S3) Name() string { return "s3" }

func (s *S3) Match(u *url.URL) bool {
	_, _, ok := parseS3URL(u)
	return ok
}

func (s *S3) CorrectedURL(*url.URL) (string, bool) { return "", false }

func (s *S3) DownloadURL(*url.URL) (string, bool) { return "", false }

func (s *S3) SignedURL(ctx context.Context, u *url.URL) (string, bool, error) {
	if s.Client == nil {
		return "", false, nil
	}
	bucket, key, ok := parseS3URL(u)
	if !ok {
		return "", false, nil
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	signed, err := s.Client.PresignGetURL(ctx, bucket, key, ttl)
	if err != nil {
		return "", false, err
	}
	return signed, true, nil
}

// parseS3URL extracts the bucket and key from virtual-hosted or path-style S3 URLs.
// Example: https://my-bucket.s3.us-east-2.amazonaws.com/path/to/file.pdf
// Example: https://s3.us-east-2.amazonaws.com/my-bucket/path/to/file.pdf
func parseS3URL(u *url.URL) (bucket, key string, ok bool) {
	if u == nil {
		return "", "", false
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, ".amazonaws.com") {
		return "", "", false
	}
	p := strings.TrimPrefix(u.Path, "/")

	labels := strings.Split(host, ".")
	s3At := -1
	for i, l := range labels {
		if l == "s3" || strings.HasPrefix(l, "s3-") {
			s3At = i
			break
		}
	}
	switch {
	case s3At < 0:
		return "", "", false
	case s3At == 0:
		bucket, key, _ = strings.Cut(p, "/")
	default:
		bucket, key = strings.Join(labels[:s3At], "."), p
	}
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
