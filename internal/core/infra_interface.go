package core

import (
	"context"
	"time"
)

// ObjectClient signs access to objects held in S3 or any compatible object storage.
// It's abstract so the fetcher never depends on a specific SDK.
type ObjectClient interface {
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (url string, err error)
}
