package objectclient

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/doctext/internal/config"
)

func TestNewS3Client_RequiresCredentials(t *testing.T) {
	_, err := NewS3Client(context.Background(), &config.Config{AwsRegion: "us-east-2"})
	assert.Error(t, err)

	_, err = NewS3Client(context.Background(), &config.Config{AwsAccessKey: "a", AwsSecretKey: "b"})
	assert.Error(t, err)
}

func TestPresignGetURL(t *testing.T) {
	c, err := NewS3Client(context.Background(), &config.Config{
		AwsAccessKey: "AKIDEXAMPLE",
		AwsSecretKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		AwsRegion:    "us-east-2",
	})
	require.NoError(t, err)

	raw, err := c.PresignGetURL(context.Background(), "contexta-docs", "user/doc/report.pdf", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Host, "contexta-docs.s3.us-east-2.amazonaws.com"), u.Host)
	assert.Equal(t, "/user/doc/report.pdf", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	_, err = c.PresignGetURL(context.Background(), "", "key", time.Minute)
	assert.Error(t, err)
}
