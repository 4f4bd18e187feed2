package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresignDownload(t *testing.T) {
	svc, err := NewStorageService(context.Background(), ServiceConfig{
		S3BucketName:      "library",
		S3Endpoint:        "http://127.0.0.1:9000",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	raw, err := svc.PresignDownload(context.Background(), "alice/abc.pdf", "report final.pdf", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/library/alice/abc.pdf"), "path-style addressing")

	q := u.Query()
	assert.Equal(t, "300", q.Get("X-Amz-Expires"))
	assert.Contains(t, q.Get("response-content-disposition"), "attachment")
	assert.Contains(t, q.Get("response-content-disposition"), "report final.pdf")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(fmt.Errorf("get: %w", &types.NoSuchKey{})))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.False(t, isNotFound(fmt.Errorf("boom")))
}
