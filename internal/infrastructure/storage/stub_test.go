package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	require.NoError(t, s.Upload(ctx, "docs/1/2/k-scan.pdf", strings.NewReader("%PDF-1.7 trailing"), 8, "application/pdf"))

	obj, ok := s.Object("docs/1/2/k-scan.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.7", string(obj.Data))
	assert.Equal(t, "application/pdf", obj.ContentType)

	url, expiresAt, err := s.GenerateDownloadURL(ctx, "docs/1/2/k-scan.pdf", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.example.com/download/docs/1/2/k-scan.pdf?expires="))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	_, _, err = s.GenerateDownloadURL(ctx, "docs/missing", time.Hour)
	assert.Error(t, err)

	require.NoError(t, s.DeleteObject(ctx, "docs/1/2/k-scan.pdf"))
	require.NoError(t, s.DeleteObject(ctx, "docs/1/2/k-scan.pdf"))
	assert.Zero(t, s.Len())
}

func TestStubObjectStorage_RequiresKey(t *testing.T) {
	s := NewStubObjectStorage()

	assert.Error(t, s.Upload(context.Background(), "", strings.NewReader("x"), 1, "text/plain"))
	assert.Error(t, s.DeleteObject(context.Background(), ""))
	_, _, err := s.GenerateDownloadURL(context.Background(), "", time.Minute)
	assert.Error(t, err)
}
