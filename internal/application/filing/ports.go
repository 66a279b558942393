package filing

import (
	"context"
	"io"
	"time"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
)

// FileStorage stores the files attached to documents.
// Implemented by the infrastructure layer (S3 compatible storage or the local stub).
type FileStorage interface {
	// Upload writes size bytes from body under storageKey
	Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error

	// GenerateDownloadURL returns a presigned URL for downloading a file and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes a file from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// Notifier receives audit entries after the write they describe has committed
type Notifier interface {
	Notify(ctx context.Context, entry audit.Entry)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, entry audit.Entry)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, entry audit.Entry) {
	f(ctx, entry)
}

// Seeder inserts the default regions and document types that are missing
type Seeder interface {
	EnsureDefaults(ctx context.Context) (filing.SeedResult, error)
}
