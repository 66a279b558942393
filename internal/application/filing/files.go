package filing

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedContentTypes is the whitelist for document file uploads.
// Scans of notarized papers arrive as PDF or images; SVG is excluded.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/tiff":      true,
	"image/webp":      true,
}

// documentFileKey builds docs/<envelope>/<document>/<uuid>-<filename>
func documentFileKey(envelopeID, documentID uint, filename string) string {
	return fmt.Sprintf("docs/%d/%d/%s-%s", envelopeID, documentID, uuid.NewString(), sanitizeFilename(filename))
}

// sanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-]
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

func validateUpload(upload FileUpload, maxSize int64) error {
	if upload.Body == nil || upload.Size <= 0 {
		return shared.NewValidationError("File is empty")
	}
	if strings.TrimSpace(upload.Filename) == "" {
		return shared.NewValidationError("File name is required")
	}
	if maxSize > 0 && upload.Size > maxSize {
		return shared.NewValidationError(fmt.Sprintf("File exceeds the maximum size of %d bytes", maxSize))
	}
	contentType, _, _ := strings.Cut(upload.ContentType, ";")
	if !AllowedContentTypes[strings.TrimSpace(strings.ToLower(contentType))] {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Content type '%s' is not allowed for document files", upload.ContentType))
	}
	return nil
}

// removeStoredFiles deletes objects whose rows are already gone. Errors are logged, not returned.
func removeStoredFiles(ctx context.Context, storage FileStorage, logger *zap.Logger, keys []string) {
	if storage == nil {
		return
	}
	for _, key := range keys {
		if err := storage.DeleteObject(ctx, key); err != nil {
			logger.Warn("Failed to delete document file from storage",
				zap.String("storage_key", key),
				zap.Error(err),
			)
		}
	}
}
