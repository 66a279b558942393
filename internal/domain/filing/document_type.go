package filing

import (
	"strings"

	"github.com/docfiling/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxDocumentTypeNameLength mirrors the width of the document_types.name column
const MaxDocumentTypeNameLength = 255

// DocumentType is a reusable suggestion label for naming documents.
// It is not referenced by Document rows.
type DocumentType struct {
	ID   uint
	Name string
}

var upperCaser = cases.Upper(language.Und)

// NormalizeDocumentTypeName trims and upper-cases a document type name
func NormalizeDocumentTypeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("Document type name is required")
	}
	name = upperCaser.String(name)
	if len([]rune(name)) > MaxDocumentTypeNameLength {
		return "", shared.NewValidationError("Document type name cannot exceed 255 characters")
	}
	return name, nil
}
