package filing

import (
	"strconv"
	"strings"
)

// MetaLine is one submitted metadata row before the row-presence filter
type MetaLine struct {
	ProjectEntity   string
	ProcuringEntity string
	SalesName       string
	DoorNumber      string
}

// IsBlank reports whether every field is empty after trimming
func (l MetaLine) IsBlank() bool {
	return strings.TrimSpace(l.ProjectEntity) == "" &&
		strings.TrimSpace(l.ProcuringEntity) == "" &&
		strings.TrimSpace(l.SalesName) == "" &&
		strings.TrimSpace(l.DoorNumber) == ""
}

// DocumentLine is one submitted document row in its raw textual form
type DocumentLine struct {
	Context string
	Pages   string
	Date    string
}

// NormalizeMetaLines drops blank rows and keeps the values of the others as submitted
func NormalizeMetaLines(lines []MetaLine) []EnvelopeMeta {
	metas := make([]EnvelopeMeta, 0, len(lines))
	for _, l := range lines {
		if l.IsBlank() {
			continue
		}
		metas = append(metas, EnvelopeMeta{
			ProjectEntity:   l.ProjectEntity,
			ProcuringEntity: l.ProcuringEntity,
			SalesName:       l.SalesName,
			DoorNumber:      l.DoorNumber,
		})
	}
	return metas
}

// NormalizeDocumentLines drops rows without a context and coerces pages and dates.
// Pages and dates of dropped rows are ignored even when populated.
func NormalizeDocumentLines(lines []DocumentLine) []Document {
	docs := make([]Document, 0, len(lines))
	for _, l := range lines {
		if l.Context == "" {
			continue
		}
		docs = append(docs, Document{
			ContentContext: l.Context,
			NumPages:       ParsePages(l.Pages),
			DateNotarized:  NormalizeNotarizedDate(l.Date),
		})
	}
	return docs
}

// ParsePages parses a page count as a non-negative integer, 0 when absent or invalid
func ParsePages(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return 0
	}
	return int(n)
}

// NormalizeNotarizedDate keeps a date only when its shape is YYYY-MM-DD:
// ten characters containing exactly two hyphens. Calendar validity is not checked,
// so "2024-13-99" is kept while "bad" or "" become nil.
func NormalizeNotarizedDate(raw string) *string {
	raw = strings.TrimSpace(raw)
	if len(raw) != 10 || strings.Count(raw, "-") != 2 {
		return nil
	}
	return &raw
}
