package filing

import (
	"strings"
	"time"

	"github.com/docfiling/backend/internal/domain/shared"
)

// MaxEnvelopeTitleLength mirrors the width of the envelopes.title column
const MaxEnvelopeTitleLength = 255

// Envelope is one physical folder filed under a region.
// It exclusively owns its metadata rows and documents.
type Envelope struct {
	ID        uint
	RegionID  uint
	Title     string
	CreatedAt time.Time
	IsPrinted bool

	Metas     []EnvelopeMeta
	Documents []Document
}

// EnvelopeMeta is one transaction/unit record kept inside a folder
type EnvelopeMeta struct {
	ID              uint
	EnvelopeID      uint
	ProjectEntity   string
	ProcuringEntity string
	SalesName       string
	DoorNumber      string
}

// Document is one notarized paper record inside a folder.
// DateNotarized keeps the submitted YYYY-MM-DD text; nil when unknown.
type Document struct {
	ID             uint
	EnvelopeID     uint
	Title          string
	ContentContext string
	NumPages       int
	DateNotarized  *string
	FileUpload     string
}

// HasFile reports whether a stored file is attached to the document
func (d *Document) HasFile() bool {
	return d.FileUpload != ""
}

// FolderHeader carries the envelope-level fields submitted by the folder form
type FolderHeader struct {
	RegionID uint
	Title    string
}

// Validate checks the required header fields and returns the normalized header
func (h FolderHeader) Validate() (FolderHeader, error) {
	title := strings.TrimSpace(h.Title)
	if h.RegionID == 0 && title == "" {
		return h, shared.NewValidationError("Region and title are required")
	}
	if h.RegionID == 0 {
		return h, shared.NewValidationError("Region is required")
	}
	if title == "" {
		return h, shared.NewValidationError("Title is required")
	}
	if len([]rune(title)) > MaxEnvelopeTitleLength {
		return h, shared.NewValidationError("Title cannot exceed 255 characters")
	}
	return FolderHeader{RegionID: h.RegionID, Title: title}, nil
}

// NewEnvelope builds a new, unprinted folder from a validated header and its line items
func NewEnvelope(header FolderHeader, metas []EnvelopeMeta, documents []Document) (*Envelope, error) {
	header, err := header.Validate()
	if err != nil {
		return nil, err
	}
	return &Envelope{
		RegionID:  header.RegionID,
		Title:     header.Title,
		IsPrinted: false,
		Metas:     metas,
		Documents: documents,
	}, nil
}

// ApplyHeader updates title and region in place. CreatedAt is never touched.
func (e *Envelope) ApplyHeader(header FolderHeader) error {
	header, err := header.Validate()
	if err != nil {
		return err
	}
	e.Title = header.Title
	e.RegionID = header.RegionID
	return nil
}

// TotalPages sums the page counts of the loaded documents
func (e *Envelope) TotalPages() int {
	total := 0
	for _, d := range e.Documents {
		total += d.NumPages
	}
	return total
}

// LatestDateNotarized returns the greatest notarization date among the loaded documents
func (e *Envelope) LatestDateNotarized() *string {
	var latest *string
	for i := range e.Documents {
		d := e.Documents[i].DateNotarized
		if d == nil {
			continue
		}
		if latest == nil || *d > *latest {
			latest = d
		}
	}
	return latest
}

// StoredFiles lists the storage keys of documents that carry a file
func (e *Envelope) StoredFiles() []string {
	var keys []string
	for _, d := range e.Documents {
		if d.HasFile() {
			keys = append(keys, d.FileUpload)
		}
	}
	return keys
}
