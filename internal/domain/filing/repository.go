package filing

import "context"

// ListFilter narrows the dashboard listing
type ListFilter struct {
	// RegionID restricts the listing to one region when set
	RegionID *uint
	// Query is matched case-insensitively against the folder title, document contexts
	// and every metadata field; a folder matches when any of them contains it
	Query string
}

// EnvelopeListing is one folder of the dashboard with its derived fields
type EnvelopeListing struct {
	Envelope
	RegionName          string
	TotalPages          int
	LatestDateNotarized *string
}

// RegionRepository defines the interface for region persistence
type RegionRepository interface {
	// FindByID finds a region by its ID
	FindByID(ctx context.Context, id uint) (*Region, error)

	// FindByName finds a region by its exact name
	FindByName(ctx context.Context, name string) (*Region, error)

	// FindAll returns every region in storage order
	FindAll(ctx context.Context) ([]Region, error)

	// GetOrCreate returns the region with the given name, creating it when absent.
	// The boolean reports whether a row was inserted.
	GetOrCreate(ctx context.Context, name string) (*Region, bool, error)

	// Update saves a renamed region
	Update(ctx context.Context, region *Region) error

	// Delete removes a region together with its envelopes and their line items
	Delete(ctx context.Context, id uint) error

	// EnsureNames inserts the names that are missing and ignores the rest.
	// It returns the number of rows inserted.
	EnsureNames(ctx context.Context, names []string) (int64, error)

	// Count counts all regions
	Count(ctx context.Context) (int64, error)
}

// EnvelopeRepository defines the interface for folder persistence
type EnvelopeRepository interface {
	// FindByID loads a folder with its metadata rows and documents
	FindByID(ctx context.Context, id uint) (*Envelope, error)

	// FindByRegion loads the folders of a region with their documents
	FindByRegion(ctx context.Context, regionID uint) ([]Envelope, error)

	// Create inserts a folder and its line items
	Create(ctx context.Context, envelope *Envelope) error

	// UpdateHeader saves title and region only
	UpdateHeader(ctx context.Context, envelope *Envelope) error

	// ReplaceMetas deletes every metadata row of the folder and inserts the given ones
	ReplaceMetas(ctx context.Context, envelopeID uint, metas []EnvelopeMeta) error

	// ReplaceDocuments deletes every document of the folder and inserts the given ones
	ReplaceDocuments(ctx context.Context, envelopeID uint, documents []Document) error

	// Delete removes a folder with its metadata rows and documents
	Delete(ctx context.Context, id uint) error

	// List returns the dashboard listing ordered by latest notarization date
	// (missing dates last) and then by ID, newest first
	List(ctx context.Context, filter ListFilter) ([]EnvelopeListing, error)

	// DistinctDoorNumbers returns the non-null door numbers in ascending order
	DistinctDoorNumbers(ctx context.Context) ([]string, error)

	// FindTitles returns the titles of the given folders keyed by ID
	FindTitles(ctx context.Context, ids []uint) (map[uint]string, error)

	// SetPrinted updates is_printed on every listed folder in one statement
	SetPrinted(ctx context.Context, ids []uint, printed bool) (int64, error)

	// ReplaceDoorNumber rewrites matching door numbers across all folders in one statement
	ReplaceDoorNumber(ctx context.Context, selector DoorSelector, newDoor string) (int64, error)

	// FindDocument finds a document belonging to the given folder
	FindDocument(ctx context.Context, envelopeID, documentID uint) (*Document, error)

	// SetDocumentFile records the storage key of a document's file
	SetDocumentFile(ctx context.Context, documentID uint, storageKey string) error
}

// DocumentTypeRepository defines the interface for document type persistence
type DocumentTypeRepository interface {
	// FindByID finds a document type by its ID
	FindByID(ctx context.Context, id uint) (*DocumentType, error)

	// FindAll returns every document type ordered by name
	FindAll(ctx context.Context) ([]DocumentType, error)

	// InsertIfAbsent returns the type with the given name, inserting it when absent.
	// The boolean reports whether a row was inserted.
	InsertIfAbsent(ctx context.Context, name string) (*DocumentType, bool, error)

	// Delete removes a document type
	Delete(ctx context.Context, id uint) error

	// EnsureNames inserts the names that are missing and ignores the rest
	EnsureNames(ctx context.Context, names []string) (int64, error)

	// Count counts all document types
	Count(ctx context.Context) (int64, error)
}
