package filing

import (
	"io"
	"time"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/google/uuid"
)

// ============================================================================
// Inputs
// ============================================================================

// FolderInput is a folder submission after boundary decoding.
// Line items are still raw; the service applies the row-presence filter.
type FolderInput struct {
	RegionID  uint
	Title     string
	Metas     []filing.MetaLine
	Documents []filing.DocumentLine
}

// FileUpload is a document file streamed from the client
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DashboardQuery filters the dashboard listing
type DashboardQuery struct {
	RegionID *uint
	Q        string
}

// ============================================================================
// Responses
// ============================================================================

// RegionResponse is a region as returned to clients
type RegionResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RegionResult reports a get-or-create of a region
type RegionResult struct {
	RegionResponse
	Created bool `json:"created"`
}

// MetaResponse is one metadata row of a folder
type MetaResponse struct {
	ID              uint   `json:"id"`
	ProjectEntity   string `json:"project_entity"`
	ProcuringEntity string `json:"procuring_entity"`
	SalesName       string `json:"sales_name"`
	DoorNumber      string `json:"door_number"`
}

// DocumentResponse is one document of a folder
type DocumentResponse struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title,omitempty"`
	ContentContext string  `json:"content_context"`
	NumPages       int     `json:"num_pages"`
	DateNotarized  *string `json:"date_notarized"`
	HasFile        bool    `json:"has_file"`
}

// FolderResponse is a folder with its line items and derived totals
type FolderResponse struct {
	ID                  uint               `json:"id"`
	RegionID            uint               `json:"region_id"`
	Title               string             `json:"title"`
	CreatedAt           time.Time          `json:"created_at"`
	IsPrinted           bool               `json:"is_printed"`
	TotalPages          int                `json:"total_pages"`
	LatestDateNotarized *string            `json:"latest_date_notarized"`
	Metas               []MetaResponse     `json:"metas"`
	Documents           []DocumentResponse `json:"documents"`
}

// FolderListItem is one row of the dashboard listing
type FolderListItem struct {
	ID                  uint      `json:"id"`
	RegionID            uint      `json:"region_id"`
	RegionName          string    `json:"region_name"`
	Title               string    `json:"title"`
	CreatedAt           time.Time `json:"created_at"`
	IsPrinted           bool      `json:"is_printed"`
	TotalPages          int       `json:"total_pages"`
	LatestDateNotarized *string   `json:"latest_date_notarized"`
}

// DocumentTypeResponse is a document type suggestion
type DocumentTypeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AuditEntryResponse is one audit trail row
type AuditEntryResponse struct {
	ID        uint           `json:"id"`
	UserID    *uuid.UUID     `json:"user_id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Details   string         `json:"details"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// DashboardResponse is the assembled listing context
type DashboardResponse struct {
	Regions          []RegionResponse       `json:"regions"`
	Envelopes        []FolderListItem       `json:"envelopes"`
	DocTypes         []DocumentTypeResponse `json:"doc_types"`
	UniqueDoors      []string               `json:"unique_doors"`
	RecentActivity   []AuditEntryResponse   `json:"recent_activity"`
	SelectedRegionID *uint                  `json:"selected_region_id"`
	Query            string                 `json:"q"`
}

// DocumentTypeResult reports an add_document_type call
type DocumentTypeResult struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

// PrintStatusResult reports an update_print_status call
type PrintStatusResult struct {
	Updated   int64  `json:"updated"`
	IsPrinted bool   `json:"is_printed"`
	Message   string `json:"message"`
}

// DoorUpdateResult reports a bulk_update_door call
type DoorUpdateResult struct {
	Updated int64  `json:"updated"`
	OldDoor string `json:"old_door"`
	NewDoor string `json:"new_door"`
}

// FileURLResponse is a presigned download link
type FileURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Mapping
// ============================================================================

// ToRegionResponse converts a domain Region
func ToRegionResponse(r *filing.Region) RegionResponse {
	return RegionResponse{ID: r.ID, Name: r.Name}
}

// ToRegionResponses converts regions preserving order
func ToRegionResponses(regions []filing.Region) []RegionResponse {
	out := make([]RegionResponse, len(regions))
	for i := range regions {
		out[i] = ToRegionResponse(&regions[i])
	}
	return out
}

// ToFolderResponse converts a loaded folder, computing its totals
func ToFolderResponse(e *filing.Envelope) *FolderResponse {
	resp := &FolderResponse{
		ID:                  e.ID,
		RegionID:            e.RegionID,
		Title:               e.Title,
		CreatedAt:           e.CreatedAt,
		IsPrinted:           e.IsPrinted,
		TotalPages:          e.TotalPages(),
		LatestDateNotarized: e.LatestDateNotarized(),
		Metas:               make([]MetaResponse, 0, len(e.Metas)),
		Documents:           make([]DocumentResponse, 0, len(e.Documents)),
	}
	for _, m := range e.Metas {
		resp.Metas = append(resp.Metas, MetaResponse{
			ID:              m.ID,
			ProjectEntity:   m.ProjectEntity,
			ProcuringEntity: m.ProcuringEntity,
			SalesName:       m.SalesName,
			DoorNumber:      m.DoorNumber,
		})
	}
	for i := range e.Documents {
		resp.Documents = append(resp.Documents, ToDocumentResponse(&e.Documents[i]))
	}
	return resp
}

// ToDocumentResponse converts a domain Document
func ToDocumentResponse(d *filing.Document) DocumentResponse {
	return DocumentResponse{
		ID:             d.ID,
		Title:          d.Title,
		ContentContext: d.ContentContext,
		NumPages:       d.NumPages,
		DateNotarized:  d.DateNotarized,
		HasFile:        d.HasFile(),
	}
}

// ToFolderListItems converts listing rows preserving order
func ToFolderListItems(rows []filing.EnvelopeListing) []FolderListItem {
	out := make([]FolderListItem, len(rows))
	for i, r := range rows {
		out[i] = FolderListItem{
			ID:                  r.ID,
			RegionID:            r.RegionID,
			RegionName:          r.RegionName,
			Title:               r.Title,
			CreatedAt:           r.CreatedAt,
			IsPrinted:           r.IsPrinted,
			TotalPages:          r.TotalPages,
			LatestDateNotarized: r.LatestDateNotarized,
		}
	}
	return out
}

// ToDocumentTypeResponses converts document types preserving order
func ToDocumentTypeResponses(types []filing.DocumentType) []DocumentTypeResponse {
	out := make([]DocumentTypeResponse, len(types))
	for i, t := range types {
		out[i] = DocumentTypeResponse{ID: t.ID, Name: t.Name}
	}
	return out
}

// ToAuditEntryResponse converts an audit entry
func ToAuditEntryResponse(e audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Actor:     e.ActorName,
		Action:    string(e.Action),
		Details:   e.Details,
		Metadata:  e.Metadata,
		Timestamp: e.Timestamp,
	}
}

// ToAuditEntryResponses converts audit entries preserving order
func ToAuditEntryResponses(entries []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToAuditEntryResponse(e)
	}
	return out
}
