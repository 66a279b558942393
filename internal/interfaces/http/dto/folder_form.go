package dto

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/domain/filing"
)

// Parallel array field names of the folder form
const (
	FieldRegionID        = "region_id"
	FieldTitle           = "title"
	FieldProjectEntity   = "project_entity"
	FieldProcuringEntity = "procuring_entity"
	FieldSalesName       = "sales_name"
	FieldDoorNumber      = "door_number"
	FieldContext         = "context"
	FieldPages           = "pages"
	FieldDate            = "date"
	FieldDocID           = "doc_id"
)

// FolderRequest is the JSON body of a folder create or edit
type FolderRequest struct {
	RegionID  uint                  `json:"region_id"`
	Title     string                `json:"title" binding:"max=255"`
	Metas     []MetaLineRequest     `json:"metas" binding:"omitempty,dive"`
	Documents []DocumentLineRequest `json:"documents" binding:"omitempty,dive"`
}

// MetaLineRequest is one metadata row of a FolderRequest
type MetaLineRequest struct {
	ProjectEntity   string `json:"project_entity"`
	ProcuringEntity string `json:"procuring_entity"`
	SalesName       string `json:"sales_name"`
	DoorNumber      string `json:"door_number"`
}

// DocumentLineRequest is one document row of a FolderRequest.
// ID is accepted for compatibility and ignored: edits replace every document.
type DocumentLineRequest struct {
	ID      *uint       `json:"id,omitempty"`
	Context string      `json:"context"`
	Pages   LooseString `json:"pages"`
	Date    string      `json:"date"`
}

// LooseString accepts a JSON string, number or null
type LooseString string

// UnmarshalJSON implements json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = LooseString(n.String())
	return nil
}

// ToInput converts the request to the service input
func (r FolderRequest) ToInput() filingapp.FolderInput {
	in := filingapp.FolderInput{
		RegionID:  r.RegionID,
		Title:     r.Title,
		Metas:     make([]filing.MetaLine, len(r.Metas)),
		Documents: make([]filing.DocumentLine, len(r.Documents)),
	}
	for i, m := range r.Metas {
		in.Metas[i] = filing.MetaLine{
			ProjectEntity:   m.ProjectEntity,
			ProcuringEntity: m.ProcuringEntity,
			SalesName:       m.SalesName,
			DoorNumber:      m.DoorNumber,
		}
	}
	for i, d := range r.Documents {
		in.Documents[i] = filing.DocumentLine{Context: d.Context, Pages: string(d.Pages), Date: d.Date}
	}
	return in
}

// ParseFolderForm zips the parallel arrays of a form-encoded folder submission.
// The project_entity array bounds the metadata rows and the context array bounds the
// document rows; shorter sibling arrays read as "". A region_id that is not a positive
// integer becomes 0 and is rejected by validation. doc_id values are ignored.
func ParseFolderForm(form url.Values) filingapp.FolderInput {
	in := filingapp.FolderInput{Title: form.Get(FieldTitle)}
	if id, err := strconv.ParseUint(strings.TrimSpace(form.Get(FieldRegionID)), 10, 0); err == nil {
		in.RegionID = uint(id)
	}

	projects := formArray(form, FieldProjectEntity)
	procuring := formArray(form, FieldProcuringEntity)
	sales := formArray(form, FieldSalesName)
	doors := formArray(form, FieldDoorNumber)
	in.Metas = make([]filing.MetaLine, len(projects))
	for i := range projects {
		in.Metas[i] = filing.MetaLine{
			ProjectEntity:   projects[i],
			ProcuringEntity: at(procuring, i),
			SalesName:       at(sales, i),
			DoorNumber:      at(doors, i),
		}
	}

	contexts := formArray(form, FieldContext)
	pages := formArray(form, FieldPages)
	dates := formArray(form, FieldDate)
	in.Documents = make([]filing.DocumentLine, len(contexts))
	for i := range contexts {
		in.Documents[i] = filing.DocumentLine{
			Context: contexts[i],
			Pages:   at(pages, i),
			Date:    at(dates, i),
		}
	}
	return in
}

// formArray reads key[] and falls back to repeated plain key values
func formArray(form url.Values, key string) []string {
	if v, ok := form[key+"[]"]; ok {
		return v
	}
	return form[key]
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
