package models

import (
	"time"

	"github.com/docfiling/backend/internal/domain/filing"
)

// RegionModel is the persistence model for filing.Region
type RegionModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (RegionModel) TableName() string {
	return "regions"
}

// ToDomain converts the model to a domain Region
func (m *RegionModel) ToDomain() *filing.Region {
	return &filing.Region{ID: m.ID, Name: m.Name}
}

// RegionModelFromDomain creates a model from a domain Region
func RegionModelFromDomain(r *filing.Region) *RegionModel {
	return &RegionModel{ID: r.ID, Name: r.Name}
}

// EnvelopeModel is the persistence model for filing.Envelope
type EnvelopeModel struct {
	ID        uint      `gorm:"primaryKey"`
	RegionID  uint      `gorm:"not null;index"`
	Title     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	IsPrinted bool      `gorm:"not null"`

	Metas     []EnvelopeMetaModel `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE"`
	Documents []DocumentModel     `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (EnvelopeModel) TableName() string {
	return "envelopes"
}

// ToDomain converts the model and any preloaded children to a domain Envelope
func (m *EnvelopeModel) ToDomain() *filing.Envelope {
	e := &filing.Envelope{
		ID:        m.ID,
		RegionID:  m.RegionID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		IsPrinted: m.IsPrinted,
		Metas:     make([]filing.EnvelopeMeta, 0, len(m.Metas)),
		Documents: make([]filing.Document, 0, len(m.Documents)),
	}
	for i := range m.Metas {
		e.Metas = append(e.Metas, m.Metas[i].ToDomain())
	}
	for i := range m.Documents {
		e.Documents = append(e.Documents, m.Documents[i].ToDomain())
	}
	return e
}

// EnvelopeModelFromDomain creates a model, children included, from a domain Envelope
func EnvelopeModelFromDomain(e *filing.Envelope) *EnvelopeModel {
	m := &EnvelopeModel{
		ID:        e.ID,
		RegionID:  e.RegionID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		IsPrinted: e.IsPrinted,
	}
	m.Metas = EnvelopeMetaModelsFromDomain(e.ID, e.Metas)
	m.Documents = DocumentModelsFromDomain(e.ID, e.Documents)
	return m
}

// EnvelopeMetaModel is the persistence model for filing.EnvelopeMeta.
// All four text columns are nullable; rows written by this service always carry values.
type EnvelopeMetaModel struct {
	ID              uint    `gorm:"primaryKey"`
	EnvelopeID      uint    `gorm:"not null;index"`
	ProjectEntity   *string `gorm:"type:text"`
	ProcuringEntity *string `gorm:"type:text"`
	SalesName       *string `gorm:"type:text"`
	DoorNumber      *string `gorm:"type:text;index"`
}

// TableName returns the table name for GORM
func (EnvelopeMetaModel) TableName() string {
	return "envelope_metas"
}

// ToDomain converts the model to a domain EnvelopeMeta; NULL reads as ""
func (m *EnvelopeMetaModel) ToDomain() filing.EnvelopeMeta {
	return filing.EnvelopeMeta{
		ID:              m.ID,
		EnvelopeID:      m.EnvelopeID,
		ProjectEntity:   deref(m.ProjectEntity),
		ProcuringEntity: deref(m.ProcuringEntity),
		SalesName:       deref(m.SalesName),
		DoorNumber:      deref(m.DoorNumber),
	}
}

// EnvelopeMetaModelsFromDomain converts metadata rows for insertion under envelopeID
func EnvelopeMetaModelsFromDomain(envelopeID uint, metas []filing.EnvelopeMeta) []EnvelopeMetaModel {
	out := make([]EnvelopeMetaModel, 0, len(metas))
	for _, meta := range metas {
		out = append(out, EnvelopeMetaModel{
			EnvelopeID:      envelopeID,
			ProjectEntity:   ptr(meta.ProjectEntity),
			ProcuringEntity: ptr(meta.ProcuringEntity),
			SalesName:       ptr(meta.SalesName),
			DoorNumber:      ptr(meta.DoorNumber),
		})
	}
	return out
}

// DocumentModel is the persistence model for filing.Document
type DocumentModel struct {
	ID             uint    `gorm:"primaryKey"`
	EnvelopeID     uint    `gorm:"not null;index"`
	Title          string  `gorm:"type:varchar(255);not null"`
	ContentContext string  `gorm:"type:text;not null"`
	NumPages       int     `gorm:"not null"`
	DateNotarized  *string `gorm:"type:varchar(10);index"`
	FileUpload     string  `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the model to a domain Document
func (m *DocumentModel) ToDomain() filing.Document {
	return filing.Document{
		ID:             m.ID,
		EnvelopeID:     m.EnvelopeID,
		Title:          m.Title,
		ContentContext: m.ContentContext,
		NumPages:       m.NumPages,
		DateNotarized:  m.DateNotarized,
		FileUpload:     m.FileUpload,
	}
}

// DocumentModelsFromDomain converts documents for insertion under envelopeID
func DocumentModelsFromDomain(envelopeID uint, docs []filing.Document) []DocumentModel {
	out := make([]DocumentModel, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentModel{
			EnvelopeID:     envelopeID,
			Title:          d.Title,
			ContentContext: d.ContentContext,
			NumPages:       d.NumPages,
			DateNotarized:  d.DateNotarized,
			FileUpload:     d.FileUpload,
		})
	}
	return out
}

// DocumentTypeModel is the persistence model for filing.DocumentType
type DocumentTypeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (DocumentTypeModel) TableName() string {
	return "document_types"
}

// ToDomain converts the model to a domain DocumentType
func (m *DocumentTypeModel) ToDomain() *filing.DocumentType {
	return &filing.DocumentType{ID: m.ID, Name: m.Name}
}

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
