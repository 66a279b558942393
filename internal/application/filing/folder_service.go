package filing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FolderServiceConfig holds the file attachment limits of the folder service
type FolderServiceConfig struct {
	// MaxFileSize is the largest accepted document file in bytes; 0 disables the check
	MaxFileSize int64
	// DownloadURLExpiry is how long presigned download URLs stay valid
	DownloadURLExpiry time.Duration
}

// DefaultFolderServiceConfig returns the default configuration
func DefaultFolderServiceConfig() FolderServiceConfig {
	return FolderServiceConfig{
		MaxFileSize:       25 << 20,
		DownloadURLExpiry: time.Hour,
	}
}

// FolderService creates, edits and deletes folders together with their line items.
// Edits replace every metadata row and document of the folder.
type FolderService struct {
	envelopes filing.EnvelopeRepository
	txScope   TransactionScope
	recorder  *Recorder
	storage   FileStorage
	config    FolderServiceConfig
	logger    *zap.Logger
}

// NewFolderService creates a new FolderService
func NewFolderService(
	envelopes filing.EnvelopeRepository,
	txScope TransactionScope,
	recorder *Recorder,
	storage FileStorage,
	logger *zap.Logger,
) *FolderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FolderService{
		envelopes: envelopes,
		txScope:   txScope,
		recorder:  recorder,
		storage:   storage,
		config:    DefaultFolderServiceConfig(),
		logger:    logger,
	}
}

// SetConfig sets the service configuration
func (s *FolderService) SetConfig(config FolderServiceConfig) {
	s.config = config
}

// Get returns one folder with its metadata rows, documents and page total
func (s *FolderService) Get(ctx context.Context, id uint) (*FolderResponse, error) {
	envelope, err := s.envelopes.FindByID(ctx, id)
	if err != nil {
		return nil, folderLookupError(err)
	}
	return ToFolderResponse(envelope), nil
}

// Create files a new folder with the submitted line items.
// Blank metadata rows and documents without a context are dropped.
func (s *FolderService) Create(ctx context.Context, actor audit.Actor, in FolderInput) (*FolderResponse, error) {
	envelope, err := filing.NewEnvelope(
		filing.FolderHeader{RegionID: in.RegionID, Title: in.Title},
		filing.NormalizeMetaLines(in.Metas),
		filing.NormalizeDocumentLines(in.Documents),
	)
	if err != nil {
		return nil, err
	}

	var entry *audit.Entry
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.RegionRepo().FindByID(ctx, envelope.RegionID); err != nil {
			return regionLookupError(err)
		}
		if err := repos.EnvelopeRepo().Create(ctx, envelope); err != nil {
			return err
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionCreatedFolder,
			Details: fmt.Sprintf("Created '%s'", envelope.Title),
			Subject: Subject{Kind: SubjectFolder, IDs: []uint{envelope.ID}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	s.logger.Info("Folder created",
		zap.Uint("envelope_id", envelope.ID),
		zap.Int("metas", len(envelope.Metas)),
		zap.Int("documents", len(envelope.Documents)),
	)
	return ToFolderResponse(envelope), nil
}

// Update replaces the header and every line item of a folder.
// Files attached to the replaced documents are removed from storage after commit.
func (s *FolderService) Update(ctx context.Context, actor audit.Actor, id uint, in FolderInput) (*FolderResponse, error) {
	header, err := filing.FolderHeader{RegionID: in.RegionID, Title: in.Title}.Validate()
	if err != nil {
		return nil, err
	}
	metas := filing.NormalizeMetaLines(in.Metas)
	documents := filing.NormalizeDocumentLines(in.Documents)

	var (
		entry       *audit.Entry
		orphanFiles []string
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		envelopes := repos.EnvelopeRepo()
		envelope, err := envelopes.FindByID(ctx, id)
		if err != nil {
			return folderLookupError(err)
		}
		if _, err := repos.RegionRepo().FindByID(ctx, header.RegionID); err != nil {
			return regionLookupError(err)
		}

		orphanFiles = envelope.StoredFiles()
		if err := envelope.ApplyHeader(header); err != nil {
			return err
		}
		if err := envelopes.UpdateHeader(ctx, envelope); err != nil {
			return err
		}
		if err := envelopes.ReplaceMetas(ctx, id, metas); err != nil {
			return err
		}
		if err := envelopes.ReplaceDocuments(ctx, id, documents); err != nil {
			return err
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionEditedFolder,
			Details: fmt.Sprintf("Updated '%s'", envelope.Title),
			Subject: Subject{Kind: SubjectFolder, IDs: []uint{id}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	removeStoredFiles(ctx, s.storage, s.logger, orphanFiles)
	return s.Get(ctx, id)
}

// Delete removes a folder with its metadata rows and documents
func (s *FolderService) Delete(ctx context.Context, actor audit.Actor, id uint) error {
	var (
		entry       *audit.Entry
		orphanFiles []string
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		envelope, err := repos.EnvelopeRepo().FindByID(ctx, id)
		if err != nil {
			return folderLookupError(err)
		}
		orphanFiles = envelope.StoredFiles()
		if err := repos.EnvelopeRepo().Delete(ctx, id); err != nil {
			return folderLookupError(err)
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionDeletedFolder,
			Details: fmt.Sprintf("Deleted '%s'", envelope.Title),
			Subject: Subject{Kind: SubjectFolder, IDs: []uint{id}},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Publish(ctx, entry)
	removeStoredFiles(ctx, s.storage, s.logger, orphanFiles)
	return nil
}

// AttachDocumentFile uploads a file for one document and records its storage key.
// A file already attached to the document is replaced.
func (s *FolderService) AttachDocumentFile(ctx context.Context, actor audit.Actor, envelopeID, documentID uint, upload FileUpload) (*DocumentResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInternal, "File storage is not configured")
	}
	if err := validateUpload(upload, s.config.MaxFileSize); err != nil {
		return nil, err
	}

	doc, err := s.envelopes.FindDocument(ctx, envelopeID, documentID)
	if err != nil {
		return nil, documentLookupError(err)
	}

	key := documentFileKey(envelopeID, documentID, upload.Filename)
	if err := s.storage.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("upload document file: %w", err)
	}

	previous := doc.FileUpload
	var entry *audit.Entry
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.EnvelopeRepo().SetDocumentFile(ctx, documentID, key); err != nil {
			return documentLookupError(err)
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionUploadedFile,
			Details: fmt.Sprintf("Attached '%s' to '%s'", upload.Filename, doc.ContentContext),
			Subject: Subject{Kind: SubjectDocument, IDs: []uint{documentID}},
			Extra:   map[string]any{"envelope_id": envelopeID, "storage_key": key},
		})
		return err
	})
	if err != nil {
		removeStoredFiles(ctx, s.storage, s.logger, []string{key})
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	if previous != "" {
		removeStoredFiles(ctx, s.storage, s.logger, []string{previous})
	}

	doc.FileUpload = key
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// DocumentFileURL returns a presigned download URL for a document's file
func (s *FolderService) DocumentFileURL(ctx context.Context, envelopeID, documentID uint) (*FileURLResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInternal, "File storage is not configured")
	}
	doc, err := s.envelopes.FindDocument(ctx, envelopeID, documentID)
	if err != nil {
		return nil, documentLookupError(err)
	}
	if !doc.HasFile() {
		return nil, shared.NewNotFoundError("Document file")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.FileUpload, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate download url: %w", err)
	}
	return &FileURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func folderLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Folder")
	}
	return err
}

func regionLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Region")
	}
	return err
}

func documentLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Document")
	}
	return err
}
