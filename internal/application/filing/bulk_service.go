package filing

import (
	"context"
	"errors"
	"fmt"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/docfiling/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// BulkService implements the quick actions of the dashboard: document type
// suggestions, print status toggling and the global door number correction.
// Print status and door updates are single set-based statements.
type BulkService struct {
	txScope  TransactionScope
	recorder *Recorder
	logger   *zap.Logger
}

// NewBulkService creates a new BulkService
func NewBulkService(txScope TransactionScope, recorder *Recorder, logger *zap.Logger) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkService{txScope: txScope, recorder: recorder, logger: logger}
}

// AddDocumentType upper-cases name and inserts it unless it already exists.
// Only an actual insert is audited.
func (s *BulkService) AddDocumentType(ctx context.Context, actor audit.Actor, name string) (*DocumentTypeResult, error) {
	name, err := filing.NormalizeDocumentTypeName(name)
	if err != nil {
		return nil, err
	}

	var (
		result *DocumentTypeResult
		entry  *audit.Entry
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		dt, created, err := repos.DocumentTypeRepo().InsertIfAbsent(ctx, name)
		if err != nil {
			return err
		}
		result = &DocumentTypeResult{ID: dt.ID, Name: dt.Name, Created: created}
		if !created {
			return nil
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionAddedDocumentType,
			Details: fmt.Sprintf("Added document type '%s'", dt.Name),
			Subject: Subject{Kind: SubjectDocumentType, IDs: []uint{dt.ID}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	return result, nil
}

// DeleteDocumentType removes a document type by ID
func (s *BulkService) DeleteDocumentType(ctx context.Context, actor audit.Actor, id uint) error {
	if id == 0 {
		return shared.NewValidationError("Document type id is required")
	}

	var entry *audit.Entry
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		dt, err := repos.DocumentTypeRepo().FindByID(ctx, id)
		if err != nil {
			return documentTypeLookupError(err)
		}
		if err := repos.DocumentTypeRepo().Delete(ctx, id); err != nil {
			return documentTypeLookupError(err)
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionDeletedDocType,
			Details: fmt.Sprintf("Deleted document type '%s'", dt.Name),
			Subject: Subject{Kind: SubjectDocumentType, IDs: []uint{id}},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Publish(ctx, entry)
	return nil
}

// UpdatePrintStatus sets is_printed on every listed folder in one statement.
// A single folder is named by title in the audit entry; several are counted.
func (s *BulkService) UpdatePrintStatus(ctx context.Context, actor audit.Actor, ids []uint, printed bool) (*PrintStatusResult, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("No folders selected")
	}

	label := printLabel(printed)
	var (
		result *PrintStatusResult
		entry  *audit.Entry
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		envelopes := repos.EnvelopeRepo()

		var details string
		if len(ids) == 1 {
			titles, err := envelopes.FindTitles(ctx, ids)
			if err != nil {
				return err
			}
			title, ok := titles[ids[0]]
			if !ok {
				return shared.NewNotFoundError("Folder")
			}
			details = fmt.Sprintf("Marked '%s' as %s", title, label)
		} else {
			details = fmt.Sprintf("Marked %d folders as %s", len(ids), label)
		}

		updated, err := envelopes.SetPrinted(ctx, ids, printed)
		if err != nil {
			return err
		}
		result = &PrintStatusResult{Updated: updated, IsPrinted: printed, Message: details}

		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionUpdatedPrintStatus,
			Details: details,
			Subject: Subject{Kind: SubjectFolder, IDs: ids},
			Extra:   map[string]any{"is_printed": printed, "updated": updated},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	return result, nil
}

// BulkUpdateDoor rewrites a door number on every metadata row that carries it, across
// all folders. oldDoor may be filing.EmptyDoorSentinel to match NULL and empty values.
func (s *BulkService) BulkUpdateDoor(ctx context.Context, actor audit.Actor, oldDoor, newDoor string) (*DoorUpdateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bulk", "update_door")
	defer span.End()
	selector := filing.ParseDoorSelector(oldDoor)

	var (
		result *DoorUpdateResult
		entry  *audit.Entry
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		updated, err := repos.EnvelopeRepo().ReplaceDoorNumber(ctx, selector, newDoor)
		if err != nil {
			return err
		}
		result = &DoorUpdateResult{Updated: updated, OldDoor: oldDoor, NewDoor: newDoor}

		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionBulkUpdatedDoor,
			Details: fmt.Sprintf("Changed door '%s' to '%s' on %d rows", selector, newDoor, updated),
			Subject: Subject{Kind: SubjectDoorNumber},
			Extra:   map[string]any{"old_door": oldDoor, "new_door": newDoor, "updated": updated},
		})
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRowsAffected, result.Updated)

	s.recorder.Publish(ctx, entry)
	s.logger.Info("Door numbers corrected",
		zap.String("old_door", selector.String()),
		zap.String("new_door", newDoor),
		zap.Int64("updated", result.Updated),
	)
	return result, nil
}

func printLabel(printed bool) string {
	if printed {
		return "Printed"
	}
	return "Not Printed"
}

// uniqueIDs drops zero and repeated IDs keeping first-seen order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func documentTypeLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Document type")
	}
	return err
}
