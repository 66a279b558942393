// Package audit holds the append-only trail of mutations made through the application.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxActionLength mirrors the width of the audit_logs.action column
const MaxActionLength = 50

// Action is the short label of an audited mutation
type Action string

const (
	ActionCreatedFolder      Action = "Created Folder"
	ActionEditedFolder       Action = "Edited Folder"
	ActionDeletedFolder      Action = "Deleted Folder"
	ActionUploadedFile       Action = "Uploaded File"
	ActionAddedRegion        Action = "Added Region"
	ActionEditedRegion       Action = "Edited Region"
	ActionDeletedRegion      Action = "Deleted Region"
	ActionAddedDocumentType  Action = "Added Doc Type"
	ActionDeletedDocType     Action = "Deleted Doc Type"
	ActionUpdatedPrintStatus Action = "Updated Print Status"
	ActionBulkUpdatedDoor    Action = "Bulk Door Update"
)

// Actor identifies who performed a mutation
type Actor struct {
	UserID      uuid.UUID
	DisplayName string
}

// SystemActor attributes mutations made by startup tasks and the operator CLI
var SystemActor = Actor{DisplayName: "system"}

// IsAnonymous reports whether the actor has no user account behind it
func (a Actor) IsAnonymous() bool {
	return a.UserID == uuid.Nil
}

// Entry is one immutable audit record.
// UserID is nil for system actions and after the user has been deleted;
// ActorName keeps the display name as it was when the entry was written.
type Entry struct {
	ID        uint
	UserID    *uuid.UUID
	ActorName string
	Action    Action
	Details   string
	Metadata  map[string]any
	Timestamp time.Time
}

// NewEntry creates an entry for the actor. Timestamp is stamped on append.
func NewEntry(actor Actor, action Action, details string, metadata map[string]any) (*Entry, error) {
	label := strings.TrimSpace(string(action))
	if label == "" {
		return nil, shared.NewValidationError("Audit action is required")
	}
	if len(label) > MaxActionLength {
		return nil, shared.NewValidationError("Audit action cannot exceed 50 characters")
	}

	e := &Entry{
		ActorName: actor.DisplayName,
		Action:    Action(label),
		Details:   details,
		Metadata:  metadata,
	}
	if !actor.IsAnonymous() {
		id := actor.UserID
		e.UserID = &id
	}
	return e, nil
}

// Repository defines the interface for audit persistence.
// There is deliberately no update or delete.
type Repository interface {
	// Append stores a new entry, setting its ID and, when zero, its Timestamp
	Append(ctx context.Context, entry *Entry) error

	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
