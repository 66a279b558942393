package filing

import (
	"context"
	"sync"

	"github.com/docfiling/backend/internal/domain/audit"
	"go.uber.org/zap"
)

// Subject names what a mutation touched, for the audit metadata
type Subject struct {
	Kind string
	IDs  []uint
}

// Subject kinds
const (
	SubjectFolder       = "folder"
	SubjectDocument     = "document"
	SubjectRegion       = "region"
	SubjectDocumentType = "document_type"
	SubjectDoorNumber   = "door_number"
)

// Mutation describes one audited write
type Mutation struct {
	Actor   audit.Actor
	Action  audit.Action
	Details string
	Subject Subject
	// Extra is merged into the entry metadata
	Extra map[string]any
}

// Recorder is the single place mutations are audited.
// Record appends inside the caller's transaction; Publish fans committed entries out
// to the registered notifiers.
type Recorder struct {
	mu        sync.RWMutex
	notifiers []Notifier
	logger    *zap.Logger
}

// NewRecorder creates a Recorder publishing to the given notifiers
func NewRecorder(logger *zap.Logger, notifiers ...Notifier) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{notifiers: notifiers, logger: logger}
}

// AddNotifier registers another notifier
func (r *Recorder) AddNotifier(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifiers = append(r.notifiers, n)
}

// Record appends the audit entry for m through the transaction-scoped repository
func (r *Recorder) Record(ctx context.Context, repos TransactionalRepositories, m Mutation) (*audit.Entry, error) {
	entry, err := audit.NewEntry(m.Actor, m.Action, m.Details, m.metadata())
	if err != nil {
		return nil, err
	}
	if err := repos.AuditRepo().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Publish hands committed entries to every notifier. Nil entries are skipped.
func (r *Recorder) Publish(ctx context.Context, entries ...*audit.Entry) {
	r.mu.RLock()
	notifiers := r.notifiers
	r.mu.RUnlock()

	for _, e := range entries {
		if e == nil {
			continue
		}
		r.logger.Debug("Audit entry committed",
			zap.Uint("audit_id", e.ID),
			zap.String("action", string(e.Action)),
			zap.String("actor", e.ActorName),
		)
		for _, n := range notifiers {
			n.Notify(ctx, *e)
		}
	}
}

func (m Mutation) metadata() map[string]any {
	md := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		md[k] = v
	}
	if m.Subject.Kind != "" {
		md["subject"] = m.Subject.Kind
	}
	if len(m.Subject.IDs) > 0 {
		md["ids"] = m.Subject.IDs
	}
	return md
}
